package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/plangen/internal/ctxlog"
)

// ValidateRegistry checks that every definition is usable: it has a decoder,
// its kind can appear in a valid graph, and it is registered under its own
// type name.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Types() {
		def := r.definitions[name]

		if def.Decode == nil {
			errs = append(errs, fmt.Sprintf("operator '%s': no decoder registered", name))
		}
		if err := def.Kind.Check(); err != nil {
			errs = append(errs, fmt.Sprintf("operator '%s': %v", name, err))
		}
		if def.Description == "" {
			logger.Warn("Operator has no description; it will show up blank in the editor palette.", "operator", name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "operators", len(r.definitions))
	return nil
}
