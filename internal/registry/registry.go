package registry

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/planerr"
)

// Module is the interface that all operator modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// DecodeFunc turns a raw operator into a predicate. The id and kind are
// already resolved; implementations read and check the properties.
type DecodeFunc func(base operator.Base, props plan.Properties) (operator.Predicate, error)

// Definition describes one operator type.
type Definition struct {
	Kind        operator.Kind
	Description string
	Decode      DecodeFunc
}

// Registry holds every registered operator definition for a single
// application instance.
type Registry struct {
	definitions map[string]*Definition
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{definitions: make(map[string]*Definition)}
}

// Register adds def under def.Kind.Type. Registering the same type twice is a
// programmer error and panics.
func (r *Registry) Register(def *Definition) {
	name := def.Kind.Type
	if _, exists := r.definitions[name]; exists {
		panic(fmt.Sprintf("operator type '%s' already registered", name))
	}
	r.definitions[name] = def
}

// Definition returns the definition registered for typ.
func (r *Registry) Definition(typ string) (*Definition, bool) {
	def, ok := r.definitions[typ]
	return def, ok
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Decode turns a raw operator into a predicate. Every failure is a
// *planerr.InvalidPredicateError.
func (r *Registry) Decode(raw plan.Operator) (operator.Predicate, error) {
	invalid := func(err error) error {
		return &planerr.InvalidPredicateError{Node: raw.ID, Type: raw.Type, Err: err}
	}
	if raw.ID == "" {
		return nil, invalid(fmt.Errorf("missing operator id"))
	}
	if raw.Type == "" {
		return nil, invalid(fmt.Errorf("missing operator type"))
	}
	def, ok := r.definitions[raw.Type]
	if !ok {
		return nil, invalid(fmt.Errorf("unknown operator type"))
	}

	pred, err := def.Decode(operator.NewBase(raw.ID, def.Kind), raw.Properties)
	if err != nil {
		return nil, invalid(err)
	}
	if pred == nil {
		return nil, invalid(fmt.Errorf("decoder returned no predicate"))
	}
	return pred, nil
}
