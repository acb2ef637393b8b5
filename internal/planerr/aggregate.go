package planerr

import (
	"errors"
	"strings"
)

// ValidationError collects every problem found in one pass over a plan.
type ValidationError struct {
	Errs []error
}

// Join returns nil for no errors, the error itself for one, and a
// *ValidationError otherwise.
func Join(errs ...error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return &ValidationError{Errs: kept}
	}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "plan validation failed:\n- " + strings.Join(msgs, "\n- ")
}

func (e *ValidationError) Unwrap() []error { return e.Errs }

// Nodes returns the union of the offending operators, first mention first.
func (e *ValidationError) Nodes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, err := range e.Errs {
		for _, id := range NodesOf(err) {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// NodesOf returns the operators named by err, looking through wrapping.
func NodesOf(err error) []string {
	var ne NodeError
	if errors.As(err, &ne) {
		return ne.Nodes()
	}
	return nil
}

// Problem is a flat, serialisable description of one error.
type Problem struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Nodes   []string `json:"nodes,omitempty"`
}

// Describe flattens err into one Problem per underlying failure.
func Describe(err error) []Problem {
	if err == nil {
		return nil
	}
	var agg *ValidationError
	if errors.As(err, &agg) {
		var out []Problem
		for _, e := range agg.Errs {
			out = append(out, Describe(e)...)
		}
		return out
	}
	return []Problem{{Kind: kindOf(err), Message: err.Error(), Nodes: NodesOf(err)}}
}

func kindOf(err error) string {
	switch {
	case errors.Is(err, ErrStructural):
		return "structural"
	case errors.Is(err, ErrAssembly):
		return "assembly"
	case errors.Is(err, ErrInvalidPredicate):
		return "invalid_predicate"
	case errors.Is(err, ErrMalformedRequest):
		return "malformed_request"
	default:
		return "internal"
	}
}
