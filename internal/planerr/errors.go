package planerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStructural       = errors.New("structural error")
	ErrAssembly         = errors.New("assembly error")
	ErrInvalidPredicate = errors.New("invalid predicate")
	ErrMalformedRequest = errors.New("malformed request")
)

// NodeError is implemented by errors that can name the operators they
// concern.
type NodeError interface {
	error
	Nodes() []string
}

// DuplicateNodeIDError is returned when two operators share an id.
type DuplicateNodeIDError struct {
	ID string
}

func (e *DuplicateNodeIDError) Error() string {
	return fmt.Sprintf("duplicate operator id %q", e.ID)
}
func (e *DuplicateNodeIDError) Is(target error) bool { return target == ErrStructural }
func (e *DuplicateNodeIDError) Nodes() []string      { return []string{e.ID} }

// UnknownNodeReferenceError is returned when a link names an operator that is
// not part of the graph.
type UnknownNodeReferenceError struct {
	Origin      string
	Destination string
	Missing     string
}

func (e *UnknownNodeReferenceError) Error() string {
	return fmt.Sprintf("link %s -> %s references unknown operator %q", e.Origin, e.Destination, e.Missing)
}
func (e *UnknownNodeReferenceError) Is(target error) bool { return target == ErrStructural }
func (e *UnknownNodeReferenceError) Nodes() []string {
	var out []string
	for _, id := range []string{e.Origin, e.Destination} {
		if id != e.Missing {
			out = append(out, id)
		}
	}
	return out
}

// CycleError lists every operator found on a cycle, in the order the
// operators were added to the graph.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("the operator graph contains a cycle through [%s]", strings.Join(e.Path, ", "))
}
func (e *CycleError) Is(target error) bool { return target == ErrStructural }
func (e *CycleError) Nodes() []string      { return clone(e.Path) }

// DisconnectedError lists the operators that cannot be reached from the first
// operator when links are followed in either direction.
type DisconnectedError struct {
	Unreached []string
}

func (e *DisconnectedError) Error() string {
	return fmt.Sprintf("the operator graph is not connected: [%s] cannot be reached", strings.Join(e.Unreached, ", "))
}
func (e *DisconnectedError) Is(target error) bool { return target == ErrStructural }
func (e *DisconnectedError) Nodes() []string      { return clone(e.Unreached) }

// InputArityError is returned when an operator has the wrong number of
// incoming links.
type InputArityError struct {
	Node     string
	Expected int
	Actual   int
}

func (e *InputArityError) Error() string {
	return fmt.Sprintf("operator %q expects %d input(s) but has %d", e.Node, e.Expected, e.Actual)
}
func (e *InputArityError) Is(target error) bool { return target == ErrStructural }
func (e *InputArityError) Nodes() []string      { return []string{e.Node} }

// OutputArityError is returned when an operator has the wrong number of
// outgoing links. AtLeast is set for non-sink operators, which only need one.
type OutputArityError struct {
	Node     string
	Expected int
	Actual   int
	AtLeast  bool
}

func (e *OutputArityError) Error() string {
	if e.AtLeast {
		return fmt.Sprintf("operator %q expects at least %d output(s) but has %d", e.Node, e.Expected, e.Actual)
	}
	return fmt.Sprintf("operator %q expects %d output(s) but has %d", e.Node, e.Expected, e.Actual)
}
func (e *OutputArityError) Is(target error) bool { return target == ErrStructural }
func (e *OutputArityError) Nodes() []string      { return []string{e.Node} }

// NoSourceError is returned when no operator is a source.
type NoSourceError struct{}

func (e *NoSourceError) Error() string        { return "the operator graph has no source operator" }
func (e *NoSourceError) Is(target error) bool { return target == ErrStructural }
func (e *NoSourceError) Nodes() []string      { return nil }

// SinkCountError is returned when the graph does not have exactly one sink.
type SinkCountError struct {
	Count int
	Sinks []string
}

func (e *SinkCountError) Error() string {
	if e.Count == 0 {
		return "the operator graph has no sink operator"
	}
	return fmt.Sprintf("the operator graph must have exactly one sink but has %d: [%s]", e.Count, strings.Join(e.Sinks, ", "))
}
func (e *SinkCountError) Is(target error) bool { return target == ErrStructural }
func (e *SinkCountError) Nodes() []string      { return clone(e.Sinks) }

// OperatorConstructionError wraps a failure raised by an operator while it was
// being built or bound.
type OperatorConstructionError struct {
	Node string
	Err  error
}

func (e *OperatorConstructionError) Error() string {
	return fmt.Sprintf("operator %q could not be constructed: %v", e.Node, e.Err)
}
func (e *OperatorConstructionError) Is(target error) bool { return target == ErrAssembly }
func (e *OperatorConstructionError) Unwrap() error        { return e.Err }
func (e *OperatorConstructionError) Nodes() []string      { return []string{e.Node} }

// BindingOverflowError is returned when an operator receives more input
// bindings than it has slots.
type BindingOverflowError struct {
	Node  string
	Bound int
}

func (e *BindingOverflowError) Error() string {
	return fmt.Sprintf("operator %q cannot accept another input: %d already bound", e.Node, e.Bound)
}
func (e *BindingOverflowError) Is(target error) bool { return target == ErrAssembly }
func (e *BindingOverflowError) Nodes() []string      { return []string{e.Node} }

// InvalidPredicateError is returned when a raw operator cannot be decoded.
type InvalidPredicateError struct {
	Node string
	Type string
	Err  error
}

func (e *InvalidPredicateError) Error() string {
	return fmt.Sprintf("operator %q of type %q is invalid: %v", e.Node, e.Type, e.Err)
}
func (e *InvalidPredicateError) Is(target error) bool { return target == ErrInvalidPredicate }
func (e *InvalidPredicateError) Unwrap() error        { return e.Err }
func (e *InvalidPredicateError) Nodes() []string {
	if e.Node == "" {
		return nil
	}
	return []string{e.Node}
}

// MalformedRequestError is returned when a request envelope cannot be read.
type MalformedRequestError struct {
	Msg string
	Err error
}

func (e *MalformedRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed request: %s: %v", e.Msg, e.Err)
	}
	return "malformed request: " + e.Msg
}
func (e *MalformedRequestError) Is(target error) bool { return target == ErrMalformedRequest }
func (e *MalformedRequestError) Unwrap() error        { return e.Err }
func (e *MalformedRequestError) Nodes() []string      { return nil }

func clone(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
