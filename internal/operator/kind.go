package operator

import "fmt"

// Kind is the capability metadata of an operator type, resolved once when a
// predicate is decoded.
type Kind struct {
	// Type is the registered operator type name, e.g. "KeywordMatcher".
	Type string
	// InputArity is the exact number of incoming links required.
	InputArity int
	// OutputArity is the exact number of outgoing links a sink requires.
	// Nil means zero for sinks; non-sinks only need at least one.
	OutputArity *int
	Source      bool
	Sink        bool
	// BinaryInput marks operators whose two inputs are distinguished as
	// inner and outer, such as joins.
	BinaryInput bool
}

// ExpectedOutputs returns the number of outgoing links a sink must have.
func (k Kind) ExpectedOutputs() int {
	if k.OutputArity == nil {
		return 0
	}
	return *k.OutputArity
}

// Check reports metadata that can never describe a valid graph node.
func (k Kind) Check() error {
	switch {
	case k.Type == "":
		return fmt.Errorf("kind has no type name")
	case k.InputArity < 0:
		return fmt.Errorf("kind %q: negative input arity %d", k.Type, k.InputArity)
	case k.Source && k.InputArity != 0:
		return fmt.Errorf("kind %q: a source cannot take inputs", k.Type)
	case !k.Source && k.InputArity == 0:
		return fmt.Errorf("kind %q: a non-source operator needs at least one input", k.Type)
	case k.Source && k.Sink:
		return fmt.Errorf("kind %q: cannot be both source and sink", k.Type)
	case k.BinaryInput && k.InputArity != 2:
		return fmt.Errorf("kind %q: a binary-input operator must take exactly 2 inputs", k.Type)
	case !k.Sink && k.OutputArity != nil:
		return fmt.Errorf("kind %q: only sinks declare an output arity", k.Type)
	case k.OutputArity != nil && *k.OutputArity < 0:
		return fmt.Errorf("kind %q: negative output arity", k.Type)
	}
	return nil
}

// Arity is a helper for building Kind.OutputArity literals.
func Arity(n int) *int { return &n }
