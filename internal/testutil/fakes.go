package testutil

import (
	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/schema"
)

// Binding records one call to FakeOperator.Bind.
type Binding struct {
	Slot  operator.Slot
	Input operator.Operator
}

// FakePredicate is a configurable predicate for graph-level tests.
type FakePredicate struct {
	operator.Base

	// Output is the schema a source produces, or the attributes appended to
	// the union of the inputs for any other operator.
	Output *schema.Schema
	// SchemaErr makes OutputSchema fail.
	SchemaErr error
	// NewErr makes NewOperator fail.
	NewErr error
	// BindErr makes every Bind call fail.
	BindErr error

	// Built is the operator returned by the last NewOperator call.
	Built *FakeOperator
}

// NewOperator builds a FakeOperator, or fails with NewErr.
func (p *FakePredicate) NewOperator() (operator.Operator, error) {
	if p.NewErr != nil {
		return nil, p.NewErr
	}
	p.Built = &FakeOperator{pred: p}
	return p.Built, nil
}

// FakeOperator records bindings and schema requests.
type FakeOperator struct {
	pred     *FakePredicate
	Bindings []Binding
	// SchemaCalls counts OutputSchema invocations.
	SchemaCalls int
	// LastInputs holds the inputs of the most recent OutputSchema call.
	LastInputs []*schema.Schema
}

// ID returns the id of the predicate the operator was built from.
func (o *FakeOperator) ID() string { return o.pred.ID() }

// OutputSchema returns the configured source schema, or the union of the
// inputs' attributes followed by the configured extra attributes.
func (o *FakeOperator) OutputSchema(inputs ...*schema.Schema) (*schema.Schema, error) {
	o.SchemaCalls++
	o.LastInputs = inputs
	if o.pred.SchemaErr != nil {
		return nil, o.pred.SchemaErr
	}
	if o.pred.Kind().Source {
		if o.pred.Output == nil {
			return schema.MustNew(), nil
		}
		return o.pred.Output, nil
	}

	var attrs []schema.Attribute
	seen := make(map[string]bool)
	add := func(s *schema.Schema) {
		for _, a := range s.Attributes() {
			if !seen[a.Name] {
				seen[a.Name] = true
				attrs = append(attrs, a)
			}
		}
	}
	for _, in := range inputs {
		add(in)
	}
	add(o.pred.Output)
	return schema.New(attrs...)
}

// Bind records the binding, or fails with BindErr.
func (o *FakeOperator) Bind(slot operator.Slot, input operator.Operator) error {
	if o.pred.BindErr != nil {
		return o.pred.BindErr
	}
	o.Bindings = append(o.Bindings, Binding{Slot: slot, Input: input})
	return nil
}

// Source returns a source predicate producing a string schema of attrs.
func Source(id string, attrs ...string) *FakePredicate {
	return &FakePredicate{
		Base:   operator.NewBase(id, operator.Kind{Type: "FakeSource", Source: true}),
		Output: schema.Strings(attrs...),
	}
}

// Unary returns a single-input predicate that adds attrs to its input.
func Unary(id string, attrs ...string) *FakePredicate {
	return &FakePredicate{
		Base:   operator.NewBase(id, operator.Kind{Type: "FakeUnary", InputArity: 1}),
		Output: schema.Strings(attrs...),
	}
}

// Binary returns a two-input inner/outer predicate.
func Binary(id string) *FakePredicate {
	return &FakePredicate{
		Base: operator.NewBase(id, operator.Kind{Type: "FakeJoin", InputArity: 2, BinaryInput: true}),
	}
}

// Sink returns a single-input sink predicate.
func Sink(id string) *FakePredicate {
	return SinkWithArity(id, 1)
}

// SinkWithArity returns a generic sink that declares inputs incoming links
// but is not binary-input.
func SinkWithArity(id string, inputs int) *FakePredicate {
	return &FakePredicate{
		Base: operator.NewBase(id, operator.Kind{Type: "FakeSink", InputArity: inputs, Sink: true, OutputArity: operator.Arity(0)}),
	}
}

// WithKind returns a predicate with arbitrary kind metadata.
func WithKind(id string, kind operator.Kind) *FakePredicate {
	return &FakePredicate{Base: operator.NewBase(id, kind)}
}
