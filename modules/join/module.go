// Package join provides the Join operator, a binary operator that pairs
// tuples from an inner and an outer input whose spans lie close together.
package join

import (
	"fmt"

	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/registry"
	"github.com/specialistvlad/plangen/internal/schema"
)

const Type = "Join"

// DefaultSpanDistance is used when the plan leaves spanDistance out.
const DefaultSpanDistance = 10

var Kind = operator.Kind{Type: Type, InputArity: 2, BinaryInput: true}

type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Definition{
		Kind:        Kind,
		Description: "Joins an inner and an outer input on nearby spans.",
		Decode: func(base operator.Base, props plan.Properties) (operator.Predicate, error) {
			return Decode(base, props)
		},
	})
}

type Predicate struct {
	operator.Base
	InnerAttribute string
	OuterAttribute string
	SpanDistance   int
}

func Decode(base operator.Base, props plan.Properties) (*Predicate, error) {
	p := &Predicate{Base: base}
	var err error

	if p.InnerAttribute, err = props.String("innerAttribute"); err != nil {
		return nil, err
	}
	if p.OuterAttribute, err = props.String("outerAttribute"); err != nil {
		return nil, err
	}
	if p.SpanDistance, err = props.OptionalInt("spanDistance", DefaultSpanDistance); err != nil {
		return nil, err
	}
	if p.SpanDistance < 0 {
		return nil, fmt.Errorf("spanDistance must not be negative, got %d", p.SpanDistance)
	}
	return p, nil
}

func (p *Predicate) NewOperator() (operator.Operator, error) {
	return &Operator{pred: p}, nil
}

type Operator struct {
	operator.BinaryInput
	pred *Predicate
}

// OutputSchema takes the inner schema first and the outer schema second. The
// result is the inner attributes followed by the outer attributes the inner
// side does not already carry.
func (o *Operator) OutputSchema(inputs ...*schema.Schema) (*schema.Schema, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("join needs 2 input schemas, got %d", len(inputs))
	}
	inner, outer := inputs[0], inputs[1]
	if !inner.Has(o.pred.InnerAttribute) {
		return nil, fmt.Errorf("inner attribute %q is not in the inner schema %s", o.pred.InnerAttribute, inner)
	}
	if !outer.Has(o.pred.OuterAttribute) {
		return nil, fmt.Errorf("outer attribute %q is not in the outer schema %s", o.pred.OuterAttribute, outer)
	}

	var extra []schema.Attribute
	for _, a := range outer.Attributes() {
		if !inner.Has(a.Name) {
			extra = append(extra, a)
		}
	}
	return inner.With(extra...)
}
