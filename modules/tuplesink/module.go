// Package tuplesink provides the TupleSink operator, the single terminal
// operator of a compiled pipeline.
package tuplesink

import (
	"fmt"

	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/registry"
	"github.com/specialistvlad/plangen/internal/schema"
	"github.com/specialistvlad/plangen/modules/matching"
)

const Type = "TupleSink"

var Kind = operator.Kind{Type: Type, InputArity: 1, Sink: true, OutputArity: operator.Arity(0)}

type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Definition{
		Kind:        Kind,
		Description: "Collects result tuples, optionally limited and offset.",
		Decode: func(base operator.Base, props plan.Properties) (operator.Predicate, error) {
			return Decode(base, props)
		},
	})
}

type Predicate struct {
	operator.Base
	// Limit of zero means no limit.
	Limit  int
	Offset int
}

func Decode(base operator.Base, props plan.Properties) (*Predicate, error) {
	p := &Predicate{Base: base}
	var err error

	if p.Limit, err = props.OptionalInt("limit", 0); err != nil {
		return nil, err
	}
	if p.Offset, err = props.OptionalInt("offset", 0); err != nil {
		return nil, err
	}
	if p.Limit < 0 || p.Offset < 0 {
		return nil, fmt.Errorf("limit and offset must not be negative")
	}
	return p, nil
}

func (p *Predicate) NewOperator() (operator.Operator, error) {
	return &Operator{pred: p}, nil
}

type Operator struct {
	operator.SingleInput
	pred *Predicate
}

// OutputSchema returns the input schema unchanged.
func (o *Operator) OutputSchema(inputs ...*schema.Schema) (*schema.Schema, error) {
	return matching.SingleInput(inputs)
}

// Limit returns the configured limit and offset.
func (o *Operator) Limit() (limit, offset int) {
	return o.pred.Limit, o.pred.Offset
}
