// Package projection provides the Projection operator, which keeps a subset
// of the input attributes in the requested order.
package projection

import (
	"fmt"

	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/registry"
	"github.com/specialistvlad/plangen/internal/schema"
	"github.com/specialistvlad/plangen/modules/matching"
)

const Type = "Projection"

var Kind = operator.Kind{Type: Type, InputArity: 1}

type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Definition{
		Kind:        Kind,
		Description: "Keeps only the listed attributes.",
		Decode: func(base operator.Base, props plan.Properties) (operator.Predicate, error) {
			return Decode(base, props)
		},
	})
}

type Predicate struct {
	operator.Base
	Attributes []string
}

func Decode(base operator.Base, props plan.Properties) (*Predicate, error) {
	attrs, err := props.StringList("attributes")
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("at least one attribute is required")
	}
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if seen[a] {
			return nil, fmt.Errorf("attribute %q listed twice", a)
		}
		seen[a] = true
	}
	return &Predicate{Base: base, Attributes: attrs}, nil
}

func (p *Predicate) NewOperator() (operator.Operator, error) {
	return &Operator{attrs: p.Attributes}, nil
}

type Operator struct {
	operator.SingleInput
	attrs []string
}

func (o *Operator) OutputSchema(inputs ...*schema.Schema) (*schema.Schema, error) {
	in, err := matching.SingleInput(inputs)
	if err != nil {
		return nil, err
	}
	return in.Project(o.attrs...)
}
