// Package regexmatcher provides the RegexMatcher operator.
package regexmatcher

import (
	"fmt"
	"regexp"

	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/registry"
	"github.com/specialistvlad/plangen/internal/schema"
	"github.com/specialistvlad/plangen/modules/matching"
)

const Type = "RegexMatcher"

var Kind = operator.Kind{Type: Type, InputArity: 1}

type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Definition{
		Kind:        Kind,
		Description: "Finds tuples whose attributes match a regular expression.",
		Decode: func(base operator.Base, props plan.Properties) (operator.Predicate, error) {
			return Decode(base, props)
		},
	})
}

// Predicate is a decoded RegexMatcher. The pattern is compiled at decode
// time so an invalid expression is reported against the predicate.
type Predicate struct {
	operator.Base
	Regex        string
	IgnoreCase   bool
	Attributes   []string
	SpanListName string

	compiled *regexp.Regexp
}

func Decode(base operator.Base, props plan.Properties) (*Predicate, error) {
	p := &Predicate{Base: base}
	var err error

	if p.Regex, err = props.String("regex"); err != nil {
		return nil, err
	}
	if p.IgnoreCase, err = props.OptionalBool("regexIgnoreCase", false); err != nil {
		return nil, err
	}
	expr := p.Regex
	if p.IgnoreCase {
		expr = "(?i)" + expr
	}
	if p.compiled, err = regexp.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid regex: %w", err)
	}
	if p.Attributes, err = props.StringList("attributes"); err != nil {
		return nil, err
	}
	if len(p.Attributes) == 0 {
		return nil, fmt.Errorf("at least one attribute is required")
	}
	if p.SpanListName, err = props.OptionalString("spanListName", ""); err != nil {
		return nil, err
	}
	return p, nil
}

// Pattern returns the compiled expression.
func (p *Predicate) Pattern() *regexp.Regexp { return p.compiled }

func (p *Predicate) NewOperator() (operator.Operator, error) {
	return &Operator{pred: p}, nil
}

type Operator struct {
	operator.SingleInput
	pred *Predicate
}

func (o *Operator) OutputSchema(inputs ...*schema.Schema) (*schema.Schema, error) {
	in, err := matching.SingleInput(inputs)
	if err != nil {
		return nil, err
	}
	return matching.Output(in, o.pred.Attributes, o.pred.SpanListName)
}
