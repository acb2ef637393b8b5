// Package keywordmatcher provides the KeywordMatcher operator, which keeps
// tuples whose text attributes contain a keyword query.
package keywordmatcher

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/registry"
	"github.com/specialistvlad/plangen/internal/schema"
	"github.com/specialistvlad/plangen/modules/matching"
)

// Type is the operator type name used in plans.
const Type = "KeywordMatcher"

// Kind is the capability metadata of KeywordMatcher.
var Kind = operator.Kind{Type: Type, InputArity: 1}

// MatchingType selects how the query is compared with the text.
type MatchingType string

const (
	Conjunction MatchingType = "conjunction"
	Phrase      MatchingType = "phrase"
	Substring   MatchingType = "substring"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the KeywordMatcher definition.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Definition{
		Kind:        Kind,
		Description: "Finds tuples whose attributes contain the keywords of a query.",
		Decode: func(base operator.Base, props plan.Properties) (operator.Predicate, error) {
			return Decode(base, props)
		},
	})
}

// Predicate is a decoded KeywordMatcher.
type Predicate struct {
	operator.Base
	Query        string
	Attributes   []string
	MatchingType MatchingType
	SpanListName string
}

// Decode reads query, attributes, matchingType and spanListName.
func Decode(base operator.Base, props plan.Properties) (*Predicate, error) {
	p := &Predicate{Base: base}
	var err error

	if p.Query, err = props.String("query"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if p.Attributes, err = props.StringList("attributes"); err != nil {
		return nil, err
	}
	if len(p.Attributes) == 0 {
		return nil, fmt.Errorf("at least one attribute is required")
	}
	mt, err := props.OptionalString("matchingType", string(Phrase))
	if err != nil {
		return nil, err
	}
	switch p.MatchingType = MatchingType(strings.ToLower(mt)); p.MatchingType {
	case Conjunction, Phrase, Substring:
	default:
		return nil, fmt.Errorf("unknown matchingType %q: must be conjunction, phrase or substring", mt)
	}
	if p.SpanListName, err = props.OptionalString("spanListName", ""); err != nil {
		return nil, err
	}
	return p, nil
}

// NewOperator builds the matcher.
func (p *Predicate) NewOperator() (operator.Operator, error) {
	return &Operator{pred: p}, nil
}

// Operator is a wired KeywordMatcher.
type Operator struct {
	operator.SingleInput
	pred *Predicate
}

// OutputSchema checks the matched attributes and appends the span list.
func (o *Operator) OutputSchema(inputs ...*schema.Schema) (*schema.Schema, error) {
	in, err := matching.SingleInput(inputs)
	if err != nil {
		return nil, err
	}
	return matching.Output(in, o.pred.Attributes, o.pred.SpanListName)
}
