// Package matching holds the schema rules shared by the text matchers.
package matching

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/plangen/internal/schema"
)

// Output checks that every attribute in attrs is a text attribute of input
// and returns input extended with a span list named spanListName. An empty
// spanListName leaves the schema unchanged.
func Output(input *schema.Schema, attrs []string, spanListName string) (*schema.Schema, error) {
	for _, name := range attrs {
		a, ok := input.Attribute(name)
		if !ok {
			return nil, fmt.Errorf("attribute %q is not in the input schema %s", name, input)
		}
		if !IsText(a.Type) {
			return nil, fmt.Errorf("attribute %q has type %s, a matcher needs text", name, a.Type.FriendlyName())
		}
	}
	if spanListName == "" {
		return input, nil
	}
	if input.Has(spanListName) {
		return nil, fmt.Errorf("span list name %q clashes with an input attribute", spanListName)
	}
	return input.With(schema.Attribute{Name: spanListName, Type: schema.SpanList})
}

// IsText reports whether values of t can be matched against.
func IsText(t cty.Type) bool {
	return t == cty.NilType || t.Equals(cty.String) || t.Equals(cty.DynamicPseudoType)
}

// SingleInput returns the only element of inputs.
func SingleInput(inputs []*schema.Schema) (*schema.Schema, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("expected 1 input schema, got %d", len(inputs))
	}
	return inputs[0], nil
}
