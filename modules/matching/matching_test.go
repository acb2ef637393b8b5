package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/plangen/internal/schema"
)

func TestOutput(t *testing.T) {
	input := schema.MustNew(
		schema.Attribute{Name: "id", Type: cty.Number},
		schema.Attribute{Name: "content", Type: cty.String},
	)

	out, err := Output(input, []string{"content"}, "spans")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "content", "spans"}, out.Names())

	same, err := Output(input, []string{"content"}, "")
	require.NoError(t, err)
	assert.Same(t, input, same)

	_, err = Output(input, []string{"title"}, "spans")
	assert.ErrorContains(t, err, `attribute "title" is not in the input schema`)

	_, err = Output(input, []string{"id"}, "spans")
	assert.ErrorContains(t, err, "a matcher needs text")

	_, err = Output(input, []string{"content"}, "id")
	assert.ErrorContains(t, err, "clashes")
}

func TestSingleInput(t *testing.T) {
	s := schema.Strings("a")
	got, err := SingleInput([]*schema.Schema{s})
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = SingleInput(nil)
	assert.ErrorContains(t, err, "expected 1 input schema, got 0")
}
