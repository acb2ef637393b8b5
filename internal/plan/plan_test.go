package plan

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/plangen/internal/planerr"
)

const editorPlan = `{
  "operators": [
    {"operatorID": "scan", "operatorType": "ScanSource", "tableName": "promed"},
    {"operatorID": "kw", "operatorType": "KeywordMatcher", "query": "zika", "attributes": ["content", "title"], "limit": 10},
    {"operatorID": "sink", "operatorType": "TupleSink"}
  ],
  "links": [
    {"origin": "scan", "destination": "kw"},
    {"origin": "kw", "destination": "sink"}
  ]
}`

func TestParseJSON(t *testing.T) {
	// --- Act ---
	p, err := ParseJSON([]byte(editorPlan))

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, p.Operators, 3)

	kw, ok := p.Operator("kw")
	require.True(t, ok)
	assert.Equal(t, "KeywordMatcher", kw.Type)
	assert.Equal(t, []string{"attributes", "limit", "query"}, kw.Properties.Names())

	query, err := kw.Properties.String("query")
	require.NoError(t, err)
	assert.Equal(t, "zika", query)

	attrs, err := kw.Properties.StringList("attributes")
	require.NoError(t, err)
	assert.Equal(t, []string{"content", "title"}, attrs)

	limit, err := kw.Properties.Int("limit")
	require.NoError(t, err)
	assert.Equal(t, 10, limit)

	want := []Link{{Origin: "scan", Destination: "kw"}, {Origin: "kw", Destination: "sink"}}
	if diff := cmp.Diff(want, p.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{"operators": [`},
		{name: "missing operators", body: `{"links": []}`},
		{name: "operator is not an object", body: `{"operators": [42]}`},
		{name: "operator id is not a string", body: `{"operators": [{"operatorID": 7}]}`},
		{name: "link is not an object", body: `{"operators": [], "links": ["a->b"]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tc.body))
			assert.ErrorIs(t, err, planerr.ErrMalformedRequest)
		})
	}
}

func TestParseJSON_KeepsIncompleteOperators(t *testing.T) {
	p, err := ParseJSON([]byte(`{"operators": [{"operatorID": "half"}, {"operatorType": "TupleSink"}]}`))
	require.NoError(t, err)
	require.Len(t, p.Operators, 2)
	assert.Equal(t, "half", p.Operators[0].ID)
	assert.Empty(t, p.Operators[0].Type)
	assert.Empty(t, p.Operators[1].ID)
}

func TestPlan_MarshalJSON(t *testing.T) {
	p, err := ParseJSON([]byte(editorPlan))
	require.NoError(t, err)

	out, err := json.Marshal(p)
	require.NoError(t, err)

	again, err := ParseJSON(out)
	require.NoError(t, err)
	assert.Equal(t, p.Links, again.Links)
	for i := range p.Operators {
		assert.Equal(t, p.Operators[i].ID, again.Operators[i].ID)
		assert.True(t, p.Operators[i].Properties.Value().RawEquals(again.Operators[i].Properties.Value()))
	}
}

func TestParseHCL(t *testing.T) {
	src := `
operator "ScanSource" "scan" {
  tableName = "promed"
}

operator "KeywordMatcher" "kw" {
  query      = "zika"
  attributes = ["content"]
}

link {
  origin      = "scan"
  destination = "kw"
}
`
	p, err := ParseHCL([]byte(src), "plan.hcl")
	require.NoError(t, err)
	require.Len(t, p.Operators, 2)
	assert.Equal(t, "ScanSource", p.Operators[0].Type)
	assert.Equal(t, "scan", p.Operators[0].ID)

	attrs, err := p.Operators[1].Properties.StringList("attributes")
	require.NoError(t, err)
	assert.Equal(t, []string{"content"}, attrs)
	assert.Equal(t, []Link{{Origin: "scan", Destination: "kw"}}, p.Links)
}

func TestParseHCL_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "syntax error", src: `operator "A" "a" {`},
		{name: "unknown block", src: `widget "x" {}`},
		{name: "link missing destination", src: `link { origin = "a" }`},
		{name: "variable reference", src: `operator "A" "a" { query = var.q }`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseHCL([]byte(tc.src), "bad.hcl")
			assert.ErrorIs(t, err, planerr.ErrMalformedRequest)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(editorPlan), 0o600))
	txtPath := filepath.Join(dir, "plan.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o600))

	p, err := LoadFile(context.Background(), jsonPath)
	require.NoError(t, err)
	assert.Len(t, p.Operators, 3)

	_, err = LoadFile(context.Background(), txtPath)
	assert.ErrorContains(t, err, "unsupported plan file extension")

	_, err = LoadFile(context.Background(), filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read plan file")
}

func TestProperties(t *testing.T) {
	props, err := PropertiesFromMap(map[string]any{
		"name":    "kw",
		"count":   3,
		"ratio":   1.5,
		"enabled": true,
		"single":  "only",
		"list":    []string{"a", "b"},
	})
	require.NoError(t, err)

	s, err := props.OptionalString("missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", s)

	n, err := props.OptionalInt("count", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = props.Int("ratio")
	assert.Error(t, err, "a fractional number is not an int")

	b, err := props.OptionalBool("enabled", false)
	require.NoError(t, err)
	assert.True(t, b)

	single, err := props.StringList("single")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, single)

	none, err := props.OptionalStringList("missing")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = props.String("missing")
	assert.ErrorContains(t, err, `missing required property "missing"`)

	_, err = props.Int("name")
	assert.ErrorContains(t, err, `property "name"`)
}

func TestNewProperties_NonObject(t *testing.T) {
	var zero Properties
	assert.Empty(t, zero.Names())
	assert.False(t, zero.Has("x"))
}
