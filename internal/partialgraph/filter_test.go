package partialgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/plangen/internal/graph"
	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/planerr"
	"github.com/specialistvlad/plangen/internal/testutil"
)

// fakeDecoder accepts the operator types it knows and rejects the rest.
type fakeDecoder map[string]func(id string) *testutil.FakePredicate

func (d fakeDecoder) Decode(raw plan.Operator) (operator.Predicate, error) {
	mk, ok := d[raw.Type]
	if !ok {
		return nil, &planerr.InvalidPredicateError{Node: raw.ID, Type: raw.Type, Err: errors.New("unknown operator type")}
	}
	return mk(raw.ID), nil
}

var decoder = fakeDecoder{
	"Scan":   func(id string) *testutil.FakePredicate { return testutil.Source(id, "a", "b") },
	"Filter": func(id string) *testutil.FakePredicate { return testutil.Unary(id) },
	"Sink":   func(id string) *testutil.FakePredicate { return testutil.Sink(id) },
}

func TestFilter_DanglingLink(t *testing.T) {
	// --- Arrange ---
	raw := &plan.Plan{
		Operators: []plan.Operator{{ID: "A", Type: "Scan"}, {ID: "B", Type: "Broken"}},
		Links:     []plan.Link{{Origin: "A", Destination: "B"}},
	}
	ctx, logs := testutil.Context(t)

	// --- Act ---
	res := Filter(ctx, decoder, raw)

	// --- Assert ---
	assert.Equal(t, []string{"A"}, res.Graph.Nodes())
	assert.Equal(t, []plan.Link{{Origin: "A", Destination: "B"}}, res.Dangling)
	assert.Equal(t, []string{"B"}, res.Discarded.Keys())
	assert.Empty(t, res.Graph.Links())
	assert.Contains(t, logs.String(), "Discarding operator.")
}

func TestFilter_LinkClassification(t *testing.T) {
	raw := &plan.Plan{
		Operators: []plan.Operator{
			{ID: "s", Type: "Scan"},
			{ID: "f", Type: "Filter"},
			{ID: "bad", Type: "Nope"},
			{ID: "k", Type: "Sink"},
		},
		Links: []plan.Link{
			{Origin: "s", Destination: "f"},
			{Origin: "f", Destination: "bad"},
			{Origin: "bad", Destination: "k"},
			{Origin: "f", Destination: "k"},
			{Origin: "ghost", Destination: "k"},
			{Origin: "s", Destination: "nowhere"},
		},
	}

	res := Filter(t.Context(), decoder, raw)

	assert.Equal(t, []string{"s", "f", "k"}, res.Graph.Nodes())
	assert.Equal(t, []graph.Edge{{Origin: "s", Destination: "f"}, {Origin: "f", Destination: "k"}}, res.Graph.Links())
	assert.Equal(t, []plan.Link{{Origin: "f", Destination: "bad"}, {Origin: "s", Destination: "nowhere"}}, res.Dangling)
	assert.Equal(t, 2, res.DroppedLinks)
}

func TestFilter_DuplicateIDsKeepTheFirst(t *testing.T) {
	raw := &plan.Plan{
		Operators: []plan.Operator{{ID: "x", Type: "Scan"}, {ID: "x", Type: "Sink"}, {Type: "Nope"}},
	}

	res := Filter(t.Context(), decoder, raw)

	assert.Equal(t, []string{"x"}, res.Graph.Nodes())
	assert.True(t, res.Graph.Kind("x").Source)
	assert.Zero(t, res.Discarded.Len(), "the kept id is not reported as discarded")
	require.Equal(t, 1, res.Graph.Len())
}

func TestFilter_LaterDuplicateRescuesDiscardedID(t *testing.T) {
	raw := &plan.Plan{
		Operators: []plan.Operator{{ID: "x", Type: "Broken"}, {ID: "x", Type: "Scan"}, {ID: "y", Type: "Broken"}},
	}

	res := Filter(t.Context(), decoder, raw)

	assert.True(t, res.Graph.HasNode("x"))
	assert.Equal(t, []string{"y"}, res.Discarded.Keys())
}
