package compiler

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/plan"
	"github.com/specialistvlad/plangen/internal/planerr"
	"github.com/specialistvlad/plangen/internal/registry"
	"github.com/specialistvlad/plangen/internal/schema"
	fakes "github.com/specialistvlad/plangen/internal/testutil"
)

// newRegistry registers the fake operator types used by these tests. Every
// type reads an optional "attributes" list; "Picky" requires it.
func newRegistry() *registry.Registry {
	r := registry.New()
	define := func(kind operator.Kind, required bool) {
		r.Register(&registry.Definition{
			Kind:        kind,
			Description: "test operator " + kind.Type,
			Decode: func(base operator.Base, props plan.Properties) (operator.Predicate, error) {
				var names []string
				var err error
				if required {
					names, err = props.StringList("attributes")
				} else {
					names, err = props.OptionalStringList("attributes")
				}
				if err != nil {
					return nil, err
				}
				return &fakes.FakePredicate{Base: base, Output: schema.Strings(names...)}, nil
			},
		})
	}
	define(operator.Kind{Type: "Source", Source: true}, false)
	define(operator.Kind{Type: "Unary", InputArity: 1}, false)
	define(operator.Kind{Type: "Picky", InputArity: 1}, true)
	define(operator.Kind{Type: "Join", InputArity: 2, BinaryInput: true}, false)
	define(operator.Kind{Type: "Sink", InputArity: 1, Sink: true, OutputArity: operator.Arity(0)}, false)
	define(operator.Kind{Type: "WideSink", InputArity: 2, Sink: true, OutputArity: operator.Arity(0)}, false)
	return r
}

func op(t *testing.T, id, typ string, attrs ...string) plan.Operator {
	t.Helper()
	props := map[string]any{}
	if len(attrs) > 0 {
		props["attributes"] = attrs
	}
	bag, err := plan.PropertiesFromMap(props)
	require.NoError(t, err)
	return plan.Operator{ID: id, Type: typ, Properties: bag}
}

func link(origin, destination string) plan.Link {
	return plan.Link{Origin: origin, Destination: destination}
}

func TestCompileStrict_Success(t *testing.T) {
	ctx, logs := fakes.Context(t)
	c := New(newRegistry())

	raw := &plan.Plan{
		Operators: []plan.Operator{
			op(t, "S", "Source", "id", "content"),
			op(t, "U", "Unary", "spans"),
			op(t, "K", "Sink"),
		},
		Links: []plan.Link{link("S", "U"), link("U", "K")},
	}

	p, err := c.CompileStrict(ctx, raw)
	require.NoError(t, err)

	_, err = uuid.Parse(p.RequestID)
	require.NoError(t, err)
	assert.Equal(t, "K", p.SinkID)
	assert.Equal(t, []string{"S", "U", "K"}, p.Operators.Keys())
	assert.Empty(t, p.Connectors)

	root, ok := p.Root.(*fakes.FakeOperator)
	require.True(t, ok)
	require.Len(t, root.Bindings, 1)
	assert.Equal(t, operator.SlotInput, root.Bindings[0].Slot)

	out, ok := p.Schemas.OutputSchema("U")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "content", "spans"}, out.Names())

	assert.Contains(t, logs.String(), "request_id="+p.RequestID)
	assert.Contains(t, logs.String(), "Pipeline assembled.")
}

func TestCompileStrict_FanInRejected(t *testing.T) {
	// S fans out to T1 and T2, which both feed K.
	build := func(sinkType string) *plan.Plan {
		return &plan.Plan{
			Operators: []plan.Operator{
				op(t, "S", "Source", "id"),
				op(t, "T1", "Unary"),
				op(t, "T2", "Unary"),
				op(t, "K", sinkType),
			},
			Links: []plan.Link{link("S", "T1"), link("S", "T2"), link("T1", "K"), link("T2", "K")},
		}
	}

	t.Run("single input sink fails validation", func(t *testing.T) {
		ctx, _ := fakes.Context(t)
		_, err := New(newRegistry()).CompileStrict(ctx, build("Sink"))

		var arityErr *planerr.InputArityError
		require.ErrorAs(t, err, &arityErr)
		assert.Equal(t, "K", arityErr.Node)
		assert.Equal(t, 1, arityErr.Expected)
		assert.Equal(t, 2, arityErr.Actual)
		assert.ErrorIs(t, err, planerr.ErrStructural)
	})

	t.Run("generic sink of arity two overflows on bind", func(t *testing.T) {
		ctx, _ := fakes.Context(t)
		_, err := New(newRegistry()).CompileStrict(ctx, build("WideSink"))

		var overflow *planerr.BindingOverflowError
		require.ErrorAs(t, err, &overflow)
		assert.Equal(t, "K", overflow.Node)
		assert.ErrorIs(t, err, planerr.ErrAssembly)
	})

	t.Run("deterministic", func(t *testing.T) {
		ctx, _ := fakes.Context(t)
		c := New(newRegistry())
		_, first := c.CompileStrict(ctx, build("Sink"))
		_, second := c.CompileStrict(ctx, build("Sink"))
		assert.Equal(t, first.Error(), second.Error())
	})
}

func TestCompileStrict_BinaryJoin(t *testing.T) {
	ctx, _ := fakes.Context(t)
	raw := &plan.Plan{
		Operators: []plan.Operator{
			op(t, "X", "Source", "a"),
			op(t, "Y", "Source", "b"),
			op(t, "J", "Join"),
			op(t, "K", "Sink"),
		},
		Links: []plan.Link{link("X", "J"), link("Y", "J"), link("J", "K")},
	}

	p, err := New(newRegistry()).CompileStrict(ctx, raw)
	require.NoError(t, err)

	j, _ := p.Operators.Get("J")
	x, _ := p.Operators.Get("X")
	y, _ := p.Operators.Get("Y")
	bindings := j.(*fakes.FakeOperator).Bindings
	require.Len(t, bindings, 2)
	assert.Equal(t, operator.SlotInner, bindings[0].Slot)
	assert.Same(t, x, bindings[0].Input)
	assert.Equal(t, operator.SlotOuter, bindings[1].Slot)
	assert.Same(t, y, bindings[1].Input)
}

func TestCompileStrict_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		raw       *plan.Plan
		check     func(t *testing.T, err error)
		wantNodes []string
	}{
		{
			name: "nil plan",
			raw:  nil,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, planerr.ErrMalformedRequest)
			},
		},
		{
			name: "every invalid predicate is reported",
			raw: &plan.Plan{Operators: []plan.Operator{
				op(t, "A", "Nope"),
				op(t, "B", "Source"),
				op(t, "C", "Picky"),
			}},
			check: func(t *testing.T, err error) {
				var agg *planerr.ValidationError
				require.ErrorAs(t, err, &agg)
				assert.Len(t, agg.Errs, 2)
				assert.ErrorIs(t, err, planerr.ErrInvalidPredicate)
			},
			wantNodes: []string{"A", "C"},
		},
		{
			name: "duplicate id",
			raw: &plan.Plan{Operators: []plan.Operator{
				op(t, "A", "Source"),
				op(t, "A", "Sink"),
			}},
			check: func(t *testing.T, err error) {
				var dup *planerr.DuplicateNodeIDError
				assert.ErrorAs(t, err, &dup)
			},
			wantNodes: []string{"A"},
		},
		{
			name: "unknown link end",
			raw: &plan.Plan{
				Operators: []plan.Operator{op(t, "A", "Source")},
				Links:     []plan.Link{link("A", "ghost")},
			},
			check: func(t *testing.T, err error) {
				var unknown *planerr.UnknownNodeReferenceError
				assert.ErrorAs(t, err, &unknown)
			},
		},
		{
			name: "cycle and arity problems together",
			raw: &plan.Plan{
				Operators: []plan.Operator{
					op(t, "S", "Source"),
					op(t, "U1", "Unary"),
					op(t, "U2", "Unary"),
					op(t, "K", "Sink"),
				},
				Links: []plan.Link{link("S", "U1"), link("U1", "U2"), link("U2", "U1"), link("U2", "K")},
			},
			check: func(t *testing.T, err error) {
				var cycle *planerr.CycleError
				require.ErrorAs(t, err, &cycle)
				assert.Equal(t, []string{"S", "U1", "U2"}, cycle.Path)
				var arity *planerr.InputArityError
				require.ErrorAs(t, err, &arity)
				assert.Equal(t, "U1", arity.Node)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := fakes.Context(t)
			p, err := New(newRegistry()).CompileStrict(ctx, tc.raw)
			require.Error(t, err)
			assert.Nil(t, p)
			tc.check(t, err)
			if tc.wantNodes != nil {
				assert.Equal(t, tc.wantNodes, planerr.NodesOf(err))
			}
		})
	}
}

func TestCompileRelaxed_DanglingLink(t *testing.T) {
	ctx, _ := fakes.Context(t)
	raw := &plan.Plan{
		Operators: []plan.Operator{
			op(t, "A", "Source", "id", "content"),
			{ID: "B", Type: "KeywordMatcher"},
		},
		Links: []plan.Link{link("A", "B")},
	}

	hints, err := New(newRegistry()).CompileRelaxed(ctx, raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"B"}, hints.IDs())
	got, ok := hints.Get("B")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "content"}, got)

	_, ok = hints.Get("A")
	assert.False(t, ok, "sources get no hints")
}

func TestCompileRelaxed_PartialPlan(t *testing.T) {
	ctx, _ := fakes.Context(t)
	raw := &plan.Plan{
		Operators: []plan.Operator{
			op(t, "S", "Source", "id"),
			op(t, "T", "Source", "url"),
			op(t, "U", "Unary", "spans"),
			op(t, "J", "Join"),
			op(t, "P", "Picky"),
			op(t, "D", "Unary"),
			op(t, "D", "Unary"),
		},
		Links: []plan.Link{
			link("S", "U"),
			link("U", "J"),
			link("T", "J"),
			link("J", "P"),
			link("P", "D"),
			link("ghost", "D"),
		},
	}

	hints, err := New(newRegistry()).CompileRelaxed(ctx, raw)
	require.NoError(t, err)

	// T was added before U, so its schema comes first at J.
	want := map[string][]string{
		"U": {"id"},
		"J": {"url", "id", "spans"},
		"P": {"url", "id", "spans"},
	}
	got := make(map[string][]string)
	for _, id := range hints.IDs() {
		got[id], _ = hints.Get(id)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("hints mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"U", "J", "P"}, hints.IDs())
}

func TestCompileRelaxed_CycleDegradesGracefully(t *testing.T) {
	ctx, logs := fakes.Context(t)
	raw := &plan.Plan{
		Operators: []plan.Operator{
			op(t, "A", "Source", "id"),
			op(t, "U0", "Unary"),
			op(t, "U1", "Unary"),
			op(t, "U2", "Unary"),
		},
		Links: []plan.Link{link("A", "U0"), link("A", "U1"), link("U1", "U2"), link("U2", "U1")},
	}

	hints, err := New(newRegistry()).CompileRelaxed(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"U0"}, hints.IDs())
	assert.Contains(t, logs.String(), "Plan has a cycle")
}

func TestCompileRelaxed_NilPlan(t *testing.T) {
	_, err := New(newRegistry()).CompileRelaxed(context.Background(), nil)
	assert.ErrorIs(t, err, planerr.ErrMalformedRequest)
}

func TestHintMap_MarshalJSON(t *testing.T) {
	h := newHintMap("req")
	h.add("z", "b", "a")
	h.add("a", "c")
	h.add("z", "a", "d")
	h.add("empty")

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, `{"z":["b","a","d"],"a":["c"],"empty":[]}`, string(data))
	assert.Equal(t, 3, h.Len())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := New(newRegistry(), WithMetrics(m))
	ctx, _ := fakes.Context(t)

	good := &plan.Plan{
		Operators: []plan.Operator{op(t, "S", "Source"), op(t, "K", "Sink")},
		Links:     []plan.Link{link("S", "K")},
	}
	_, err := c.CompileStrict(ctx, good)
	require.NoError(t, err)
	_, err = c.CompileStrict(ctx, &plan.Plan{Operators: []plan.Operator{op(t, "S", "Source")}})
	require.Error(t, err)
	_, err = c.CompileRelaxed(ctx, &plan.Plan{Operators: []plan.Operator{op(t, "S", "Source"), op(t, "X", "Nope"), op(t, "Y", "Nope")}})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.compileTotal.WithLabelValues("strict", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compileTotal.WithLabelValues("strict", "structural")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compileTotal.WithLabelValues("relaxed", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.discardedOperators))

	expected := `
# HELP plangen_relaxed_discarded_operators_total Total number of operators discarded by relaxed compilation.
# TYPE plangen_relaxed_discarded_operators_total counter
plangen_relaxed_discarded_operators_total 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "plangen_relaxed_discarded_operators_total"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe(ModeStrict, outcomeOK, 0)
		m.discarded(3)
	})
}
