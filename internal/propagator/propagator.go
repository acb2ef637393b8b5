// Package propagator infers the schema flowing along every link of a plan.
//
// Propagation is a breadth-first topological walk seeded with the source
// operators. Each operator is asked for its output schema once all of its
// predecessors have been processed, and that schema is appended to the
// input list of every successor. An operator that rejects its inputs simply
// produces nothing; its siblings are unaffected and its successors see one
// input fewer. Operators that are never reached have no entry at all.
package propagator

import (
	"github.com/specialistvlad/plangen/internal/graph"
	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/ordered"
	"github.com/specialistvlad/plangen/internal/schema"
	"github.com/specialistvlad/plangen/internal/validator"
)

// Result is the outcome of one propagation run.
type Result struct {
	order    []string
	inputs   *ordered.Map[string, []*schema.Schema]
	outputs  map[string]*schema.Schema
	failures *ordered.Map[string, error]
}

// Nodes returns the processed node ids in processing order.
func (r *Result) Nodes() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// InputSchemas returns the schemas that reached id, in canonical edge order.
// The boolean is false for nodes that were never processed or never received
// an input.
func (r *Result) InputSchemas(id string) ([]*schema.Schema, bool) {
	in, ok := r.inputs.Get(id)
	if !ok {
		return nil, false
	}
	out := make([]*schema.Schema, len(in))
	copy(out, in)
	return out, true
}

// HasInputs returns the ids that received at least one input schema, in the
// order they first received one.
func (r *Result) HasInputs() []string { return r.inputs.Keys() }

// OutputSchema returns the schema produced by id.
func (r *Result) OutputSchema(id string) (*schema.Schema, bool) {
	s, ok := r.outputs[id]
	return s, ok
}

// Failures returns the nodes whose operator rejected its inputs, in
// processing order, with the reported error.
func (r *Result) Failures() *ordered.Map[string, error] { return r.failures }

// Propagate requires an acyclic graph and fails with the same
// *planerr.CycleError the validator reports otherwise.
func Propagate(g *graph.Graph, inst *graph.Instances) (*Result, error) {
	if err := validator.CheckCycles(g); err != nil {
		return nil, err
	}
	return PropagateUnchecked(g, inst), nil
}

// PropagateUnchecked runs propagation without the acyclicity check. Nodes on
// or behind a cycle never become ready and are left out of the result.
func PropagateUnchecked(g *graph.Graph, inst *graph.Instances) *Result {
	res := &Result{
		inputs:   ordered.NewMap[string, []*schema.Schema](),
		outputs:  make(map[string]*schema.Schema),
		failures: ordered.NewMap[string, error](),
	}

	inDegree := g.InDegrees()
	queue := g.Sources()
	queued := make(map[string]bool, len(queue))
	for _, id := range queue {
		queued[id] = true
	}

	// pending collects inputs per destination and per origin, so that the
	// final list can be arranged in canonical edge order regardless of the
	// order in which origins finish.
	pending := make(map[string]map[string][]*schema.Schema)
	predecessors := g.PredecessorLists()

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		res.order = append(res.order, id)

		var inputs []*schema.Schema
		for _, origin := range dedupe(predecessors[id]) {
			inputs = append(inputs, pending[id][origin]...)
		}
		if len(inputs) > 0 {
			res.inputs.Set(id, inputs)
		}

		out := resolve(g, inst, res, id, inputs)

		for _, dest := range g.Successors(id) {
			if out != nil {
				if pending[dest] == nil {
					pending[dest] = make(map[string][]*schema.Schema)
				}
				pending[dest][id] = append(pending[dest][id], out)
			}
			inDegree[dest]--
			if inDegree[dest] <= 0 && !queued[dest] {
				queued[dest] = true
				queue = append(queue, dest)
			}
		}
	}
	return res
}

// resolve asks id's operator for its output schema. Sinks are not asked; they
// produce nothing downstream.
func resolve(g *graph.Graph, inst *graph.Instances, res *Result, id string, inputs []*schema.Schema) *schema.Schema {
	kind := g.Kind(id)
	if kind.Sink {
		return nil
	}
	op, ok := inst.Operator(id)
	if !ok {
		if err := inst.Failure(id); err != nil {
			res.failures.Set(id, err)
		}
		return nil
	}

	out, err := outputSchema(op, kind, inputs)
	if err != nil {
		res.failures.Set(id, err)
		return nil
	}
	if out != nil {
		res.outputs[id] = out
	}
	return out
}

func outputSchema(op operator.Operator, kind operator.Kind, inputs []*schema.Schema) (*schema.Schema, error) {
	if kind.Source {
		return op.OutputSchema()
	}
	return op.OutputSchema(inputs...)
}

// dedupe keeps the first occurrence of each id; parallel links from the same
// origin are already represented in pending.
func dedupe(ids []string) []string {
	return ordered.NewSet(ids...).Items()
}
