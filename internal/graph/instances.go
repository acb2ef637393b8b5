package graph

import (
	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/planerr"
)

// Instances holds the operators built from a graph's predicates.
type Instances struct {
	ops      map[string]operator.Operator
	failures map[string]error
}

// Operator returns the operator built for id.
func (in *Instances) Operator(id string) (operator.Operator, bool) {
	op, ok := in.ops[id]
	return op, ok
}

// Failure returns the construction error recorded for id, if any.
func (in *Instances) Failure(id string) error {
	return in.failures[id]
}

// Len returns the number of operators successfully built.
func (in *Instances) Len() int { return len(in.ops) }

// Instantiate builds one operator per node. Every node that fails is reported
// as a *planerr.OperatorConstructionError, joined in insertion order.
func Instantiate(g *Graph) (*Instances, error) {
	in := InstantiateBestEffort(g)
	var errs []error
	for _, id := range g.Nodes() {
		if err := in.failures[id]; err != nil {
			errs = append(errs, &planerr.OperatorConstructionError{Node: id, Err: err})
		}
	}
	if err := planerr.Join(errs...); err != nil {
		return nil, err
	}
	return in, nil
}

// InstantiateBestEffort builds every operator it can. Failures are recorded
// and retrievable with Failure; the node simply has no operator.
func InstantiateBestEffort(g *Graph) *Instances {
	in := &Instances{
		ops:      make(map[string]operator.Operator, g.Len()),
		failures: make(map[string]error),
	}
	for _, id := range g.Nodes() {
		p, _ := g.Predicate(id)
		op, err := p.NewOperator()
		if err == nil && op == nil {
			err = errNilOperator
		}
		if err != nil {
			in.failures[id] = err
			continue
		}
		in.ops[id] = op
	}
	return in
}
