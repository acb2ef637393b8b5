// Package assembler wires the operators of a validated plan into a pipeline.
//
// Operators are visited in insertion order. An operator with a single
// successor is bound to it directly. An operator with several successors is
// bound to a BroadcastConnector whose ports are bound to the successors, port
// i going to the i-th successor in link order.
//
// Binding respects the destination's kind: a binary-input operator receives
// its first binding as inner and its second as outer; any other operator
// accepts exactly one. Extra bindings are reported as
// *planerr.BindingOverflowError, every offending operator at once.
package assembler

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/plangen/internal/graph"
	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/ordered"
	"github.com/specialistvlad/plangen/internal/planerr"
	"github.com/specialistvlad/plangen/internal/propagator"
)

var errNotInstantiated = errors.New("operator was not instantiated")

// Pipeline is a wired plan.
type Pipeline struct {
	// RequestID identifies the compilation that produced the pipeline.
	RequestID string
	// Root is the operator of the plan's single sink.
	Root operator.Operator
	// SinkID is the id of the sink operator.
	SinkID string
	// Operators holds every wired operator by id, in insertion order.
	Operators *ordered.Map[string, operator.Operator]
	// Connectors lists the fan-out connectors that were inserted.
	Connectors []*BroadcastConnector
	// Schemas holds the propagated schemas when the caller recorded them.
	Schemas *propagator.Result
}

// Assemble wires inst according to g. g must have passed validation.
func Assemble(g *graph.Graph, inst *graph.Instances) (*Pipeline, error) {
	p := &Pipeline{Operators: ordered.NewMap[string, operator.Operator]()}

	var errs []error
	for _, id := range g.Nodes() {
		op, ok := inst.Operator(id)
		if !ok {
			errs = append(errs, &planerr.OperatorConstructionError{Node: id, Err: errNotInstantiated})
			continue
		}
		p.Operators.Set(id, op)
	}
	if len(errs) > 0 {
		return nil, planerr.Join(errs...)
	}

	b := &binder{g: g, ops: p.Operators, bound: make(map[string]int), overflowed: ordered.NewSet[string]()}

	for _, id := range g.Nodes() {
		op, _ := p.Operators.Get(id)
		successors := g.Successors(id)

		if len(successors) <= 1 {
			for _, dest := range successors {
				b.bind(dest, op)
			}
			continue
		}

		conn := NewBroadcastConnector(id, len(successors))
		if err := conn.Bind(operator.SlotInput, op); err != nil {
			b.errs = append(b.errs, &planerr.OperatorConstructionError{Node: id, Err: err})
			continue
		}
		p.Connectors = append(p.Connectors, conn)
		for i, dest := range successors {
			b.bind(dest, conn.Port(i))
		}
	}
	if err := planerr.Join(b.errs...); err != nil {
		return nil, err
	}

	sinks := g.Sinks()
	if len(sinks) != 1 {
		return nil, &planerr.SinkCountError{Count: len(sinks), Sinks: sinks}
	}
	p.SinkID = sinks[0]
	p.Root, _ = p.Operators.Get(p.SinkID)
	return p, nil
}

type binder struct {
	g          *graph.Graph
	ops        *ordered.Map[string, operator.Operator]
	bound      map[string]int
	overflowed *ordered.Set[string]
	errs       []error
}

func (b *binder) bind(dest string, input operator.Operator) {
	n := b.bound[dest]
	slot, ok := slotFor(b.g.Kind(dest), n)
	if !ok {
		if b.overflowed.Add(dest) {
			b.errs = append(b.errs, &planerr.BindingOverflowError{Node: dest, Bound: n})
		}
		return
	}

	op, _ := b.ops.Get(dest)
	if err := op.Bind(slot, input); err != nil {
		b.errs = append(b.errs, &planerr.OperatorConstructionError{
			Node: dest,
			Err:  fmt.Errorf("binding %s input: %w", slot, err),
		})
		return
	}
	b.bound[dest] = n + 1
}

// slotFor returns the slot the n-th binding (zero-based) of an operator of
// the given kind goes to.
func slotFor(kind operator.Kind, n int) (operator.Slot, bool) {
	if kind.BinaryInput {
		switch n {
		case 0:
			return operator.SlotInner, true
		case 1:
			return operator.SlotOuter, true
		}
		return 0, false
	}
	if n == 0 {
		return operator.SlotInput, true
	}
	return 0, false
}
