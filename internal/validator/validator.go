package validator

import (
	"github.com/specialistvlad/plangen/internal/graph"
	"github.com/specialistvlad/plangen/internal/planerr"
)

// Validate runs every structural check on g. It returns nil, a single typed
// error from package planerr, or a *planerr.ValidationError holding several.
func Validate(g *graph.Graph) error {
	var errs []error
	if err := CheckCycles(g); err != nil {
		errs = append(errs, err)
	}
	if err := CheckConnectivity(g); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, CheckInputArity(g)...)
	errs = append(errs, CheckOutputArity(g)...)
	errs = append(errs, CheckCardinality(g)...)
	return planerr.Join(errs...)
}

// CheckConnectivity walks the graph from its first node treating links as
// undirected and reports every node left unreached.
func CheckConnectivity(g *graph.Graph) error {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	neighbours := make(map[string][]string, len(nodes))
	for _, e := range g.Links() {
		neighbours[e.Origin] = append(neighbours[e.Origin], e.Destination)
		neighbours[e.Destination] = append(neighbours[e.Destination], e.Origin)
	}

	reached := map[string]bool{nodes[0]: true}
	stack := []string{nodes[0]}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range neighbours[id] {
			if !reached[next] {
				reached[next] = true
				stack = append(stack, next)
			}
		}
	}

	var unreached []string
	for _, id := range nodes {
		if !reached[id] {
			unreached = append(unreached, id)
		}
	}
	if len(unreached) == 0 {
		return nil
	}
	return &planerr.DisconnectedError{Unreached: unreached}
}

// CheckInputArity compares each node's in-degree with its declared input
// arity.
func CheckInputArity(g *graph.Graph) []error {
	in := g.InDegrees()
	var errs []error
	for _, id := range g.Nodes() {
		want := g.Kind(id).InputArity
		if in[id] != want {
			errs = append(errs, &planerr.InputArityError{Node: id, Expected: want, Actual: in[id]})
		}
	}
	return errs
}

// CheckOutputArity requires at least one outgoing link on non-sinks and the
// exact declared count on sinks.
func CheckOutputArity(g *graph.Graph) []error {
	var errs []error
	for _, id := range g.Nodes() {
		kind := g.Kind(id)
		out := g.OutDegree(id)
		switch {
		case kind.Sink && out != kind.ExpectedOutputs():
			errs = append(errs, &planerr.OutputArityError{Node: id, Expected: kind.ExpectedOutputs(), Actual: out})
		case !kind.Sink && out < 1:
			errs = append(errs, &planerr.OutputArityError{Node: id, Expected: 1, Actual: out, AtLeast: true})
		}
	}
	return errs
}

// CheckCardinality requires at least one source and exactly one sink.
func CheckCardinality(g *graph.Graph) []error {
	var errs []error
	if len(g.Sources()) == 0 {
		errs = append(errs, &planerr.NoSourceError{})
	}
	if sinks := g.Sinks(); len(sinks) != 1 {
		errs = append(errs, &planerr.SinkCountError{Count: len(sinks), Sinks: sinks})
	}
	return errs
}
