package graph

import (
	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/ordered"
	"github.com/specialistvlad/plangen/internal/planerr"
)

// Edge is one directed link.
type Edge struct {
	Origin      string
	Destination string
}

// Graph is a directed multigraph of predicates.
type Graph struct {
	nodes      *ordered.Map[string, operator.Predicate]
	successors map[string][]string
	edges      []Edge
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes:      ordered.NewMap[string, operator.Predicate](),
		successors: make(map[string][]string),
	}
}

// AddNode adds a predicate under its own id. A repeated id fails with
// *planerr.DuplicateNodeIDError and leaves the graph unchanged.
func (g *Graph) AddNode(p operator.Predicate) error {
	id := p.ID()
	if g.nodes.Has(id) {
		return &planerr.DuplicateNodeIDError{ID: id}
	}
	g.nodes.Set(id, p)
	g.successors[id] = nil
	return nil
}

// AddLink adds a directed edge. Both endpoints must already be nodes,
// otherwise *planerr.UnknownNodeReferenceError is returned and nothing is
// added.
func (g *Graph) AddLink(origin, destination string) error {
	for _, id := range []string{origin, destination} {
		if !g.nodes.Has(id) {
			return &planerr.UnknownNodeReferenceError{Origin: origin, Destination: destination, Missing: id}
		}
	}
	g.successors[origin] = append(g.successors[origin], destination)
	g.edges = append(g.edges, Edge{Origin: origin, Destination: destination})
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return g.nodes.Len() }

// Nodes returns node ids in insertion order.
func (g *Graph) Nodes() []string { return g.nodes.Keys() }

// HasNode reports whether id is a node.
func (g *Graph) HasNode(id string) bool { return g.nodes.Has(id) }

// Predicate returns the predicate stored under id.
func (g *Graph) Predicate(id string) (operator.Predicate, bool) {
	return g.nodes.Get(id)
}

// Kind returns the capability metadata of id. The zero Kind is returned for
// unknown ids.
func (g *Graph) Kind(id string) operator.Kind {
	p, ok := g.nodes.Get(id)
	if !ok {
		return operator.Kind{}
	}
	return p.Kind()
}

// Successors returns the destinations of id's outgoing links in insertion
// order.
func (g *Graph) Successors(id string) []string {
	succ := g.successors[id]
	out := make([]string, len(succ))
	copy(out, succ)
	return out
}

// OutDegree returns the number of outgoing links of id.
func (g *Graph) OutDegree(id string) int { return len(g.successors[id]) }

// Predecessors returns the origins of id's incoming links in canonical edge
// order.
func (g *Graph) Predecessors(id string) []string {
	return g.PredecessorLists()[id]
}

// PredecessorLists returns the origins of every node's incoming links in
// canonical edge order, built in one pass over the edges. Nodes without
// incoming links have no entry.
func (g *Graph) PredecessorLists() map[string][]string {
	out := make(map[string][]string, g.nodes.Len())
	g.nodes.Each(func(origin string, _ operator.Predicate) {
		for _, dest := range g.successors[origin] {
			out[dest] = append(out[dest], origin)
		}
	})
	return out
}

// InDegrees returns the number of incoming links of every node, including
// nodes with none.
func (g *Graph) InDegrees() map[string]int {
	in := make(map[string]int, g.nodes.Len())
	for _, id := range g.nodes.Keys() {
		in[id] = 0
	}
	for _, e := range g.edges {
		in[e.Destination]++
	}
	return in
}

// Links returns every edge in insertion order.
func (g *Graph) Links() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Sources returns the ids of source-tagged nodes in insertion order.
func (g *Graph) Sources() []string {
	return g.filter(func(k operator.Kind) bool { return k.Source })
}

// Sinks returns the ids of sink-tagged nodes in insertion order.
func (g *Graph) Sinks() []string {
	return g.filter(func(k operator.Kind) bool { return k.Sink })
}

func (g *Graph) filter(keep func(operator.Kind) bool) []string {
	var out []string
	g.nodes.Each(func(id string, p operator.Predicate) {
		if keep(p.Kind()) {
			out = append(out, id)
		}
	})
	return out
}
