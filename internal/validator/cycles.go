package validator

import (
	"github.com/specialistvlad/plangen/internal/graph"
	"github.com/specialistvlad/plangen/internal/planerr"
)

// CheckCycles reports every node that lies on a directed cycle witnessed by
// a depth-first search, or nil when the graph is acyclic.
//
// The search starts afresh from each unvisited node in insertion order and
// follows successors in link order. Whenever it meets a node that is still on
// the current path, every node on that path is added to the reported set, so
// the result may include nodes leading into the cycle as well as the cycle
// itself. The reported order is node insertion order.
func CheckCycles(g *graph.Graph) error {
	const (
		unvisited = iota
		onPath
		done
	)

	state := make(map[string]int, g.Len())
	var path []string
	flagged := make(map[string]bool)

	var visit func(id string)
	visit = func(id string) {
		state[id] = onPath
		path = append(path, id)

		for _, next := range g.Successors(id) {
			switch state[next] {
			case onPath:
				for _, p := range path {
					flagged[p] = true
				}
			case unvisited:
				visit(next)
			}
		}

		path = path[:len(path)-1]
		state[id] = done
	}

	for _, id := range g.Nodes() {
		if state[id] == unvisited {
			visit(id)
		}
	}

	if len(flagged) == 0 {
		return nil
	}
	var nodes []string
	for _, id := range g.Nodes() {
		if flagged[id] {
			nodes = append(nodes, id)
		}
	}
	return &planerr.CycleError{Path: nodes}
}
