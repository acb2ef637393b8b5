// Package partialgraph reduces a raw, possibly half-written plan to the
// largest graph that can be built from it.
//
// Operators that fail to decode, or that repeat an id already kept, are
// discarded. Links survive only if both ends were kept. A link whose origin
// was kept but whose destination was not is returned separately as dangling:
// the origin's output schema still tells the editor what the missing
// operator would receive.
package partialgraph

import (
	"context"

	"github.com/specialistvlad/plangen/internal/ctxlog"
	"github.com/specialistvlad/plangen/internal/graph"
	"github.com/specialistvlad/plangen/internal/operator"
	"github.com/specialistvlad/plangen/internal/ordered"
	"github.com/specialistvlad/plangen/internal/plan"
)

// Decoder turns a raw operator into a predicate. *registry.Registry
// implements it.
type Decoder interface {
	Decode(raw plan.Operator) (operator.Predicate, error)
}

// Result is the filtered plan.
type Result struct {
	Graph *graph.Graph
	// Dangling holds links whose origin is in Graph but whose destination
	// is not, in plan order.
	Dangling []plan.Link
	// Discarded maps each rejected operator id to the reason, in plan order.
	// Operators without an id cannot be keyed and are only logged.
	Discarded *ordered.Map[string, error]
	// DroppedLinks counts links whose origin was not kept.
	DroppedLinks int
}

// Filter builds the valid subgraph of raw. It never fails.
func Filter(ctx context.Context, dec Decoder, raw *plan.Plan) *Result {
	logger := ctxlog.FromContext(ctx)
	res := &Result{Graph: graph.New(), Discarded: ordered.NewMap[string, error]()}

	failed := ordered.NewMap[string, error]()
	for _, op := range raw.Operators {
		pred, err := dec.Decode(op)
		if err == nil {
			err = res.Graph.AddNode(pred)
		}
		if err != nil {
			logger.Debug("Discarding operator.", "operator", op.ID, "type", op.Type, "error", err)
			if op.ID != "" && !failed.Has(op.ID) {
				failed.Set(op.ID, err)
			}
		}
	}
	// An id is only discarded if no operator under it made it into the graph.
	failed.Each(func(id string, err error) {
		if !res.Graph.HasNode(id) {
			res.Discarded.Set(id, err)
		}
	})

	for _, l := range raw.Links {
		originOK := res.Graph.HasNode(l.Origin)
		destOK := res.Graph.HasNode(l.Destination)
		switch {
		case originOK && destOK:
			// Both ends exist, so AddLink cannot fail.
			_ = res.Graph.AddLink(l.Origin, l.Destination)
		case originOK:
			logger.Debug("Keeping dangling link.", "origin", l.Origin, "destination", l.Destination)
			res.Dangling = append(res.Dangling, l)
		default:
			logger.Debug("Dropping link from discarded operator.", "origin", l.Origin, "destination", l.Destination)
			res.DroppedLinks++
		}
	}

	logger.Debug("Partial graph built.",
		"kept", res.Graph.Len(),
		"discarded", res.Discarded.Len(),
		"dangling", len(res.Dangling),
		"dropped_links", res.DroppedLinks,
	)
	return res
}
