// Package graph is the in-memory model of a plan: operators keyed by id and
// the directed links between them.
//
// # Ordering
//
// Everything downstream of the graph must be deterministic, so the graph
// remembers the order in which operators and links were added:
//
//   - Nodes() lists operators in insertion order.
//   - Successors(id) lists destinations in link insertion order. Links are not
//     deduplicated; two links between the same pair are two edges.
//   - Predecessors(id) lists origins in canonical edge order: the order edges
//     are met when walking nodes in insertion order and each node's
//     successors in turn.
//
// Canonical edge order is what schema propagation uses to order an
// operator's input schemas and what assembly uses to decide which input is
// inner and which is outer, so the two always agree.
//
// # Lifecycle
//
//  1. Built once per request with AddNode and AddLink.
//  2. Checked by the validator.
//  3. Instantiated once with Instantiate (strict) or InstantiateBestEffort
//     (autocomplete), giving one Operator per node.
//  4. Read by the propagator and consumed by the assembler, then discarded.
//
// A Graph is not safe for concurrent mutation; requests never share one.
package graph
