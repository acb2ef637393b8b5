// Package planerr defines every error the compiler can report about a plan.
//
// Errors fall into four families, each with a sentinel usable with
// errors.Is:
//
//   - ErrStructural: the graph shape is wrong (cycles, disconnected parts,
//     arity violations, duplicate ids, dangling references).
//   - ErrAssembly: the graph is valid but the operators could not be wired
//     (construction failures, too many bindings on one input).
//   - ErrInvalidPredicate: a raw operator could not be decoded into a
//     predicate.
//   - ErrMalformedRequest: the request envelope itself is unreadable.
//
// Every typed error implements NodeError so the editor can highlight all of
// the offending operators at once rather than only the first one found.
package planerr
