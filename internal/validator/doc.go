// Package validator checks that a plan graph has a shape the assembler can
// wire. Validate runs every check and reports every offending operator, so
// the editor can highlight all problems after one round trip.
//
// The checks are:
//
//   - acyclicity: every operator sitting on a cycle is reported;
//   - connectivity: with links followed in either direction, every operator
//     is reachable from the first one added;
//   - input arity: each operator has exactly as many incoming links as its
//     kind declares;
//   - output arity: non-sinks have at least one outgoing link, sinks have
//     exactly their declared number (zero by default);
//   - cardinality: at least one source and exactly one sink.
//
// Validation never mutates the graph and always returns the same result for
// the same graph.
package validator
