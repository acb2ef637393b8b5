// Package compiler is the entry point for turning a raw plan into either a
// wired pipeline (strict mode) or a map of attribute hints for an editor
// (relaxed mode).
//
// Strict compilation rejects any plan that is not a single-sink, acyclic,
// connected graph with correct arities. Relaxed compilation accepts anything
// that parses and reports what it could infer; it never fails on the shape
// of the plan.
package compiler
