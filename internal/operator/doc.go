// Package operator defines the two capabilities the compiler relies on.
//
// A Predicate is the decoded, immutable description of one node in a plan:
// its id, its registered type, and the Kind metadata the structural checks
// read. A Predicate knows how to build its Operator.
//
// An Operator is the wired form. The compiler asks it for the schema it
// produces from its input schemas and hands it its inputs through Bind. What
// an operator does with tuples is out of the compiler's hands.
package operator
