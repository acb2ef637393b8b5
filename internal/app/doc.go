// Package app wires the operator registry, the catalog and the compiler
// together. Run either serves the editor endpoints or compiles plan files in
// batch and prints one report per plan.
package app
