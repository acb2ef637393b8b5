// Package ordered provides small insertion-ordered containers. Graph
// traversal, fan-out port assignment and hint output all depend on a stable
// iteration order, which Go's built-in maps do not give.
package ordered
