// Package server exposes the compiler to a graphical plan editor over
// socket.io, next to plain HTTP health and metrics endpoints.
//
// Events:
//
//	autocomplete -> autocomplete:result | autocomplete:error
//	compile      -> compile:result
//
// Every request carries a JSON plan. Autocomplete runs relaxed compilation
// and answers with attribute hints; compile runs strict compilation and
// answers with either the wired pipeline summary or the list of problems.
package server
