// Package cli turns command-line flags into a validated app.Config and maps
// the outcome of a run to a process exit code.
package cli
