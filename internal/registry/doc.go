// Package registry provides the central "glue" for the operator system.
//
// The Registry maps the operator type names used in plans (e.g.
// "KeywordMatcher") to the Go code that decodes them into predicates. Each
// operator package exposes a Module that registers its definitions at
// startup.
//
// During application startup, the registry is populated and then validated to
// ensure every registered definition describes a kind that can appear in a
// valid graph, preventing a whole class of confusing compile errors later on.
package registry
