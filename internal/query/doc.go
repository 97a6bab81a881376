// Package query implements the URL Query Engine (C7): a small grammar for
// addressing entities in the graph.Debugger by path, either absolute from
// the root (`/sessions:a1b2/threads:3`) or relative to a focus context
// (`@frame+1/scopes:Locals`). See lexer.go/parser.go for the grammar,
// eval.go for traversal and selector semantics, and watch.go for the
// reactive variant that re-evaluates as the graph changes.
package query
