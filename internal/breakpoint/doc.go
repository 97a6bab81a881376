// Package breakpoint implements the Breakpoint Engine (C8): user-intent
// Breakpoints, their per-session adapter-verified Bindings, and the
// coalescing sync scheduler that reconciles the two over setBreakpoints
// (see sync.go for the per-(session, source) batching algorithm and
// hitmap.go for reading the currently hit Bindings; the
// hitBreakpointIds-to-Binding mapping itself, including the polyfill for
// adapters that omit the field, runs in graph.AttachSession).
package breakpoint
