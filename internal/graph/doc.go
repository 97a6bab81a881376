// Package graph implements the Entity Graph (C6): a heterogeneous set of
// entities — Debugger, Config, Session, Thread, Stack, Frame, Scope,
// Variable, Source, SourceBinding, Breakpoint, BreakpointBinding,
// ExceptionFilter, ExceptionFilterBinding, Output — connected by typed
// edges, every property a reactive.Signal, mutated exclusively by DAP
// events. It is the sole mutable model: the URL Query Engine (C7) and
// Presentation Registry (C9) only ever read through it.
//
// Ownership cascades downward (Debugger → Session → Thread → Stack →
// Frame → Scope → Variable, and Session → SourceBinding/BreakpointBinding):
// destroying a parent disposes its reactive.Scope, which in turn disposes
// every child entity's subscriptions and, transitively, the child entities
// themselves.
package graph
