// Package reactive implements the Reactive Primitives (C5) the Entity
// Graph is built from: Signal (an atomic observable value), Collection
// (an observable ordered set keyed by URI), derived signals, and scoped
// subscriptions whose cleanups fire together when an entity is destroyed.
//
// Every notification path is synchronous and respects deep-equality
// gating and registration order per SPEC_FULL.md §4.5: a no-op Set never
// notifies, and re-entrant Set calls during notification are queued and
// drained rather than re-entering the notify loop.
package reactive
