package graph

import "github.com/dshills/dapdebug/internal/reactive"

// Entity is embedded by every graph node: a stable URI, a type tag for the
// URL Query Engine and Presentation Registry, and the reactive.Scope whose
// disposal tears down everything this entity owns.
type Entity struct {
	uri   string
	etype string
	scope *reactive.Scope

	destroyed bool
}

// NewEntity constructs the embeddable base for a node of kind etype at uri,
// with a scope nested under parent (nil for the Debugger root).
func NewEntity(uri, etype string, parent *reactive.Scope) Entity {
	var scope *reactive.Scope
	if parent != nil {
		scope = parent.Child()
	} else {
		scope = reactive.NewScope()
	}
	return Entity{uri: uri, etype: etype, scope: scope}
}

// URI returns the entity's stable, deterministic address.
func (e *Entity) URI() string { return e.uri }

// Type returns the entity's type tag (e.g. "session", "thread", "frame").
func (e *Entity) Type() string { return e.etype }

// Scope returns the entity's subscription scope; children attach their own
// scopes to it via NewEntity(..., parent: e.Scope()).
func (e *Entity) Scope() *reactive.Scope { return e.scope }

// Destroy disposes the entity's scope, cascading to every child entity and
// subscription registered beneath it. Idempotent.
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.scope.Dispose()
}

// Destroyed reports whether Destroy has already run.
func (e *Entity) Destroyed() bool { return e.destroyed }
