package graph

import (
	"fmt"

	"github.com/dshills/dapdebug/internal/reactive"
	"github.com/google/uuid"
)

// Debugger is the graph root: a process-wide singleton owning every
// Session, user-intent Breakpoint, launch Config, and the union of
// ExceptionFilters advertised by any adapter capability set.
type Debugger struct {
	Entity

	Sessions         *reactive.Collection[*Session]
	Breakpoints      *reactive.Collection[*Breakpoint]
	Configs          *reactive.Collection[*Config]
	ExceptionFilters *reactive.Collection[*ExceptionFilter]

	sources *reactive.Collection[*Source]

	// Focus holds the currently-focused entity (e.g. the frame under the
	// editor cursor); changing it invalidates every @context-rooted watch
	// (§4.7).
	Focus *reactive.Signal[Focusable]
}

// Focusable is any entity that can sit in the Debugger's focus cell:
// Session, Thread, Frame, and Stack are the contexts named in the URL
// grammar (§4.7's `context`).
type Focusable interface {
	URI() string
}

// NewDebugger constructs the graph root.
func NewDebugger() *Debugger {
	d := &Debugger{
		Entity:           NewEntity("/", "debugger", nil),
		Sessions:         reactive.NewCollection[*Session](),
		Breakpoints:      reactive.NewCollection[*Breakpoint](),
		Configs:          reactive.NewCollection[*Config](),
		ExceptionFilters: reactive.NewCollection[*ExceptionFilter](),
		Focus:            reactive.NewSignal[Focusable](nil),
	}
	return d
}

// NextBreakpointID allocates a new debugger-assigned Breakpoint
// identifier. Breakpoint identity is purely internal (adapters never see
// it — they see the per-binding AdapterID instead), so a uuid is as good
// an allocator as a counter and spares every Breakpoint-holding package
// from needing access to the Debugger to mint one.
func (d *Debugger) NextBreakpointID() string {
	return uuid.New().String()
}

// Config is an active launch configuration grouping the sessions it spawned.
type Config struct {
	Entity

	ID       string
	Name     string
	Sessions *reactive.Collection[*Session]

	State *reactive.Signal[string] // "pending" | "running" | "done"
}

// NewConfig creates a Config entity owned by the Debugger.
func (d *Debugger) NewConfig(name string) *Config {
	id := uuid.New().String()
	c := &Config{
		Entity:   NewEntity(configURI(id), "config", d.Scope()),
		ID:       id,
		Name:     name,
		Sessions: reactive.NewCollection[*Session](),
		State:    reactive.NewSignal("pending"),
	}
	d.Configs.Add(c.URI(), c)
	return c
}

func configURI(id string) string { return fmt.Sprintf("/configs:%s", id) }
