package breakpoint

import (
	"testing"

	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/graph"
	"github.com/dshills/dapdebug/internal/scheduler"
)

func newTestEngine() (*Engine, *graph.Debugger) {
	d := graph.NewDebugger()
	sched := scheduler.New()
	return New(d, sched), d
}

func TestAddBreakpointIsIdempotentByLocation(t *testing.T) {
	e, _ := newTestEngine()
	loc := graph.Location{Path: "/a.go", Line: 10}

	bp1 := e.AddBreakpoint(loc, "", "", "")
	bp2 := e.AddBreakpoint(loc, "i > 1", "", "")

	if bp1 != bp2 {
		t.Fatal("expected the second AddBreakpoint at the same location to return the existing breakpoint")
	}
}

func TestToggleBreakpointAddsThenRemoves(t *testing.T) {
	e, d := newTestEngine()
	loc := graph.Location{Path: "/a.go", Line: 10}

	added := e.ToggleBreakpoint(loc)
	if added == nil {
		t.Fatal("expected Toggle to add a breakpoint the first time")
	}
	if d.Breakpoints.Len() != 1 {
		t.Fatalf("got %d breakpoints, want 1", d.Breakpoints.Len())
	}

	removed := e.ToggleBreakpoint(loc)
	if removed != nil {
		t.Fatal("expected Toggle to return nil when it removes an existing breakpoint")
	}
	if d.Breakpoints.Len() != 0 {
		t.Fatalf("got %d breakpoints, want 0", d.Breakpoints.Len())
	}
}

func TestRemoveBreakpointUnregistersFromDebugger(t *testing.T) {
	e, d := newTestEngine()
	bp := e.AddBreakpoint(graph.Location{Path: "/a.go", Line: 1}, "", "", "")
	e.RemoveBreakpoint(bp)

	if d.FindBreakpointByLocation(bp.Location) != nil {
		t.Error("expected the breakpoint to no longer be findable")
	}
}

func TestBreakpointsAtPathOrdersByLineColumnThenID(t *testing.T) {
	d := graph.NewDebugger()
	bpLine2 := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 2}, "", "", "")
	bpLine1Col2 := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 1, Column: 2}, "", "", "")
	bpLine1Col1 := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 1, Column: 1}, "", "", "")
	// different file: must not appear
	d.NewBreakpoint(graph.Location{Path: "/b.go", Line: 1}, "", "", "")

	got := breakpointsAtPath(d, "/a.go")
	want := []*graph.Breakpoint{bpLine1Col1, bpLine1Col2, bpLine2}

	if len(got) != len(want) {
		t.Fatalf("got %d breakpoints, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got breakpoint at %+v, want %+v", i, got[i].Location, want[i].Location)
		}
	}
}

func TestExistingBindingsKeysByBreakpointID(t *testing.T) {
	d := graph.NewDebugger()
	gs := d.NewSession("s1", nil)
	bp := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 1}, "", "", "")
	binding := gs.NewBinding(bp, dap.Breakpoint{ID: 1, Verified: true, Line: 1})

	existing := existingBindings(gs, "/a.go")
	got, ok := existing[bp.ID]
	if !ok || got != binding {
		t.Fatal("expected existingBindings to key by the owning breakpoint's id")
	}

	none := existingBindings(gs, "/other.go")
	if len(none) != 0 {
		t.Fatalf("got %d bindings for an unrelated path, want 0", len(none))
	}
}

func TestCurrentHitsReturnsOnlyHitBindings(t *testing.T) {
	d := graph.NewDebugger()
	gs := d.NewSession("s1", nil)
	bp1 := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 1}, "", "", "")
	bp2 := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 2}, "", "", "")
	b1 := gs.NewBinding(bp1, dap.Breakpoint{ID: 1, Verified: true, Line: 1})
	gs.NewBinding(bp2, dap.Breakpoint{ID: 2, Verified: true, Line: 2})

	b1.Hit.Set(true)

	hits := CurrentHits(gs)
	if len(hits) != 1 || hits[0] != b1 {
		t.Fatalf("got %v, want exactly [b1] hit", hits)
	}
}
