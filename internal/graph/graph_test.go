package graph

import (
	"testing"

	"github.com/dshills/dapdebug/internal/dap"
)

func dapBreakpoint(id int, verified bool, line int) dap.Breakpoint {
	return dap.Breakpoint{ID: id, Verified: verified, Line: line}
}

func TestNewBreakpointAssignsUUIDIdentity(t *testing.T) {
	d := NewDebugger()
	bp1 := d.NewBreakpoint(Location{Path: "/a.go", Line: 10}, "", "", "")
	bp2 := d.NewBreakpoint(Location{Path: "/a.go", Line: 20}, "", "", "")

	if bp1.ID == "" || bp2.ID == "" {
		t.Fatal("expected non-empty breakpoint ids")
	}
	if bp1.ID == bp2.ID {
		t.Fatal("expected distinct breakpoint ids")
	}
	if d.Breakpoints.Len() != 2 {
		t.Fatalf("got %d breakpoints, want 2", d.Breakpoints.Len())
	}
}

func TestFindBreakpointByLocation(t *testing.T) {
	d := NewDebugger()
	loc := Location{Path: "/a.go", Line: 5, Column: 1}
	bp := d.NewBreakpoint(loc, "", "", "")

	got := d.FindBreakpointByLocation(loc)
	if got != bp {
		t.Fatal("expected to find the breakpoint by its location")
	}

	miss := d.FindBreakpointByLocation(Location{Path: "/a.go", Line: 6})
	if miss != nil {
		t.Fatal("expected no match for a different location")
	}
}

func TestRemoveBreakpointDestroysEntity(t *testing.T) {
	d := NewDebugger()
	bp := d.NewBreakpoint(Location{Path: "/a.go", Line: 1}, "", "", "")
	d.RemoveBreakpoint(bp)

	if d.Breakpoints.Len() != 0 {
		t.Fatalf("got %d breakpoints, want 0", d.Breakpoints.Len())
	}
	if !bp.Destroyed() {
		t.Error("expected breakpoint entity to be destroyed")
	}
}

func TestNewBindingTracksBothBreakpointAndSession(t *testing.T) {
	d := NewDebugger()
	gs := d.NewSession("s1", nil)
	bp := d.NewBreakpoint(Location{Path: "/a.go", Line: 1}, "cond", "", "")

	binding := gs.NewBinding(bp, dapBreakpoint(3, true, 1))

	if binding.Breakpoint != bp {
		t.Error("expected binding to reference its breakpoint")
	}
	if bp.Bindings.Len() != 1 {
		t.Fatalf("got %d bindings on breakpoint, want 1", bp.Bindings.Len())
	}
	if gs.BreakpointBindings.Len() != 1 {
		t.Fatalf("got %d bindings on session, want 1", gs.BreakpointBindings.Len())
	}
}

func TestBindingRemoveClearsBothCollections(t *testing.T) {
	d := NewDebugger()
	gs := d.NewSession("s1", nil)
	bp := d.NewBreakpoint(Location{Path: "/a.go", Line: 1}, "", "", "")
	binding := gs.NewBinding(bp, dapBreakpoint(1, true, 1))

	binding.Remove()

	if bp.Bindings.Len() != 0 {
		t.Error("expected breakpoint's binding collection to be empty")
	}
	if gs.BreakpointBindings.Len() != 0 {
		t.Error("expected session's binding collection to be empty")
	}
}

func TestBreakpointEffectiveEnabled(t *testing.T) {
	d := NewDebugger()
	bp := d.NewBreakpoint(Location{Path: "/a.go", Line: 1}, "", "", "")
	if !bp.EffectiveEnabled() {
		t.Error("expected a new breakpoint to be enabled by default")
	}
	bp.Enabled.Set(false)
	if bp.EffectiveEnabled() {
		t.Error("expected EffectiveEnabled to reflect the Enabled signal")
	}
}

func TestBindingEffectiveEnabledFallsBackToBreakpoint(t *testing.T) {
	d := NewDebugger()
	gs := d.NewSession("s1", nil)
	bp := d.NewBreakpoint(Location{Path: "/a.go", Line: 1}, "", "", "")
	binding := gs.NewBinding(bp, dapBreakpoint(1, true, 1))

	if !binding.EffectiveEnabled() {
		t.Error("expected a binding with no override to follow the breakpoint's Enabled signal")
	}
	bp.Enabled.Set(false)
	if binding.EffectiveEnabled() {
		t.Error("expected the binding to reflect the breakpoint going disabled")
	}
}

func TestBindingEnabledOverrideTakesPrecedence(t *testing.T) {
	d := NewDebugger()
	gs := d.NewSession("s1", nil)
	bp := d.NewBreakpoint(Location{Path: "/a.go", Line: 1}, "", "", "")
	binding := gs.NewBinding(bp, dapBreakpoint(1, true, 1))

	disabled := false
	binding.EnabledOverride = &disabled
	if binding.EffectiveEnabled() {
		t.Error("expected EnabledOverride=false to suppress an otherwise-enabled breakpoint")
	}

	bp.Enabled.Set(false)
	enabled := true
	binding.EnabledOverride = &enabled
	if !binding.EffectiveEnabled() {
		t.Error("expected EnabledOverride=true to reintroduce an otherwise-disabled breakpoint")
	}
}

func TestNewConfigGetsDistinctIDAndName(t *testing.T) {
	d := NewDebugger()
	c1 := d.NewConfig("launch.json:debug")
	c2 := d.NewConfig("launch.json:debug")

	if c1.Name != c2.Name {
		t.Fatal("expected both configs to share the same Name")
	}
	if c1.ID == c2.ID {
		t.Fatal("expected distinct Config ids even with identical names")
	}
	if c1.URI() == c2.URI() {
		t.Fatal("expected distinct Config URIs, since URIs key on id not name")
	}
}
