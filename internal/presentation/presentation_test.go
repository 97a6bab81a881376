package presentation

import (
	"context"
	"testing"

	"github.com/dshills/dapdebug/internal/breakpoint"
	"github.com/dshills/dapdebug/internal/graph"
	"github.com/dshills/dapdebug/internal/scheduler"
)

func TestRegisterAndLookupRenderer(t *testing.T) {
	r := NewRegistry()
	r.RegisterRenderer("title", "widget", func(e interface{}) Segment {
		return Segment{Text: "hello"}
	})

	fn, ok := r.Renderer("title", "widget")
	if !ok {
		t.Fatal("expected renderer to be found")
	}
	seg := fn(nil)
	if seg.Text != "hello" {
		t.Fatalf("got %q, want hello", seg.Text)
	}

	if _, ok := r.Renderer("title", "other"); ok {
		t.Error("expected no renderer for a different entity type")
	}
}

func TestRenderAppliesSlotDecoration(t *testing.T) {
	r := NewRegistry()
	r.RegisterRenderer("title", "widget", func(e interface{}) Segment {
		return Segment{Text: "abc"}
	})

	out := r.Render([]Slot{{Name: "title", Prefix: "[", Suffix: "]"}}, "widget", nil)
	if len(out) != 1 || out[0].Text != "[abc]" {
		t.Fatalf("got %+v, want [abc]", out)
	}
}

func TestRenderTruncatesLongText(t *testing.T) {
	r := NewRegistry()
	r.RegisterRenderer("title", "widget", func(e interface{}) Segment {
		return Segment{Text: "abcdefgh"}
	})

	out := r.Render([]Slot{{Name: "title", Truncate: 4}}, "widget", nil)
	if len(out) != 1 {
		t.Fatalf("got %d segments, want 1", len(out))
	}
	if out[0].Text != "abcd…" {
		t.Fatalf("got %q, want truncated with ellipsis", out[0].Text)
	}
}

func TestBaselineSessionRenderers(t *testing.T) {
	r := NewRegistry()
	InstallBaseline(r)

	d := graph.NewDebugger()
	gs := d.NewSession("s1", nil)
	gs.Name.Set("my session")

	titleFn, ok := r.Renderer("title", "session")
	if !ok {
		t.Fatal("expected a baseline session title renderer")
	}
	if got := titleFn(gs).Text; got != "my session" {
		t.Fatalf("got %q, want %q", got, "my session")
	}

	idFn, _ := r.Renderer("id", "session")
	if got := idFn(gs).Text; got != gs.ID {
		t.Fatalf("got %q, want %q", got, gs.ID)
	}
}

func TestBaselineBreakpointLocationRenderer(t *testing.T) {
	r := NewRegistry()
	InstallBaseline(r)

	d := graph.NewDebugger()
	bp := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 42}, "", "", "")

	fn, ok := r.Renderer("location", "breakpoint")
	if !ok {
		t.Fatal("expected a baseline breakpoint location renderer")
	}
	if got := fn(bp).Text; got != "/a.go:42" {
		t.Fatalf("got %q, want /a.go:42", got)
	}
}

func TestInstallBreakpointActionsToggleEnable(t *testing.T) {
	d := graph.NewDebugger()
	sched := scheduler.New()
	engine := breakpoint.New(d, sched)
	bp := engine.AddBreakpoint(graph.Location{Path: "/a.go", Line: 1}, "", "", "")

	r := NewRegistry()
	InstallBreakpointActions(r, engine)

	disable, ok := r.Action("disable", "breakpoint")
	if !ok {
		t.Fatal("expected a baseline disable action for breakpoints")
	}
	if err := disable(context.Background(), bp); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if bp.EffectiveEnabled() {
		t.Error("expected the breakpoint to be disabled")
	}

	enable, _ := r.Action("enable", "breakpoint")
	if err := enable(context.Background(), bp); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if !bp.EffectiveEnabled() {
		t.Error("expected the breakpoint to be re-enabled")
	}
}

func TestInstallBreakpointActionsEditCondition(t *testing.T) {
	d := graph.NewDebugger()
	sched := scheduler.New()
	engine := breakpoint.New(d, sched)
	bp := engine.AddBreakpoint(graph.Location{Path: "/a.go", Line: 1}, "", "", "")

	r := NewRegistry()
	InstallBreakpointActions(r, engine)

	editCondition, ok := r.Action("edit_condition", "breakpoint")
	if !ok {
		t.Fatal("expected an edit_condition action")
	}
	ctx := WithInput(context.Background(), "x > 10")
	if err := editCondition(ctx, bp); err != nil {
		t.Fatalf("edit_condition: %v", err)
	}
	if bp.Condition.Get() != "x > 10" {
		t.Fatalf("got condition %q, want %q", bp.Condition.Get(), "x > 10")
	}
}

func TestInstallBreakpointActionsRemove(t *testing.T) {
	d := graph.NewDebugger()
	sched := scheduler.New()
	engine := breakpoint.New(d, sched)
	bp := engine.AddBreakpoint(graph.Location{Path: "/a.go", Line: 1}, "", "", "")

	r := NewRegistry()
	InstallBreakpointActions(r, engine)

	remove, _ := r.Action("remove", "breakpoint")
	if err := remove(context.Background(), bp); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if d.FindBreakpointByLocation(bp.Location) != nil {
		t.Error("expected the breakpoint to be gone after remove")
	}
}
