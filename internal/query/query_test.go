package query

import (
	"testing"

	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/graph"
)

func TestParseSimplePath(t *testing.T) {
	u, err := Parse("/sessions/threads")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(u.Segments) != 2 || u.Segments[0].Edge != "sessions" || u.Segments[1].Edge != "threads" {
		t.Fatalf("unexpected segments: %+v", u.Segments)
	}
}

func TestQueryAllReturnsEveryBreakpoint(t *testing.T) {
	d := graph.NewDebugger()
	bp1 := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 1}, "", "", "")
	bp2 := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 2}, "", "", "")

	got, err := QueryAll(d, "/breakpoints")
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	seen := map[interface{}]bool{got[0]: true, got[1]: true}
	if !seen[bp1] || !seen[bp2] {
		t.Fatal("expected both breakpoints in the result set")
	}
}

func TestQueryByKeySelector(t *testing.T) {
	d := graph.NewDebugger()
	bp := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 1}, "", "", "")
	d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 2}, "", "", "")

	got, err := Query(d, "/breakpoints:"+bp.ID)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got != bp {
		t.Fatalf("got %v, want the breakpoint with id %s", got, bp.ID)
	}
}

func TestQueryByPropFilter(t *testing.T) {
	d := graph.NewDebugger()
	d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 1}, "x > 1", "", "")
	bp2 := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 2}, "y > 2", "", "")

	got, err := QueryAll(d, `/breakpoints(condition=y*)`)
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(got) != 1 || got[0] != bp2 {
		t.Fatalf("got %v, want exactly [bp2] matching the glob filter", got)
	}
}

func TestQueryIndexSelector(t *testing.T) {
	d := graph.NewDebugger()
	bp1 := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 1}, "", "", "")
	d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 2}, "", "", "")

	got, err := Query(d, "/breakpoints[0]")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got != bp1 {
		t.Fatal("expected index 0 to select the first-inserted breakpoint")
	}
}

func TestQueryUnknownEdgeReturnsEmpty(t *testing.T) {
	d := graph.NewDebugger()
	got, err := QueryAll(d, "/nonexistent")
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want no results for an unknown edge", got)
	}
}

func TestQueryByLineColumnFilter(t *testing.T) {
	d := graph.NewDebugger()
	d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 1}, "", "", "")
	bp2 := d.NewBreakpoint(graph.Location{Path: "/a.go", Line: 2, Column: 5}, "", "", "")

	got, err := QueryAll(d, "/breakpoints(line=2)")
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(got) != 1 || got[0] != bp2 {
		t.Fatalf("got %v, want exactly [bp2] matching line=2", got)
	}

	got, err = QueryAll(d, "/breakpoints(column=5)")
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(got) != 1 || got[0] != bp2 {
		t.Fatalf("got %v, want exactly [bp2] matching column=5", got)
	}
}

// setupStoppedThread builds a session with one thread, stops it with a
// one-frame stack, and focuses that thread, so a `stack`/`frames` traversal
// has something to resolve.
func setupStoppedThread(d *graph.Debugger) (*graph.Session, *graph.Thread, *graph.Frame) {
	gs := d.NewSession("s1", nil)
	th := gs.NewThread(1, "main")
	th.MarkStopped("breakpoint", nil)
	st := th.NewStack()
	f := st.AddFrame(0, dap.StackFrame{Name: "main.main", Line: 10})
	d.Focus.Set(th)
	return gs, th, f
}

func TestQueryTraversesStackAndFrameSignalEdges(t *testing.T) {
	d := graph.NewDebugger()
	_, _, f := setupStoppedThread(d)

	got, err := QueryAll(d, "@thread/stack/frames")
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(got) != 1 || got[0] != f {
		t.Fatalf("got %v, want the stopped thread's single frame", got)
	}
}

func TestQueryStackIsEmptyWhileRunning(t *testing.T) {
	d := graph.NewDebugger()
	gs := d.NewSession("s1", nil)
	th := gs.NewThread(1, "main")
	d.Focus.Set(th)

	got, err := QueryAll(d, "@thread/stack/frames")
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want no frames for a running thread with no stack", got)
	}
}

func TestWatchReevaluatesOnStateSignalChange(t *testing.T) {
	d := graph.NewDebugger()
	gs := d.NewSession("s1", nil)
	gs.State.Set(graph.SessionStopped)

	sig, unsubscribe := Watch(d, "/sessions(state=stopped)")
	defer unsubscribe()

	if got := sig.Get(); len(got) != 1 || got[0] != gs {
		t.Fatalf("got %v, want [gs] while state=stopped", got)
	}

	gs.State.Set(graph.SessionRunning)
	if got := sig.Get(); len(got) != 0 {
		t.Fatalf("got %v, want no matches once the session resumed", got)
	}

	gs.State.Set(graph.SessionStopped)
	if got := sig.Get(); len(got) != 1 || got[0] != gs {
		t.Fatalf("got %v, want [gs] again after stopping a second time", got)
	}
}

func TestWatchReevaluatesOnStackSignalFlip(t *testing.T) {
	d := graph.NewDebugger()
	gs := d.NewSession("s1", nil)
	th := gs.NewThread(1, "main")
	d.Focus.Set(th)

	sig, unsubscribe := Watch(d, "@thread/stack/frames")
	defer unsubscribe()

	if got := sig.Get(); len(got) != 0 {
		t.Fatalf("got %v, want no frames before the thread ever stops", got)
	}

	th.MarkStopped("breakpoint", nil)
	st := th.NewStack()
	f := st.AddFrame(0, dap.StackFrame{Name: "main.main", Line: 10})
	if got := sig.Get(); len(got) != 1 || got[0] != f {
		t.Fatalf("got %v, want [f] once the thread stops with a frame", got)
	}

	th.MarkContinued()
	if got := sig.Get(); len(got) != 0 {
		t.Fatalf("got %v, want no frames after resuming", got)
	}
}
