package breakpoint

import (
	"sort"

	"github.com/dshills/dapdebug/internal/graph"
)

// sessionHasSource reports whether gs has bound src (i.e. the debuggee has
// loaded that file in this session), the precondition for scheduling a
// sync against it.
func sessionHasSource(gs *graph.Session, src *graph.Source) bool {
	for _, b := range gs.SourceBindings.Iter() {
		if b.Source.Key == src.Key {
			return true
		}
	}
	return false
}

// breakpointsAtPath returns every Breakpoint located in path, ordered
// deterministically by (line, column, id) as §4.8's sync algorithm
// requires.
func breakpointsAtPath(d *graph.Debugger, path string) []*graph.Breakpoint {
	var bps []*graph.Breakpoint
	for _, bp := range d.Breakpoints.Iter() {
		if bp.Location.Path == path {
			bps = append(bps, bp)
		}
	}
	sort.Slice(bps, func(i, j int) bool {
		a, b := bps[i], bps[j]
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		if a.Location.Column != b.Location.Column {
			return a.Location.Column < b.Location.Column
		}
		return a.ID < b.ID
	})
	return bps
}

// existingBindings returns gs's current BreakpointBindings for path, keyed
// by the owning Breakpoint's id.
func existingBindings(gs *graph.Session, path string) map[string]*graph.BreakpointBinding {
	out := make(map[string]*graph.BreakpointBinding)
	for _, b := range gs.BreakpointBindings.Iter() {
		if b.Breakpoint.Location.Path == path {
			out[b.Breakpoint.ID] = b
		}
	}
	return out
}
