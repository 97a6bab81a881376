package breakpoint

import "github.com/dshills/dapdebug/internal/graph"

// CurrentHits returns every BreakpointBinding in gs currently marked hit.
// The mutation itself (mapping a stopped event's hitBreakpointIds, or
// falling back to the top-frame source+line polyfill when an adapter omits
// them) runs in graph.AttachSession's stopped handler, since it touches the
// Binding.Hit signal the graph package already owns; this is the read-side
// entry point for callers that just want "what's hit right now" (§4.8: at
// most one hit=true per session at a time).
func CurrentHits(gs *graph.Session) []*graph.BreakpointBinding {
	var hits []*graph.BreakpointBinding
	for _, b := range gs.BreakpointBindings.Iter() {
		if b.Hit.Get() {
			hits = append(hits, b)
		}
	}
	return hits
}
