package graph

import (
	"fmt"

	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/reactive"
)

// Location identifies where a Breakpoint is set. Two Breakpoints at the
// same Location are the same Breakpoint (§3: "equal-by-location if
// path/line/column match").
type Location struct {
	Path   string
	Line   int
	Column int
}

// Breakpoint is user intent: a location plus optional condition, hit
// condition, and log message, independent of any session (§4.8).
type Breakpoint struct {
	Entity

	ID           string
	Location     Location
	Condition    *reactive.Signal[string]
	HitCondition *reactive.Signal[string]
	LogMessage   *reactive.Signal[string]
	Enabled      *reactive.Signal[bool]

	Bindings *reactive.Collection[*BreakpointBinding]
}

// EffectiveEnabled is whether the breakpoint should currently be sent to
// adapters at all (§4.8: "do not send to adapter" when disabled).
func (b *Breakpoint) EffectiveEnabled() bool { return b.Enabled.Get() }

// ToDAPBreakpoint builds the SourceBreakpoint to send when no existing
// Binding is present yet — uses the requested line/column.
func (b *Breakpoint) ToDAPBreakpoint() dap.SourceBreakpoint {
	return dap.SourceBreakpoint{
		Line:         b.Location.Line,
		Column:       b.Location.Column,
		Condition:    b.Condition.Get(),
		HitCondition: b.HitCondition.Get(),
		LogMessage:   b.LogMessage.Get(),
	}
}

func breakpointURI(id string) string { return fmt.Sprintf("/breakpoints:%s", id) }

// FindBreakpointByLocation returns the existing Breakpoint at loc, if any.
func (d *Debugger) FindBreakpointByLocation(loc Location) *Breakpoint {
	for _, bp := range d.Breakpoints.Iter() {
		if bp.Location == loc {
			return bp
		}
	}
	return nil
}

// NewBreakpoint allocates and registers a new Breakpoint at loc.
func (d *Debugger) NewBreakpoint(loc Location, condition, hitCondition, logMessage string) *Breakpoint {
	id := d.NextBreakpointID()
	bp := &Breakpoint{
		Entity:       NewEntity(breakpointURI(id), "breakpoint", d.Scope()),
		ID:           id,
		Location:     loc,
		Condition:    reactive.NewSignal(condition),
		HitCondition: reactive.NewSignal(hitCondition),
		LogMessage:   reactive.NewSignal(logMessage),
		Enabled:      reactive.NewSignal(true),
		Bindings:     reactive.NewCollection[*BreakpointBinding](),
	}
	d.Breakpoints.Add(bp.URI(), bp)
	return bp
}

// RemoveBreakpoint destroys bp and all its per-session bindings.
func (d *Debugger) RemoveBreakpoint(bp *Breakpoint) {
	d.Breakpoints.Remove(bp.URI())
	for _, b := range bp.Bindings.Iter() {
		b.Remove()
	}
	bp.Destroy()
}

// BreakpointBinding is the adapter's per-session view of a Breakpoint.
type BreakpointBinding struct {
	Entity

	Session      *Session
	Breakpoint   *Breakpoint
	AdapterID    int
	Verified     *reactive.Signal[bool]
	ActualLine   *reactive.Signal[int]
	ActualColumn *reactive.Signal[int]
	Message      *reactive.Signal[string]
	Hit          *reactive.Signal[bool]

	// Overrides, when non-nil, take precedence over the Breakpoint's own
	// values for this session only.
	ConditionOverride    *string
	HitConditionOverride *string
	LogMessageOverride   *string
	EnabledOverride      *bool
}

func bindingURI(sessionID, breakpointID string) string {
	return fmt.Sprintf("%s/bindings:%s", sessionURI(sessionID), breakpointID)
}

// NewBinding creates (or replaces) the BreakpointBinding for bp in session.
func (s *Session) NewBinding(bp *Breakpoint, dapBp dap.Breakpoint) *BreakpointBinding {
	uri := bindingURI(s.ID, bp.ID)
	b := &BreakpointBinding{
		Entity:       NewEntity(uri, "breakpointBinding", s.Scope()),
		Session:      s,
		Breakpoint:   bp,
		AdapterID:    dapBp.ID,
		Verified:     reactive.NewSignal(dapBp.Verified),
		ActualLine:   reactive.NewSignal(dapBp.Line),
		ActualColumn: reactive.NewSignal(dapBp.Column),
		Message:      reactive.NewSignal(dapBp.Message),
		Hit:          reactive.NewSignal(false),
	}
	s.BreakpointBindings.Add(uri, b)
	bp.Bindings.Add(uri, b)
	return b
}

// Update refreshes a binding from a subsequent setBreakpoints response (may
// emit Updated to subscribers via the underlying signals).
func (b *BreakpointBinding) Update(dapBp dap.Breakpoint) {
	b.AdapterID = dapBp.ID
	b.Verified.Set(dapBp.Verified)
	b.ActualLine.Set(dapBp.Line)
	b.ActualColumn.Set(dapBp.Column)
	b.Message.Set(dapBp.Message)
}

// Remove tears down the binding from both its session and its breakpoint's
// collections.
func (b *BreakpointBinding) Remove() {
	b.Session.BreakpointBindings.Remove(b.URI())
	b.Breakpoint.Bindings.Remove(b.URI())
	b.Destroy()
}

// ToDAPBreakpoint builds the SourceBreakpoint to send for a breakpoint that
// already has a binding — preserves actualLine/Column so adapters that
// key off the previously-verified location keep tracking it.
func (b *BreakpointBinding) ToDAPBreakpoint() dap.SourceBreakpoint {
	bp := b.Breakpoint
	line := b.ActualLine.Get()
	if line == 0 {
		line = bp.Location.Line
	}
	sb := dap.SourceBreakpoint{
		Line:         line,
		Column:       b.ActualColumn.Get(),
		Condition:    bp.Condition.Get(),
		HitCondition: bp.HitCondition.Get(),
		LogMessage:   bp.LogMessage.Get(),
	}
	if b.ConditionOverride != nil {
		sb.Condition = *b.ConditionOverride
	}
	if b.HitConditionOverride != nil {
		sb.HitCondition = *b.HitConditionOverride
	}
	if b.LogMessageOverride != nil {
		sb.LogMessage = *b.LogMessageOverride
	}
	return sb
}

// ClearHit clears this binding's hit flag, if set.
func (b *BreakpointBinding) ClearHit() {
	if b.Hit.Get() {
		b.Hit.Set(false)
	}
}

// EffectiveEnabled is like Breakpoint.EffectiveEnabled but honors this
// binding's per-session EnabledOverride when set, so an override can
// suppress or reintroduce the breakpoint for this session alone (§4.8).
func (b *BreakpointBinding) EffectiveEnabled() bool {
	if b.EnabledOverride != nil {
		return *b.EnabledOverride
	}
	return b.Breakpoint.EffectiveEnabled()
}
