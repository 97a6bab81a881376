package graph

import (
	"fmt"

	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/reactive"
)

// ExceptionFilter is one adapter-advertised exceptionBreakpointFilters
// entry, merged across every adapter capability set the Debugger has seen
// (SPEC_FULL.md §1.3's exception-filter-bootstrapping feature: the union
// grows as new adapter kinds connect, entries are never removed).
type ExceptionFilter struct {
	Entity

	Filter            string
	Label             string
	Description       string
	Default           bool
	SupportsCondition bool

	Bindings *reactive.Collection[*ExceptionFilterBinding]
}

func exceptionFilterURI(filter string) string { return fmt.Sprintf("/exceptionFilters:%s", filter) }

// MergeExceptionFilters folds a session's advertised filters into the
// debugger-wide union, creating any ExceptionFilter not already present.
// Existing entries are left untouched: label/description/default are
// taken from whichever adapter defined the filter first.
func (d *Debugger) MergeExceptionFilters(filters []dap.ExceptionBreakpointFilter) {
	for _, f := range filters {
		uri := exceptionFilterURI(f.Filter)
		if _, ok := d.ExceptionFilters.Get(uri); ok {
			continue
		}
		ef := &ExceptionFilter{
			Entity:            NewEntity(uri, "exceptionFilter", d.Scope()),
			Filter:            f.Filter,
			Label:             f.Label,
			Description:       f.Description,
			Default:           f.Default,
			SupportsCondition: f.SupportsCondition,
			Bindings:          reactive.NewCollection[*ExceptionFilterBinding](),
		}
		d.ExceptionFilters.Add(uri, ef)
	}
}

// ExceptionFilterBinding is one session's enabled/condition state for an
// ExceptionFilter, sent as part of setExceptionBreakpoints.
type ExceptionFilterBinding struct {
	Entity

	Session *Session
	Filter  *ExceptionFilter
	Enabled *reactive.Signal[bool]
	Condition *reactive.Signal[string]
}

func exceptionFilterBindingURI(sessionID, filter string) string {
	return fmt.Sprintf("%s/exceptionFilterBindings:%s", sessionURI(sessionID), filter)
}

// EnableFilter returns the session's binding for filter, creating it on
// first use with Enabled set to the filter's own Default.
func (s *Session) EnableFilter(ef *ExceptionFilter) *ExceptionFilterBinding {
	uri := exceptionFilterBindingURI(s.ID, ef.Filter)
	if existing, ok := s.ExceptionFilterBindings.Get(uri); ok {
		return existing
	}
	b := &ExceptionFilterBinding{
		Entity:    NewEntity(uri, "exceptionFilterBinding", s.Scope()),
		Session:   s,
		Filter:    ef,
		Enabled:   reactive.NewSignal(ef.Default),
		Condition: reactive.NewSignal(""),
	}
	s.ExceptionFilterBindings.Add(uri, b)
	ef.Bindings.Add(uri, b)
	return b
}

// ExceptionBreakpointsArgs builds the setExceptionBreakpoints arguments for every binding
// currently enabled in this session.
func (s *Session) ExceptionBreakpointsArgs() dap.SetExceptionBreakpointsArguments {
	var args dap.SetExceptionBreakpointsArguments
	for _, b := range s.ExceptionFilterBindings.Iter() {
		if !b.Enabled.Get() {
			continue
		}
		args.Filters = append(args.Filters, b.Filter.Filter)
		if b.Filter.SupportsCondition && b.Condition.Get() != "" {
			args.FilterOptions = append(args.FilterOptions, dap.ExceptionFilterOptions{
				FilterID:  b.Filter.Filter,
				Condition: b.Condition.Get(),
			})
		}
	}
	return args
}
