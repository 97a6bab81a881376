package presentation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/dapdebug/internal/graph"
	"github.com/tidwall/pretty"
)

// InstallBaseline registers the core renderer set described in §4.9: icons
// per state, titles, ids, counts, conditions, locations, and tokenised
// output pretty-printing. Re-running it is safe (Registry overwrites).
func InstallBaseline(r *Registry) {
	installSessionRenderers(r)
	installThreadRenderers(r)
	installBreakpointRenderers(r)
	installVariableRenderers(r)
	installOutputRenderers(r)
	installSourceRenderers(r)
}

func installSessionRenderers(r *Registry) {
	r.RegisterRenderer("icon", "session", func(e interface{}) Segment {
		s := e.(*graph.Session)
		switch s.State.Get() {
		case graph.SessionRunning:
			return Segment{Text: "▶", Highlight: "DapSessionRunning"}
		case graph.SessionStopped:
			return Segment{Text: "⏸", Highlight: "DapSessionStopped"}
		case graph.SessionTerminated:
			return Segment{Text: "■", Highlight: "DapSessionTerminated"}
		default:
			return Segment{Text: "…", Highlight: "DapSessionStarting"}
		}
	})
	r.RegisterRenderer("title", "session", func(e interface{}) Segment {
		return Segment{Text: e.(*graph.Session).Name.Get()}
	})
	r.RegisterRenderer("id", "session", func(e interface{}) Segment {
		return Segment{Text: e.(*graph.Session).ID, Highlight: "DapID"}
	})
	r.RegisterRenderer("count", "session", func(e interface{}) Segment {
		s := e.(*graph.Session)
		return Segment{Text: fmt.Sprintf("%d threads", s.Threads.Len())}
	})
}

func installThreadRenderers(r *Registry) {
	r.RegisterRenderer("icon", "thread", func(e interface{}) Segment {
		t := e.(*graph.Thread)
		if t.State.Get() == graph.ThreadStopped {
			return Segment{Text: "⏸", Highlight: "DapThreadStopped"}
		}
		return Segment{Text: "▶", Highlight: "DapThreadRunning"}
	})
	r.RegisterRenderer("title", "thread", func(e interface{}) Segment {
		return Segment{Text: e.(*graph.Thread).Name.Get()}
	})
	r.RegisterRenderer("id", "thread", func(e interface{}) Segment {
		return Segment{Text: fmt.Sprintf("%d", e.(*graph.Thread).ID), Highlight: "DapID"}
	})
	r.RegisterRenderer("condition", "thread", func(e interface{}) Segment {
		t := e.(*graph.Thread)
		if reason := t.LastStoppedReason.Get(); reason != "" {
			return Segment{Text: reason}
		}
		return Segment{}
	})

	r.RegisterRenderer("title", "frame", func(e interface{}) Segment {
		return Segment{Text: e.(*graph.Frame).Name.Get()}
	})
	r.RegisterRenderer("location", "frame", func(e interface{}) Segment {
		f := e.(*graph.Frame)
		src := f.Source.Get()
		name := ""
		if src != nil {
			name = src.Path
			if name == "" {
				name = src.Name.Get()
			}
		}
		return Segment{Text: fmt.Sprintf("%s:%d", name, f.Line.Get())}
	})
}

func installBreakpointRenderers(r *Registry) {
	r.RegisterRenderer("icon", "breakpoint", func(e interface{}) Segment {
		bp := e.(*graph.Breakpoint)
		if !bp.Enabled.Get() {
			return Segment{Text: "○", Highlight: "DapBreakpointDisabled"}
		}
		return Segment{Text: "●", Highlight: "DapBreakpointEnabled"}
	})
	r.RegisterRenderer("location", "breakpoint", func(e interface{}) Segment {
		bp := e.(*graph.Breakpoint)
		return Segment{Text: fmt.Sprintf("%s:%d", bp.Location.Path, bp.Location.Line)}
	})
	r.RegisterRenderer("condition", "breakpoint", func(e interface{}) Segment {
		bp := e.(*graph.Breakpoint)
		var parts []Segment
		if c := bp.Condition.Get(); c != "" {
			parts = append(parts, Segment{Text: "if " + c})
		}
		if h := bp.HitCondition.Get(); h != "" {
			parts = append(parts, Segment{Text: "hit " + h})
		}
		if l := bp.LogMessage.Get(); l != "" {
			parts = append(parts, Segment{Text: "log " + l})
		}
		if len(parts) == 0 {
			return Segment{}
		}
		return Segment{Segments: parts}
	})
	r.RegisterRenderer("count", "breakpoint", func(e interface{}) Segment {
		bp := e.(*graph.Breakpoint)
		return Segment{Text: fmt.Sprintf("%d sessions", bp.Bindings.Len())}
	})

	r.RegisterRenderer("icon", "breakpointBinding", func(e interface{}) Segment {
		b := e.(*graph.BreakpointBinding)
		switch {
		case b.Hit.Get():
			return Segment{Text: "●", Highlight: "DapBreakpointHit"}
		case b.Verified.Get():
			return Segment{Text: "●", Highlight: "DapBreakpointVerified"}
		default:
			return Segment{Text: "◌", Highlight: "DapBreakpointUnverified"}
		}
	})
	r.RegisterRenderer("location", "breakpointBinding", func(e interface{}) Segment {
		b := e.(*graph.BreakpointBinding)
		return Segment{Text: fmt.Sprintf("%s:%d", b.Breakpoint.Location.Path, b.ActualLine.Get())}
	})
	r.RegisterRenderer("condition", "breakpointBinding", func(e interface{}) Segment {
		b := e.(*graph.BreakpointBinding)
		if msg := b.Message.Get(); msg != "" {
			return Segment{Text: msg}
		}
		return Segment{}
	})
}

func installVariableRenderers(r *Registry) {
	r.RegisterRenderer("title", "variable", func(e interface{}) Segment {
		return Segment{Text: e.(*graph.Variable).Name}
	})
	r.RegisterRenderer("condition", "variable", func(e interface{}) Segment {
		return Segment{Text: e.(*graph.Variable).Value.Get(), Highlight: "DapValue"}
	})
	r.RegisterRenderer("count", "variable", func(e interface{}) Segment {
		v := e.(*graph.Variable)
		if n := v.Children.Len(); n > 0 {
			return Segment{Text: fmt.Sprintf("%d", n)}
		}
		return Segment{}
	})

	r.RegisterRenderer("title", "scope", func(e interface{}) Segment {
		return Segment{Text: e.(*graph.Scope).Name}
	})
}

func installOutputRenderers(r *Registry) {
	r.RegisterRenderer("output", "output", func(e interface{}) Segment {
		o := e.(*graph.Output)
		return Segment{Text: prettyOutput(o.Text), Highlight: categoryHighlight(o.Category)}
	})
}

// prettyOutput tokenises JSON-looking output text with tidwall/pretty so
// structured adapter output (e.g. a logged struct) reads as indented JSON
// rather than one long line; anything else passes through untouched.
func prettyOutput(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return text
	}
	if !json.Valid([]byte(trimmed)) {
		return text
	}
	return string(pretty.Pretty([]byte(trimmed)))
}

func categoryHighlight(category string) string {
	switch category {
	case "stderr":
		return "DapOutputStderr"
	case "important":
		return "DapOutputImportant"
	default:
		return "DapOutputStdout"
	}
}

func installSourceRenderers(r *Registry) {
	r.RegisterRenderer("title", "source", func(e interface{}) Segment {
		s := e.(*graph.Source)
		if name := s.Name.Get(); name != "" {
			return Segment{Text: name}
		}
		return Segment{Text: s.Path}
	})
}
