package presentation

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/text/width"
)

// Segment is a styled run of text, or a group of them (§4.9).
type Segment struct {
	Text      string
	Highlight string
	Segments  []Segment
}

// RendererFunc renders entity into a Segment. Renderers are pure: no I/O,
// no host calls, just a read of the entity's current reactive state.
type RendererFunc func(entity interface{}) Segment

// ActionFunc performs one baseline action against entity. ctx carries
// cancellation plus, for actions that need more than the entity itself
// (edit_condition and friends), free-form input attached with WithInput.
type ActionFunc func(ctx context.Context, entity interface{}) error

type registryKey struct {
	Name       string
	EntityType string
}

// Registry holds every installed renderer and action, keyed by
// (name, entityType). Installing the same key twice overwrites it, making
// repeated Install calls idempotent.
type Registry struct {
	mu        sync.RWMutex
	renderers map[registryKey]RendererFunc
	actions   map[registryKey]ActionFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[registryKey]RendererFunc),
		actions:   make(map[registryKey]ActionFunc),
	}
}

// RegisterRenderer installs (or overwrites) the renderer for (name, entityType).
func (r *Registry) RegisterRenderer(name, entityType string, fn RendererFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[registryKey{name, entityType}] = fn
}

// RegisterAction installs (or overwrites) the action for (name, entityType).
func (r *Registry) RegisterAction(name, entityType string, fn ActionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[registryKey{name, entityType}] = fn
}

// Renderer looks up the renderer for (name, entityType).
func (r *Registry) Renderer(name, entityType string) (RendererFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.renderers[registryKey{name, entityType}]
	return fn, ok
}

// Action looks up the action for (name, entityType).
func (r *Registry) Action(name, entityType string) (ActionFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.actions[registryKey{name, entityType}]
	return fn, ok
}

// Slot is one named position in a Layout, with optional decoration.
type Slot struct {
	Name     string
	Prefix   string
	Suffix   string
	Truncate int
	Cursor   bool
}

// Render evaluates layout against entity (of the given entityType),
// skipping slots with no registered renderer.
func (r *Registry) Render(layout []Slot, entityType string, entity interface{}) []Segment {
	out := make([]Segment, 0, len(layout))
	for _, slot := range layout {
		fn, ok := r.Renderer(slot.Name, entityType)
		if !ok {
			continue
		}
		seg := fn(entity)
		if slot.Prefix != "" {
			seg.Text = slot.Prefix + seg.Text
		}
		if slot.Suffix != "" {
			seg.Text += slot.Suffix
		}
		if slot.Truncate > 0 {
			seg.Text = truncateDisplay(seg.Text, slot.Truncate)
		}
		if slot.Cursor {
			seg.Highlight = withCursor(seg.Highlight)
		}
		out = append(out, seg)
	}
	return out
}

// truncateDisplay keeps at most max display cells of s, accounting for
// double-width (East Asian wide/fullwidth) runes, and appends an ellipsis
// after them when it cuts anything.
func truncateDisplay(s string, max int) string {
	w := 0
	var b strings.Builder
	for _, r := range s {
		rw := 1
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			rw = 2
		}
		if w+rw > max {
			b.WriteRune('…')
			return b.String()
		}
		w += rw
		b.WriteRune(r)
	}
	return b.String()
}

func withCursor(highlight string) string {
	if highlight == "" {
		return "cursor"
	}
	return highlight + ",cursor"
}
