package graph

import (
	"fmt"
	"strconv"

	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/reactive"
)

// Source is a debuggee source file, identified by path when one is given
// and falling back to sourceReference only for path-less sources
// (SPEC_FULL.md §9's Source-identity decision, since sourceReference can
// change between stops while path is stable).
type Source struct {
	Entity

	Key     string
	Path    string
	Name    *reactive.Signal[string]
	Content *reactive.Signal[string]
	Raw     *reactive.Signal[dap.Source]
}

// SourceKey canonicalizes a dap.Source to its identity key.
func SourceKey(src dap.Source) string {
	if src.Path != "" {
		return src.Path
	}
	return "ref:" + strconv.Itoa(src.SourceReference)
}

// SourceBinding links a Source into a Session (Sources are session-bound
// through this join entity).
type SourceBinding struct {
	Entity

	Session *Session
	Source  *Source
}

// Sources returns the debugger-wide Source collection, keyed process-wide
// by SourceKey (exposed as a method, not a field, since it lazily
// initializes on first use).
func (d *Debugger) Sources() *reactive.Collection[*Source] {
	return d.sourcesCollection()
}

// sources is keyed process-wide by SourceKey so that the same file seen in
// two sessions (or two stack frames) merges onto one Source entity, per
// §4.6 point 1 ("create (or merge by path/sourceReference)").
func (d *Debugger) sourcesCollection() *reactive.Collection[*Source] {
	if d.sources == nil {
		d.sources = reactive.NewCollection[*Source]()
	}
	return d.sources
}

// ResolveSource returns the existing Source for raw, creating it if this is
// the first time it has been seen.
func (d *Debugger) ResolveSource(raw dap.Source) *Source {
	key := SourceKey(raw)
	uri := "/sources:" + key
	if existing, ok := d.sourcesCollection().Get(uri); ok {
		existing.Raw.Set(raw)
		if raw.Name != "" {
			existing.Name.Set(raw.Name)
		}
		return existing
	}
	src := &Source{
		Entity:  NewEntity(uri, "source", d.Scope()),
		Key:     key,
		Path:    raw.Path,
		Name:    reactive.NewSignal(raw.Name),
		Content: reactive.NewSignal(""),
		Raw:     reactive.NewSignal(raw),
	}
	d.sourcesCollection().Add(uri, src)
	return src
}

// BindSource attaches src to the session (creating the SourceBinding if
// absent) and returns it.
func (s *Session) BindSource(src *Source) *SourceBinding {
	uri := fmt.Sprintf("%s/sourceBindings:%s", s.URI(), src.Key)
	if existing, ok := s.SourceBindings.Get(uri); ok {
		return existing
	}
	b := &SourceBinding{
		Entity:  NewEntity(uri, "sourceBinding", s.Scope()),
		Session: s,
		Source:  src,
	}
	s.SourceBindings.Add(uri, b)
	return b
}
