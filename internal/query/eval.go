package query

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dshills/dapdebug/internal/graph"
	"github.com/tidwall/match"
)

// AnyCollection type-erases reactive.Collection[T] so traversal can walk a
// graph edge without knowing T at compile time.
type AnyCollection interface {
	ItemsAny() []interface{}
	EachAny(onAdded func(item interface{}) (cleanup func())) (unsubscribe func())
}

type entity interface{ URI() string }

// Query evaluates url once and returns the first match, or nil if none.
func Query(d *graph.Debugger, url string) (interface{}, error) {
	results, err := QueryAll(d, url)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return results[0], nil
}

// QueryAll evaluates url once and returns every match.
func QueryAll(d *graph.Debugger, url string) ([]interface{}, error) {
	ast, err := Parse(url)
	if err != nil {
		return nil, err
	}
	return evalAST(d, ast, nil)
}

// evalAST walks the parsed URL against d. When onChange is non-nil it is
// attached to every collection visited along the way (via EachAny, which
// auto-registers with the active reactive.Scope), so Watch can invalidate
// as soon as any of them mutates.
func evalAST(d *graph.Debugger, u *URL, onChange func()) ([]interface{}, error) {
	current, err := resolveRoot(d, u, onChange)
	if err != nil {
		return nil, err
	}
	for _, seg := range u.Segments {
		var next []interface{}
		for _, item := range current {
			edge, ok := resolveEdge(item, seg.Edge)
			if !ok {
				continue
			}
			items := edge.ItemsAny()
			if onChange != nil {
				edge.EachAny(func(interface{}) func() { onChange(); return nil })
			}
			next = append(next, applySelectors(items, seg.Selectors, onChange)...)
		}
		current = next
	}
	return current, nil
}

func resolveRoot(d *graph.Debugger, u *URL, onChange func()) ([]interface{}, error) {
	if u.Context == nil {
		return []interface{}{d}, nil
	}
	if onChange != nil {
		d.Focus.Use(func(graph.Focusable) func() { onChange(); return nil })
	}
	switch u.Context.Name {
	case "debugger":
		return []interface{}{d}, nil
	case "session":
		s := focusSession(d)
		if s == nil {
			return nil, nil
		}
		return []interface{}{s}, nil
	case "thread":
		t := focusThread(d)
		if t == nil {
			return nil, nil
		}
		return []interface{}{t}, nil
	case "stack":
		t := focusThread(d)
		if t == nil {
			return nil, nil
		}
		st := t.CurrentStack.Get()
		if st == nil {
			return nil, nil
		}
		return []interface{}{st}, nil
	case "frame":
		f := focusFrame(d)
		if f == nil {
			return nil, nil
		}
		if u.Context.Offset != 0 {
			f = frameAtOffset(f, u.Context.Offset)
			if f == nil {
				return nil, nil
			}
		}
		return []interface{}{f}, nil
	default:
		return nil, fmt.Errorf("query: unknown context %q", u.Context.Name)
	}
}

func focusSession(d *graph.Debugger) *graph.Session {
	switch v := d.Focus.Get().(type) {
	case *graph.Session:
		return v
	case *graph.Thread:
		return v.Session
	case *graph.Stack:
		return v.Thread.Session
	case *graph.Frame:
		return v.Stack.Thread.Session
	}
	return nil
}

func focusThread(d *graph.Debugger) *graph.Thread {
	switch v := d.Focus.Get().(type) {
	case *graph.Thread:
		return v
	case *graph.Stack:
		return v.Thread
	case *graph.Frame:
		return v.Stack.Thread
	}
	return nil
}

func focusFrame(d *graph.Debugger) *graph.Frame {
	if f, ok := d.Focus.Get().(*graph.Frame); ok {
		return f
	}
	return nil
}

// frameAtOffset implements `@frame+N`: N frames up the stack (towards the
// caller) from f; negative N goes down (towards the callee).
func frameAtOffset(f *graph.Frame, offset int) *graph.Frame {
	target := f.Index + offset
	for _, other := range f.Stack.Frames.Iter() {
		if other.Index == target {
			return other
		}
	}
	return nil
}

// resolveEdge finds the named edge on item: an exported *reactive.Collection
// field matched case-insensitively, falling back to a zero-argument
// accessor method of the same name (for edges the graph package exposes
// only through a method, such as Debugger.Sources()). A field or accessor
// that is instead a one-to-one *reactive.Signal[*T] (Thread.CurrentStack,
// Frame.Source) is wrapped as a one-element enumeration via signalEdge, so
// `stack`/`source` segments traverse and subscribe the same as collections.
func resolveEdge(item interface{}, edgeName string) (AnyCollection, bool) {
	v := reflect.ValueOf(item)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, false
	}
	ev := v.Elem()
	if ev.Kind() == reflect.Struct {
		for i := 0; i < ev.NumField(); i++ {
			sf := ev.Type().Field(i)
			if !sf.IsExported() || !strings.EqualFold(sf.Name, edgeName) {
				continue
			}
			fv := ev.Field(i)
			if c, ok := fv.Interface().(AnyCollection); ok {
				return c, true
			}
			if c, ok := asSignalEdge(fv); ok {
				return c, true
			}
		}
	}
	methodName := strings.ToUpper(edgeName[:1]) + edgeName[1:]
	if method := v.MethodByName(methodName); method.IsValid() && method.Type().NumIn() == 0 && method.Type().NumOut() == 1 {
		out := method.Call(nil)
		if c, ok := out[0].Interface().(AnyCollection); ok {
			return c, true
		}
		if c, ok := asSignalEdge(out[0]); ok {
			return c, true
		}
	}
	return nil, false
}

// asSignalEdge recognizes a *reactive.Signal[*T] value by its Get/Use
// method shape (Get taking no args and returning a pointer; Use taking a
// single effect func) without naming T, since each instantiation is a
// distinct type. Scalar signals (e.g. *Signal[bool]) are excluded because
// their Get doesn't return a pointer.
func asSignalEdge(v reflect.Value) (AnyCollection, bool) {
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, false
	}
	getM := v.MethodByName("Get")
	if !getM.IsValid() || getM.Type().NumIn() != 0 || getM.Type().NumOut() != 1 {
		return nil, false
	}
	if getM.Type().Out(0).Kind() != reflect.Ptr {
		return nil, false
	}
	useM := v.MethodByName("Use")
	if !useM.IsValid() || useM.Type().NumIn() != 1 || useM.Type().NumOut() != 1 {
		return nil, false
	}
	return signalEdge{v: v}, true
}

// signalEdge adapts a one-to-one, signal-backed edge to AnyCollection so
// evalAST's existing traversal and subscription logic applies to it
// unchanged: it enumerates as zero or one item (nil when the signal
// currently holds a nil pointer), and EachAny subscribes through the
// signal's own Use method instead of a Collection's watcher list.
type signalEdge struct {
	v reflect.Value // the *reactive.Signal[*T] value
}

func (s signalEdge) current() reflect.Value {
	return s.v.MethodByName("Get").Call(nil)[0]
}

func (s signalEdge) ItemsAny() []interface{} {
	if cur := s.current(); !cur.IsNil() {
		return []interface{}{cur.Interface()}
	}
	return nil
}

func (s signalEdge) EachAny(onAdded func(item interface{}) (cleanup func())) (unsubscribe func()) {
	useM := s.v.MethodByName("Use")
	effectType := useM.Type().In(0)
	wrapper := reflect.MakeFunc(effectType, func(args []reflect.Value) []reflect.Value {
		var item interface{}
		if arg := args[0]; !arg.IsNil() {
			item = arg.Interface()
		}
		cleanup := onAdded(item)
		cleanupVal := reflect.Zero(effectType.Out(0))
		if cleanup != nil {
			cleanupVal = reflect.ValueOf(cleanup)
		}
		return []reflect.Value{cleanupVal}
	})
	out := useM.Call([]reflect.Value{wrapper})
	unsub, _ := out[0].Interface().(func())
	return unsub
}

func applySelectors(items []interface{}, selectors []Selector, onChange func()) []interface{} {
	current := items
	for _, sel := range selectors {
		switch sel.Kind {
		case selKey:
			current = filterByKey(current, sel.Key)
		case selFilter:
			current = filterByProps(current, sel.Filters, onChange)
		case selIndex:
			if sel.Index < 0 || sel.Index >= len(current) {
				current = nil
			} else {
				current = []interface{}{current[sel.Index]}
			}
		}
	}
	return current
}

func filterByKey(items []interface{}, key string) []interface{} {
	for _, item := range items {
		e, ok := item.(entity)
		if !ok {
			continue
		}
		if k, ok := keyOf(e.URI()); ok && k == key {
			return []interface{}{item}
		}
	}
	return nil
}

// keyOf extracts the trailing `:key` component of a URI built by the graph
// package's per-type `*URI` helpers (e.g. ".../sessions:a1b2" -> "a1b2").
func keyOf(uri string) (string, bool) {
	idx := strings.LastIndexByte(uri, ':')
	if idx == -1 {
		return "", false
	}
	return uri[idx+1:], true
}

func filterByProps(items []interface{}, filters []Filter, onChange func()) []interface{} {
	var out []interface{}
	for _, item := range items {
		match := true
		for _, f := range filters {
			val, ok := propValue(item, f.Prop, onChange)
			if !ok || !valueMatches(val, f.Value) {
				match = false
				break
			}
		}
		if match {
			out = append(out, item)
		}
	}
	return out
}

func valueMatches(val interface{}, pattern string) bool {
	s := fmt.Sprint(val)
	if strings.ContainsAny(pattern, "*?") {
		return match.Match(s, pattern)
	}
	return s == pattern
}

// propValue reads a named reactive property off item: a *reactive.Signal[T]
// field is read through its Get method (subscribing onChange, if non-nil,
// to future changes so a filter/context read re-triggers a Watch per
// §4.7), a plain field is read directly. Fields one level of nested,
// non-signal struct deep (e.g. Breakpoint.Location) are also searched, so
// `line`/`column` are addressable without a dedicated accessor.
func propValue(item interface{}, prop string, onChange func()) (interface{}, bool) {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	if val, ok := fieldValue(v, prop, onChange); ok {
		return val, true
	}
	for i := 0; i < v.NumField(); i++ {
		sf := v.Type().Field(i)
		if !sf.IsExported() || sf.Type.Kind() != reflect.Struct {
			continue
		}
		if val, ok := fieldValue(v.Field(i), prop, onChange); ok {
			return val, true
		}
	}
	return nil, false
}

func fieldValue(v reflect.Value, prop string, onChange func()) (interface{}, bool) {
	var field reflect.Value
	for i := 0; i < v.NumField(); i++ {
		sf := v.Type().Field(i)
		if sf.IsExported() && strings.EqualFold(sf.Name, prop) {
			field = v.Field(i)
			break
		}
	}
	if !field.IsValid() {
		return nil, false
	}
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return nil, false
		}
		return signalGet(field, onChange)
	}
	return field.Interface(), true
}

// signalGet reads a *reactive.Signal[T] field's current value via its Get
// method and, when onChange is non-nil, subscribes through Use so a later
// change to the signal re-triggers the caller's Watch.
func signalGet(field reflect.Value, onChange func()) (interface{}, bool) {
	getM := field.MethodByName("Get")
	if !getM.IsValid() || getM.Type().NumIn() != 0 || getM.Type().NumOut() != 1 {
		return nil, false
	}
	if onChange != nil {
		if useM := field.MethodByName("Use"); useM.IsValid() && useM.Type().NumIn() == 1 && useM.Type().NumOut() == 1 {
			effectType := useM.Type().In(0)
			wrapper := reflect.MakeFunc(effectType, func(args []reflect.Value) []reflect.Value {
				onChange()
				return []reflect.Value{reflect.Zero(effectType.Out(0))}
			})
			useM.Call([]reflect.Value{wrapper})
		}
	}
	out := getM.Call(nil)
	return out[0].Interface(), true
}
