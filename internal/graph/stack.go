package graph

import (
	"fmt"

	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/reactive"
)

// Stack is the ordered set of frames captured at one stop, replaced (seq
// incremented) on every subsequent stop.
type Stack struct {
	Entity

	Thread *Thread
	Seq    int
	Frames *reactive.Collection[*Frame]
}

// Frame is one stack frame; its Source signal is set once the stack-trace
// fetch in mutate.go has resolved the frame's dap.Source, and is nil until
// then (or when the frame carries no source).
type Frame struct {
	Entity

	Stack  *Stack
	Index  int
	Raw    dap.StackFrame

	Name             *reactive.Signal[string]
	Line             *reactive.Signal[int]
	Column           *reactive.Signal[int]
	PresentationHint *reactive.Signal[string]
	Source           *reactive.Signal[*Source]

	Scopes *reactive.Collection[*Scope]
}

// AddFrame appends a Frame to the stack at index i (stack traces arrive
// fully formed, so frames are added once in order rather than mutated).
func (st *Stack) AddFrame(i int, raw dap.StackFrame) *Frame {
	f := &Frame{
		Entity:           NewEntity(fmt.Sprintf("%s/frames[%d]", st.URI(), i), "frame", st.Scope()),
		Stack:            st,
		Index:            i,
		Raw:              raw,
		Name:             reactive.NewSignal(raw.Name),
		Line:             reactive.NewSignal(raw.Line),
		Column:           reactive.NewSignal(raw.Column),
		PresentationHint: reactive.NewSignal(raw.PresentationHint),
		Source:           reactive.NewSignal[*Source](nil),
		Scopes:           reactive.NewCollection[*Scope](),
	}
	st.Frames.Add(f.URI(), f)
	return f
}

// Scope is a variable-container within a frame (locals, arguments,
// globals, ...); its Variables populate lazily once fetchVariables runs
// (§3: "empty until fetchScopes/fetchVariables completes").
type Scope struct {
	Entity

	Frame               *Frame
	Name                string
	VariablesReference  int
	Expensive           bool

	Variables *reactive.Collection[*Variable]
}

// AddScope attaches a Scope to the frame.
func (f *Frame) AddScope(raw dap.Scope) *Scope {
	s := &Scope{
		Entity:             NewEntity(fmt.Sprintf("%s/scopes:%s", f.URI(), raw.Name), "scope", f.Scope()),
		Frame:              f,
		Name:               raw.Name,
		VariablesReference: raw.VariablesReference,
		Expensive:          raw.Expensive,
		Variables:          reactive.NewCollection[*Variable](),
	}
	f.Scopes.Add(s.URI(), s)
	return s
}

// Variable is a named value, possibly itself a container (VariablesReference
// != 0) whose children populate lazily the same way a Scope's do.
type Variable struct {
	Entity

	Name                string
	Value               *reactive.Signal[string]
	Type                string
	VariablesReference  int

	Children *reactive.Collection[*Variable]
}

// AddVariable attaches a child Variable under a Scope.
func (s *Scope) AddVariable(raw dap.Variable) *Variable {
	v := newVariable(fmt.Sprintf("%s/variables:%s", s.URI(), raw.Name), s.Scope(), raw)
	s.Variables.Add(v.URI(), v)
	return v
}

// AddChild attaches a child Variable under another Variable (for
// struct/array/map expansion).
func (v *Variable) AddChild(raw dap.Variable) *Variable {
	child := newVariable(fmt.Sprintf("%s/variables:%s", v.URI(), raw.Name), v.Scope(), raw)
	v.Children.Add(child.URI(), child)
	return child
}

func newVariable(uri string, parent *reactive.Scope, raw dap.Variable) *Variable {
	return &Variable{
		Entity:             NewEntity(uri, "variable", parent),
		Name:               raw.Name,
		Value:              reactive.NewSignal(raw.Value),
		Type:               raw.Type,
		VariablesReference: raw.VariablesReference,
		Children:           reactive.NewCollection[*Variable](),
	}
}
