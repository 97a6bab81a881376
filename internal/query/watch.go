package query

import (
	"github.com/dshills/dapdebug/internal/graph"
	"github.com/dshills/dapdebug/internal/reactive"
)

// Watch evaluates url against d and returns a signal that re-evaluates
// whenever anything the traversal read changes — a collection add/remove at
// any segment, a signal-backed edge (e.g. Thread.CurrentStack) flipping, a
// property read by a filter changing, or (for a context-rooted url) a
// change of focus — emitting with the deep-equality debouncing Signal
// already provides (§4.7). The returned unsubscribe tears down every
// subscription the traversal registered.
func Watch(d *graph.Debugger, url string) (*reactive.Signal[[]interface{}], func()) {
	sig := reactive.NewSignal[[]interface{}](nil)
	root := reactive.NewScope()
	var scope *reactive.Scope

	var reeval func()
	reeval = func() {
		if scope != nil {
			scope.Dispose()
		}
		scope = root.Child()
		reactive.PushScope(scope)

		// settling suppresses the spurious re-entrant reeval that firing
		// EachAny/Focus.Use for each *already-present* item during this
		// same pass would otherwise trigger.
		settling := true
		onChange := func() {
			if !settling {
				reeval()
			}
		}
		results, err := evalURL(d, url, onChange)
		settling = false

		reactive.PopScope()
		if err == nil {
			sig.Set(results)
		}
	}
	reeval()

	return sig, root.Dispose
}

func evalURL(d *graph.Debugger, url string, onChange func()) ([]interface{}, error) {
	ast, err := Parse(url)
	if err != nil {
		return nil, err
	}
	return evalAST(d, ast, onChange)
}
