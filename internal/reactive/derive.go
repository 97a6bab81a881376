package reactive

// anySignal is the type-erased subset of Signal that From needs to
// subscribe to a dependency without knowing its value type.
type anySignal interface {
	subscribeAny(fn func())
}

// subscribeAny adapts Use to a value-erased callback, for From's
// heterogeneous dependency list.
func (s *Signal[V]) subscribeAny(fn func()) {
	s.Use(func(V) (cleanup func()) {
		fn()
		return nil
	})
}

// From derives a new Signal that re-evaluates compute whenever any of deps
// changes, emitting only when the computed value differs by deep equality
// from the derived signal's current value (the underlying Signal.Set
// already gates on that). A panic inside compute is treated as a computation
// error: swallowed to the zero value of R, per §4.5 ("computation errors are
// swallowed to nil to keep the pipeline alive").
func From[R any](compute func() R, deps ...anySignal) *Signal[R] {
	derived := NewSignal(safeCompute(compute))

	recompute := func() { derived.Set(safeCompute(compute)) }
	for _, dep := range deps {
		dep.subscribeAny(recompute)
	}
	return derived
}

func safeCompute[R any](compute func() R) (result R) {
	defer func() {
		if recover() != nil {
			var zero R
			result = zero
		}
	}()
	return compute()
}

// Derive is the imperative counterpart of From: subscribe registers
// listeners (typically several Collection.Each/Signal.Use calls) that call
// the returned notify function whenever a dependency changes; Derive
// recomputes and publishes through the returned Signal each time.
func Derive[R any](compute func() R, subscribe func(notify func())) *Signal[R] {
	derived := NewSignal(safeCompute(compute))
	subscribe(func() { derived.Set(safeCompute(compute)) })
	return derived
}
