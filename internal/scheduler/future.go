package scheduler

import (
	"sync"
	"time"
)

// Future is a single-assignment result a Task can Await: the bridge
// between an asynchronous event (a DAP response, a timer) and a
// cooperative task body.
type Future[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

// NewFuture creates an unresolved Future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolve completes the future exactly once; later calls are no-ops.
func (f *Future[T]) Resolve(v T, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

func (f *Future[T]) wait() (T, error) {
	<-f.done
	return f.val, f.err
}

// After returns a Future that resolves with struct{}{} once d elapses.
// Callers typically Await it from within a Task for a cooperative timer.
func After(d time.Duration) *Future[struct{}] {
	fut := NewFuture[struct{}]()
	time.AfterFunc(d, func() { fut.Resolve(struct{}{}, nil) })
	return fut
}
