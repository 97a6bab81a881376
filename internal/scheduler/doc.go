// Package scheduler provides the single-threaded cooperative task runner
// (C4) that Session Runtime, Breakpoint Engine, and host integrations use
// to schedule work that must never run concurrently with itself:
//
//	Run(f)        starts a task; f holds the scheduler's one turn token
//	              except while it calls Await.
//	Await(t, fut) releases the token, blocks for fut, reacquires the
//	              token, and returns — so the code after Await still runs
//	              exclusively.
//	t.Defer(fn)   registers cleanup that runs, in LIFO order, once the
//	              task body returns or panics.
//	t.Preempted() reports cooperative cancellation; long loops must poll
//	              it themselves, since nothing preempts automatically.
//
// This is not a worker pool: exactly one goroutine's user code executes at
// any instant, matching hosts (terminal editors, GUI toolkits) whose own
// APIs are not safe to call from arbitrary goroutines.
package scheduler
