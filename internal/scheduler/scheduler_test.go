package scheduler

import (
	"errors"
	"testing"
	"time"
)

func TestRunExecutesTask(t *testing.T) {
	s := New()
	defer s.Close()

	done := make(chan struct{})
	task := s.Run(func(t *Task) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
	<-task.Done()

	if task.ID() == "" {
		t.Error("expected a non-empty task id")
	}
}

func TestTaskIDsAreUnique(t *testing.T) {
	s := New()
	defer s.Close()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		task := s.Run(func(t *Task) {})
		<-task.Done()
		if seen[task.ID()] {
			t.Fatalf("duplicate task id %q", task.ID())
		}
		seen[task.ID()] = true
	}
}

func TestOnlyOneTaskRunsAtATime(t *testing.T) {
	s := New()
	defer s.Close()

	var active int
	var maxActive int
	var mu chanMutex
	mu.ch = make(chan struct{}, 1)
	mu.ch <- struct{}{}

	const n = 8
	dones := make([]chan struct{}, n)
	for i := 0; i < n; i++ {
		dones[i] = make(chan struct{})
		d := dones[i]
		s.Run(func(t *Task) {
			mu.lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.unlock()

			Await(t, After(time.Millisecond))

			mu.lock()
			active--
			mu.unlock()
			close(d)
		})
	}

	for _, d := range dones {
		select {
		case <-d:
		case <-time.After(2 * time.Second):
			t.Fatal("task never completed")
		}
	}

	if maxActive > 1 {
		t.Errorf("expected at most one task to hold the turn token at once, saw %d", maxActive)
	}
}

// chanMutex is a trivial mutex built on a buffered channel, avoiding a
// sync import collision with the rest of this file's focus on scheduler
// behavior rather than synchronization primitives.
type chanMutex struct{ ch chan struct{} }

func (m *chanMutex) lock()   { <-m.ch }
func (m *chanMutex) unlock() { m.ch <- struct{}{} }

func TestAwaitReturnsFutureValue(t *testing.T) {
	s := New()
	defer s.Close()

	fut := NewFuture[int]()
	go fut.Resolve(42, nil)

	got := make(chan int, 1)
	s.Run(func(t *Task) {
		v, err := Await(t, fut)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		got <- v
	})

	select {
	case v := <-got:
		if v != 42 {
			t.Errorf("got %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for awaited value")
	}
}

func TestAwaitPropagatesError(t *testing.T) {
	s := New()
	defer s.Close()

	wantErr := errors.New("boom")
	fut := NewFuture[int]()
	fut.Resolve(0, wantErr)

	errCh := make(chan error, 1)
	s.Run(func(t *Task) {
		_, err := Await(t, fut)
		errCh <- err
	})

	select {
	case err := <-errCh:
		if !errors.Is(err, wantErr) {
			t.Errorf("got %v, want %v", err, wantErr)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
}

func TestCancelMarksPreempted(t *testing.T) {
	s := New()
	defer s.Close()

	started := make(chan struct{})
	checked := make(chan bool, 1)
	task := s.Run(func(t *Task) {
		close(started)
		Await(t, After(50*time.Millisecond))
		checked <- t.Preempted()
	})

	<-started
	task.Cancel()

	select {
	case preempted := <-checked:
		if !preempted {
			t.Error("expected task to observe Preempted() == true after Cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
}

func TestDeferRunsInLIFOOrder(t *testing.T) {
	s := New()
	defer s.Close()

	var order []int
	done := make(chan struct{})
	s.Run(func(t *Task) {
		t.Defer(func() { order = append(order, 1) })
		t.Defer(func() { order = append(order, 2) })
		t.Defer(func() { order = append(order, 3) })
	})
	s.Post(func() { close(done) })
	<-done

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestTaskPanicIsRecovered(t *testing.T) {
	s := New()
	defer s.Close()

	task := s.Run(func(t *Task) {
		panic("kaboom")
	})
	<-task.Done()

	if task.Err() == nil {
		t.Error("expected a recorded panic error")
	}
	if s.Stats().Panics != 1 {
		t.Errorf("expected 1 recorded panic, got %d", s.Stats().Panics)
	}
}

func TestCloseCancelsRunningTasks(t *testing.T) {
	s := New()

	started := make(chan struct{})
	preempted := make(chan bool, 1)
	s.Run(func(t *Task) {
		close(started)
		Await(t, After(50*time.Millisecond))
		preempted <- t.Preempted()
	})

	<-started
	s.Close()

	select {
	case p := <-preempted:
		if !p {
			t.Error("expected Close to cancel the running task")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
}
