package reactive

import "testing"

func TestSignalGetSet(t *testing.T) {
	s := NewSignal(1)
	if s.Get() != 1 {
		t.Fatalf("got %d, want 1", s.Get())
	}
	s.Set(2)
	if s.Get() != 2 {
		t.Fatalf("got %d, want 2", s.Get())
	}
}

func TestSignalNotifiesOnChangeOnly(t *testing.T) {
	s := NewSignal(1)
	var notifications []int
	unsub := s.Use(func(v int) func() {
		notifications = append(notifications, v)
		return nil
	})
	defer unsub()

	s.Set(1) // unchanged by deep equality: no notification
	s.Set(2)
	s.Set(2) // unchanged
	s.Set(3)

	// Use runs effect(current) immediately on subscription, then once per
	// subsequent change.
	want := []int{1, 2, 3}
	if len(notifications) != len(want) {
		t.Fatalf("got %v, want %v", notifications, want)
	}
	for i := range want {
		if notifications[i] != want[i] {
			t.Fatalf("got %v, want %v", notifications, want)
		}
	}
}

func TestSignalUnsubscribeStopsNotifications(t *testing.T) {
	s := NewSignal(0)
	var count int
	unsub := s.Use(func(int) func() { count++; return nil })
	s.Set(1)
	unsub()
	s.Set(2)

	if count != 2 { // initial fire on subscribe, plus the one change before unsub
		t.Fatalf("got %d notifications, want 2", count)
	}
}

func TestSignalUseRunsCleanupBeforeNextEffect(t *testing.T) {
	s := NewSignal(0)
	var cleanedFor []int
	unsub := s.Use(func(v int) func() {
		return func() { cleanedFor = append(cleanedFor, v) }
	})
	s.Set(1)
	unsub()

	// The cleanup for value 0 runs just before the effect for value 1, and
	// the cleanup for value 1 runs on unsubscribe.
	want := []int{0, 1}
	if len(cleanedFor) != len(want) {
		t.Fatalf("got %v, want %v", cleanedFor, want)
	}
	for i := range want {
		if cleanedFor[i] != want[i] {
			t.Fatalf("got %v, want %v", cleanedFor, want)
		}
	}
}

func TestFromDerivesFromDependency(t *testing.T) {
	base := NewSignal(2)
	doubled := From(func() int { return base.Get() * 2 }, base)

	if doubled.Get() != 4 {
		t.Fatalf("got %d, want 4", doubled.Get())
	}
	base.Set(5)
	if doubled.Get() != 10 {
		t.Fatalf("got %d, want 10", doubled.Get())
	}
}

func TestFromSwallowsComputePanic(t *testing.T) {
	base := NewSignal(0)
	derived := From(func() int {
		if base.Get() == 0 {
			panic("boom")
		}
		return base.Get()
	}, base)

	if derived.Get() != 0 {
		t.Fatalf("got %d, want 0 (zero value on panic)", derived.Get())
	}
}
