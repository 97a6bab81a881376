package reactive

import "testing"

func TestCollectionAddGetIter(t *testing.T) {
	c := NewCollection[string]()
	c.Add("/a", "alpha")
	c.Add("/b", "beta")

	if c.Len() != 2 {
		t.Fatalf("got len %d, want 2", c.Len())
	}
	v, ok := c.Get("/a")
	if !ok || v != "alpha" {
		t.Fatalf("got (%q, %v), want (alpha, true)", v, ok)
	}

	items := c.Iter()
	want := []string{"alpha", "beta"}
	if len(items) != len(want) || items[0] != want[0] || items[1] != want[1] {
		t.Fatalf("got %v, want %v (insertion order)", items, want)
	}
}

func TestCollectionAddReplaceDoesNotDuplicate(t *testing.T) {
	c := NewCollection[int]()
	c.Add("/x", 1)
	c.Add("/x", 2)

	if c.Len() != 1 {
		t.Fatalf("got len %d, want 1", c.Len())
	}
	v, _ := c.Get("/x")
	if v != 2 {
		t.Fatalf("got %d, want 2 (replaced)", v)
	}
}

func TestCollectionRemove(t *testing.T) {
	c := NewCollection[int]()
	c.Add("/a", 1)
	c.Add("/b", 2)
	c.Remove("/a")

	if c.Len() != 1 {
		t.Fatalf("got len %d, want 1", c.Len())
	}
	if _, ok := c.Get("/a"); ok {
		t.Error("expected /a to be gone")
	}
}

func TestCollectionEachFiresForExistingAndNewItems(t *testing.T) {
	c := NewCollection[string]()
	c.Add("/a", "alpha")

	var seen []string
	unsub := c.Each(func(item string) func() {
		seen = append(seen, item)
		return nil
	})
	defer unsub()

	c.Add("/b", "beta")

	want := []string{"alpha", "beta"}
	if len(seen) != len(want) || seen[0] != want[0] || seen[1] != want[1] {
		t.Fatalf("got %v, want %v", seen, want)
	}
}

func TestCollectionRemoveRunsWatcherCleanup(t *testing.T) {
	c := NewCollection[string]()
	var cleanedUp []string
	c.Each(func(item string) func() {
		return func() { cleanedUp = append(cleanedUp, item) }
	})

	c.Add("/a", "alpha")
	c.Remove("/a")

	if len(cleanedUp) != 1 || cleanedUp[0] != "alpha" {
		t.Fatalf("got %v, want [alpha]", cleanedUp)
	}
}

func TestCollectionClearRunsAllCleanups(t *testing.T) {
	c := NewCollection[int]()
	var cleaned int
	c.Each(func(int) func() {
		return func() { cleaned++ }
	})
	c.Add("/a", 1)
	c.Add("/b", 2)
	c.Clear()

	if cleaned != 2 {
		t.Fatalf("got %d cleanups, want 2", cleaned)
	}
	if c.Len() != 0 {
		t.Fatalf("got len %d, want 0", c.Len())
	}
}

func TestCollectionEachAnyErasesType(t *testing.T) {
	c := NewCollection[int]()
	c.Add("/a", 7)

	var seen []interface{}
	c.EachAny(func(item interface{}) func() {
		seen = append(seen, item)
		return nil
	})

	if len(seen) != 1 || seen[0].(int) != 7 {
		t.Fatalf("got %v, want [7]", seen)
	}
}
