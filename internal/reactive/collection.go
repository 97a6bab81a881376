package reactive

import "sync"

// Collection is an observable ordered set keyed by URI (used for Edge
// relationships in the Entity Graph, e.g. session.threads, stack.frames).
type Collection[T any] struct {
	mu    sync.Mutex
	order []string
	items map[string]T

	watchers []*watcher[T]
	nextID   uint64
}

type watcher[T any] struct {
	id       uint64
	onAdded  func(item T) (cleanup func())
	cleanups map[string]func()
}

// NewCollection creates an empty Collection.
func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{items: make(map[string]T)}
}

// Iter returns a snapshot sequence of the collection's current items, in
// insertion order.
func (c *Collection[T]) Iter() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, 0, len(c.order))
	for _, uri := range c.order {
		out = append(out, c.items[uri])
	}
	return out
}

// Keys returns the collection's current URIs, in insertion order.
func (c *Collection[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.order...)
}

// Get returns the item at uri and whether it exists.
func (c *Collection[T]) Get(uri string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[uri]
	return v, ok
}

// Len returns the number of items currently in the collection.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Add inserts or replaces the item at uri. A new uri is appended to the
// insertion order and each registered watcher's onAdded runs for it; a
// replacement keeps its position and runs no watcher.
func (c *Collection[T]) Add(uri string, item T) {
	c.mu.Lock()
	_, existed := c.items[uri]
	c.items[uri] = item
	if !existed {
		c.order = append(c.order, uri)
	}
	watchers := make([]*watcher[T], len(c.watchers))
	copy(watchers, c.watchers)
	c.mu.Unlock()

	if existed {
		return
	}
	for _, w := range watchers {
		cleanup := w.onAdded(item)
		if cleanup != nil {
			c.mu.Lock()
			w.cleanups[uri] = cleanup
			c.mu.Unlock()
		}
	}
}

// Remove deletes the item at uri, if present, running any cleanup each
// watcher's onAdded returned for it.
func (c *Collection[T]) Remove(uri string) {
	c.mu.Lock()
	if _, ok := c.items[uri]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.items, uri)
	for i, k := range c.order {
		if k == uri {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	var cleanups []func()
	for _, w := range c.watchers {
		if cl, ok := w.cleanups[uri]; ok {
			cleanups = append(cleanups, cl)
			delete(w.cleanups, uri)
		}
	}
	c.mu.Unlock()

	for _, cl := range cleanups {
		cl()
	}
}

// ItemsAny returns the same snapshot as Iter with T erased to interface{},
// letting generic consumers (the URL query engine) walk a Collection[T]
// without knowing T at compile time.
func (c *Collection[T]) ItemsAny() []interface{} {
	items := c.Iter()
	out := make([]interface{}, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out
}

// EachAny is Each with T erased to interface{}, for the same reason as
// ItemsAny.
func (c *Collection[T]) EachAny(onAdded func(item interface{}) (cleanup func())) (unsubscribe func()) {
	return c.Each(func(item T) (cleanup func()) { return onAdded(item) })
}

// Clear removes every item, running all outstanding cleanups.
func (c *Collection[T]) Clear() {
	for _, uri := range c.Keys() {
		c.Remove(uri)
	}
}

// Each invokes onAdded(item) for every current item and for every
// subsequent addition. Returned cleanups run when the item is removed or
// the active scope exits. Returns an unsubscribe that stops future
// invocations and runs every cleanup still outstanding; the active scope,
// if any, runs it on exit.
func (c *Collection[T]) Each(onAdded func(item T) (cleanup func())) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	w := &watcher[T]{id: id, onAdded: onAdded, cleanups: make(map[string]func())}
	c.watchers = append(c.watchers, w)
	current := make([]T, 0, len(c.order))
	uris := make([]string, 0, len(c.order))
	for _, uri := range c.order {
		current = append(current, c.items[uri])
		uris = append(uris, uri)
	}
	c.mu.Unlock()

	for i, item := range current {
		cleanup := onAdded(item)
		if cleanup != nil {
			c.mu.Lock()
			w.cleanups[uris[i]] = cleanup
			c.mu.Unlock()
		}
	}

	unsub := func() {
		c.mu.Lock()
		for i, e := range c.watchers {
			if e.id == id {
				c.watchers = append(c.watchers[:i], c.watchers[i+1:]...)
				break
			}
		}
		cleanups := w.cleanups
		w.cleanups = make(map[string]func())
		c.mu.Unlock()

		for _, cl := range cleanups {
			cl()
		}
	}

	if scope := activeScope(); scope != nil {
		scope.OnDispose(unsub)
	}
	return unsub
}
