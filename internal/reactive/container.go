// Package reactive provides a minimal observable-value primitive: a
// Container holds a value, fans every change out to its subscribers
// synchronously, and can be derived from other containers so filtered
// views recompute whenever any of their sources change.
package reactive

import "sync"

// Container holds a value of type T and notifies subscribers on every
// Set or Update, in the order the mutations happen.
type Container[T any] struct {
	emitMu sync.Mutex // serializes mutations so notifications keep mutation order
	mu     sync.RWMutex
	value  T
	subs   map[int]func(T)
	nextID int
}

func New[T any](initial T) *Container[T] {
	return &Container[T]{
		value: initial,
		subs:  make(map[int]func(T)),
	}
}

// Get returns the current value.
func (c *Container[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and notifies every subscriber before
// returning. Subscribers must not mutate this container from inside
// their callback.
func (c *Container[T]) Set(v T) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	c.store(v)
	c.notify(v)
}

// Update applies fn to the current value and publishes the result.
// Subscribers never observe a partially applied update.
func (c *Container[T]) Update(fn func(T) T) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	v := fn(c.Get())
	c.store(v)
	c.notify(v)
}

// Subscribe registers fn and immediately delivers the current value.
// The returned function removes the subscription.
func (c *Container[T]) Subscribe(fn func(T)) func() {
	c.emitMu.Lock()
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	v := c.value
	c.mu.Unlock()
	fn(v)
	c.emitMu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Container[T]) store(v T) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}

func (c *Container[T]) notify(v T) {
	c.mu.RLock()
	fns := make([]func(T), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}
