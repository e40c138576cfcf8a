package state

import "sync"

// Observable is the read side of a Cell.
type Observable[T any] interface {
	Get() T
	// Subscribe calls fn with the current value and then with every new
	// value. The returned func unsubscribes.
	Subscribe(fn func(T)) (unsubscribe func())
}

// Cell holds a value and broadcasts every change to its subscribers.
// Callbacks run outside the lock and see values in the order they were
// stored. A callback may write to the cell again; that value is delivered
// once the current round of callbacks returns.
type Cell[T any] struct {
	mu     sync.Mutex
	value  T
	nextID int
	subs   map[int]func(T)

	pending    []T
	delivering bool
}

func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial, subs: make(map[int]func(T))}
}

func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

func (c *Cell[T]) Set(v T) {
	c.Update(func(T) (T, bool) { return v, true })
}

// Update runs fn on the current value under the cell lock. When fn returns
// true its result is stored and broadcast. fn must not touch the cell.
func (c *Cell[T]) Update(fn func(current T) (next T, ok bool)) bool {
	c.mu.Lock()
	next, ok := fn(c.value)
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.value = next
	c.pending = append(c.pending, next)
	c.deliverLocked()
	return true
}

// deliverLocked drains the pending values and releases c.mu. When another
// goroutine is already delivering it picks the new value up instead.
func (c *Cell[T]) deliverLocked() {
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true
	locked := true
	defer func() {
		if !locked {
			c.mu.Lock()
		}
		c.delivering = false
		c.mu.Unlock()
	}()

	for len(c.pending) > 0 {
		v := c.pending[0]
		c.pending = c.pending[1:]
		subs := make([]func(T), 0, len(c.subs))
		for _, fn := range c.subs {
			subs = append(subs, fn)
		}

		c.mu.Unlock()
		locked = false
		for _, fn := range subs {
			fn(v)
		}
		c.mu.Lock()
		locked = true
	}
}

func (c *Cell[T]) Subscribe(fn func(T)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	current := c.value
	c.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

var _ Observable[int] = (*Cell[int])(nil)
