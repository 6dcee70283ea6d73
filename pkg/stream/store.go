package stream

import "sync"

// Store owns a current value of type T and exposes it reactively.
//
// Data returns the change stream (replay-latest), Update pushes a new value,
// and Handle applies a pure reducer to the current value atomically. A Store
// always has a value; its Source is seeded with the initial one.
type Store[T any] struct {
	// mu serializes read-modify-write cycles so concurrent Handle calls
	// never lose updates.
	mu  sync.Mutex
	src *Source[T]
}

// NewStore creates a store holding the given initial value.
func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{
		src: NewSourceValue(initial),
	}
}

// Data returns the store's change stream. Subscribers receive the current
// value immediately, then every subsequent update in order.
func (st *Store[T]) Data() *Source[T] {
	return st.src
}

// Get returns the current value without subscribing.
func (st *Store[T]) Get() T {
	v, _ := st.src.Peek()
	return v
}

// Update replaces the current value and emits it on the change stream.
func (st *Store[T]) Update(v T) {
	st.mu.Lock()
	st.src.Next(v)
	st.mu.Unlock()
}

// Handle invokes a pure reducer with the current value and stores the
// result. The read-modify-write cycle is atomic with respect to other
// Update and Handle calls.
func (st *Store[T]) Handle(fn func(T) T) {
	st.mu.Lock()
	cur, _ := st.src.Peek()
	st.src.Next(fn(cur))
	st.mu.Unlock()
}

// Close shuts down the store's change stream.
func (st *Store[T]) Close() {
	st.src.Close()
}
