package stream

import (
	"context"
	"sync"
	"sync/atomic"
)

// globalIDCounter is the source of unique IDs for subscriptions.
// Using atomic operations ensures thread-safe ID generation without locks.
var globalIDCounter uint64

// nextID returns the next unique subscription ID.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// CancelFunc cancels a subscription. Safe to call more than once.
type CancelFunc func()

// Source is a replay-latest stream of typed values.
//
// A Source holds at most one current value. New subscribers receive the
// current value (if any) immediately, then every later emission in order.
// Each subscriber has its own unbounded buffer, so a slow consumer never
// blocks the producer and never loses or reorders emissions.
type Source[T any] struct {
	mu       sync.Mutex
	value    T
	hasValue bool
	closed   bool
	subs     map[uint64]*subscriber[T]

	// equal, when set, suppresses emissions equal to the current value.
	equal func(T, T) bool

	// onClose releases upstream resources for derived sources.
	onClose func()
}

// NewSource creates an empty source with no current value.
func NewSource[T any]() *Source[T] {
	return &Source[T]{
		subs: make(map[uint64]*subscriber[T]),
	}
}

// NewSourceValue creates a source seeded with an initial value.
func NewSourceValue[T any](initial T) *Source[T] {
	s := NewSource[T]()
	s.value = initial
	s.hasValue = true
	return s
}

// WithEquals configures the dedup equality function and returns the source.
// When set, an emission equal to the current value is dropped instead of
// being delivered (distinct-until-changed semantics).
func (s *Source[T]) WithEquals(fn func(T, T) bool) *Source[T] {
	s.mu.Lock()
	s.equal = fn
	s.mu.Unlock()
	return s
}

// Next pushes a new value to all subscribers.
// Emissions on a closed source are ignored.
func (s *Source[T]) Next(v T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.hasValue && s.equal != nil && s.equal(s.value, v) {
		s.mu.Unlock()
		return
	}
	s.value = v
	s.hasValue = true

	// Push under the source lock so every subscriber observes emissions
	// in the same order. Pushes only append to per-subscriber buffers and
	// never block.
	for _, sub := range s.subs {
		sub.push(v)
	}
	s.mu.Unlock()
}

// Peek returns the current value without subscribing.
// The second result is false if no value has been emitted yet.
func (s *Source[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.hasValue
}

// Subscribe registers a new subscriber and returns its delivery channel.
//
// The current value (if any) is delivered first, then every subsequent
// emission in order. The channel is closed when the subscription is
// cancelled, the context is done, or the source closes. The returned
// cancel func is safe to call more than once; ctx may be nil.
func (s *Source[T]) Subscribe(ctx context.Context) (<-chan T, CancelFunc) {
	sub := &subscriber[T]{
		id:   nextID(),
		ch:   make(chan T),
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	if s.hasValue {
		sub.pending = append(sub.pending, s.value)
	}
	s.subs[sub.id] = sub
	s.mu.Unlock()

	go sub.pump()

	cancel := func() {
		s.unsubscribe(sub)
	}

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-sub.stop:
			}
		}()
	}

	return sub.ch, cancel
}

// Close shuts down the source. Every subscriber's channel is closed after
// its buffered emissions have been delivered. Derived sources release
// their upstream subscription.
func (s *Source[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = nil
	onClose := s.onClose
	s.mu.Unlock()

	for _, sub := range subs {
		sub.finish()
	}
	if onClose != nil {
		onClose()
	}
}

// unsubscribe removes a subscriber and stops its pump.
func (s *Source[T]) unsubscribe(sub *subscriber[T]) {
	s.mu.Lock()
	if s.subs != nil {
		delete(s.subs, sub.id)
	}
	s.mu.Unlock()
	sub.cancel()
}

// subscriber buffers emissions for one subscription and delivers them in
// order on its own goroutine.
type subscriber[T any] struct {
	id uint64
	ch chan T

	mu        sync.Mutex
	pending   []T
	srcClosed bool

	wake     chan struct{} // cap 1, signals new pending values
	stop     chan struct{}
	stopOnce sync.Once
}

// push appends a value to the buffer and wakes the pump.
func (u *subscriber[T]) push(v T) {
	u.mu.Lock()
	u.pending = append(u.pending, v)
	u.mu.Unlock()

	select {
	case u.wake <- struct{}{}:
	default:
	}
}

// finish marks the upstream source closed and wakes the pump so it can
// drain remaining values and close the channel.
func (u *subscriber[T]) finish() {
	u.mu.Lock()
	u.srcClosed = true
	u.mu.Unlock()

	select {
	case u.wake <- struct{}{}:
	default:
	}
}

// cancel stops the pump immediately, discarding buffered values.
func (u *subscriber[T]) cancel() {
	u.stopOnce.Do(func() {
		close(u.stop)
	})
}

// pump delivers buffered values to the channel in order.
func (u *subscriber[T]) pump() {
	defer close(u.ch)

	for {
		u.mu.Lock()
		batch := u.pending
		u.pending = nil
		done := u.srcClosed
		u.mu.Unlock()

		if len(batch) == 0 && done {
			return
		}

		for _, v := range batch {
			select {
			case u.ch <- v:
			case <-u.stop:
				return
			}
		}

		if len(batch) > 0 {
			// Recheck the buffer before sleeping.
			continue
		}

		select {
		case <-u.wake:
		case <-u.stop:
			return
		}
	}
}

// Map derives a new source by applying fn to every emission of src.
// The derived source replays fn of src's current value and closes when src
// closes. Closing the derived source cancels its upstream subscription.
func Map[T, R any](src *Source[T], fn func(T) R) *Source[R] {
	out := NewSource[R]()
	forward(src, out, fn)
	return out
}

// Distinct derives a source that suppresses consecutive equal emissions,
// using equality appropriate for T (== for comparable kinds,
// reflect.DeepEqual otherwise).
func Distinct[T any](src *Source[T]) *Source[T] {
	out := NewSource[T]()
	out.equal = defaultEquals[T]
	forward(src, out, func(v T) T { return v })
	return out
}

// forward wires a derived source to its upstream.
func forward[T, R any](src *Source[T], out *Source[R], fn func(T) R) {
	ch, cancel := src.Subscribe(nil)
	out.onClose = cancel

	go func() {
		for v := range ch {
			out.Next(fn(v))
		}
		out.Close()
	}()
}
