package bind

import (
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/bindkit-dev/bindkit/pkg/dom"
	"github.com/bindkit-dev/bindkit/pkg/keyed"
	"github.com/bindkit-dev/bindkit/pkg/stream"
)

// RenderFunc materializes the fragment for one item. It is invoked
// exactly once per key for as long as the key stays present; later value
// changes for the key arrive on updates, which replays the current item
// and emits every distinct later value.
//
// RenderFunc must be a pure function of its arguments with no shared
// mutable state across invocations; side effects are scoped to the
// construction of the returned node.
type RenderFunc[T any] func(item T, updates *stream.Source[T]) (*dom.Node, error)

// SequenceBinding is an ordered sequence view over a value stream,
// produced by EachOf and consumed by Bind. A binding supports one Bind
// call; disposing the returned handle closes the derived entry sources,
// leaving the caller's value stream untouched.
type SequenceBinding[T any] struct {
	entries *stream.Source[[]keyed.Entry[T]]

	// release closes every derived source between the caller's stream
	// and entries, so teardown leaves no forwarding goroutines behind.
	release func()
}

// EachOf creates a sequence binding over a stream of list snapshots.
// Keys are derived with keyFn, or keyed.DefaultKey when keyFn is nil.
// Key uniqueness within a snapshot is checked when the snapshot is
// diffed; duplicates surface as a keyed.InvariantViolation on the mount
// handle.
func EachOf[T any](src *stream.Source[[]T], keyFn keyed.KeyFunc[T]) *SequenceBinding[T] {
	if keyFn == nil {
		keyFn = keyed.DefaultKey[T]
	}
	entries := stream.Map(src, func(items []T) []keyed.Entry[T] {
		out := make([]keyed.Entry[T], len(items))
		for i, item := range items {
			out[i] = keyed.Entry[T]{Key: keyFn(item), Item: item}
		}
		return out
	})
	return &SequenceBinding[T]{entries: entries, release: entries.Close}
}

// Map derives a binding whose items are transformed by fn. Keys are
// preserved, so fragment identity across snapshots is unaffected by the
// transformation.
func Map[T, R any](b *SequenceBinding[T], fn func(T) R) *SequenceBinding[R] {
	entries := stream.Map(b.entries, func(in []keyed.Entry[T]) []keyed.Entry[R] {
		out := make([]keyed.Entry[R], len(in))
		for i, e := range in {
			out[i] = keyed.Entry[R]{Key: e.Key, Item: fn(e.Item)}
		}
		return out
	})
	release := func() {
		entries.Close()
		b.release()
	}
	return &SequenceBinding[R]{entries: entries, release: release}
}

// Applied describes one processed snapshot, delivered to the observer
// registered with WithObserver. It is invoked on the mount point's
// goroutine after the snapshot's patches have been applied.
type Applied struct {
	// Patches is the script the differ produced for this snapshot.
	Patches []keyed.Patch

	// Keys is the region's key order after application.
	Keys []string

	// Err is non-nil when the snapshot failed mid-application: a
	// RenderError when only the renderer failed (the mount stays live),
	// or the fatal error that disposed the mount point.
	Err error
}

// Option configures a Bind call.
type Option[T any] func(*bindConfig[T])

type bindConfig[T any] struct {
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
	observer   func(Applied)
	itemEquals func(T, T) bool
}

// WithLogger sets the mount point's logger.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *bindConfig[T]) {
		c.logger = logger
	}
}

// WithMetrics attaches Prometheus collectors to the mount point.
func WithMetrics[T any](m *Metrics) Option[T] {
	return func(c *bindConfig[T]) {
		c.metrics = m
	}
}

// WithTracer enables a span per applied snapshot.
func WithTracer[T any](tracer trace.Tracer) Option[T] {
	return func(c *bindConfig[T]) {
		c.tracer = tracer
	}
}

// WithObserver registers a callback invoked after every processed
// snapshot. Used by the live layer to forward patch scripts and by tests
// to synchronize with the mount goroutine.
func WithObserver[T any](fn func(Applied)) Option[T] {
	return func(c *bindConfig[T]) {
		c.observer = fn
	}
}

// WithItemEquals sets the equality used to dedup per-item sub-stream
// emissions. Defaults to stream.Equals.
func WithItemEquals[T any](fn func(T, T) bool) Option[T] {
	return func(c *bindConfig[T]) {
		c.itemEquals = fn
	}
}

// MountHandle owns one live binding. Dispose tears it down: the snapshot
// subscription is cancelled immediately, queued snapshots are discarded,
// the binding's derived entry sources are closed, and every fragment is
// destroyed.
type MountHandle struct {
	cancel stream.CancelFunc
	done   chan struct{}

	mu   sync.Mutex
	err  error
	keys []string

	disposeOnce sync.Once
}

// Dispose tears the binding down. Safe to call more than once.
func (h *MountHandle) Dispose() {
	h.disposeOnce.Do(func() {
		h.cancel()
	})
}

// Done is closed once the mount point has fully shut down, either after
// Dispose or after a fatal reconciliation failure.
func (h *MountHandle) Done() <-chan struct{} {
	return h.done
}

// Err returns the fatal error that shut the mount point down, if any.
func (h *MountHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Keys returns the region's current key order.
func (h *MountHandle) Keys() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.keys...)
}

func (h *MountHandle) setErr(err error) {
	h.mu.Lock()
	if h.err == nil {
		h.err = err
	}
	h.mu.Unlock()
}

func (h *MountHandle) setKeys(keys []string) {
	h.mu.Lock()
	h.keys = append(h.keys[:0], keys...)
	h.mu.Unlock()
}

// Bind mounts the sequence into a region. The renderer materializes each
// newly inserted key's fragment; the returned handle owns the binding's
// lifetime.
func (b *SequenceBinding[T]) Bind(region dom.Region, render RenderFunc[T], opts ...Option[T]) (*MountHandle, error) {
	if region == nil {
		return nil, ErrNilRegion
	}
	if render == nil {
		return nil, ErrNilRenderer
	}

	cfg := bindConfig[T]{
		logger:     slog.Default().With("component", "bind"),
		itemEquals: stream.Equals[T],
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ch, cancel := b.entries.Subscribe(nil)

	handle := &MountHandle{
		cancel: func() {
			cancel()
			b.release()
		},
		done: make(chan struct{}),
	}

	m := &mountPoint[T]{
		region:    region,
		render:    render,
		cfg:       cfg,
		fragments: make(map[string]*fragment[T]),
		handle:    handle,
	}

	go m.loop(ch)

	return handle, nil
}
