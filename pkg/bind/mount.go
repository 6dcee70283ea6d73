package bind

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bindkit-dev/bindkit/pkg/dom"
	"github.com/bindkit-dev/bindkit/pkg/keyed"
	"github.com/bindkit-dev/bindkit/pkg/stream"
)

// fragment is the live rendered output bound to one key. It owns its node
// and its per-key item sub-stream for as long as the key is present.
type fragment[T any] struct {
	key     string
	node    *dom.Node
	updates *stream.Source[T]
}

// mountPoint owns one region and the fragments inside it. All fields are
// touched only by the mount goroutine; the handle mediates outside access.
type mountPoint[T any] struct {
	region    dom.Region
	render    RenderFunc[T]
	cfg       bindConfig[T]
	fragments map[string]*fragment[T]
	keys      []string // current region key order
	handle    *MountHandle
}

// loop drains snapshots strictly in arrival order. It exits when the
// subscription channel closes (Dispose or source close) or after a fatal
// reconciliation failure, then destroys every remaining fragment.
func (m *mountPoint[T]) loop(ch <-chan []keyed.Entry[T]) {
	defer close(m.handle.done)
	defer m.teardown()

	for entries := range ch {
		if err := m.process(entries); err != nil {
			m.handle.setErr(err)
			m.cfg.logger.Error("mount point disposed after fatal reconciliation failure",
				"error", err)
			if m.cfg.metrics != nil {
				m.cfg.metrics.errors.Inc()
			}
			m.handle.Dispose()
			return
		}
	}
}

// teardown destroys all fragments and clears the registry.
func (m *mountPoint[T]) teardown() {
	for _, frag := range m.fragments {
		frag.updates.Close()
		m.region.Remove(frag.node)
	}
	if m.cfg.metrics != nil {
		m.cfg.metrics.fragments.Sub(float64(len(m.fragments)))
	}
	m.fragments = make(map[string]*fragment[T])
	m.keys = nil
	m.handle.setKeys(nil)
}

// process diffs one snapshot against the current key order and applies
// the resulting script. A renderer failure aborts the rest of the script
// and is reported through the observer but leaves the mount point live;
// the returned error is non-nil only for fatal failures.
func (m *mountPoint[T]) process(entries []keyed.Entry[T]) error {
	start := time.Now()

	var span trace.Span
	if m.cfg.tracer != nil {
		_, span = m.cfg.tracer.Start(context.Background(), "bind.apply")
		defer span.End()
	}

	prev := make(keyed.Seq[T], len(m.keys))
	for i, k := range m.keys {
		prev[i] = keyed.Entry[T]{Key: k}
	}
	next := keyed.Seq[T](entries)

	patches, err := keyed.Diff(prev, next)
	if err != nil {
		m.recordFatal(span, err)
		return err
	}

	items := make(map[string]T, len(entries))
	for _, e := range entries {
		items[e.Key] = e.Item
	}

	var renderErr error

script:
	for _, p := range patches {
		switch p.Op {
		case keyed.OpInsert:
			var ref *dom.Node
			pos := 0
			if p.After != "" {
				anchor, ok := m.fragments[p.After]
				if !ok {
					return m.fatal(span, p.Op, p.After, nil)
				}
				ref = anchor.node
				pos = indexOfKey(m.keys, p.After) + 1
			}

			item := items[p.Key]
			updates := stream.NewSourceValue(item).WithEquals(m.cfg.itemEquals)
			node, err := m.render(item, updates)
			if err != nil {
				// The failed insert registered nothing, so the key
				// retries on the next snapshot. Later patches may
				// anchor on this key; skip them and let the next diff
				// reconcile from the actual region state.
				updates.Close()
				renderErr = &RenderError{Key: p.Key, Err: err}
				m.cfg.logger.Warn("item renderer failed, snapshot partially applied",
					"key", p.Key, "error", err)
				break script
			}
			if err := m.region.InsertAfter(ref, node); err != nil {
				updates.Close()
				return m.fatal(span, p.Op, p.Key, err)
			}
			m.fragments[p.Key] = &fragment[T]{key: p.Key, node: node, updates: updates}
			m.keys = insertKey(m.keys, pos, p.Key)
			if m.cfg.metrics != nil {
				m.cfg.metrics.fragments.Inc()
			}

		case keyed.OpRemove:
			frag, ok := m.fragments[p.Key]
			if !ok {
				return m.fatal(span, p.Op, p.Key, nil)
			}
			frag.updates.Close()
			if err := m.region.Remove(frag.node); err != nil {
				return m.fatal(span, p.Op, p.Key, err)
			}
			delete(m.fragments, p.Key)
			m.keys = removeKey(m.keys, p.Key)
			if m.cfg.metrics != nil {
				m.cfg.metrics.fragments.Dec()
			}

		case keyed.OpMove:
			frag, ok := m.fragments[p.Key]
			if !ok {
				return m.fatal(span, p.Op, p.Key, nil)
			}
			var ref *dom.Node
			if p.Before != "" {
				anchor, ok := m.fragments[p.Before]
				if !ok {
					return m.fatal(span, p.Op, p.Before, nil)
				}
				ref = anchor.node
			}
			if err := m.region.MoveBefore(frag.node, ref); err != nil {
				return m.fatal(span, p.Op, p.Key, err)
			}
			m.keys = removeKey(m.keys, p.Key)
			pos := len(m.keys)
			if p.Before != "" {
				pos = indexOfKey(m.keys, p.Before)
			}
			m.keys = insertKey(m.keys, pos, p.Key)
		}

		if m.cfg.metrics != nil {
			m.cfg.metrics.patches.WithLabelValues(p.Op.String()).Inc()
		}
	}

	// Value-only changes flow to each retained fragment's own sub-stream,
	// deduped by the configured item equality. Structural diffing never
	// sees them.
	for _, e := range entries {
		if frag, ok := m.fragments[e.Key]; ok {
			frag.updates.Next(e.Item)
		}
	}

	m.handle.setKeys(m.keys)

	if m.cfg.metrics != nil {
		m.cfg.metrics.snapshots.Inc()
		m.cfg.metrics.applyTimer.Observe(time.Since(start).Seconds())
	}
	if span != nil {
		span.SetAttributes(
			attribute.Int("bind.patches", len(patches)),
			attribute.Int("bind.fragments", len(m.fragments)),
		)
		if renderErr != nil {
			span.RecordError(renderErr)
		}
	}

	m.notify(Applied{
		Patches: patches,
		Keys:    append([]string(nil), m.keys...),
		Err:     renderErr,
	})
	return nil
}

// fatal builds the ReconciliationError for an unresolvable patch key.
func (m *mountPoint[T]) fatal(span trace.Span, op keyed.Op, key string, cause error) error {
	err := &ReconciliationError{Op: op, Key: key, Err: cause}
	m.recordFatal(span, err)
	return err
}

func (m *mountPoint[T]) recordFatal(span trace.Span, err error) {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	m.notify(Applied{
		Keys: append([]string(nil), m.keys...),
		Err:  err,
	})
}

func (m *mountPoint[T]) notify(a Applied) {
	if m.cfg.observer != nil {
		m.cfg.observer(a)
	}
}

func indexOfKey(keys []string, k string) int {
	for i, key := range keys {
		if key == k {
			return i
		}
	}
	return -1
}

func insertKey(keys []string, pos int, k string) []string {
	keys = append(keys, "")
	copy(keys[pos+1:], keys[pos:])
	keys[pos] = k
	return keys
}

func removeKey(keys []string, k string) []string {
	i := indexOfKey(keys, k)
	if i < 0 {
		return keys
	}
	return append(keys[:i], keys[i+1:]...)
}
