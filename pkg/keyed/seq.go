package keyed

import (
	"fmt"
	"hash/fnv"
)

// KeyFunc derives the reconciliation key for an item. Keys must be stable
// across snapshots and unique within one snapshot.
type KeyFunc[T any] func(T) string

// Entry is one (key, item) pair in a keyed sequence.
type Entry[T any] struct {
	Key  string
	Item T
}

// Seq is an ordered keyed sequence. Keys are unique within one snapshot;
// NewSeq enforces this and Diff re-checks it.
type Seq[T any] []Entry[T]

// InvariantViolation reports a duplicate key within one sequence snapshot.
// Duplicates are never silently deduplicated because the caller's intent
// is ambiguous.
type InvariantViolation struct {
	// Key is the duplicated key.
	Key string
}

// Error implements the error interface.
func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("B101: duplicate key %q in sequence snapshot", e.Key)
}

// DefaultKey derives an index-independent key from the item's content.
// It is a stable content hash: two items that print identically share a
// key, so callers with repeated values should supply their own KeyFunc.
func DefaultKey[T any](item T) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%v", item)
	return fmt.Sprintf("%016x", h.Sum64())
}

// NewSeq builds a keyed sequence from items using keyFn (DefaultKey when
// nil). Returns an InvariantViolation if two items map to the same key.
func NewSeq[T any](items []T, keyFn KeyFunc[T]) (Seq[T], error) {
	if keyFn == nil {
		keyFn = DefaultKey[T]
	}

	seq := make(Seq[T], 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		k := keyFn(item)
		if _, dup := seen[k]; dup {
			return nil, &InvariantViolation{Key: k}
		}
		seen[k] = struct{}{}
		seq = append(seq, Entry[T]{Key: k, Item: item})
	}
	return seq, nil
}

// Keys returns the sequence's keys in order.
func (s Seq[T]) Keys() []string {
	keys := make([]string, len(s))
	for i, e := range s {
		keys[i] = e.Key
	}
	return keys
}

// checkUnique verifies key uniqueness and returns an index map.
func (s Seq[T]) checkUnique() (map[string]int, error) {
	idx := make(map[string]int, len(s))
	for i, e := range s {
		if _, dup := idx[e.Key]; dup {
			return nil, &InvariantViolation{Key: e.Key}
		}
		idx[e.Key] = i
	}
	return idx, nil
}
