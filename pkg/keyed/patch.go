package keyed

import "fmt"

// Op is the type of patch operation.
type Op uint8

const (
	OpInsert Op = iota + 1 // Materialize a new key
	OpRemove               // Destroy a departed key
	OpMove                 // Reposition an existing key
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpMove:
		return "Move"
	default:
		return "Unknown"
	}
}

// Patch is one atomic structural edit between two snapshots' key orders.
//
// Anchors are positional references into the live sequence at the moment
// the patch is applied, which is why a script must be applied in order.
type Patch struct {
	Op  Op
	Key string

	// After anchors OpInsert: the new fragment goes immediately after
	// this key. Empty means the region start.
	After string

	// Before anchors OpMove: the fragment is repositioned immediately
	// before this key. Empty means the region end.
	Before string
}

// String returns a compact human-readable form, e.g. "Insert(b after a)".
func (p Patch) String() string {
	switch p.Op {
	case OpInsert:
		if p.After == "" {
			return fmt.Sprintf("Insert(%s at start)", p.Key)
		}
		return fmt.Sprintf("Insert(%s after %s)", p.Key, p.After)
	case OpRemove:
		return fmt.Sprintf("Remove(%s)", p.Key)
	case OpMove:
		if p.Before == "" {
			return fmt.Sprintf("Move(%s to end)", p.Key)
		}
		return fmt.Sprintf("Move(%s before %s)", p.Key, p.Before)
	default:
		return fmt.Sprintf("Unknown(%s)", p.Key)
	}
}

// Replay applies a patch script to a key order and returns the resulting
// key order. It mirrors exactly what a live region does structurally and
// exists so callers (and tests) can verify the Diff output guarantee:
// Replay(prev.Keys(), script) equals next.Keys().
func Replay(prev []string, patches []Patch) ([]string, error) {
	keys := append(make([]string, 0, len(prev)), prev...)

	indexOf := func(k string) int {
		for i, key := range keys {
			if key == k {
				return i
			}
		}
		return -1
	}

	for _, p := range patches {
		switch p.Op {
		case OpInsert:
			if indexOf(p.Key) >= 0 {
				return nil, fmt.Errorf("keyed: insert of already-present key %q", p.Key)
			}
			pos := 0
			if p.After != "" {
				ai := indexOf(p.After)
				if ai < 0 {
					return nil, fmt.Errorf("keyed: insert anchor %q not present", p.After)
				}
				pos = ai + 1
			}
			keys = append(keys, "")
			copy(keys[pos+1:], keys[pos:])
			keys[pos] = p.Key

		case OpRemove:
			i := indexOf(p.Key)
			if i < 0 {
				return nil, fmt.Errorf("keyed: remove of unknown key %q", p.Key)
			}
			keys = append(keys[:i], keys[i+1:]...)

		case OpMove:
			i := indexOf(p.Key)
			if i < 0 {
				return nil, fmt.Errorf("keyed: move of unknown key %q", p.Key)
			}
			keys = append(keys[:i], keys[i+1:]...)
			pos := len(keys)
			if p.Before != "" {
				bi := indexOf(p.Before)
				if bi < 0 {
					return nil, fmt.Errorf("keyed: move anchor %q not present", p.Before)
				}
				pos = bi
			}
			keys = append(keys, "")
			copy(keys[pos+1:], keys[pos:])
			keys[pos] = p.Key

		default:
			return nil, fmt.Errorf("keyed: unknown op %d", p.Op)
		}
	}
	return keys, nil
}
