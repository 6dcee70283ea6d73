package keyed

// Diff compares two keyed sequences and returns the ordered patch script
// that transforms prev's key order into next's key order.
//
// Sequences are compared purely by key presence and key order, never by
// item value. Keys only in prev yield Remove; keys only in next yield
// Insert anchored on their predecessor in next; keys in both whose
// relative order changed yield Move. Keys present in both sequences are
// always repositioned with Move, never destroyed and recreated, so a pure
// reordering produces a script of Move operations only.
//
// The stable set (keys that emit no patch at all) is the longest run of
// common keys already in next's relative order, which keeps the number of
// Move operations minimal. Identical sequences produce an empty script.
//
// Returns an InvariantViolation if either sequence contains duplicate keys.
func Diff[T any](prev, next Seq[T]) ([]Patch, error) {
	if _, err := prev.checkUnique(); err != nil {
		return nil, err
	}
	nextIdx, err := next.checkUnique()
	if err != nil {
		return nil, err
	}

	var patches []Patch

	// working simulates the live key order while the script is generated,
	// so every emitted anchor is valid at its application time.
	working := make([]string, 0, len(prev))
	for _, e := range prev {
		if _, kept := nextIdx[e.Key]; kept {
			working = append(working, e.Key)
		} else {
			patches = append(patches, Patch{Op: OpRemove, Key: e.Key})
		}
	}

	stable := stableKeys(working, nextIdx)

	indexOf := func(k string) int {
		for i, key := range working {
			if key == k {
				return i
			}
		}
		return -1
	}
	insertAt := func(pos int, k string) {
		working = append(working, "")
		copy(working[pos+1:], working[pos:])
		working[pos] = k
	}

	for i, e := range next {
		cur := indexOf(e.Key)

		if cur < 0 {
			// New key: insert immediately after its predecessor in next.
			after := ""
			pos := 0
			if i > 0 {
				after = next[i-1].Key
				pos = indexOf(after) + 1
			}
			patches = append(patches, Patch{Op: OpInsert, Key: e.Key, After: after})
			insertAt(pos, e.Key)
			continue
		}

		if stable[e.Key] {
			continue
		}

		// Displaced common key: reposition immediately after its
		// predecessor in next, expressed as a Move before the key that
		// currently occupies the target slot.
		working = append(working[:cur], working[cur+1:]...)
		pos := 0
		if i > 0 {
			pos = indexOf(next[i-1].Key) + 1
		}
		before := ""
		if pos < len(working) {
			before = working[pos]
		}
		patches = append(patches, Patch{Op: OpMove, Key: e.Key, Before: before})
		insertAt(pos, e.Key)
	}

	return patches, nil
}

// stableKeys returns the set of common keys that can keep their positions.
//
// working holds the common keys in prev order. Mapping each to its index
// in next gives an integer sequence; the longest increasing subsequence of
// that sequence is exactly the largest set of keys whose relative order
// already matches next. Everything outside it is moved.
func stableKeys(working []string, nextIdx map[string]int) map[string]bool {
	n := len(working)
	stable := make(map[string]bool, n)
	if n == 0 {
		return stable
	}

	seq := make([]int, n)
	for i, k := range working {
		seq[i] = nextIdx[k]
	}

	// Patience algorithm: tails[l] is the index into seq of the smallest
	// tail of any increasing subsequence of length l+1; parent links
	// reconstruct one maximal subsequence.
	tails := make([]int, 0, n)
	parent := make([]int, n)

	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			parent[i] = tails[lo-1]
		} else {
			parent[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	for i := tails[len(tails)-1]; i >= 0; i = parent[i] {
		stable[working[i]] = true
	}
	return stable
}
