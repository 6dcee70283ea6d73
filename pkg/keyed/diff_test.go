package keyed

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mustReplay applies a script and fails the test on any application error.
func mustReplay(t *testing.T, prev Seq[int], patches []Patch) []string {
	t.Helper()
	got, err := Replay(prev.Keys(), patches)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	return got
}

// checkDiff diffs prev against next and verifies the replay guarantee.
func checkDiff(t *testing.T, prev, next Seq[int]) []Patch {
	t.Helper()
	patches, err := Diff(prev, next)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	got := mustReplay(t, prev, patches)
	if diff := cmp.Diff(next.Keys(), got); diff != "" {
		t.Fatalf("replayed key order mismatch (-want +got):\n%s\nscript: %v", diff, patches)
	}
	return patches
}

func TestDiffIdenticalIsEmpty(t *testing.T) {
	seq := intSeq(t, 1, 2, 3, 4, 5)
	patches := checkDiff(t, seq, seq)
	if len(patches) != 0 {
		t.Errorf("diff(A,A) = %v, want empty script", patches)
	}
}

func TestDiffBothEmpty(t *testing.T) {
	patches := checkDiff(t, intSeq(t), intSeq(t))
	if len(patches) != 0 {
		t.Errorf("expected empty script, got %v", patches)
	}
}

func TestDiffEmptyPrevAllInserts(t *testing.T) {
	patches := checkDiff(t, intSeq(t), intSeq(t, 1, 2, 3))
	if len(patches) != 3 {
		t.Fatalf("got %d patches, want 3", len(patches))
	}
	for _, p := range patches {
		if p.Op != OpInsert {
			t.Errorf("op = %v, want Insert", p.Op)
		}
	}
	// The first insert lands at the region start, later ones chain.
	if patches[0].After != "" {
		t.Errorf("first insert anchored after %q, want region start", patches[0].After)
	}
	if patches[1].After != "1" || patches[2].After != "2" {
		t.Errorf("insert anchors = %q, %q; want 1, 2", patches[1].After, patches[2].After)
	}
}

func TestDiffEmptyNextAllRemoves(t *testing.T) {
	patches := checkDiff(t, intSeq(t, 1, 2, 3), intSeq(t))
	if len(patches) != 3 {
		t.Fatalf("got %d patches, want 3", len(patches))
	}
	for _, p := range patches {
		if p.Op != OpRemove {
			t.Errorf("op = %v, want Remove", p.Op)
		}
	}
}

func TestDiffAppend(t *testing.T) {
	patches := checkDiff(t, intSeq(t, 1, 2), intSeq(t, 1, 2, 3))
	if len(patches) != 1 {
		t.Fatalf("got %v, want single insert", patches)
	}
	want := Patch{Op: OpInsert, Key: "3", After: "2"}
	if patches[0] != want {
		t.Errorf("patch = %v, want %v", patches[0], want)
	}
}

func TestDiffPrepend(t *testing.T) {
	patches := checkDiff(t, intSeq(t, 2, 3), intSeq(t, 1, 2, 3))
	if len(patches) != 1 {
		t.Fatalf("got %v, want single insert", patches)
	}
	want := Patch{Op: OpInsert, Key: "1", After: ""}
	if patches[0] != want {
		t.Errorf("patch = %v, want %v", patches[0], want)
	}
}

func TestDiffRemoveMiddle(t *testing.T) {
	patches := checkDiff(t, intSeq(t, 1, 2, 3), intSeq(t, 1, 3))
	if len(patches) != 1 {
		t.Fatalf("got %v, want single remove", patches)
	}
	want := Patch{Op: OpRemove, Key: "2"}
	if patches[0] != want {
		t.Errorf("patch = %v, want %v", patches[0], want)
	}
}

func TestDiffReverseIsMovesOnly(t *testing.T) {
	prev := intSeq(t, 1, 2, 3, 4, 5, 6, 7, 8)
	next := intSeq(t, 8, 7, 6, 5, 4, 3, 2, 1)

	patches := checkDiff(t, prev, next)
	for _, p := range patches {
		if p.Op != OpMove {
			t.Fatalf("reversal produced %v; pure reordering must emit only moves", p)
		}
	}
	// One key stays as the stable run; everything else moves.
	if len(patches) != 7 {
		t.Errorf("got %d moves, want 7", len(patches))
	}
}

func TestDiffSwapAdjacent(t *testing.T) {
	patches := checkDiff(t, intSeq(t, 1, 2), intSeq(t, 2, 1))
	if len(patches) != 1 {
		t.Fatalf("got %v, want a single move", patches)
	}
	if patches[0].Op != OpMove {
		t.Errorf("op = %v, want Move", patches[0].Op)
	}
}

func TestDiffRotation(t *testing.T) {
	// Moving the last key to the front should not disturb the others.
	patches := checkDiff(t, intSeq(t, 1, 2, 3, 4, 5), intSeq(t, 5, 1, 2, 3, 4))
	if len(patches) != 1 {
		t.Fatalf("got %v, want a single move", patches)
	}
	want := Patch{Op: OpMove, Key: "5", Before: "1"}
	if patches[0] != want {
		t.Errorf("patch = %v, want %v", patches[0], want)
	}
}

func TestDiffCommonKeysNeverRemoved(t *testing.T) {
	prev := intSeq(t, 1, 2, 3, 4)
	next := intSeq(t, 4, 2, 9, 1)

	patches := checkDiff(t, prev, next)
	for _, p := range patches {
		if p.Op == OpRemove && p.Key != "3" {
			t.Errorf("key %q removed although present in both snapshots", p.Key)
		}
		if p.Op == OpInsert && p.Key != "9" {
			t.Errorf("key %q inserted although present in both snapshots", p.Key)
		}
	}
}

func TestDiffRemovesPrecedeStructuralEdits(t *testing.T) {
	prev := intSeq(t, 1, 2, 3)
	next := intSeq(t, 3, 4)

	patches := checkDiff(t, prev, next)
	sawOther := false
	for _, p := range patches {
		if p.Op == OpRemove && sawOther {
			t.Fatalf("remove after insert/move in %v", patches)
		}
		if p.Op != OpRemove {
			sawOther = true
		}
	}
}

func TestDiffDuplicateKeysRejected(t *testing.T) {
	dup := Seq[int]{{Key: "a", Item: 1}, {Key: "a", Item: 2}}
	ok := intSeq(t, 1)

	var iv *InvariantViolation
	if _, err := Diff(dup, ok); !errors.As(err, &iv) {
		t.Errorf("duplicate prev keys: err = %v, want InvariantViolation", err)
	}
	if _, err := Diff(ok, dup); !errors.As(err, &iv) {
		t.Errorf("duplicate next keys: err = %v, want InvariantViolation", err)
	}
}

func TestDiffRandomizedReplay(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for round := 0; round < 200; round++ {
		prevVals := rng.Perm(rng.Intn(12))
		nextVals := rng.Perm(rng.Intn(12))

		// Random overlap: drop a random prefix from each side so the
		// key sets differ, not just the orders.
		prev := intSeq(t, prevVals[rng.Intn(len(prevVals)+1):]...)
		next := intSeq(t, nextVals[rng.Intn(len(nextVals)+1):]...)

		checkDiff(t, prev, next)
	}
}

func TestReplayRejectsUnknownKeys(t *testing.T) {
	if _, err := Replay([]string{"a"}, []Patch{{Op: OpRemove, Key: "x"}}); err == nil {
		t.Error("remove of unknown key should fail")
	}
	if _, err := Replay([]string{"a"}, []Patch{{Op: OpMove, Key: "x"}}); err == nil {
		t.Error("move of unknown key should fail")
	}
	if _, err := Replay([]string{"a"}, []Patch{{Op: OpInsert, Key: "b", After: "x"}}); err == nil {
		t.Error("insert with unknown anchor should fail")
	}
	if _, err := Replay([]string{"a"}, []Patch{{Op: OpInsert, Key: "a"}}); err == nil {
		t.Error("insert of already-present key should fail")
	}
}

func TestPatchString(t *testing.T) {
	cases := []struct {
		patch Patch
		want  string
	}{
		{Patch{Op: OpInsert, Key: "b", After: "a"}, "Insert(b after a)"},
		{Patch{Op: OpInsert, Key: "b"}, "Insert(b at start)"},
		{Patch{Op: OpRemove, Key: "b"}, "Remove(b)"},
		{Patch{Op: OpMove, Key: "b", Before: "a"}, "Move(b before a)"},
		{Patch{Op: OpMove, Key: "b"}, "Move(b to end)"},
	}
	for _, c := range cases {
		if got := c.patch.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestOpString(t *testing.T) {
	if OpInsert.String() != "Insert" || OpRemove.String() != "Remove" || OpMove.String() != "Move" {
		t.Error("unexpected Op string representation")
	}
	if Op(99).String() != "Unknown" {
		t.Errorf("Op(99).String() = %q, want Unknown", Op(99).String())
	}
}

func BenchmarkDiffReverse(b *testing.B) {
	values := make([]int, 200)
	reversed := make([]int, 200)
	for i := range values {
		values[i] = i
		reversed[199-i] = i
	}
	key := func(v int) string { return strconv.Itoa(v) }
	prev, _ := NewSeq(values, key)
	next, _ := NewSeq(reversed, key)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Diff(prev, next); err != nil {
			b.Fatal(err)
		}
	}
}
