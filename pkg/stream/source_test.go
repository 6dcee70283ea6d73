package stream

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// recv reads one value from ch or fails the test after a timeout.
func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed while waiting for a value")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a value")
	}
	var zero T
	return zero
}

// recvClosed asserts that ch closes without delivering another value.
func recvClosed[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel, got value %v", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestSubscribeReplaysLatest(t *testing.T) {
	s := NewSourceValue(42)
	defer s.Close()

	ch, cancel := s.Subscribe(nil)
	defer cancel()

	if got := recv(t, ch); got != 42 {
		t.Errorf("replayed value = %d, want 42", got)
	}
}

func TestSubscribeEmptySourceDeliversNothing(t *testing.T) {
	s := NewSource[int]()

	ch, cancel := s.Subscribe(nil)
	defer cancel()

	select {
	case v := <-ch:
		t.Fatalf("unexpected value %d from empty source", v)
	case <-time.After(50 * time.Millisecond):
	}
	s.Close()
	recvClosed(t, ch)
}

func TestEmissionsInOrder(t *testing.T) {
	s := NewSource[int]()
	ch, cancel := s.Subscribe(nil)
	defer cancel()

	for i := 0; i < 100; i++ {
		s.Next(i)
	}

	got := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		got = append(got, recv(t, ch))
	}

	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d (out of order or dropped)", i, v, i)
		}
	}
}

func TestSlowSubscriberLosesNothing(t *testing.T) {
	s := NewSource[int]()
	ch, cancel := s.Subscribe(nil)
	defer cancel()

	// Emit everything before reading anything: the per-subscriber buffer
	// must hold all of it.
	for i := 0; i < 1000; i++ {
		s.Next(i)
	}
	s.Close()

	var got []int
	for v := range ch {
		got = append(got, v)
	}
	if len(got) != 1000 {
		t.Fatalf("received %d values, want 1000", len(got))
	}
	if got[0] != 0 || got[999] != 999 {
		t.Errorf("first/last = %d/%d, want 0/999", got[0], got[999])
	}
}

func TestMultipleSubscribers(t *testing.T) {
	s := NewSourceValue("a")
	defer s.Close()

	ch1, cancel1 := s.Subscribe(nil)
	defer cancel1()
	ch2, cancel2 := s.Subscribe(nil)
	defer cancel2()

	if v := recv(t, ch1); v != "a" {
		t.Errorf("ch1 replay = %q, want a", v)
	}
	if v := recv(t, ch2); v != "a" {
		t.Errorf("ch2 replay = %q, want a", v)
	}

	s.Next("b")
	if v := recv(t, ch1); v != "b" {
		t.Errorf("ch1 = %q, want b", v)
	}
	if v := recv(t, ch2); v != "b" {
		t.Errorf("ch2 = %q, want b", v)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	s := NewSourceValue(1)
	defer s.Close()

	ch, cancel := s.Subscribe(nil)
	recv(t, ch)
	cancel()
	recvClosed(t, ch)

	// Emissions after cancel go nowhere.
	s.Next(2)
}

func TestContextCancellation(t *testing.T) {
	s := NewSourceValue(1)
	defer s.Close()

	ctx, cancelCtx := context.WithCancel(context.Background())
	ch, _ := s.Subscribe(ctx)
	recv(t, ch)

	cancelCtx()
	recvClosed(t, ch)
}

func TestSubscribeAfterClose(t *testing.T) {
	s := NewSourceValue(1)
	s.Close()

	ch, cancel := s.Subscribe(nil)
	defer cancel()
	recvClosed(t, ch)
}

func TestNextAfterCloseIgnored(t *testing.T) {
	s := NewSourceValue(1)
	s.Close()
	s.Next(2)

	if v, ok := s.Peek(); !ok || v != 1 {
		t.Errorf("Peek() = %d, %v; want 1, true", v, ok)
	}
}

func TestWithEqualsDedup(t *testing.T) {
	s := NewSourceValue(1).WithEquals(func(a, b int) bool { return a == b })
	defer s.Close()

	ch, cancel := s.Subscribe(nil)
	defer cancel()
	recv(t, ch)

	s.Next(1) // suppressed
	s.Next(2)

	if v := recv(t, ch); v != 2 {
		t.Errorf("after dedup got %d, want 2", v)
	}
}

func TestMap(t *testing.T) {
	s := NewSourceValue(3)
	defer s.Close()

	doubled := Map(s, func(v int) int { return v * 2 })
	defer doubled.Close()

	ch, cancel := doubled.Subscribe(nil)
	defer cancel()

	if v := recv(t, ch); v != 6 {
		t.Errorf("mapped replay = %d, want 6", v)
	}

	s.Next(5)
	if v := recv(t, ch); v != 10 {
		t.Errorf("mapped value = %d, want 10", v)
	}
}

func TestMapClosesWithUpstream(t *testing.T) {
	s := NewSourceValue(1)
	out := Map(s, func(v int) int { return v })

	ch, cancel := out.Subscribe(nil)
	defer cancel()
	recv(t, ch)

	s.Close()
	recvClosed(t, ch)
}

func TestDistinct(t *testing.T) {
	s := NewSource[[]int]()
	out := Distinct(s)
	defer out.Close()

	ch, cancel := out.Subscribe(nil)
	defer cancel()

	s.Next([]int{1, 2})
	s.Next([]int{1, 2}) // equal slice, suppressed
	s.Next([]int{1, 2, 3})

	first := recv(t, ch)
	second := recv(t, ch)

	if diff := cmp.Diff([]int{1, 2}, first); diff != "" {
		t.Errorf("first emission mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, second); diff != "" {
		t.Errorf("second emission mismatch (-want +got):\n%s", diff)
	}
}
