package wire

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bindkit-dev/bindkit/pkg/keyed"
)

func TestVarintBoundaries(t *testing.T) {
	values := []uint64{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, math.MaxUint64}
	for _, v := range values {
		e := NewEncoder()
		e.WriteUvarint(v)
		d := NewDecoder(e.Bytes())
		got, err := d.ReadUvarint()
		if err != nil {
			t.Fatalf("ReadUvarint(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("uvarint roundtrip: got %d, want %d", got, v)
		}
		if !d.EOF() {
			t.Errorf("uvarint %d left %d trailing bytes", v, d.Remaining())
		}
	}
}

func TestSvarintZigZag(t *testing.T) {
	// ZigZag interleaves small magnitudes regardless of sign, so all of
	// these must encode in one byte.
	for _, v := range []int64{0, -1, 1, -2, 2, -64, 63} {
		e := NewEncoder()
		e.WriteSvarint(v)
		if e.Len() != 1 {
			t.Errorf("svarint %d encoded in %d bytes, want 1", v, e.Len())
		}
		got, err := NewDecoder(e.Bytes()).ReadSvarint()
		if err != nil {
			t.Fatalf("ReadSvarint(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("svarint roundtrip: got %d, want %d", got, v)
		}
	}

	for _, v := range []int64{math.MinInt64, math.MaxInt64, -123456789} {
		e := NewEncoder()
		e.WriteSvarint(v)
		got, err := NewDecoder(e.Bytes()).ReadSvarint()
		if err != nil {
			t.Fatalf("ReadSvarint(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("svarint roundtrip: got %d, want %d", got, v)
		}
	}
}

func TestVarintOverflow(t *testing.T) {
	// 11 continuation bytes push past 64 bits of shift.
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0xFF
	}
	if _, err := NewDecoder(buf).ReadUvarint(); !errors.Is(err, ErrVarintOverflow) {
		t.Errorf("got %v, want ErrVarintOverflow", err)
	}
}

func TestScriptRoundtrip(t *testing.T) {
	script := &Script{
		Seq:    42,
		Region: "todo-list",
		Patches: []keyed.Patch{
			{Op: keyed.OpRemove, Key: "c"},
			{Op: keyed.OpInsert, Key: "x", After: ""},
			{Op: keyed.OpInsert, Key: "y", After: "x"},
			{Op: keyed.OpMove, Key: "a", Before: "b"},
			{Op: keyed.OpMove, Key: "z", Before: ""},
		},
	}

	got, err := DecodeScript(EncodeScript(script))
	if err != nil {
		t.Fatalf("DecodeScript failed: %v", err)
	}
	if diff := cmp.Diff(script, got); diff != "" {
		t.Errorf("script mismatch (-want +got):\n%s", diff)
	}
}

func TestScriptDecodeRejectsBadPayloads(t *testing.T) {
	good := EncodeScript(&Script{
		Seq:     1,
		Region:  "r",
		Patches: []keyed.Patch{{Op: keyed.OpInsert, Key: "a"}},
	})

	t.Run("truncated", func(t *testing.T) {
		for n := 0; n < len(good); n++ {
			if _, err := DecodeScript(good[:n]); err == nil {
				t.Errorf("truncation to %d bytes decoded without error", n)
			}
		}
	})

	t.Run("unknown op", func(t *testing.T) {
		e := NewEncoder()
		e.WriteUvarint(1)
		e.WriteString("r")
		e.WriteUvarint(1)
		e.WriteByte(0x7E)
		e.WriteString("a")
		e.WriteString("")
		if _, err := DecodeScript(e.Bytes()); !errors.Is(err, ErrUnknownPatchOp) {
			t.Errorf("got %v, want ErrUnknownPatchOp", err)
		}
	})

	t.Run("inflated count", func(t *testing.T) {
		// A count far beyond the buffer must be rejected before any
		// allocation happens.
		e := NewEncoder()
		e.WriteUvarint(1)
		e.WriteString("r")
		e.WriteUvarint(uint64(MaxCollectionCount) + 1)
		if _, err := DecodeScript(e.Bytes()); !errors.Is(err, ErrCollectionTooLarge) {
			t.Errorf("got %v, want ErrCollectionTooLarge", err)
		}
	})

	t.Run("count exceeds buffer", func(t *testing.T) {
		e := NewEncoder()
		e.WriteUvarint(1)
		e.WriteString("r")
		e.WriteUvarint(1000)
		if _, err := DecodeScript(e.Bytes()); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("got %v, want ErrUnexpectedEOF", err)
		}
	})
}

func TestEventRoundtrip(t *testing.T) {
	ev := &Event{Region: "todo-list", Key: "42", Name: "input", Value: "buy milk"}
	got, err := DecodeEvent(EncodeEvent(ev))
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if diff := cmp.Diff(ev, got); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestFrame(t *testing.T) {
	f := &Frame{Type: FrameScript, Payload: []byte("payload")}
	data, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if got.Type != FrameScript || string(got.Payload) != "payload" {
		t.Errorf("frame roundtrip: got %v %q", got.Type, got.Payload)
	}

	if _, err := DecodeFrame(data[:2]); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("short header: got %v, want ErrUnexpectedEOF", err)
	}
	if _, err := DecodeFrame([]byte{0x7F, 0, 0, 0}); !errors.Is(err, ErrInvalidFrameType) {
		t.Errorf("bad type: got %v, want ErrInvalidFrameType", err)
	}

	big := &Frame{Type: FrameScript, Payload: make([]byte, MaxPayloadSize+1)}
	if _, err := big.Encode(); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("oversized payload: got %v, want ErrFrameTooLarge", err)
	}
}

func TestStringLengthLimits(t *testing.T) {
	// A length prefix beyond the buffer fails before any allocation.
	e := NewEncoder()
	e.WriteUvarint(MaxAllocation + 1)
	e.WriteBytes(make([]byte, 16))
	if _, err := NewDecoder(e.Bytes()).ReadString(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got %v, want ErrUnexpectedEOF", err)
	}

	// A length that fits the buffer but exceeds the allocation cap is
	// rejected too.
	e = NewEncoder()
	e.WriteUvarint(MaxAllocation + 1)
	e.WriteBytes(make([]byte, MaxAllocation+1))
	if _, err := NewDecoder(e.Bytes()).ReadString(); !errors.Is(err, ErrAllocationTooLarge) {
		t.Errorf("got %v, want ErrAllocationTooLarge", err)
	}
}
