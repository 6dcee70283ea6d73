package wire

import (
	"errors"
	"fmt"

	"github.com/bindkit-dev/bindkit/pkg/keyed"
)

// Script is one applied snapshot's patch script for a region, as sent to
// clients. Seq is per-region and strictly increasing; a gap means the
// client missed a script and must resync.
type Script struct {
	Seq     uint64
	Region  string
	Patches []keyed.Patch
}

// ErrUnknownPatchOp reports a script payload with an op byte outside the
// known range.
var ErrUnknownPatchOp = errors.New("wire: unknown patch op")

// Patch op bytes. These are wire values, decoupled from the keyed.Op
// iota so reordering the Go constants cannot break old clients.
const (
	opInsert byte = 0x01
	opRemove byte = 0x02
	opMove   byte = 0x03
)

// EncodeScript encodes a script payload.
//
// Layout: seq uvarint, region string, patch count uvarint, then per
// patch: op byte, key string, anchor string. The anchor is After for
// inserts, Before for moves, and empty for removes; an empty anchor
// means region start for inserts and region end for moves.
func EncodeScript(s *Script) []byte {
	e := NewEncoder()
	e.WriteUvarint(s.Seq)
	e.WriteString(s.Region)
	e.WriteUvarint(uint64(len(s.Patches)))
	for _, p := range s.Patches {
		switch p.Op {
		case keyed.OpInsert:
			e.WriteByte(opInsert)
			e.WriteString(p.Key)
			e.WriteString(p.After)
		case keyed.OpRemove:
			e.WriteByte(opRemove)
			e.WriteString(p.Key)
			e.WriteString("")
		case keyed.OpMove:
			e.WriteByte(opMove)
			e.WriteString(p.Key)
			e.WriteString(p.Before)
		}
	}
	return e.Bytes()
}

// DecodeScript decodes a script payload.
func DecodeScript(data []byte) (*Script, error) {
	d := NewDecoder(data)

	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, fmt.Errorf("wire: script seq: %w", err)
	}
	region, err := d.ReadString()
	if err != nil {
		return nil, fmt.Errorf("wire: script region: %w", err)
	}
	count, err := d.ReadCount()
	if err != nil {
		return nil, fmt.Errorf("wire: script patch count: %w", err)
	}

	patches := make([]keyed.Patch, 0, count)
	for i := 0; i < count; i++ {
		op, err := d.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("wire: patch %d op: %w", i, err)
		}
		key, err := d.ReadString()
		if err != nil {
			return nil, fmt.Errorf("wire: patch %d key: %w", i, err)
		}
		anchor, err := d.ReadString()
		if err != nil {
			return nil, fmt.Errorf("wire: patch %d anchor: %w", i, err)
		}

		switch op {
		case opInsert:
			patches = append(patches, keyed.Patch{Op: keyed.OpInsert, Key: key, After: anchor})
		case opRemove:
			patches = append(patches, keyed.Patch{Op: keyed.OpRemove, Key: key})
		case opMove:
			patches = append(patches, keyed.Patch{Op: keyed.OpMove, Key: key, Before: anchor})
		default:
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownPatchOp, op)
		}
	}

	return &Script{Seq: seq, Region: region, Patches: patches}, nil
}
