package wire

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the maximum payload size (2^16 - 1 bytes).
	MaxPayloadSize = 65535
)

// FrameType identifies the frame payload.
type FrameType uint8

const (
	FrameHello   FrameType = 0x00 // Connection setup
	FrameScript  FrameType = 0x01 // Server -> client patch script
	FrameEvent   FrameType = 0x02 // Client -> server host event
	FrameControl FrameType = 0x03 // Ping and other control messages
	FrameError   FrameType = 0x04 // Error report
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHello:
		return "Hello"
	case FrameScript:
		return "Script"
	case FrameEvent:
		return "Event"
	case FrameControl:
		return "Control"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("wire: frame payload too large")
	ErrInvalidFrameType = errors.New("wire: invalid frame type")
)

// Frame is one protocol frame.
//
// Wire format: type (1 byte), reserved flags (1 byte), payload length
// (2 bytes, big-endian), then the payload.
type Frame struct {
	Type    FrameType
	Payload []byte
}

// Encode encodes the frame including the header.
func (f *Frame) Encode() ([]byte, error) {
	length := len(f.Payload)
	if length > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	buf := make([]byte, FrameHeaderSize+length)
	buf[0] = byte(f.Type)
	buf[2] = byte(length >> 8)
	buf[3] = byte(length)
	copy(buf[FrameHeaderSize:], f.Payload)
	return buf, nil
}

// DecodeFrame decodes a frame. The input must contain the full header
// and payload.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}

	ft := FrameType(data[0])
	if ft > FrameError {
		return nil, ErrInvalidFrameType
	}
	length := int(data[2])<<8 | int(data[3])
	if len(data) < FrameHeaderSize+length {
		return nil, io.ErrUnexpectedEOF
	}

	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:FrameHeaderSize+length])

	return &Frame{Type: ft, Payload: payload}, nil
}
