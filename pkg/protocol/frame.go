package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

// A frame is a one-byte type, a big-endian uint32 payload length and the
// payload. Every WebSocket message carries exactly one frame.
const FrameHeaderSize = 5

// MaxPayloadSize bounds a frame payload.
const MaxPayloadSize = MaxAllocation

// FrameType says what a frame carries.
type FrameType uint8

const (
	FrameEvent     FrameType = 0x01 // client to server: an Event
	FrameMutations FrameType = 0x02 // server to client: a Batch
	FrameError     FrameType = 0x05 // either way: an ErrorMessage
)

var frameNames = map[FrameType]string{
	FrameEvent:     "Event",
	FrameMutations: "Mutations",
	FrameError:     "Error",
}

func (ft FrameType) String() string {
	if name, ok := frameNames[ft]; ok {
		return name
	}
	return "Unknown"
}

var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a typed payload.
type Frame struct {
	Type    FrameType
	Payload []byte
}

func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode returns the header followed by the payload.
func (f *Frame) Encode() []byte {
	out := make([]byte, FrameHeaderSize, FrameHeaderSize+len(f.Payload))
	out[0] = byte(f.Type)
	binary.BigEndian.PutUint32(out[1:], uint32(len(f.Payload)))
	return append(out, f.Payload...)
}

// parseHeader validates a header and returns the frame type and payload
// length.
func parseHeader(h []byte) (FrameType, int, error) {
	if len(h) < FrameHeaderSize {
		return 0, 0, io.ErrUnexpectedEOF
	}
	ft := FrameType(h[0])
	if _, ok := frameNames[ft]; !ok {
		return 0, 0, ErrInvalidFrameType
	}
	n := binary.BigEndian.Uint32(h[1:FrameHeaderSize])
	if n > MaxPayloadSize {
		return 0, 0, ErrFrameTooLarge
	}
	return ft, int(n), nil
}

// DecodeFrame parses one frame from data. Trailing bytes are ignored and
// the payload is copied.
func DecodeFrame(data []byte) (*Frame, error) {
	ft, n, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	body := data[FrameHeaderSize:]
	if n > len(body) {
		return nil, io.ErrUnexpectedEOF
	}
	return &Frame{Type: ft, Payload: append([]byte(nil), body[:n]...)}, nil
}

// ReadFrame reads exactly one frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	var header [FrameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	ft, n, err := parseHeader(header[:])
	if err != nil {
		return nil, err
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return &Frame{Type: ft, Payload: payload}, nil
}

// WriteFrame writes f to w in one Write call.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}
