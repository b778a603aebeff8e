package protocol

import "encoding/binary"

// Encoder builds a message payload. Integers are unsigned varints unless a
// fixed width is named; strings carry a varint length prefix.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder sized for a typical mutation batch.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Reset drops the payload and keeps the buffer.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// Bytes returns the payload. It aliases the buffer until the next write or
// Reset.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the payload size.
func (e *Encoder) Len() int { return len(e.buf) }

// WriteByte appends b. It never fails.
func (e *Encoder) WriteByte(b byte) {
	e.buf = append(e.buf, b)
}

// WriteUvarint appends v as an unsigned varint.
func (e *Encoder) WriteUvarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

// WriteString appends s with its length.
func (e *Encoder) WriteString(s string) {
	e.buf = binary.AppendUvarint(e.buf, uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteBool appends 1 for true and 0 for false.
func (e *Encoder) WriteBool(b bool) {
	var v byte
	if b {
		v = 1
	}
	e.buf = append(e.buf, v)
}

// WriteUint16 appends v big-endian.
func (e *Encoder) WriteUint16(v uint16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
}

// WriteUint32 appends v big-endian.
func (e *Encoder) WriteUint32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}
