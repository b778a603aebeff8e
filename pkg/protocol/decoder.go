package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	// MaxAllocation bounds a single decoded string (4MB).
	MaxAllocation = 4 * 1024 * 1024

	// MaxCollectionCount bounds the length of a decoded list.
	MaxCollectionCount = 100_000
)

var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrInvalidBool        = errors.New("protocol: invalid boolean value")
	ErrAllocationTooLarge = errors.New("protocol: allocation size exceeds limit")
	ErrCollectionTooLarge = errors.New("protocol: collection count exceeds limit")
)

// Decoder reads what an Encoder wrote. Reads past the end fail with
// io.ErrUnexpectedEOF and consume nothing.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder reads from buf without copying it.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// EOF reports whether everything was read.
func (d *Decoder) EOF() bool { return d.pos >= len(d.buf) }

// take returns the next n bytes.
func (d *Decoder) take(n int) ([]byte, error) {
	if n > d.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Decoder) ReadByte() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.pos:])
	switch {
	case n > 0:
		d.pos += n
		return v, nil
	case n == 0:
		return 0, io.ErrUnexpectedEOF
	default:
		return 0, ErrVarintOverflow
	}
}

func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if n > MaxAllocation {
		return "", ErrAllocationTooLarge
	}
	if n > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	b, _ := d.take(int(n))
	return string(b), nil
}

// ReadBool accepts only the bytes 0 and 1.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	if b > 1 {
		return false, ErrInvalidBool
	}
	return b == 1, nil
}

func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadCollectionCount reads a list length. Each item needs at least one
// byte, so a count above the unread size is truncated input.
func (d *Decoder) ReadCollectionCount() (int, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if n > MaxCollectionCount {
		return 0, ErrCollectionTooLarge
	}
	if n > uint64(d.Remaining()) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(n), nil
}
