package protocol

import (
	"errors"

	"github.com/vango-dev/hydra/pkg/dom"
)

// ErrInvalidMutation is returned for an unknown mutation kind.
var ErrInvalidMutation = errors.New("protocol: invalid mutation kind")

// MutationWire is the wire form of a dom.Mutation.
type MutationWire struct {
	Kind   dom.MutationKind
	Target uint64
	Parent uint64    // Insert, Remove
	Before uint64    // Insert: 0 appends
	Name   string    // attribute or property name
	Value  string    // text, attribute or property value
	Node   *NodeWire // Insert: the inserted subtree as it was at insertion
}

// Batch is the ordered set of mutations produced by one flush.
type Batch struct {
	Seq       uint64
	Mutations []MutationWire
}

// EncodeBatch encodes a batch to bytes.
//
// Wire format:
//
//	[Seq: varint][Count: varint]
//	  [Kind: byte][Target: varint][kind-specific fields]...
func EncodeBatch(b *Batch) []byte {
	e := NewEncoder()
	EncodeBatchTo(e, b)
	return e.Bytes()
}

// EncodeBatchTo encodes a batch using the provided encoder.
func EncodeBatchTo(e *Encoder, b *Batch) {
	e.WriteUvarint(b.Seq)
	e.WriteUvarint(uint64(len(b.Mutations)))
	for i := range b.Mutations {
		encodeMutation(e, &b.Mutations[i])
	}
}

func encodeMutation(e *Encoder, m *MutationWire) {
	e.WriteByte(byte(m.Kind))
	e.WriteUvarint(m.Target)

	switch m.Kind {
	case dom.MutationInsert:
		e.WriteUvarint(m.Parent)
		e.WriteUvarint(m.Before)
		EncodeNodeTo(e, m.Node)
	case dom.MutationRemove:
		e.WriteUvarint(m.Parent)
	case dom.MutationSetText:
		e.WriteString(m.Value)
	case dom.MutationSetAttribute, dom.MutationSetProperty:
		e.WriteString(m.Name)
		e.WriteString(m.Value)
	case dom.MutationRemoveAttribute, dom.MutationDeleteProperty:
		e.WriteString(m.Name)
	}
}

// DecodeBatch decodes a batch from bytes.
func DecodeBatch(data []byte) (*Batch, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	b := &Batch{Seq: seq, Mutations: make([]MutationWire, count)}
	for i := range b.Mutations {
		if err := decodeMutation(d, &b.Mutations[i]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func decodeMutation(d *Decoder, m *MutationWire) error {
	kind, err := d.ReadByte()
	if err != nil {
		return err
	}
	m.Kind = dom.MutationKind(kind)
	if m.Target, err = d.ReadUvarint(); err != nil {
		return err
	}

	switch m.Kind {
	case dom.MutationInsert:
		if m.Parent, err = d.ReadUvarint(); err != nil {
			return err
		}
		if m.Before, err = d.ReadUvarint(); err != nil {
			return err
		}
		m.Node, err = DecodeNodeFrom(d)
	case dom.MutationRemove:
		m.Parent, err = d.ReadUvarint()
	case dom.MutationSetText:
		m.Value, err = d.ReadString()
	case dom.MutationSetAttribute, dom.MutationSetProperty:
		if m.Name, err = d.ReadString(); err != nil {
			return err
		}
		m.Value, err = d.ReadString()
	case dom.MutationRemoveAttribute, dom.MutationDeleteProperty:
		m.Name, err = d.ReadString()
	default:
		return ErrInvalidMutation
	}
	return err
}
