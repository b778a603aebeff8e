package protocol

// Event is a DOM event raised on the client and dispatched on the server.
type Event struct {
	Seq    uint64 // client sequence number
	Target uint64 // node ID
	Type   string // "click", "input", ...
	Value  string // input value, key, etc.
}

// EncodeEvent encodes an event to bytes.
//
// Wire format: [Seq: varint][Target: varint][Type: string][Value: string]
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.WriteUvarint(ev.Seq)
	e.WriteUvarint(ev.Target)
	e.WriteString(ev.Type)
	e.WriteString(ev.Value)
	return e.Bytes()
}

// DecodeEvent decodes an event from bytes.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	var ev Event
	var err error
	if ev.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if ev.Target, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if ev.Type, err = d.ReadString(); err != nil {
		return nil, err
	}
	if ev.Value, err = d.ReadString(); err != nil {
		return nil, err
	}
	return &ev, nil
}
