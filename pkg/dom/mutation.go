package dom

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"
)

// MutationKind identifies a DOM mutation.
type MutationKind uint8

const (
	MutationInsert          MutationKind = 0x01
	MutationRemove          MutationKind = 0x02
	MutationSetText         MutationKind = 0x03
	MutationSetAttribute    MutationKind = 0x04
	MutationRemoveAttribute MutationKind = 0x05
	MutationSetProperty     MutationKind = 0x06
	MutationDeleteProperty  MutationKind = 0x07
)

// String returns the string representation of the MutationKind.
func (k MutationKind) String() string {
	switch k {
	case MutationInsert:
		return "Insert"
	case MutationRemove:
		return "Remove"
	case MutationSetText:
		return "SetText"
	case MutationSetAttribute:
		return "SetAttribute"
	case MutationRemoveAttribute:
		return "RemoveAttribute"
	case MutationSetProperty:
		return "SetProperty"
	case MutationDeleteProperty:
		return "DeleteProperty"
	default:
		return "Unknown"
	}
}

// Mutation records one change made through a Document.
type Mutation struct {
	Kind   MutationKind
	Target uint64 // ID of the changed or inserted node
	Parent uint64 // Insert/Remove: parent ID
	Before uint64 // Insert: reference sibling ID, 0 for append
	Name   string // attribute or property name
	Value  string // new text, attribute or property value
	Node   *html.Node
}

// Observe registers fn to receive every subsequent mutation.
// The returned function unregisters it.
func (d *Document) Observe(fn func(Mutation)) func() {
	d.observersMu.Lock()
	d.nextObs++
	id := d.nextObs
	d.observers[id] = fn
	d.observersMu.Unlock()

	return func() {
		d.observersMu.Lock()
		delete(d.observers, id)
		d.observersMu.Unlock()
	}
}

// Record collects mutations until the returned stop function is called.
func (d *Document) Record() (stop func() []Mutation) {
	var records []Mutation
	cancel := d.Observe(func(m Mutation) {
		records = append(records, m)
	})
	return func() []Mutation {
		cancel()
		return records
	}
}

func (d *Document) emit(m Mutation) {
	d.mutations++
	d.observersMu.RLock()
	defer d.observersMu.RUnlock()
	for _, fn := range d.observers {
		fn(m)
	}
}

func propertyString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
