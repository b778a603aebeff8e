package instrument

import (
	"time"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/state"
)

// Hooks observe engine activity. Implementations must be cheap; Mutation in
// particular runs for every DOM change.
type Hooks interface {
	MountDone(d time.Duration, err error)
	HydrateDone(d time.Duration, mismatches int, err error)
	FlushDone(info state.FlushInfo)
	Mutation(kind dom.MutationKind)
	HydrationMismatch(kind string)
	StaleUpdate()
	ControllerBound(typ string)
}

// Mismatch kinds passed to HydrationMismatch.
const (
	MismatchNode      = "node"      // incompatible node replaced
	MismatchMissing   = "missing"   // virtual node had no DOM counterpart
	MismatchExtra     = "extra"     // leftover DOM node removed
	MismatchText      = "text"      // text data corrected
	MismatchAttribute = "attribute" // attributes corrected
)

// Nop ignores everything.
type Nop struct{}

func (Nop) MountDone(time.Duration, error)        {}
func (Nop) HydrateDone(time.Duration, int, error) {}
func (Nop) FlushDone(state.FlushInfo)             {}
func (Nop) Mutation(dom.MutationKind)             {}
func (Nop) HydrationMismatch(string)              {}
func (Nop) StaleUpdate()                          {}
func (Nop) ControllerBound(string)                {}

// Multi fans out to several hooks. Nil entries are skipped.
func Multi(hooks ...Hooks) Hooks {
	var m multi
	for _, h := range hooks {
		if h != nil {
			m = append(m, h)
		}
	}
	switch len(m) {
	case 0:
		return Nop{}
	case 1:
		return m[0]
	}
	return m
}

type multi []Hooks

func (m multi) MountDone(d time.Duration, err error) {
	for _, h := range m {
		h.MountDone(d, err)
	}
}

func (m multi) HydrateDone(d time.Duration, mismatches int, err error) {
	for _, h := range m {
		h.HydrateDone(d, mismatches, err)
	}
}

func (m multi) FlushDone(info state.FlushInfo) {
	for _, h := range m {
		h.FlushDone(info)
	}
}

func (m multi) Mutation(kind dom.MutationKind) {
	for _, h := range m {
		h.Mutation(kind)
	}
}

func (m multi) HydrationMismatch(kind string) {
	for _, h := range m {
		h.HydrationMismatch(kind)
	}
}

func (m multi) StaleUpdate() {
	for _, h := range m {
		h.StaleUpdate()
	}
}

func (m multi) ControllerBound(typ string) {
	for _, h := range m {
		h.ControllerBound(typ)
	}
}
