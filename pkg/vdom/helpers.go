package vdom

import "fmt"

// Text returns a text primitive.
func Text(content string) *VNode { return &VNode{Kind: KindText, Text: content} }

// Textf returns a text primitive built with fmt.Sprintf.
func Textf(format string, args ...any) *VNode { return Text(fmt.Sprintf(format, args...)) }

// Number returns a text primitive spelled like a numeric attribute.
func Number(n float64) *VNode { return Text(FormatNumber(n)) }

// Fragment groups children without a wrapper element. Its children are
// spliced into the parent when the tree is flattened; a nil *VNode child
// stays an empty slot.
func Fragment(children ...any) *VNode {
	return &VNode{Kind: KindFragment, Children: appendArgs(nil, nil, children)}
}

// The conditional helpers below return a typed nil for the branch not
// taken. As a child it becomes an empty slot, so the siblings after it keep
// their positions whichever branch renders.

// If returns node when cond holds.
func If(cond bool, node *VNode) *VNode { return IfElse(cond, node, nil) }

// Unless returns node when cond does not hold.
func Unless(cond bool, node *VNode) *VNode { return IfElse(cond, nil, node) }

// IfElse picks one of two nodes.
func IfElse(cond bool, then, otherwise *VNode) *VNode {
	if cond {
		return then
	}
	return otherwise
}

// When calls build only when cond holds.
func When(cond bool, build func() *VNode) *VNode {
	if !cond {
		return nil
	}
	return build()
}

// Range builds one child per item. A nil result is kept as an empty slot
// so child positions follow item indexes.
func Range[T any](items []T, build func(item T, index int) *VNode) []*VNode {
	out := make([]*VNode, len(items))
	for i, item := range items {
		out[i] = build(item, i)
	}
	return out
}

// Nothing is an explicit empty slot.
func Nothing() *VNode { return nil }
