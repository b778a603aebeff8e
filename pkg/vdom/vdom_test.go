package vdom_test

import (
	"testing"

	herrors "github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/state"
	"github.com/vango-dev/hydra/pkg/vdom"
)

func TestResolve(t *testing.T) {
	handler := func(*dom.Event) {}
	tests := []struct {
		name  string
		props vdom.Props
		want  []vdom.Attribute
	}{
		{"string", vdom.Props{"title": vdom.StringValue("x")}, []vdom.Attribute{{Name: "title", Value: "x"}}},
		{"number", vdom.Props{"tabindex": vdom.NumberValue(2.50)}, []vdom.Attribute{{Name: "tabindex", Value: "2.5"}}},
		{"true", vdom.Props{"disabled": vdom.BoolValue(true)}, []vdom.Attribute{{Name: "disabled", Value: ""}}},
		{"false", vdom.Props{"disabled": vdom.BoolValue(false)}, nil},
		{"undefined", vdom.Props{"title": vdom.Undefined}, nil},
		{"className", vdom.Props{"className": vdom.StringValue("a b")}, []vdom.Attribute{{Name: "class", Value: "a b"}}},
		{"htmlFor", vdom.Props{"htmlFor": vdom.StringValue("x")}, []vdom.Attribute{{Name: "for", Value: "x"}}},
		{"underscore", vdom.Props{"aria_label": vdom.StringValue("l")}, []vdom.Attribute{{Name: "aria-label", Value: "l"}}},
		{"event", vdom.Props{"onclick": vdom.EventValue(handler)}, nil},
		{"event string", vdom.Props{"onclick": vdom.StringValue("alert(1)")}, nil},
		{"live value", vdom.Props{"value": vdom.StringValue("v")}, nil},
		{"sorted", vdom.Props{"id": vdom.StringValue("i"), "className": vdom.StringValue("c")},
			[]vdom.Attribute{{Name: "class", Value: "c"}, {Name: "id", Value: "i"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vdom.Resolve(tt.props).Attrs
			if len(got) != len(tt.want) {
				t.Fatalf("Attrs = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Attrs[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResolve_LiveEventsController(t *testing.T) {
	typ := &controller.Type{Name: "menu"}
	el := vdom.Div(
		vdom.ValueAttr("hello"),
		vdom.OnClick(func(*dom.Event) {}),
		vdom.Bind(typ, nil, vdom.Ref("m")),
	)
	r := vdom.Resolve(el.Props)

	if r.Live["value"] != "hello" {
		t.Errorf("Live = %v", r.Live)
	}
	if r.Events["click"] == nil {
		t.Errorf("Events = %v, want click", r.Events)
	}
	if r.Controller == nil || r.Controller.Type != typ {
		t.Fatal("controller binding lost")
	}
	if v, ok := r.Attr("data-controller"); !ok || v != "menu" {
		t.Errorf("data-controller = %q, %v", v, ok)
	}
	if v, ok := r.Attr("data-ref"); !ok || v != "m" {
		t.Errorf("data-ref = %q, %v", v, ok)
	}
	if _, ok := r.Attr("value"); ok {
		t.Error("value must not be an attribute")
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		in   any
		kind vdom.ValueKind
	}{
		{nil, vdom.ValueUndefined},
		{"s", vdom.ValueString},
		{true, vdom.ValueBool},
		{3, vdom.ValueNumber},
		{int64(3), vdom.ValueNumber},
		{float32(1), vdom.ValueNumber},
		{func(*dom.Event) {}, vdom.ValueEvent},
		{controller.Binding{Type: &controller.Type{Name: "x"}}, vdom.ValueController},
		{(*controller.Binding)(nil), vdom.ValueUndefined},
	}
	for _, tt := range tests {
		if got := vdom.ValueOf(tt.in).Kind(); got != tt.kind {
			t.Errorf("ValueOf(%T).Kind() = %v, want %v", tt.in, got, tt.kind)
		}
	}

	defer func() {
		r := recover()
		if err, ok := r.(error); !ok || !herrors.HasCode(err, "E101") {
			t.Errorf("ValueOf(struct) panic = %v, want E101", r)
		}
	}()
	vdom.ValueOf(struct{}{})
}

func TestBadKind_Panics(t *testing.T) {
	defer func() {
		r := recover()
		if err, ok := r.(error); !ok || !herrors.HasCode(err, "E100") {
			t.Errorf("panic = %v, want E100", r)
		}
	}()
	vdom.Flatten([]*vdom.VNode{{Kind: vdom.VKind(42)}}, nil, nil)
}

func TestElementBuilders(t *testing.T) {
	n := vdom.Div(
		vdom.ID("x"),
		nil,
		"text",
		7,
		(*vdom.VNode)(nil),
		[]*vdom.VNode{vdom.Span(), vdom.Span()},
	)
	if n.Kind != vdom.KindElement || n.Tag != "div" {
		t.Fatalf("node = %+v", n)
	}
	if len(n.Children) != 5 {
		t.Fatalf("children = %d, want 5 (untyped nil skipped, typed nil kept)", len(n.Children))
	}
	if n.Children[1].Text != "7" || n.Children[2] != nil {
		t.Errorf("children = %v", n.Children)
	}
	if n.Props["id"].Str() != "x" {
		t.Errorf("id = %v", n.Props["id"])
	}
}

func TestHelpers(t *testing.T) {
	a := vdom.Text("a")
	if vdom.If(false, a) != nil || vdom.If(true, a) != a {
		t.Error("If")
	}
	if vdom.IfElse(false, a, nil) != nil {
		t.Error("IfElse")
	}
	called := false
	vdom.When(false, func() *vdom.VNode { called = true; return a })
	if called {
		t.Error("When evaluated its function for a false condition")
	}
	if vdom.Unless(true, a) != nil {
		t.Error("Unless")
	}

	nodes := vdom.Range([]int{1, 2, 3}, func(n, _ int) *vdom.VNode {
		return vdom.If(n != 2, vdom.Number(float64(n)))
	})
	if len(nodes) != 3 || nodes[1] != nil {
		t.Errorf("Range kept %d nodes, slot 1 = %v", len(nodes), nodes[1])
	}
	if vdom.Number(1.5).Text != "1.5" || vdom.Textf("%d!", 3).Text != "3!" {
		t.Error("number and formatted text")
	}
}

func TestUse(t *testing.T) {
	if vdom.Use(vdom.State{}, 4) != 4 {
		t.Error("unset state should return the initial value")
	}
	if vdom.Use(vdom.NewState("wrong type", true), 4) != 4 {
		t.Error("mistyped state should return the initial value")
	}
	if vdom.Use(vdom.NewState(9, true), 4) != 9 {
		t.Error("committed state ignored")
	}
}

// recordingScope hands out one cell per key.
type recordingScope struct {
	cells map[vdom.Key]*state.Cell
	keys  []vdom.Key
}

func (s *recordingScope) Cell(key vdom.Key, _ *state.Cell) *state.Cell {
	s.keys = append(s.keys, key)
	if c, ok := s.cells[key]; ok {
		return c
	}
	c := state.NewCell(nil, nil)
	s.cells[key] = c
	return c
}

func inner(_ any, s vdom.State, _ vdom.Update) *vdom.VNode {
	return vdom.Span(vdom.Textf("%d", vdom.Use(s, 0)))
}

func outer(args any, _ vdom.State, _ vdom.Update) *vdom.VNode {
	return vdom.Fragment(vdom.Text(args.(string)), (*vdom.VNode)(nil), vdom.Comp(inner, nil))
}

func TestFlatten(t *testing.T) {
	scope := &recordingScope{cells: make(map[vdom.Key]*state.Cell)}
	children := []*vdom.VNode{
		vdom.Text("first"),
		vdom.Fragment(vdom.Comp(outer, "a")),
	}

	items := vdom.Flatten(children, scope, nil)
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	if items[0].Node.Text != "first" || items[1].Node.Text != "a" || !items[2].Empty() || items[3].Node.Tag != "span" {
		t.Errorf("items = %+v", items)
	}

	want := []vdom.Key{
		{Offset: 1, Depth: 0, Fn: vdom.Identity(outer)},
		{Offset: 3, Depth: 1, Fn: vdom.Identity(inner)},
	}
	if len(scope.keys) != 2 || scope.keys[0] != want[0] || scope.keys[1] != want[1] {
		t.Errorf("keys = %+v, want %+v", scope.keys, want)
	}
	if items[3].Cell != scope.cells[want[1]] {
		t.Error("items rendered by a component carry its cell")
	}

	// A pending update is committed before the component renders.
	scope.cells[want[1]].Update(5)
	items = vdom.Flatten(children, scope, nil)
	if got := items[3].Node.Children[0].Text; got != "5" {
		t.Errorf("inner rendered %q, want 5", got)
	}
}

func TestFlatten_NilScope(t *testing.T) {
	var update vdom.Update
	comp := func(_ any, s vdom.State, u vdom.Update) *vdom.VNode {
		update = u
		if s.IsSet() {
			t.Error("a nil scope must give unset state")
		}
		return nil
	}
	items := vdom.Flatten([]*vdom.VNode{vdom.Comp(comp, nil)}, nil, nil)
	if len(items) != 1 || !items[0].Empty() {
		t.Errorf("items = %+v, want one empty slot", items)
	}
	update(1)
}

func TestVKind_String(t *testing.T) {
	if vdom.KindComponent.String() != "Component" || vdom.VKind(9).String() != "Unknown" {
		t.Error("VKind.String mismatch")
	}
}

func TestFlatten_EmptySiblingsGetDistinctKeys(t *testing.T) {
	empty := func(_ any, _ vdom.State, _ vdom.Update) *vdom.VNode { return vdom.Fragment() }
	scope := &recordingScope{cells: make(map[vdom.Key]*state.Cell)}

	items := vdom.Flatten([]*vdom.VNode{vdom.Comp(empty, "a"), vdom.Comp(empty, "b"), vdom.Comp(empty, "c")}, scope, nil)
	if len(items) != 0 {
		t.Fatalf("got %d items, want none", len(items))
	}
	if len(scope.keys) != 3 {
		t.Fatalf("keys = %+v", scope.keys)
	}
	for i, k := range scope.keys {
		if k.Offset != 0 || k.Seq != i {
			t.Errorf("key %d = %+v, want offset 0 seq %d", i, k, i)
		}
	}
	if len(scope.cells) != 3 {
		t.Errorf("%d cells for 3 instances", len(scope.cells))
	}
}
