package protocol_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/protocol"
	"github.com/vango-dev/hydra/pkg/reconcile"
	"github.com/vango-dev/hydra/pkg/render"
	"github.com/vango-dev/hydra/pkg/vdom"
)

func shoppingList(_ any, s vdom.State, update vdom.Update) *vdom.VNode {
	n := vdom.Use(s, 0)
	items := make([]int, n)
	return vdom.Div(
		vdom.Button(vdom.ID("add"), vdom.OnClick(func(*dom.Event) { update(n + 1) }), "Add"),
		vdom.Span("Items: ", vdom.Number(float64(n))),
		vdom.If(n > 0, vdom.Ul(vdom.Range(items, func(_ int, i int) *vdom.VNode {
			return vdom.Li(vdom.Class("item"), vdom.Textf("item %d", i))
		}))),
		vdom.Input(vdom.ValueAttr(vdom.FormatNumber(float64(n)))),
	)
}

func TestCollectorMirror_ConvergesWithServer(t *testing.T) {
	tree := vdom.Comp(shoppingList, nil)

	var page bytes.Buffer
	if err := render.NewRenderer(render.RendererConfig{}).RenderPage(&page, render.PageData{Body: tree}); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	doc, err := dom.ParseDocument(bytes.NewReader(page.Bytes()))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	mirror, err := protocol.NewMirror(bytes.NewReader(page.Bytes()))
	if err != nil {
		t.Fatalf("NewMirror: %v", err)
	}

	container := doc.GetElementByID(render.DefaultContainerID)
	collector := protocol.NewCollector(doc, container)
	defer collector.Close()

	root, err := reconcile.HydrateElement(doc, container, tree)
	if err != nil {
		t.Fatalf("HydrateElement: %v", err)
	}
	defer root.Unmount()

	pull := func() {
		t.Helper()
		b := collector.Take()
		if b == nil {
			return
		}
		wire, err := protocol.DecodeBatch(protocol.EncodeBatch(b))
		if err != nil {
			t.Fatalf("DecodeBatch: %v", err)
		}
		if err := mirror.Apply(wire); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}

	// The text separator between "Items: " and "0" is removed by hydration.
	pull()
	if mirror.Seq() != 1 {
		t.Errorf("Seq() = %d after hydration, want 1", mirror.Seq())
	}

	for i := 0; i < 3; i++ {
		button := mirror.ElementByID("add")
		target := doc.NodeByID(mirror.ID(button))
		if target == nil {
			t.Fatal("button ID unknown to the server document")
		}
		if _, err := root.Dispatch(target, dom.NewEvent("click", nil)); err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
		pull()
	}

	got := dom.InnerHTML(mirror.ElementByID(render.DefaultContainerID))
	want := dom.InnerHTML(container)
	if got != want {
		t.Errorf("mirror diverged\n got: %s\nwant: %s", got, want)
	}
	if want != `<div><button id="add">Add</button><span>Items: 3</span><ul><li class="item">item 0</li><li class="item">item 1</li><li class="item">item 2</li></ul><input></div>` {
		t.Errorf("server markup = %s", want)
	}

	input := mirror.Node(doc.ID(doc.GetElementByID(render.DefaultContainerID).FirstChild.LastChild))
	if v, _ := mirror.Property(input, "value"); v != "3" {
		t.Errorf("mirrored value = %q, want 3", v)
	}
}

func TestCollector_IgnoresDetachedNodes(t *testing.T) {
	doc := dom.NewDocument()
	container := doc.CreateElement("div")
	doc.AppendChild(doc.Body(), container)

	c := protocol.NewCollector(doc, container)
	defer c.Close()

	li := doc.CreateElement("li")
	doc.AppendChild(li, doc.CreateTextNode("x"))
	doc.SetAttribute(li, "class", "a")
	if c.Pending() != 0 {
		t.Fatalf("Pending() = %d for detached work, want 0", c.Pending())
	}

	doc.AppendChild(container, li)
	b := c.Take()
	if b == nil || len(b.Mutations) != 1 {
		t.Fatalf("Take() = %+v, want one insert", b)
	}
	node := b.Mutations[0].Node
	if node.Tag != "li" || len(node.Children) != 1 || node.Attrs[0].Value != "a" {
		t.Errorf("inserted subtree = %+v", node)
	}
	if c.Take() != nil {
		t.Error("second Take() should be empty")
	}
}

func TestMirror_Errors(t *testing.T) {
	m, err := protocol.NewMirror(bytes.NewReader([]byte(`<html><body><div id="app"></div></body></html>`)))
	if err != nil {
		t.Fatalf("NewMirror: %v", err)
	}

	err = m.Apply(&protocol.Batch{Seq: 2})
	if !errors.Is(err, protocol.ErrOutOfOrder) {
		t.Errorf("Apply(seq 2) error = %v, want ErrOutOfOrder", err)
	}

	err = m.Apply(&protocol.Batch{Seq: 1, Mutations: []protocol.MutationWire{
		{Kind: dom.MutationSetText, Target: 999, Value: "x"},
	}})
	if !errors.Is(err, protocol.ErrUnknownNode) {
		t.Errorf("Apply(unknown target) error = %v, want ErrUnknownNode", err)
	}
}
