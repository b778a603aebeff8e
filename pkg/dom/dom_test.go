package dom_test

import (
	"strings"
	"testing"

	"github.com/vango-dev/hydra/pkg/dom"
)

func TestDocument_TreeMutations(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")
	text := doc.CreateTextNode("hi")

	stop := doc.Record()
	doc.AppendChild(doc.Body(), div)
	doc.AppendChild(div, text)
	doc.SetText(text, "hello")
	doc.SetText(text, "hello")
	doc.RemoveChild(div, text)
	records := stop()

	want := []dom.MutationKind{dom.MutationInsert, dom.MutationInsert, dom.MutationSetText, dom.MutationRemove}
	if len(records) != len(want) {
		t.Fatalf("got %d mutations, want %d: %+v", len(records), len(want), records)
	}
	for i, k := range want {
		if records[i].Kind != k {
			t.Errorf("mutation %d = %v, want %v", i, records[i].Kind, k)
		}
	}
	if records[1].Parent != doc.ID(div) || records[1].Target != doc.ID(text) {
		t.Errorf("insert = %+v, want parent %d target %d", records[1], doc.ID(div), doc.ID(text))
	}
	if records[2].Value != "hello" {
		t.Errorf("SetText value = %q", records[2].Value)
	}
	if text.Parent != nil {
		t.Error("removed node still has a parent")
	}
	if doc.Mutations() != 4 {
		t.Errorf("Mutations() = %d, want 4", doc.Mutations())
	}
}

func TestDocument_InsertBeforeMovesNode(t *testing.T) {
	doc := dom.NewDocument()
	ul := doc.CreateElement("ul")
	a := doc.CreateElement("li")
	b := doc.CreateElement("li")
	doc.AppendChild(ul, a)
	doc.AppendChild(ul, b)

	stop := doc.Record()
	doc.InsertBefore(ul, b, a)
	records := stop()

	if ul.FirstChild != b || ul.LastChild != a {
		t.Error("InsertBefore did not move b ahead of a")
	}
	if len(records) != 1 || records[0].Before != doc.ID(a) {
		t.Errorf("records = %+v, want one insert before a", records)
	}
}

func TestDocument_Attributes(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("input")

	stop := doc.Record()
	doc.SetAttribute(n, "type", "text")
	doc.SetAttribute(n, "type", "text")
	doc.SetAttribute(n, "disabled", "")
	doc.RemoveAttribute(n, "missing")
	doc.RemoveAttribute(n, "type")
	records := stop()

	if len(records) != 3 {
		t.Fatalf("got %d mutations, want 3: %+v", len(records), records)
	}
	if !doc.HasAttribute(n, "disabled") || doc.HasAttribute(n, "type") {
		t.Errorf("attrs = %+v", n.Attr)
	}
	if got := dom.OuterHTML(n); got != `<input disabled>` {
		t.Errorf("OuterHTML = %q", got)
	}
}

func TestDocument_Properties(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("input")

	stop := doc.Record()
	doc.SetProperty(n, "value", "a")
	doc.SetProperty(n, "value", "a")
	doc.SetProperty(n, "checked", true)
	doc.DeleteProperty(n, "checked")
	doc.DeleteProperty(n, "checked")
	records := stop()

	if len(records) != 3 {
		t.Fatalf("got %d mutations, want 3", len(records))
	}
	if records[1].Value != "true" {
		t.Errorf("checked carried as %q, want true", records[1].Value)
	}
	if v, ok := doc.Property(n, "value"); !ok || v != "a" {
		t.Errorf("Property(value) = %v, %v", v, ok)
	}
	props := doc.Properties(n)
	props["value"] = "changed"
	if v, _ := doc.Property(n, "value"); v != "a" {
		t.Error("Properties must return a copy")
	}
}

func TestPropertyString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{false, "false"},
		{42, "42"},
		{1.5, "1.5"},
		{int64(7), "7"},
	}
	for _, tt := range tests {
		if got := dom.PropertyString(tt.in); got != tt.want {
			t.Errorf("PropertyString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDispatch_Bubbles(t *testing.T) {
	doc := dom.NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("button")
	doc.AppendChild(outer, inner)

	var order []string
	doc.AddEventListener(outer, "click", func(e *dom.Event) {
		order = append(order, "outer")
		if e.Target != inner || e.CurrentTarget != outer {
			t.Errorf("outer saw target %v current %v", e.Target, e.CurrentTarget)
		}
	})
	doc.AddEventListener(inner, "click", func(*dom.Event) { order = append(order, "inner") })

	if !doc.Dispatch(inner, dom.NewEvent("click", nil)) {
		t.Error("Dispatch returned false without PreventDefault")
	}
	if strings.Join(order, ",") != "inner,outer" {
		t.Errorf("order = %v, want inner,outer", order)
	}
}

func TestDispatch_StopAndPrevent(t *testing.T) {
	doc := dom.NewDocument()
	outer := doc.CreateElement("form")
	inner := doc.CreateElement("button")
	doc.AppendChild(outer, inner)

	outerCalls := 0
	doc.AddEventListener(outer, "submit", func(*dom.Event) { outerCalls++ })
	doc.AddEventListener(inner, "submit", func(e *dom.Event) {
		e.StopPropagation()
		e.PreventDefault()
	})

	ev := dom.NewEvent("submit", "payload")
	if doc.Dispatch(inner, ev) {
		t.Error("Dispatch should report the prevented default")
	}
	if outerCalls != 0 {
		t.Error("propagation was not stopped")
	}
	if ev.Value() != "payload" || !ev.DefaultPrevented() {
		t.Errorf("event = %+v", ev)
	}
}

func TestAddEventListener_Remove(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("button")

	calls := 0
	remove := doc.AddEventListener(n, "click", func(*dom.Event) { calls++ })
	doc.AddEventListener(n, "click", func(*dom.Event) { calls += 10 })
	remove()
	remove()

	if doc.ListenerCount(n, "click") != 1 {
		t.Errorf("ListenerCount = %d, want 1", doc.ListenerCount(n, "click"))
	}
	doc.Dispatch(n, dom.NewEvent("click", nil))
	if calls != 10 {
		t.Errorf("calls = %d, want 10", calls)
	}
}

func TestDispatch_ListenerRemovedDuringDispatch(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("button")

	var second func()
	calls := 0
	doc.AddEventListener(n, "click", func(*dom.Event) { second() })
	second = doc.AddEventListener(n, "click", func(*dom.Event) { calls++ })

	doc.Dispatch(n, dom.NewEvent("click", nil))
	if calls != 0 {
		t.Error("a listener removed earlier in the same dispatch still ran")
	}
}

func TestParseDocument_NumbersNodesInOrder(t *testing.T) {
	doc, err := dom.ParseDocument(strings.NewReader(`<html><head></head><body><p id="x">hi</p></body></html>`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.NodeByID(1) != doc.Root() {
		t.Error("the document node should have ID 1")
	}
	p := doc.GetElementByID("x")
	if p == nil {
		t.Fatal("GetElementByID(x) = nil")
	}
	if doc.ID(p.FirstChild) != doc.ID(p)+1 {
		t.Errorf("text ID %d should follow its parent %d", doc.ID(p.FirstChild), doc.ID(p))
	}
	if doc.Head() == nil || doc.Body() == nil {
		t.Error("head and body must be found")
	}
}

func TestSetInnerHTML(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")
	doc.AppendChild(doc.Body(), div)
	old := doc.CreateElement("span")
	doc.AppendChild(div, old)
	oldID := doc.ID(old)

	if err := doc.SetInnerHTML(div, `<b>bold</b> text`); err != nil {
		t.Fatalf("SetInnerHTML: %v", err)
	}
	if got := dom.InnerHTML(div); got != `<b>bold</b> text` {
		t.Errorf("InnerHTML = %q", got)
	}
	if doc.NodeByID(oldID) != nil {
		t.Error("replaced children should be released")
	}
	if doc.NodeByID(doc.ID(div.FirstChild)) != div.FirstChild {
		t.Error("parsed children need IDs")
	}
}

func TestRelease(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("div")
	child := doc.CreateTextNode("x")
	doc.AppendChild(n, child)
	doc.SetProperty(n, "value", "v")
	doc.AddEventListener(n, "click", func(*dom.Event) {})
	id, childID := doc.ID(n), doc.ID(child)

	doc.Release(n)

	if doc.NodeByID(id) != nil || doc.NodeByID(childID) != nil {
		t.Error("released IDs still resolve")
	}
	if _, ok := doc.Property(n, "value"); ok {
		t.Error("released properties still present")
	}
	if doc.ListenerCount(n, "click") != 0 {
		t.Error("released listeners still registered")
	}
}

func TestContains(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("div")
	if doc.Contains(n) {
		t.Error("detached node reported as contained")
	}
	doc.AppendChild(doc.Body(), n)
	if !doc.Contains(n) {
		t.Error("attached node not contained")
	}
}

func TestSerialize(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")
	doc.SetAttribute(div, "title", `a "q" <b>`)
	doc.AppendChild(div, doc.CreateTextNode("1 < 2 & 3"))
	doc.AppendChild(div, doc.CreateComment(""))
	br := doc.CreateElement("br")
	doc.AppendChild(div, br)
	script := doc.CreateElement("script")
	doc.AppendChild(script, doc.CreateTextNode("if (a < b) {}"))
	doc.AppendChild(div, script)

	want := `<div title="a &quot;q&quot; &lt;b&gt;">1 &lt; 2 &amp; 3<!----><br><script>if (a < b) {}</script></div>`
	if got := dom.OuterHTML(div); got != want {
		t.Errorf("OuterHTML =\n %s\nwant\n %s", got, want)
	}
	if got := dom.TextContent(div); got != "1 < 2 & 3if (a < b) {}" {
		t.Errorf("TextContent = %q", got)
	}
}

func TestEscape(t *testing.T) {
	if got := dom.EscapeText(`<a href='x'>`); got != `&lt;a href=&#39;x&#39;&gt;` {
		t.Errorf("EscapeText = %q", got)
	}
	if got := dom.EscapeAttr("a\nb\tc"); got != "a&#10;b&#9;c" {
		t.Errorf("EscapeAttr = %q", got)
	}
	if !dom.IsVoidElement("input") || dom.IsVoidElement("div") {
		t.Error("IsVoidElement misclassified")
	}
}

func TestObserve_Unregister(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("div")
	count := 0
	stop := doc.Observe(func(dom.Mutation) { count++ })
	doc.SetAttribute(n, "a", "1")
	stop()
	doc.SetAttribute(n, "a", "2")
	if count != 1 {
		t.Errorf("observer saw %d mutations, want 1", count)
	}
}

func TestMutationKind_String(t *testing.T) {
	if dom.MutationSetProperty.String() != "SetProperty" || dom.MutationKind(99).String() != "Unknown" {
		t.Error("MutationKind.String mismatch")
	}
}

func TestClaim(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("div")
	a, b := new(int), new(int)

	if !doc.Claim(n, a) {
		t.Fatal("first claim failed")
	}
	if doc.Claim(n, b) {
		t.Error("second claim succeeded")
	}
	if doc.Owner(n) != a {
		t.Errorf("owner = %v, want first claimant", doc.Owner(n))
	}

	doc.Unclaim(n, b)
	if doc.Owner(n) != a {
		t.Error("unclaim by non-owner dropped the claim")
	}
	doc.Unclaim(n, a)
	if !doc.Claim(n, b) {
		t.Error("claim after unclaim failed")
	}

	other := dom.NewDocument()
	m := other.CreateElement("div")
	if !other.Claim(m, a) {
		t.Error("claims leak across documents")
	}

	doc.Release(n)
	if doc.Owner(n) != nil {
		t.Error("released node keeps its owner")
	}
}
