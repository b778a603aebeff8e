package hydra_test

import (
	"bytes"
	"testing"

	"github.com/vango-dev/hydra"
	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/render"
	"github.com/vango-dev/hydra/pkg/vdom"
)

func counter(_ any, s hydra.State, update hydra.Update) *hydra.VNode {
	n := hydra.Use(s, 0)
	return vdom.Button(
		vdom.ID("inc"),
		vdom.OnClick(func(*hydra.Event) { update(n + 1) }),
		vdom.Number(float64(n)),
	)
}

func TestRenderPageThenHydrate(t *testing.T) {
	page, err := hydra.RenderPage(render.PageData{Title: "Counter", Body: hydra.Comp(counter, nil)})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	doc, err := hydra.ParseDocument(bytes.NewReader(page))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	container := doc.GetElementByID(render.DefaultContainerID)
	root, err := hydra.Hydrate(doc, container, hydra.Comp(counter, nil))
	if err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	defer root.Unmount()

	button := doc.GetElementByID("inc")
	if _, err := root.Dispatch(button, dom.NewEvent("click", nil)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := dom.InnerHTML(container); got != `<button id="inc">1</button>` {
		t.Errorf("markup = %s", got)
	}
}

func TestMount(t *testing.T) {
	doc := hydra.NewDocument()
	container := doc.CreateElement("main")
	doc.AppendChild(doc.Body(), container)

	root, err := hydra.Mount(doc, container, vdom.P("hello"))
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if got := dom.InnerHTML(container); got != `<p>hello</p>` {
		t.Errorf("markup = %s", got)
	}

	want, _ := hydra.RenderToString(vdom.P("hello"))
	if got := dom.InnerHTML(container); got != want {
		t.Errorf("mounted %s, rendered %s", got, want)
	}
	root.Unmount()
	if container.FirstChild != nil {
		t.Error("container not empty after Unmount")
	}
}
