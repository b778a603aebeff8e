package demo

import (
	"slices"
	"strings"

	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// TodoArgs configures the Todo component.
type TodoArgs struct {
	Title string
	Items []string
}

type todoItem struct {
	ID   int
	Text string
	Done bool
}

type todoState struct {
	Items  []todoItem
	Draft  string
	NextID int
}

func (s todoState) clone() todoState {
	s.Items = slices.Clone(s.Items)
	return s
}

func initialTodo(a TodoArgs) todoState {
	var s todoState
	for _, text := range a.Items {
		s.NextID++
		s.Items = append(s.Items, todoItem{ID: s.NextID, Text: text})
	}
	return s
}

// Todo renders an editable todo list. args is a TodoArgs.
func Todo(args any, s vdom.State, update vdom.Update) *vdom.VNode {
	a, _ := args.(TodoArgs)
	st := vdom.Use(s, initialTodo(a))

	toggle := func(id int) {
		next := st.clone()
		for i := range next.Items {
			if next.Items[i].ID == id {
				next.Items[i].Done = !next.Items[i].Done
			}
		}
		update(next)
	}
	remove := func(id int) {
		next := st.clone()
		next.Items = slices.DeleteFunc(next.Items, func(it todoItem) bool { return it.ID == id })
		update(next)
	}
	add := func() {
		text := strings.TrimSpace(st.Draft)
		if text == "" {
			return
		}
		next := st.clone()
		next.NextID++
		next.Items = append(next.Items, todoItem{ID: next.NextID, Text: text})
		next.Draft = ""
		update(next)
	}

	left := 0
	for _, it := range st.Items {
		if !it.Done {
			left++
		}
	}

	return vdom.Section(
		vdom.ID("todo"),
		vdom.Bind(TodoList, controller.Args{"toggle": toggle}, vdom.Ref("list")),
		vdom.H1(a.Title),
		vdom.Form(
			vdom.ID("new"),
			vdom.OnSubmit(func(e *dom.Event) {
				e.PreventDefault()
				add()
			}),
			vdom.Input(
				vdom.ID("draft"),
				vdom.Type("text"),
				vdom.Placeholder("What needs doing?"),
				vdom.ValueAttr(st.Draft),
				vdom.OnInput(func(e *dom.Event) {
					next := st.clone()
					next.Draft = e.Value()
					update(next)
				}),
			),
			vdom.Button(vdom.ID("add"), vdom.Type("submit"), vdom.Disabled(strings.TrimSpace(st.Draft) == ""), "Add"),
		),
		vdom.If(len(st.Items) == 0, vdom.P(vdom.Class("empty"), "Nothing to do")),
		vdom.Ul(
			vdom.ID("items"),
			vdom.Range(st.Items, func(it todoItem, _ int) *vdom.VNode {
				return vdom.Comp(TodoRow, RowArgs{Item: it, Remove: func() { remove(it.ID) }})
			}),
		),
		vdom.P(
			vdom.ID("summary"),
			vdom.Bind(TodoSummary, nil, vdom.Ref("summary")),
			left, " of ", len(st.Items), " left",
		),
	)
}

// RowArgs are the args of TodoRow.
type RowArgs struct {
	Item   todoItem
	Remove func()
}

// TodoRow renders one todo item. Double-clicking it toggles the item
// through its TodoItem controller.
func TodoRow(args any, _ vdom.State, _ vdom.Update) *vdom.VNode {
	r := args.(RowArgs)
	return vdom.Li(
		vdom.ClassIf(r.Item.Done, "done"),
		vdom.Bind(TodoItem, controller.Args{"id": r.Item.ID}, vdom.On("dblclick", "Toggle")),
		vdom.Span(vdom.Class("text"), r.Item.Text),
		vdom.Button(vdom.Class("remove"), vdom.OnClick(func(*dom.Event) { r.Remove() }), "×"),
	)
}
