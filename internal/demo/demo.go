package demo

import (
	"slices"
	"strings"

	"github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// App is a runnable demo.
type App struct {
	Name        string
	Description string

	// Tree builds a fresh top-level tree for one render or session.
	Tree func() *vdom.VNode
}

var apps = map[string]App{
	"counter": {
		Name:        "counter",
		Description: "Increment and decrement buttons around a count",
		Tree:        func() *vdom.VNode { return vdom.Comp(Counter, 0) },
	},
	"toggle": {
		Name:        "toggle",
		Description: "Conditional text and boolean attributes",
		Tree:        func() *vdom.VNode { return vdom.Comp(Toggle, nil) },
	},
	"todo": {
		Name:        "todo",
		Description: "A todo list with controllers and a clock service",
		Tree: func() *vdom.VNode {
			return vdom.Comp(Todo, TodoArgs{Title: "Todo", Items: []string{"Write docs", "Ship it"}})
		},
	},
}

// Lookup returns the demo app called name.
func Lookup(name string) (App, error) {
	app, ok := apps[name]
	if !ok {
		return App{}, errors.New("E151").
			WithDetailf("No demo app %q", name).
			WithSuggestion("Available apps: " + strings.Join(Names(), ", "))
	}
	return app, nil
}

// Names returns the names of all demo apps, sorted.
func Names() []string {
	names := make([]string, 0, len(apps))
	for name := range apps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Services returns a registry with every service the demo apps use.
func Services() *controller.Services {
	return controller.NewServices(ClockService)
}
