package reconcile

import (
	"log/slog"
	"time"

	"golang.org/x/net/html"

	herrors "github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/instrument"
	"github.com/vango-dev/hydra/pkg/state"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// Root is a virtual tree rendered into a container element.
type Root struct {
	doc       *dom.Document
	container *html.Node
	top       *live

	sched    *state.Scheduler
	services *controller.Services
	logger   *slog.Logger
	hooks    instrument.Hooks

	stopObserve func()
	mounted     bool
}

func newRoot(doc *dom.Document, container *html.Node, opts []Option) (*Root, error) {
	if doc == nil || container == nil || container.Type != html.ElementNode {
		return nil, herrors.New("E102").WithDetail("container must be an element node of the document")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Root{
		doc:       doc,
		container: container,
		services:  o.services,
		logger:    o.logger,
		hooks:     o.hooks,
		sched:     o.sched,
	}
	if r.hooks == nil {
		r.hooks = instrument.Nop{}
	} else {
		r.stopObserve = doc.Observe(func(m dom.Mutation) {
			r.hooks.Mutation(m.Kind)
		})
	}
	if r.sched == nil {
		r.sched = state.NewScheduler(state.NewQueue(),
			state.WithLogger(r.logger),
			state.WithMaxCascade(o.maxCascade),
			state.WithHooks(state.Hooks{
				OnFlush: r.hooks.FlushDone,
				OnStale: r.hooks.StaleUpdate,
			}),
		)
	}

	if !doc.Claim(container, r) {
		if r.stopObserve != nil {
			r.stopObserve()
		}
		return nil, herrors.New("E103").WithDetailf("container <%s> already hosts a root", container.Data)
	}

	r.top = &live{root: r, node: container}
	r.top.cells = newCellTable(r.top)
	r.setTree(nil)
	r.mounted = true
	return r, nil
}

// setTree makes tree the single child of the container host.
func (r *Root) setTree(tree *vdom.VNode) {
	r.top.vnode = &vdom.VNode{
		Kind:     vdom.KindElement,
		Tag:      r.container.Data,
		Children: []*vdom.VNode{tree},
	}
}

// AppendElement renders tree and appends the result to container.
//
// Controller and service resolution errors abort the mount; everything
// mounted so far is removed again.
func AppendElement(doc *dom.Document, container *html.Node, tree *vdom.VNode, opts ...Option) (*Root, error) {
	r, err := newRoot(doc, container, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	r.setTree(tree)
	err = r.mountTop()
	d := time.Since(start)
	r.hooks.MountDone(d, err)
	if err != nil {
		r.Unmount()
		return nil, err
	}
	r.logger.Debug("mounted", "container", container.Data, "duration", d)
	return r, nil
}

func (r *Root) mountTop() error {
	for _, it := range r.top.flatten() {
		child, err := r.mount(r.top, it)
		if err != nil {
			return err
		}
		r.top.children = append(r.top.children, child)
		if child.node != nil {
			r.doc.AppendChild(r.container, child.node)
		}
	}
	return nil
}

// HydrateElement adopts the markup already inside container for tree.
//
// Matching nodes are reused. Mismatches are repaired by mounting fresh
// nodes and reported through the logger and hooks; they are not errors.
func HydrateElement(doc *dom.Document, container *html.Node, tree *vdom.VNode, opts ...Option) (*Root, error) {
	r, err := newRoot(doc, container, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	r.setTree(tree)
	h := &hydration{r: r}
	err = h.hydrateChildren(r.top, r.top.flatten())
	d := time.Since(start)
	r.hooks.HydrateDone(d, h.mismatches, err)
	if err != nil {
		r.Unmount()
		return nil, err
	}
	r.logger.Debug("hydrated",
		"container", container.Data,
		"mismatches", h.mismatches,
		"duration", d,
	)
	return r, nil
}

// Render patches the root to a new tree.
func (r *Root) Render(tree *vdom.VNode) error {
	if !r.mounted {
		return herrors.New("E102").WithDetail("root is unmounted")
	}
	r.setTree(tree)
	return r.patchChildren(r.top, r.top.flatten())
}

// Flush runs every pending state update.
func (r *Root) Flush() error {
	return r.sched.Drain()
}

// Dispatch delivers an event to target and flushes the updates its
// handlers scheduled. It returns false if a handler prevented the default.
func (r *Root) Dispatch(target *html.Node, ev *dom.Event) (bool, error) {
	ok := r.doc.Dispatch(target, ev)
	return ok, r.Flush()
}

// Unmount disposes every controller, kills all component state and removes
// the rendered nodes from the container. It is idempotent.
func (r *Root) Unmount() {
	if !r.mounted {
		return
	}
	r.mounted = false
	for _, c := range r.top.children {
		c.destroy(true)
	}
	r.top.children = nil
	r.top.cells.killAll()
	if r.stopObserve != nil {
		r.stopObserve()
		r.stopObserve = nil
	}
	r.doc.Unclaim(r.container, r)
}

// Document returns the document the root renders into.
func (r *Root) Document() *dom.Document { return r.doc }

// Container returns the container element.
func (r *Root) Container() *html.Node { return r.container }

// Scheduler returns the scheduler flushing this root.
func (r *Root) Scheduler() *state.Scheduler { return r.sched }

// Mounted reports whether the root is still mounted.
func (r *Root) Mounted() bool { return r.mounted }
