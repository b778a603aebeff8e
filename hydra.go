// Package hydra provides the public API of the hydra reconciliation engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/hydra"
//
// Usage:
//
//	func Counter(_ any, s hydra.State, update hydra.Update) *hydra.VNode {
//	    n := hydra.Use(s, 0)
//	    return vdom.Button(vdom.OnClick(func(*hydra.Event) { update(n + 1) }), vdom.Number(float64(n)))
//	}
//
//	root, err := hydra.Hydrate(doc, doc.GetElementByID("app"), hydra.Comp(Counter, nil))
//
// Element and attribute constructors live in pkg/vdom.
package hydra

import (
	"bytes"
	"io"

	"golang.org/x/net/html"

	"github.com/vango-dev/hydra/pkg/controller"
	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/reconcile"
	"github.com/vango-dev/hydra/pkg/render"
	"github.com/vango-dev/hydra/pkg/vdom"
)

// =============================================================================
// Element model (re-export from pkg/vdom)
// =============================================================================

// VNode is a virtual node: element, text, fragment or component.
type VNode = vdom.VNode

// Component renders a subtree from its args and committed state.
type Component = vdom.Component

// State is the committed state a component renders with.
type State = vdom.State

// Update schedules a new state value for the next flush.
type Update = vdom.Update

// Comp creates a component node.
func Comp(c Component, args any) *VNode { return vdom.Comp(c, args) }

// Use returns the state as T, or initial if it was never set.
func Use[T any](s State, initial T) T { return vdom.Use(s, initial) }

// =============================================================================
// Document (re-export from pkg/dom)
// =============================================================================

// Document is the DOM the engine renders into.
type Document = dom.Document

// Event is a DOM event passed to handlers and controller methods.
type Event = dom.Event

// NewDocument returns an empty document with <html>, <head> and <body>.
var NewDocument = dom.NewDocument

// ParseDocument parses a full page, typically server-rendered markup.
func ParseDocument(r io.Reader) (*Document, error) { return dom.ParseDocument(r) }

// =============================================================================
// Roots (re-export from pkg/reconcile)
// =============================================================================

// Root is a tree rendered into a container element.
type Root = reconcile.Root

// Option configures a Root.
type Option = reconcile.Option

// WithLogger sets the logger of a root.
var WithLogger = reconcile.WithLogger

// WithServices sets the service registry controllers resolve from.
var WithServices = reconcile.WithServices

// WithHooks installs instrumentation hooks.
var WithHooks = reconcile.WithHooks

// WithMaxCascade bounds consecutive flushes before an update storm is
// reported.
var WithMaxCascade = reconcile.WithMaxCascade

// Mount renders tree and appends it to container.
func Mount(doc *Document, container *html.Node, tree *VNode, opts ...Option) (*Root, error) {
	return reconcile.AppendElement(doc, container, tree, opts...)
}

// Hydrate adopts the server markup inside container for tree.
func Hydrate(doc *Document, container *html.Node, tree *VNode, opts ...Option) (*Root, error) {
	return reconcile.HydrateElement(doc, container, tree, opts...)
}

// =============================================================================
// Controllers and services (re-export from pkg/controller)
// =============================================================================

// ControllerType describes a kind of controller.
type ControllerType = controller.Type

// ServiceType describes a process-wide service.
type ServiceType = controller.ServiceType

// Services is a registry of lazily constructed services.
type Services = controller.Services

// Args are the declared arguments of a controller binding.
type Args = controller.Args

// NewServices creates a registry with the given types registered.
var NewServices = controller.NewServices

// Bind attaches a controller of type t to an element.
var Bind = vdom.Bind

// =============================================================================
// Server rendering (re-export from pkg/render)
// =============================================================================

// RenderToString renders tree to HTML that Hydrate can adopt.
func RenderToString(tree *VNode) (string, error) {
	return render.NewRenderer(render.RendererConfig{}).RenderToString(tree)
}

// RenderPage renders a complete document whose container holds tree.
func RenderPage(page render.PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := render.NewRenderer(render.RendererConfig{}).RenderPage(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
