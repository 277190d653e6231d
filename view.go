package loom

import (
	"fmt"
	"reflect"
)

// View describes a piece of UI. A view is either one of the built-in
// primitives or a user type implementing Composed.
type View any

// Composed is a user-defined view: its content is whatever Body returns.
// Body runs on every build and update of the view, with a context bound to
// the view's node for state and dependency tracking.
type Composed interface {
	Body(ctx *Context) View
}

// primitive views build and update their own node.
type primitive interface {
	// buildNode creates the node's children and control.
	buildNode(n *Node)
	// updateNode reconciles n (still holding the previous view) with the
	// receiver, which it installs as n.view.
	updateNode(n *Node)
	// staticSize is the number of controls the view contributes when that
	// does not depend on its children.
	staticSize() (int, bool)
}

// layoutRoot views own the control their descendants' controls attach to.
type layoutRoot interface {
	insertControl(offset int, n *Node)
	removeControl(offset int, n *Node)
}

// modifier views may wrap the controls of their content.
type modifier interface {
	passControl(c Control, n *Node) Control
}

func primitiveOf(v View) primitive {
	switch v := v.(type) {
	case nil:
		return emptyView{}
	case primitive:
		return v
	case Composed:
		return composedView{view: v}
	}
	panic(fmt.Sprintf("loom: %T is not a view; implement Body(*loom.Context) loom.View", v))
}

// identity is what decides between updating a node in place and
// replacing it: the same dynamic type at the same position is the same
// view.
func identity(p primitive) reflect.Type {
	if c, ok := p.(composedView); ok {
		return reflect.TypeOf(c.view)
	}
	return reflect.TypeOf(p)
}

// Context is handed to Body. It is only valid during that call and inside
// event handlers created there.
type Context struct {
	node *Node
}

// Exit asks the application to shut down.
func (c *Context) Exit() {
	c.node.graph.requestExit()
}

// Post runs fn on the UI goroutine. Safe from any goroutine.
func (c *Context) Post(fn func()) {
	c.node.graph.post(fn)
}

type composedView struct {
	view Composed
}

func (composedView) staticSize() (int, bool) { return 0, false }

func (c composedView) buildNode(n *Node) {
	body := c.view.Body(&Context{node: n})
	n.addNode(0, n.graph.newNode(body, n))
}

func (c composedView) updateNode(n *Node) {
	n.view = c
	body := c.view.Body(&Context{node: n})
	n.updateChild(0, body)
}

type emptyView struct{}

// EmptyView contributes nothing.
func EmptyView() View { return emptyView{} }

func (emptyView) staticSize() (int, bool) { return 0, true }
func (emptyView) buildNode(*Node)         {}
func (e emptyView) updateNode(n *Node)    { n.view = e }

// group is a fixed sequence of views, matched by position on update.
type group struct {
	views []View
}

// Views groups several views into one. Stacks take their content this way.
func Views(views ...View) View {
	return group{views: views}
}

func (group) staticSize() (int, bool) { return 0, false }

func (g group) buildNode(n *Node) {
	for i, v := range g.views {
		n.addNode(i, n.graph.newNode(v, n))
	}
}

func (g group) updateNode(n *Node) {
	n.view = g
	for i := len(n.children) - 1; i >= len(g.views); i-- {
		n.removeNode(i)
	}
	for i, v := range g.views {
		if i < len(n.children) {
			n.updateChild(i, v)
		} else {
			n.addNode(i, n.graph.newNode(v, n))
		}
	}
}
