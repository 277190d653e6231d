package loom

import (
	"context"

	"github.com/kungfusheep/loom/key"
	"github.com/pkg/errors"
)

// insetControl wraps exactly one child, inset by the same amount on every
// edge. Modifier controls build on it.
type insetControl struct {
	ControlBase
	inset Extended
}

func (c *insetControl) child() Control {
	if len(c.children) == 0 {
		return nil
	}
	return c.children[0]
}

func (c *insetControl) inner(outer Size) Size {
	return Size{
		Width:  maxExtended(outer.Width.Minus(2*c.inset), 0),
		Height: maxExtended(outer.Height.Minus(2*c.inset), 0),
	}
}

func (c *insetControl) Size(proposed Size) Size {
	child := c.child()
	if child == nil {
		return Size{Width: 2 * c.inset, Height: 2 * c.inset}
	}
	s := child.Size(c.inner(proposed))
	return Size{Width: s.Width.Plus(2 * c.inset), Height: s.Height.Plus(2 * c.inset)}
}

func (c *insetControl) Layout(size Size) {
	c.setSize(size)
	if child := c.child(); child != nil {
		child.Layout(c.inner(size))
		child.base().setPosition(Position{Column: c.inset, Line: c.inset})
	}
}

// wrapWith installs a new wrapper control around inner.
func wrapWith[C Control](w C, inner Control) C {
	InitControl(w).base().AddSubview(inner, 0)
	return w
}

// contentView is the shared shape of modifiers: one content child.
type contentView struct {
	content View
}

func (contentView) staticSize() (int, bool) { return 0, false }

func (v contentView) buildNode(n *Node) {
	n.addNode(0, n.graph.newNode(v.content, n))
}

type backgroundView struct {
	contentView
	color Color
}

// Background fills the cells behind content with c.
func Background(content View, c Color) View {
	return backgroundView{contentView{content}, c}
}

func (b backgroundView) updateNode(n *Node) {
	n.view = b
	for _, w := range n.Wrappers() {
		bc := w.(*BackgroundControl)
		if bc.color != b.color {
			bc.color = b.color
			bc.layer.Invalidate()
		}
	}
	n.updateChild(0, b.content)
}

func (b backgroundView) passControl(c Control, n *Node) Control {
	return n.wrap(c, func(inner Control) Control {
		return wrapWith(&BackgroundControl{color: b.color}, inner)
	})
}

// BackgroundControl paints a background under its child.
type BackgroundControl struct {
	insetControl
	color Color
}

func (b *BackgroundControl) Cell(Position) (Cell, bool) {
	return NewCell(' ', DefaultStyle().Background(b.color)), true
}

type paddingView struct {
	contentView
	amount int
}

// Padding surrounds content with n blank cells on every edge.
func Padding(content View, n int) View {
	return paddingView{contentView{content}, max(n, 0)}
}

func (p paddingView) updateNode(n *Node) {
	n.view = p
	for _, w := range n.Wrappers() {
		pc := w.(*PaddingControl)
		if pc.inset != Extended(p.amount) {
			pc.inset = Extended(p.amount)
			pc.layer.Invalidate()
		}
	}
	n.updateChild(0, p.content)
}

func (p paddingView) passControl(c Control, n *Node) Control {
	return n.wrap(c, func(inner Control) Control {
		return wrapWith(&PaddingControl{insetControl{inset: Extended(p.amount)}}, inner)
	})
}

type PaddingControl struct {
	insetControl
}

// BorderStyle is the set of runes a border is drawn with.
type BorderStyle struct {
	Horizontal  rune
	Vertical    rune
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
}

var (
	BorderSingle  = BorderStyle{'─', '│', '┌', '┐', '└', '┘'}
	BorderRounded = BorderStyle{'─', '│', '╭', '╮', '╰', '╯'}
	BorderDouble  = BorderStyle{'═', '║', '╔', '╗', '╚', '╝'}
	BorderASCII   = BorderStyle{'-', '|', '+', '+', '+', '+'}
)

type borderView struct {
	contentView
	border BorderStyle
	style  Style
}

// Border draws a one-cell frame around content.
func Border(content View, border BorderStyle, style Style) View {
	return borderView{contentView{content}, border, style}
}

func (b borderView) updateNode(n *Node) {
	n.view = b
	for _, w := range n.Wrappers() {
		bc := w.(*BorderControl)
		if bc.border != b.border || bc.style != b.style {
			bc.border, bc.style = b.border, b.style
			bc.layer.Invalidate()
		}
	}
	n.updateChild(0, b.content)
}

func (b borderView) passControl(c Control, n *Node) Control {
	return n.wrap(c, func(inner Control) Control {
		return wrapWith(&BorderControl{insetControl: insetControl{inset: 1}, border: b.border, style: b.style}, inner)
	})
}

// BorderControl frames its child.
type BorderControl struct {
	insetControl
	border BorderStyle
	style  Style
}

func (b *BorderControl) Cell(pos Position) (Cell, bool) {
	size := b.Frame().Size
	right, bottom := size.Width-1, size.Height-1
	var r rune
	switch {
	case pos.Line == 0 && pos.Column == 0:
		r = b.border.TopLeft
	case pos.Line == 0 && pos.Column == right:
		r = b.border.TopRight
	case pos.Line == bottom && pos.Column == 0:
		r = b.border.BottomLeft
	case pos.Line == bottom && pos.Column == right:
		r = b.border.BottomRight
	case pos.Line == 0 || pos.Line == bottom:
		r = b.border.Horizontal
	case pos.Column == 0 || pos.Column == right:
		r = b.border.Vertical
	default:
		return Cell{}, false
	}
	return NewCell(r, b.style), true
}

type keyPressView struct {
	contentView
	handle func(key.Key) bool
}

// OnKeyPress runs action when k reaches content through the responder
// chain, and stops k there.
func OnKeyPress(content View, k key.Key, action func()) View {
	return OnKey(content, func(got key.Key) bool {
		if got != k {
			return false
		}
		action()
		return true
	})
}

// OnKey offers every key that reaches content through the responder chain
// to handle. Keys it returns false for carry on up the chain.
func OnKey(content View, handle func(key.Key) bool) View {
	return keyPressView{contentView{content}, handle}
}

func (v keyPressView) updateNode(n *Node) {
	n.view = v
	for _, w := range n.Wrappers() {
		w.(*KeyPressControl).handle = v.handle
	}
	n.updateChild(0, v.content)
}

func (v keyPressView) passControl(c Control, n *Node) Control {
	return n.wrap(c, func(inner Control) Control {
		return wrapWith(&KeyPressControl{handle: v.handle}, inner)
	})
}

type KeyPressControl struct {
	insetControl
	handle func(key.Key) bool
}

func (c *KeyPressControl) HandleKey(k key.Key) bool {
	return c.handle(k)
}

// TaskContext is handed to a task. It is cancelled when the task's view
// leaves the tree or the application exits.
type TaskContext struct {
	context.Context
	post func(func())
}

// Post runs fn on the UI goroutine, where state may be written.
func (t TaskContext) Post(fn func()) {
	if t.Err() == nil {
		t.post(fn)
	}
}

type taskView struct {
	contentView
	fn func(TaskContext) error
}

// Task starts fn in the background once content is first laid out.
// Returning context.Canceled is not an error.
func Task(content View, fn func(TaskContext) error) View {
	return taskView{contentView{content}, fn}
}

func (v taskView) updateNode(n *Node) {
	n.view = v
	n.updateChild(0, v.content)
}

func (v taskView) passControl(c Control, n *Node) Control {
	return n.wrap(c, func(inner Control) Control {
		return wrapWith(&TaskControl{graph: n.graph, fn: v.fn}, inner)
	})
}

// TaskControl runs a task for as long as it is in the tree.
type TaskControl struct {
	insetControl
	graph   *Graph
	fn      func(TaskContext) error
	started bool
	cancel  context.CancelFunc
}

func (t *TaskControl) Layout(size Size) {
	t.insetControl.Layout(size)
	if !t.started && !t.disposed {
		t.started = true
		t.cancel = t.graph.startTask(t.fn)
	}
}

// Running reports whether the task was started and not yet cancelled.
func (t *TaskControl) Running() bool { return t.started && !t.disposed }

func (t *TaskControl) Dispose() {
	if t.cancel != nil {
		t.cancel()
	}
}

// startTask runs fn on its own goroutine under the graph's task context.
func (g *Graph) startTask(fn func(TaskContext) error) context.CancelFunc {
	parent := g.taskCtx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	g.tasks.Add(1)
	go func() {
		defer g.tasks.Done()
		err := runTask(ctx, fn, g.post)
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		g.log.Error("task failed", "err", err)
		if g.onTaskError != nil {
			g.onTaskError(err)
		}
	}()
	g.log.Debug("task started")
	return cancel
}

// runTask turns a panicking task into a failed one, so that the app can
// still restore the terminal.
func runTask(ctx context.Context, fn func(TaskContext) error, post func(func())) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("task panicked: %v", r)
		}
	}()
	if err := fn(TaskContext{Context: ctx, post: post}); err != nil {
		return errors.Wrap(err, "task")
	}
	return nil
}

type fillView struct {
	color Color
}

// Fill is a view that takes all the space offered and paints it c.
func Fill(c Color) View { return fillView{c} }

func (fillView) staticSize() (int, bool) { return 1, true }

func (f fillView) buildNode(n *Node) {
	n.control = InitControl(&FillControl{color: f.color})
}

func (f fillView) updateNode(n *Node) {
	n.view = f
	fc := n.control.(*FillControl)
	if fc.color != f.color {
		fc.color = f.color
		fc.layer.Invalidate()
	}
}

type FillControl struct {
	ControlBase
	color Color
}

func (f *FillControl) Cell(Position) (Cell, bool) {
	return NewCell(' ', DefaultStyle().Background(f.color)), true
}
