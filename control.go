package loom

import (
	"fmt"
	"strings"

	"github.com/kungfusheep/loom/key"
)

// ControlID identifies a control registered with a window. IDs are never
// reused, so a stale ID simply fails to resolve.
type ControlID uint64

// Direction is a step through the selection order.
type Direction uint8

const (
	Next Direction = iota
	Prev
	Below
	Above
	RightOf
	LeftOf
)

func (d Direction) String() string {
	return [...]string{"next", "prev", "below", "above", "rightOf", "leftOf"}[d]
}

// Control is a unit of layout, drawing and focus. Implementations embed
// ControlBase and override what they need; ControlBase calls back through
// the outer value so overrides take effect.
type Control interface {
	CellSource

	base() *ControlBase

	// Size is the size the control wants within proposed. It must not
	// mutate anything.
	Size(proposed Size) Size
	// Layout assigns the control's size and positions its children.
	Layout(size Size)
	HorizontalFlexibility(height Extended) Extended
	VerticalFlexibility(width Extended) Extended

	Selectable() bool
	BecomeFirstResponder()
	ResignFirstResponder()
	HandleKey(k key.Key) bool

	// SelectableElement finds the next focus target in dir, starting from
	// the child at index.
	SelectableElement(dir Direction, index int) Control
	FirstSelectableElement() Control

	ScrollTo(pos Position)
}

// Disposer is implemented by controls holding resources that must be
// released when the control leaves the tree for good.
type Disposer interface {
	Dispose()
}

// ControlBase carries the tree links and default behaviour of a control.
type ControlBase struct {
	self     Control
	parent   Control
	children []Control
	index    int
	layer    *Layer

	window   *Window // set on top-level controls only
	id       ControlID
	disposed bool
}

// InitControl wires a control's base to the control itself and creates its
// layer. Constructors must call it before the control is used.
func InitControl[C Control](c C) C {
	b := c.base()
	b.self = c
	b.layer = NewLayer(c)
	return c
}

func (b *ControlBase) base() *ControlBase { return b }

func (b *ControlBase) Parent() Control     { return b.parent }
func (b *ControlBase) Children() []Control { return b.children }
func (b *ControlBase) Index() int          { return b.index }
func (b *ControlBase) Layer() *Layer       { return b.layer }
func (b *ControlBase) Frame() Rect         { return b.layer.frame }
func (b *ControlBase) ID() ControlID       { return b.id }
func (b *ControlBase) Disposed() bool      { return b.disposed }

// Root is the topmost ancestor.
func (b *ControlBase) Root() Control {
	c := b.self
	for c.base().parent != nil {
		c = c.base().parent
	}
	return c
}

// Window is the window the control is attached to, or nil.
func (b *ControlBase) Window() *Window {
	return b.Root().base().window
}

// AddSubview inserts view as the child at index. If the window has no
// focus yet, the first selectable element of view takes it.
func (b *ControlBase) AddSubview(view Control, at int) {
	if at < 0 || at > len(b.children) {
		panic(fmt.Sprintf("loom: AddSubview index %d out of range [0, %d]", at, len(b.children)))
	}
	vb := view.base()
	if vb.parent != nil {
		panic("loom: AddSubview of a control that already has a parent")
	}
	b.children = append(b.children, nil)
	copy(b.children[at+1:], b.children[at:])
	b.children[at] = view
	vb.parent = b.self
	b.reindex(at)
	b.layer.AddLayer(vb.layer, at)

	w := b.Window()
	if w == nil {
		return
	}
	w.register(view)
	if w.FirstResponder() == nil {
		if responder := view.FirstSelectableElement(); responder != nil {
			w.SetFirstResponder(responder)
		}
	}
}

// RemoveSubview detaches and disposes the child at index. When the child
// holds focus, or contains the control that does, focus moves to the
// nearest selectable neighbour first, or is cleared if there is none.
func (b *ControlBase) RemoveSubview(at int) {
	if at < 0 || at >= len(b.children) {
		panic(fmt.Sprintf("loom: RemoveSubview index %d out of range [0, %d)", at, len(b.children)))
	}
	view := b.children[at]

	if w := b.Window(); w != nil {
		if fr := w.FirstResponder(); fr != nil && (fr == view || IsDescendant(fr, view)) {
			w.SetFirstResponder(nil)
			if next := b.neighbour(at); next != nil {
				w.SetFirstResponder(next)
			}
		}
		w.unregister(view)
	}

	b.layer.RemoveLayer(at)
	copy(b.children[at:], b.children[at+1:])
	b.children[len(b.children)-1] = nil
	b.children = b.children[:len(b.children)-1]
	b.reindex(at)
	view.base().parent = nil

	dispose(view)
}

func (b *ControlBase) neighbour(at int) Control {
	for _, dir := range [...]Direction{Above, Prev, Below, Next} {
		if c := b.self.SelectableElement(dir, at); c != nil {
			return c
		}
	}
	return nil
}

func (b *ControlBase) reindex(from int) {
	for i := from; i < len(b.children); i++ {
		b.children[i].base().index = i
	}
}

// IsDescendant reports whether c sits strictly below ancestor.
func IsDescendant(c, ancestor Control) bool {
	for p := c.base().parent; p != nil; p = p.base().parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func dispose(c Control) {
	for _, child := range c.base().children {
		dispose(child)
	}
	b := c.base()
	if b.disposed {
		return
	}
	b.disposed = true
	if d, ok := c.(Disposer); ok {
		d.Dispose()
	}
}

// Size proposes nothing of its own: a bare control takes what it is given.
func (b *ControlBase) Size(proposed Size) Size { return proposed }

// Layout records the size. Parents position the frame afterwards.
func (b *ControlBase) Layout(size Size) {
	b.setSize(size)
}

func (b *ControlBase) setSize(size Size) {
	f := b.layer.frame
	f.Size = size
	b.layer.SetFrame(f)
}

func (b *ControlBase) setPosition(p Position) {
	f := b.layer.frame
	f.Position = p
	b.layer.SetFrame(f)
}

func (b *ControlBase) HorizontalFlexibility(height Extended) Extended {
	lo := b.self.Size(Size{Width: 0, Height: height})
	hi := b.self.Size(Size{Width: Infinity, Height: height})
	return hi.Width.Minus(lo.Width)
}

func (b *ControlBase) VerticalFlexibility(width Extended) Extended {
	lo := b.self.Size(Size{Width: width, Height: 0})
	hi := b.self.Size(Size{Width: width, Height: Infinity})
	return hi.Height.Minus(lo.Height)
}

func (b *ControlBase) Cell(Position) (Cell, bool) { return Cell{}, false }

func (b *ControlBase) Selectable() bool { return false }

func (b *ControlBase) BecomeFirstResponder() { b.self.ScrollTo(Position{}) }

func (b *ControlBase) ResignFirstResponder() {}

// IsFirstResponder reports whether this control holds window focus.
func (b *ControlBase) IsFirstResponder() bool {
	w := b.Window()
	return w != nil && b.id != 0 && w.focus == b.id
}

func (b *ControlBase) HandleKey(key.Key) bool { return false }

func (b *ControlBase) FirstSelectableElement() Control {
	if b.self.Selectable() {
		return b.self
	}
	for _, c := range b.children {
		if e := c.FirstSelectableElement(); e != nil {
			return e
		}
	}
	return nil
}

// SelectableElement defers to the parent, starting from this control.
func (b *ControlBase) SelectableElement(dir Direction, _ int) Control {
	if b.parent == nil {
		return nil
	}
	return b.parent.SelectableElement(dir, b.index)
}

func (b *ControlBase) ScrollTo(pos Position) {
	if b.parent != nil {
		b.parent.ScrollTo(pos.Add(b.layer.frame.Position))
	}
}

// TreeDescription renders the control subtree, one "→ Type" per line.
func TreeDescription(c Control) string {
	var sb strings.Builder
	describeControl(&sb, c, 0)
	return sb.String()
}

func describeControl(sb *strings.Builder, c Control, depth int) {
	fmt.Fprintf(sb, "%s→ %s\n", strings.Repeat("  ", depth), typeName(c))
	for _, child := range c.base().children {
		describeControl(sb, child, depth+1)
	}
}

func typeName(v any) string {
	s := fmt.Sprintf("%T", v)
	s = strings.TrimPrefix(s, "*")
	if i := strings.IndexByte(s, '['); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
