package loom

import (
	"fmt"
	"slices"

	"github.com/kungfusheep/loom/key"
)

// Window owns the top-level controls and tracks focus. Attached controls
// are registered by ID; focus is held as an ID so that a control leaving
// the tree can never stay focused.
type Window struct {
	layer    *Layer
	controls []Control

	registry map[ControlID]Control
	nextID   ControlID
	focus    ControlID
}

func NewWindow() *Window {
	w := &Window{registry: make(map[ControlID]Control)}
	w.layer = NewLayer(nil)
	return w
}

func (w *Window) Layer() *Layer       { return w.layer }
func (w *Window) Controls() []Control { return w.controls }

// AddControl attaches a top-level control above the existing ones.
func (w *Window) AddControl(c Control) {
	w.InsertControl(c, len(w.controls))
}

// InsertControl attaches a top-level control at index and focuses its
// first selectable element when nothing has focus yet.
func (w *Window) InsertControl(c Control, at int) {
	if at < 0 || at > len(w.controls) {
		panic(fmt.Sprintf("loom: InsertControl index %d out of range [0, %d]", at, len(w.controls)))
	}
	c.base().window = w
	w.layer.AddLayer(c.base().layer, at)
	w.controls = slices.Insert(w.controls, at, c)
	w.register(c)
	if w.FirstResponder() == nil {
		if responder := c.FirstSelectableElement(); responder != nil {
			w.SetFirstResponder(responder)
		}
	}
}

// RemoveControl detaches and disposes the top-level control at index.
// Focus inside it moves to the first selectable element left, if any.
func (w *Window) RemoveControl(at int) {
	if at < 0 || at >= len(w.controls) {
		panic(fmt.Sprintf("loom: RemoveControl index %d out of range [0, %d)", at, len(w.controls)))
	}
	c := w.controls[at]
	fr := w.FirstResponder()
	lostFocus := fr != nil && (fr == c || IsDescendant(fr, c))
	if lostFocus {
		w.SetFirstResponder(nil)
	}
	w.unregister(c)
	w.layer.RemoveLayer(at)
	w.controls = slices.Delete(w.controls, at, at+1)
	c.base().window = nil
	dispose(c)

	if lostFocus {
		for _, other := range w.controls {
			if e := other.FirstSelectableElement(); e != nil {
				w.SetFirstResponder(e)
				break
			}
		}
	}
}

// Layout lays out every top-level control at size.
func (w *Window) Layout(size Size) {
	for _, c := range w.controls {
		c.Layout(size)
	}
}

func (w *Window) register(c Control) {
	b := c.base()
	if b.id == 0 {
		w.nextID++
		b.id = w.nextID
	}
	w.registry[b.id] = c
	for _, child := range b.children {
		w.register(child)
	}
}

func (w *Window) unregister(c Control) {
	b := c.base()
	if b.id == w.focus {
		w.focus = 0
	}
	delete(w.registry, b.id)
	for _, child := range b.children {
		w.unregister(child)
	}
}

// Lookup resolves an ID to a live control.
func (w *Window) Lookup(id ControlID) (Control, bool) {
	c, ok := w.registry[id]
	return c, ok
}

// FirstResponder is the focused control, or nil.
func (w *Window) FirstResponder() Control {
	if w.focus == 0 {
		return nil
	}
	return w.registry[w.focus]
}

// SetFirstResponder moves focus to c, resigning the previous holder. A nil
// c clears focus. c must be attached to this window.
func (w *Window) SetFirstResponder(c Control) {
	if old := w.FirstResponder(); old != nil {
		if old == c {
			return
		}
		w.focus = 0
		old.ResignFirstResponder()
	}
	if c == nil {
		return
	}
	id := c.base().id
	if _, ok := w.registry[id]; !ok || id == 0 {
		panic("loom: focus target is not attached to this window")
	}
	w.focus = id
	c.BecomeFirstResponder()
}

// HandleKey offers k to the focused control and then to each ancestor in
// turn. It reports whether any of them handled it.
func (w *Window) HandleKey(k key.Key) bool {
	for c := w.FirstResponder(); c != nil; c = c.base().parent {
		if c.HandleKey(k) {
			return true
		}
	}
	return false
}

// MoveFocus steps focus in dir. With nothing focused the first selectable
// control is chosen. It reports whether focus changed.
func (w *Window) MoveFocus(dir Direction) bool {
	fr := w.FirstResponder()
	if fr == nil {
		for _, c := range w.controls {
			if e := c.FirstSelectableElement(); e != nil {
				w.SetFirstResponder(e)
				return true
			}
		}
		return false
	}
	parent := fr.base().parent
	if parent == nil {
		return false
	}
	next := parent.SelectableElement(dir, fr.base().index)
	if next == nil || next == fr {
		return false
	}
	w.SetFirstResponder(next)
	return true
}

// Snapshot composites every cell of the window into a buffer.
func (w *Window) Snapshot() *Buffer {
	size := w.layer.frame.Size
	buf := NewBuffer(size.Width.Int(), size.Height.Int())
	for y := range buf.Height() {
		for x := range buf.Width() {
			if c, ok := w.layer.Cell(Pos(x, y)); ok {
				buf.Set(x, y, c)
			}
		}
	}
	return buf
}
