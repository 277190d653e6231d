package loom

import "github.com/kungfusheep/loom/key"

type buttonView struct {
	label  View
	action func()
}

// Button is a focusable label that runs action on enter or space. Several
// label views are laid out in a row.
func Button(action func(), label ...View) View {
	return buttonView{label: Views(label...), action: action}
}

func (buttonView) staticSize() (int, bool) { return 1, true }

func (buttonView) layoutAxis() Axis { return Horizontal }

func (b buttonView) buildNode(n *Node) {
	bc := InitControl(&ButtonControl{action: b.action})
	bc.axis, bc.alignment, bc.spacing = Horizontal, Top, 1
	n.control = bc
	n.addNode(0, n.graph.newNode(b.label, n))
}

func (b buttonView) updateNode(n *Node) {
	n.view = b
	n.control.(*ButtonControl).action = b.action
	n.updateChild(0, b.label)
}

func (b buttonView) insertControl(offset int, n *Node) {
	n.control.base().AddSubview(n.children[0].ControlAt(offset), offset)
}

func (b buttonView) removeControl(offset int, n *Node) {
	n.control.base().RemoveSubview(offset)
}

// ButtonControl lays out its label like a row and shows focus by
// inverting it.
type ButtonControl struct {
	StackControl
	action func()
}

func (b *ButtonControl) Selectable() bool { return true }

func (b *ButtonControl) HandleKey(k key.Key) bool {
	if k.Code == key.Enter && k.Mod == 0 || k == key.Char(' ') {
		if b.action != nil {
			b.action()
		}
		return true
	}
	return false
}

func (b *ButtonControl) BecomeFirstResponder() {
	b.StackControl.BecomeFirstResponder()
	b.layer.Invalidate()
}

func (b *ButtonControl) ResignFirstResponder() {
	b.layer.Invalidate()
}

func (b *ButtonControl) OverlayCell(_ Position, c Cell, ok bool) (Cell, bool) {
	if !b.IsFirstResponder() {
		return c, ok
	}
	if !ok {
		c = EmptyCell()
	}
	c.Style.Attr ^= AttrInverse
	return c, true
}
