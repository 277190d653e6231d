package loom

import "github.com/kungfusheep/loom/key"

type scrollView struct {
	content Stack
}

// ScrollView shows content as a column clipped to the space it is given.
// It scrolls to keep the focused control in view, and pages with page up,
// page down, home and end.
func ScrollView(content ...View) View {
	return scrollView{content: VStack(content...)}
}

func (scrollView) staticSize() (int, bool) { return 1, true }

func (s scrollView) buildNode(n *Node) {
	n.control = InitControl(&ScrollControl{})
	n.addNode(0, n.graph.newNode(s.content, n))
}

func (s scrollView) updateNode(n *Node) {
	n.view = s
	n.updateChild(0, s.content)
}

func (s scrollView) insertControl(offset int, n *Node) {
	n.control.base().AddSubview(n.children[0].ControlAt(offset), offset)
}

func (s scrollView) removeControl(offset int, n *Node) {
	n.control.base().RemoveSubview(offset)
}

// ScrollControl lays its content out at full height and shows the part
// of it that fits, offset lines from the top.
type ScrollControl struct {
	ControlBase
	offset  Extended
	content Size
}

// Offset is the number of content lines scrolled out above the frame.
func (s *ScrollControl) Offset() Extended { return s.offset }

func (s *ScrollControl) Layout(size Size) {
	s.setSize(size)
	if len(s.children) == 0 {
		return
	}
	c := s.children[0]
	s.content = Size{Width: size.Width, Height: c.Size(Size{Width: size.Width}).Height}
	c.Layout(s.content)
	s.scroll(s.offset)
}

// scroll moves to offset, kept within the content, and reports whether
// the offset changed.
func (s *ScrollControl) scroll(offset Extended) bool {
	limit := maxExtended(s.content.Height.Minus(s.Frame().Size.Height), 0)
	offset = minExtended(maxExtended(offset, 0), limit)
	changed := offset != s.offset
	s.offset = offset
	if len(s.children) > 0 {
		s.children[0].base().setPosition(Position{Line: -offset})
	}
	return changed
}

// ScrollTo scrolls the least distance that brings pos.Line into view.
// Scrolling stops here; enclosing controls are not asked to move.
func (s *ScrollControl) ScrollTo(pos Position) {
	height := s.Frame().Size.Height
	if height <= 0 {
		return
	}
	line := pos.Line.Plus(s.offset)
	switch {
	case line < s.offset:
		s.scroll(line)
	case line >= s.offset.Plus(height):
		s.scroll(line.Minus(height).Plus(1))
	}
}

func (s *ScrollControl) HandleKey(k key.Key) bool {
	if k.Mod != 0 {
		return false
	}
	page := maxExtended(s.Frame().Size.Height.Minus(1), 1)
	switch k.Code {
	case key.PageUp:
		return s.scroll(s.offset.Minus(page))
	case key.PageDown:
		return s.scroll(s.offset.Plus(page))
	case key.Home:
		return s.scroll(0)
	case key.End:
		return s.scroll(Infinity)
	}
	return false
}
