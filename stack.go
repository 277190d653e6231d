package loom

import "slices"

// Axis is the direction a stack arranges its children in.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
	// Depth overlays children on top of each other.
	Depth
)

func (a Axis) String() string {
	return [...]string{"horizontal", "vertical", "depth"}[a]
}

// Alignment places a child on an axis where it is smaller than its stack.
type Alignment uint8

const (
	Leading Alignment = iota
	Center
	Trailing
)

// Top and Bottom read better on the vertical axis.
const (
	Top    = Leading
	Bottom = Trailing
)

// offset is where a span of length child starts within span.
func (a Alignment) offset(span, child Extended) Extended {
	switch a {
	case Center:
		return span.Minus(child).Div(2)
	case Trailing:
		return span.Minus(child)
	}
	return 0
}

// Stack arranges its content along one axis. Options chain:
//
//	HStack(Text("a"), Spacer(), Text("b")).Spacing(0).Align(Center)
type Stack struct {
	axis       Axis
	alignment  Alignment // cross axis; both axes for Depth
	spacing    int
	hasSpacing bool
	content    View
}

// HStack lays content out left to right, one column apart and top
// aligned by default.
func HStack(content ...View) Stack {
	return Stack{axis: Horizontal, alignment: Top, content: Views(content...)}
}

// VStack lays content out top to bottom.
func VStack(content ...View) Stack {
	return Stack{axis: Vertical, alignment: Leading, content: Views(content...)}
}

// ZStack overlays content, the last view on top.
func ZStack(content ...View) Stack {
	return Stack{axis: Depth, alignment: Center, content: Views(content...)}
}

// Spacing sets the gap between adjacent children.
func (s Stack) Spacing(n int) Stack {
	s.spacing = max(n, 0)
	s.hasSpacing = true
	return s
}

// Align sets the cross-axis alignment.
func (s Stack) Align(a Alignment) Stack {
	s.alignment = a
	return s
}

func (s Stack) gap() Extended {
	switch {
	case s.hasSpacing:
		return Extended(s.spacing)
	case s.axis == Horizontal:
		return 1
	}
	return 0
}

func (Stack) staticSize() (int, bool) { return 1, true }

func (s Stack) buildNode(n *Node) {
	n.control = InitControl(&StackControl{axis: s.axis, alignment: s.alignment, spacing: s.gap()})
	n.addNode(0, n.graph.newNode(s.content, n))
}

func (s Stack) updateNode(n *Node) {
	n.view = s
	sc := n.control.(*StackControl)
	if sc.axis != s.axis || sc.alignment != s.alignment || sc.spacing != s.gap() {
		sc.axis, sc.alignment, sc.spacing = s.axis, s.alignment, s.gap()
		sc.layer.Invalidate()
	}
	n.updateChild(0, s.content)
}

func (s Stack) insertControl(offset int, n *Node) {
	n.control.base().AddSubview(n.children[0].ControlAt(offset), offset)
}

func (s Stack) removeControl(offset int, n *Node) {
	n.control.base().RemoveSubview(offset)
}

// axisView is a view that lays its content out along an axis.
type axisView interface {
	layoutAxis() Axis
}

func (s Stack) layoutAxis() Axis { return s.axis }

// stackAxis finds the axis of the nearest enclosing stack or row.
func stackAxis(n *Node) (Axis, bool) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if v, ok := p.view.(axisView); ok {
			return v.layoutAxis(), true
		}
	}
	return Vertical, false
}

// StackControl lays its children out along an axis. Children are offered
// space least flexible first, each getting an even share of what is left,
// so fixed-size children are satisfied before stretchy ones divide the
// remainder.
type StackControl struct {
	ControlBase
	axis      Axis
	alignment Alignment
	spacing   Extended
}

func (s *StackControl) Axis() Axis { return s.axis }

func (s *StackControl) main(sz Size) Extended {
	if s.axis == Horizontal {
		return sz.Width
	}
	return sz.Height
}

func (s *StackControl) cross(sz Size) Extended {
	if s.axis == Horizontal {
		return sz.Height
	}
	return sz.Width
}

func (s *StackControl) size(main, cross Extended) Size {
	if s.axis == Horizontal {
		return Size{Width: main, Height: cross}
	}
	return Size{Width: cross, Height: main}
}

func (s *StackControl) flexibility(c Control, cross Extended) Extended {
	if s.axis == Horizontal {
		return c.HorizontalFlexibility(cross)
	}
	return c.VerticalFlexibility(cross)
}

// byFlexibility orders children least flexible first, keeping source order
// among equals.
func (s *StackControl) byFlexibility(cross Extended) []Control {
	sorted := slices.Clone(s.children)
	flex := make(map[Control]Extended, len(sorted))
	for _, c := range sorted {
		flex[c] = s.flexibility(c, cross)
	}
	slices.SortStableFunc(sorted, func(a, b Control) int {
		switch {
		case flex[a] < flex[b]:
			return -1
		case flex[a] > flex[b]:
			return 1
		}
		return 0
	})
	return sorted
}

func (s *StackControl) Size(proposed Size) Size {
	if s.axis == Depth {
		return s.overlaySize(proposed)
	}
	cross := s.cross(proposed)
	var used, crossMax Extended
	remaining := len(s.children)
	for _, c := range s.byFlexibility(cross) {
		share := maxExtended(s.main(proposed).Minus(used).Div(remaining), 0)
		childSize := c.Size(s.size(share, cross))
		used = used.Plus(s.main(childSize))
		if remaining > 1 {
			used = used.Plus(s.spacing)
		}
		crossMax = maxExtended(crossMax, s.cross(childSize))
		remaining--
	}
	return s.size(used, crossMax)
}

func (s *StackControl) overlaySize(proposed Size) Size {
	var out Size
	for _, c := range s.children {
		sz := c.Size(proposed)
		out.Width = maxExtended(out.Width, sz.Width)
		out.Height = maxExtended(out.Height, sz.Height)
	}
	return out
}

func (s *StackControl) Layout(size Size) {
	s.setSize(size)
	if s.axis == Depth {
		for _, c := range s.children {
			sz := c.Size(size)
			c.Layout(sz)
			c.base().setPosition(Position{
				Column: s.alignment.offset(size.Width, sz.Width),
				Line:   s.alignment.offset(size.Height, sz.Height),
			})
		}
		return
	}

	cross := s.cross(size)
	left := s.main(size)
	remaining := len(s.children)
	for _, c := range s.byFlexibility(cross) {
		childSize := c.Size(s.size(maxExtended(left.Div(remaining), 0), cross))
		c.Layout(childSize)
		if remaining > 1 {
			left = left.Minus(s.spacing)
		}
		left = left.Minus(s.main(childSize))
		remaining--
	}

	var at Extended
	for _, c := range s.children {
		sz := c.base().Frame().Size
		off := s.alignment.offset(cross, s.cross(sz))
		if s.axis == Horizontal {
			c.base().setPosition(Position{Column: at, Line: off})
		} else {
			c.base().setPosition(Position{Column: off, Line: at})
		}
		at = at.Plus(s.main(sz)).Plus(s.spacing)
	}
}

// forward and backward are the directions that walk this stack's children.
func (s *StackControl) steps() (forward, backward Direction) {
	if s.axis == Horizontal {
		return RightOf, LeftOf
	}
	return Below, Above
}

// SelectableElement scans siblings in the stack's own direction. Past the
// ends the original direction goes to the parent, so tab order runs on
// through enclosing stacks.
func (s *StackControl) SelectableElement(dir Direction, index int) Control {
	forward, backward := s.steps()
	step := dir
	switch dir {
	case Next:
		step = forward
	case Prev:
		step = backward
	}
	switch step {
	case forward:
		for i := index + 1; i < len(s.children); i++ {
			if e := s.children[i].FirstSelectableElement(); e != nil {
				return e
			}
		}
	case backward:
		for i := min(index, len(s.children)) - 1; i >= 0; i-- {
			if e := s.children[i].FirstSelectableElement(); e != nil {
				return e
			}
		}
	}
	return s.ControlBase.SelectableElement(dir, index)
}
