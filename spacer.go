package loom

// SpacerView takes up free space along the axis of its stack.
type SpacerView struct {
	minLength int
}

// Spacer expands to fill the space its stack has left over.
func Spacer() SpacerView { return SpacerView{} }

// MinLength keeps at least n cells even when there is no space left.
func (s SpacerView) MinLength(n int) SpacerView {
	s.minLength = max(n, 0)
	return s
}

func (SpacerView) staticSize() (int, bool) { return 1, true }

func (s SpacerView) buildNode(n *Node) {
	axis, _ := stackAxis(n)
	n.control = InitControl(&SpacerControl{axis: axis, minLength: Extended(s.minLength)})
}

func (s SpacerView) updateNode(n *Node) {
	n.view = s
	sc := n.control.(*SpacerControl)
	sc.axis, _ = stackAxis(n)
	sc.minLength = Extended(s.minLength)
}

// SpacerControl is empty space: everything proposed along its axis and
// nothing across it. Outside a stack it fills vertically.
type SpacerControl struct {
	ControlBase
	axis      Axis
	minLength Extended
}

func (s *SpacerControl) Size(proposed Size) Size {
	switch s.axis {
	case Horizontal:
		return Size{Width: maxExtended(proposed.Width, s.minLength)}
	case Depth:
		return proposed
	}
	return Size{Height: maxExtended(proposed.Height, s.minLength)}
}
