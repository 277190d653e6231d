package loom

import (
	"fmt"
	"strings"
)

// NodeID addresses a node in its graph. The generation makes IDs of
// removed nodes fail to resolve even after the slot is reused.
type NodeID struct {
	slot uint32
	gen  uint32
}

func (id NodeID) IsZero() bool   { return id.gen == 0 }
func (id NodeID) String() string { return fmt.Sprintf("%d.%d", id.slot, id.gen) }

// Node is the retained counterpart of one view occurrence. It owns the
// view's state and its child nodes, and maps them onto controls.
type Node struct {
	id    NodeID
	graph *Graph
	view  primitive

	parent   NodeID
	attached bool // linked into parent.children
	children []*Node
	index    int

	state       map[string]any
	control     Control
	preferences map[preferenceKey]any
	prefOrder   []preferenceKey

	// controls created by a modifier, keyed by the content control they wrap
	wrappers map[Control]Control
}

func (n *Node) ID() NodeID        { return n.id }
func (n *Node) Children() []*Node { return n.children }
func (n *Node) Index() int        { return n.index }

// Control is the control this node created itself, if any.
func (n *Node) Control() Control { return n.control }

// Parent resolves the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	if n.parent.IsZero() {
		return nil
	}
	p, _ := n.graph.Node(n.parent)
	return p
}

// Size is the number of controls this node contributes to its parent.
func (n *Node) Size() int {
	if s, ok := n.view.staticSize(); ok {
		return s
	}
	total := 0
	for _, c := range n.children {
		total += c.Size()
	}
	return total
}

// Offset is where this node's controls start among its parent's.
func (n *Node) Offset() int {
	p := n.Parent()
	if p == nil || !n.attached {
		return 0
	}
	offset := 0
	for _, sibling := range p.children[:n.index] {
		offset += sibling.Size()
	}
	return offset
}

// ControlAt returns the control at offset within this node's controls.
// Modifier nodes hand back their wrapper around the content's control.
func (n *Node) ControlAt(offset int) Control {
	if offset == 0 && n.control != nil {
		return n.control
	}
	i := 0
	for _, child := range n.children {
		size := child.Size()
		if offset < i+size {
			c := child.ControlAt(offset - i)
			if m, ok := n.view.(modifier); ok {
				return m.passControl(c, n)
			}
			return c
		}
		i += size
	}
	panic(fmt.Sprintf("loom: control offset %d out of range for %s (size %d)", offset, typeName(n.view), n.Size()))
}

// addNode links child at index and attaches its controls.
func (n *Node) addNode(at int, child *Node) {
	if child.attached {
		panic("loom: addNode of a node that already has a parent")
	}
	child.parent = n.id
	child.attached = true
	n.children = append(n.children, nil)
	copy(n.children[at+1:], n.children[at:])
	n.children[at] = child
	n.reindex(at)

	start := child.Offset()
	for i := range child.Size() {
		n.insertControl(start + i)
	}
}

// removeNode detaches the child at index with all of its controls, and
// discards its subtree.
func (n *Node) removeNode(at int) {
	child := n.children[at]
	start := child.Offset()
	for i := child.Size() - 1; i >= 0; i-- {
		n.removeControl(start + i)
	}
	copy(n.children[at:], n.children[at+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	n.reindex(at)
	child.attached = false
	n.graph.release(child)
}

// replaceNode swaps the child at index for a fresh build of v.
func (n *Node) replaceNode(at int, v View) {
	n.removeNode(at)
	n.addNode(at, n.graph.newNode(v, n))
}

// updateChild reconciles the child at index with v: in place when the
// view has the same identity, otherwise by replacement.
func (n *Node) updateChild(at int, v View) {
	p := primitiveOf(v)
	child := n.children[at]
	if identity(child.view) == identity(p) {
		p.updateNode(child)
		return
	}
	n.graph.log.Debug("replace node", "node", child.id, "from", typeName(child.view), "to", typeName(p))
	n.replaceNode(at, v)
}

func (n *Node) reindex(from int) {
	for i := from; i < len(n.children); i++ {
		n.children[i].index = i
	}
}

// insertControl passes a new control at offset up to the nearest layout
// root, which adds it to its own control.
func (n *Node) insertControl(offset int) {
	if lr, ok := n.view.(layoutRoot); ok {
		lr.insertControl(offset, n)
		return
	}
	if !n.attached {
		return
	}
	if p := n.Parent(); p != nil {
		p.insertControl(offset + n.Offset())
	}
}

func (n *Node) removeControl(offset int) {
	if lr, ok := n.view.(layoutRoot); ok {
		lr.removeControl(offset, n)
		return
	}
	if !n.attached {
		return
	}
	if p := n.Parent(); p != nil {
		p.removeControl(offset + n.Offset())
	}
}

// update re-resolves the node against its own view, or against v.
func (n *Node) update(v primitive) {
	v.updateNode(n)
}

// mergePreferences folds the children's preferences left to right with
// each key's reduction and lets the node's own declaration override.
func (n *Node) mergePreferences() {
	merged := make(map[preferenceKey]any)
	var order []preferenceKey
	for _, child := range n.children {
		child.mergePreferences()
		for _, k := range child.preferenceKeys() {
			v := child.preferences[k]
			if acc, ok := merged[k]; ok {
				merged[k] = k.reduceAny(acc, v)
			} else {
				merged[k] = v
				order = append(order, k)
			}
		}
	}
	if d, ok := n.view.(preferenceDeclarer); ok {
		k, v := d.declaredPreference()
		if _, seen := merged[k]; !seen {
			order = append(order, k)
		}
		merged[k] = v
	}
	n.preferences = merged
	n.prefOrder = order
}

func (n *Node) preferenceKeys() []preferenceKey { return n.prefOrder }

// wrap returns the modifier control around c, creating it on first use.
func (n *Node) wrap(c Control, create func(inner Control) Control) Control {
	if w, ok := n.wrappers[c]; ok && !w.base().disposed {
		return w
	}
	if n.wrappers == nil {
		n.wrappers = make(map[Control]Control)
	}
	for inner, w := range n.wrappers {
		if w.base().disposed {
			delete(n.wrappers, inner)
		}
	}
	w := create(c)
	n.wrappers[c] = w
	return w
}

// Wrappers returns the live controls a modifier node has created.
func (n *Node) Wrappers() []Control {
	out := make([]Control, 0, len(n.wrappers))
	for _, w := range n.wrappers {
		if !w.base().disposed {
			out = append(out, w)
		}
	}
	return out
}

// TreeDescription renders the node subtree, one "→ Type" per line.
func (n *Node) TreeDescription() string {
	var sb strings.Builder
	n.describe(&sb, 0)
	return sb.String()
}

func (n *Node) describe(sb *strings.Builder, depth int) {
	name := typeName(n.view)
	if c, ok := n.view.(composedView); ok {
		name = typeName(c.view)
	}
	fmt.Fprintf(sb, "%s→ %s\n", strings.Repeat("  ", depth), name)
	for _, c := range n.children {
		c.describe(sb, depth+1)
	}
}
