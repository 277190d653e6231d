package loom

import "fmt"

// State is a handle to a value stored on a view's node under a key. The
// value survives updates of the view and is discarded with the node.
//
// State must only be read and written on the UI goroutine; background work
// should go through Context.Post.
type State[T any] struct {
	graph *Graph
	node  NodeID
	key   string
}

// UseState returns the state slot key of the view being built. The first
// call for a node stores initial; later calls keep the stored value.
func UseState[T any](ctx *Context, key string, initial T) State[T] {
	n := ctx.node
	if v, ok := n.state[key]; ok {
		if _, ok := v.(T); !ok && v != nil {
			panic(fmt.Sprintf("loom: state %q holds %T, not %T", key, v, initial))
		}
	} else {
		n.state[key] = initial
	}
	return State[T]{graph: n.graph, node: n.id, key: key}
}

// Get returns the stored value, or the zero value once the view is gone.
func (s State[T]) Get() T {
	n, ok := s.graph.Node(s.node)
	if !ok {
		var zero T
		return zero
	}
	// A nil interface value is stored untyped and reads back as zero.
	v, _ := n.state[s.key].(T)
	return v
}

// Set stores v and schedules the owning view for update.
func (s State[T]) Set(v T) {
	n, ok := s.graph.Node(s.node)
	if !ok {
		return
	}
	n.state[s.key] = v
	s.graph.Invalidate(n.id)
}

// Update stores fn applied to the current value.
func (s State[T]) Update(fn func(T) T) {
	s.Set(fn(s.Get()))
}

// Binding exposes the state as a getter/setter pair.
func (s State[T]) Binding() Binding[T] {
	return Binding[T]{Get: s.Get, Set: s.Set}
}

// Binding is a read/write reference to a value owned elsewhere.
type Binding[T any] struct {
	Get func() T
	Set func(T)
}

// Constant returns a binding whose writes are dropped.
func Constant[T any](v T) Binding[T] {
	return Binding[T]{Get: func() T { return v }, Set: func(T) {}}
}
