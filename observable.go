package loom

import (
	"slices"
	"sync"
)

// dependents records which nodes read a piece of shared state while they
// were being built. A write invalidates each of them once; they register
// again the next time their body runs.
type dependents struct {
	mu   sync.Mutex
	subs map[subscriber]struct{}
}

type subscriber struct {
	graph *Graph
	id    NodeID
}

func (d *dependents) track(ctx *Context) {
	if ctx == nil || ctx.node == nil {
		return
	}
	d.mu.Lock()
	if d.subs == nil {
		d.subs = make(map[subscriber]struct{})
	}
	d.subs[subscriber{graph: ctx.node.graph, id: ctx.node.id}] = struct{}{}
	d.mu.Unlock()
}

func (d *dependents) changed() {
	d.mu.Lock()
	subs := d.subs
	d.subs = nil
	d.mu.Unlock()
	for s := range subs {
		s.graph.Invalidate(s.id)
	}
}

// Value is a single piece of shared state. Reading it through Get with a
// view context makes that view update when the value changes. Safe for use
// from any goroutine.
type Value[T any] struct {
	deps dependents
	mu   sync.RWMutex
	v    T
}

func NewValue[T any](v T) *Value[T] {
	return &Value[T]{v: v}
}

// Get returns the value and, with a non-nil ctx, subscribes the view.
func (v *Value[T]) Get(ctx *Context) T {
	v.deps.track(ctx)
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v
}

func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	v.v = x
	v.mu.Unlock()
	v.deps.changed()
}

// Update applies fn to the current value.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	v.v = fn(v.v)
	v.mu.Unlock()
	v.deps.changed()
}

// Observable is a list that notifies on changes, both to listeners and to
// the views that read it.
type Observable[T any] struct {
	deps      dependents
	mu        sync.RWMutex
	items     []T
	listeners []func(Change[T])
}

// Change describes a modification to the observable.
type Change[T any] struct {
	Type  ChangeType
	Index int
	Item  T // Add/Update: the new value
	Old   T // Update/Remove: the old value
}

type ChangeType int

const (
	ChangeAdd ChangeType = iota
	ChangeUpdate
	ChangeRemove
	ChangeClear
	ChangeSet // full replacement
)

func NewObservable[T any](items ...T) *Observable[T] {
	return &Observable[T]{items: items}
}

// Items returns a copy of the items and, with a non-nil ctx, subscribes
// the view.
func (o *Observable[T]) Items(ctx *Context) []T {
	o.deps.track(ctx)
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.items)
}

func (o *Observable[T]) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.items)
}

// At returns the item at index i, or zero value if out of bounds.
func (o *Observable[T]) At(i int) T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if i < 0 || i >= len(o.items) {
		var zero T
		return zero
	}
	return o.items[i]
}

// Set replaces all items.
func (o *Observable[T]) Set(items []T) *Observable[T] {
	o.mu.Lock()
	o.items = slices.Clone(items)
	o.mu.Unlock()
	o.notify(Change[T]{Type: ChangeSet})
	return o
}

// Add appends an item.
func (o *Observable[T]) Add(item T) *Observable[T] {
	o.mu.Lock()
	idx := len(o.items)
	o.items = append(o.items, item)
	o.mu.Unlock()
	o.notify(Change[T]{Type: ChangeAdd, Index: idx, Item: item})
	return o
}

// Insert inserts an item at index i.
func (o *Observable[T]) Insert(i int, item T) *Observable[T] {
	o.mu.Lock()
	i = max(0, min(i, len(o.items)))
	o.items = slices.Insert(o.items, i, item)
	o.mu.Unlock()
	o.notify(Change[T]{Type: ChangeAdd, Index: i, Item: item})
	return o
}

// RemoveAt removes the item at index i.
func (o *Observable[T]) RemoveAt(i int) *Observable[T] {
	o.mu.Lock()
	if i < 0 || i >= len(o.items) {
		o.mu.Unlock()
		return o
	}
	old := o.items[i]
	o.items = slices.Delete(o.items, i, i+1)
	o.mu.Unlock()
	o.notify(Change[T]{Type: ChangeRemove, Index: i, Old: old})
	return o
}

// Update modifies the item at index i.
func (o *Observable[T]) Update(i int, fn func(*T)) *Observable[T] {
	o.mu.Lock()
	if i < 0 || i >= len(o.items) {
		o.mu.Unlock()
		return o
	}
	old := o.items[i]
	fn(&o.items[i])
	item := o.items[i]
	o.mu.Unlock()
	o.notify(Change[T]{Type: ChangeUpdate, Index: i, Item: item, Old: old})
	return o
}

// Clear removes all items.
func (o *Observable[T]) Clear() *Observable[T] {
	o.mu.Lock()
	o.items = o.items[:0]
	o.mu.Unlock()
	o.notify(Change[T]{Type: ChangeClear})
	return o
}

// Subscribe adds a change listener and returns an unsubscribe function.
func (o *Observable[T]) Subscribe(fn func(Change[T])) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
	idx := len(o.listeners) - 1
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		// zero out to allow GC, don't reorder
		o.listeners[idx] = nil
	}
}

func (o *Observable[T]) notify(c Change[T]) {
	o.mu.RLock()
	listeners := slices.Clone(o.listeners)
	o.mu.RUnlock()
	for _, fn := range listeners {
		if fn != nil {
			fn(c)
		}
	}
	o.deps.changed()
}
