package loom

// preferenceKey is the type-erased face of a PreferenceKey.
type preferenceKey interface {
	reduceAny(acc, next any) any
	Name() string
}

// PreferenceKey identifies a value that descendants report to their
// ancestors. Keys compare by identity.
type PreferenceKey[T any] struct {
	name   string
	def    T
	reduce func(value *T, next T)
}

// NewPreferenceKey creates a key. reduce folds a later sibling's value
// into the accumulated one.
func NewPreferenceKey[T any](name string, def T, reduce func(value *T, next T)) *PreferenceKey[T] {
	return &PreferenceKey[T]{name: name, def: def, reduce: reduce}
}

func (k *PreferenceKey[T]) Name() string { return k.name }
func (k *PreferenceKey[T]) Default() T   { return k.def }

func (k *PreferenceKey[T]) reduceAny(acc, next any) any {
	v := acc.(T)
	k.reduce(&v, next.(T))
	return v
}

// PreferenceValue returns the merged value of key at n, or the key's
// default when nothing below n declares it.
func PreferenceValue[T any](n *Node, key *PreferenceKey[T]) T {
	if v, ok := n.preferences[key]; ok {
		return v.(T)
	}
	return key.def
}

type preferenceDeclarer interface {
	declaredPreference() (preferenceKey, any)
}

type preferenceObserver interface {
	observe(n *Node)
}

type preferenceView[T any] struct {
	content View
	key     *PreferenceKey[T]
	value   T
}

// Preference declares value for key on content. It overrides whatever
// content's descendants report for the same key.
func Preference[T any](content View, key *PreferenceKey[T], value T) View {
	return preferenceView[T]{content: content, key: key, value: value}
}

func (p preferenceView[T]) staticSize() (int, bool) { return 0, false }

func (p preferenceView[T]) buildNode(n *Node) {
	n.addNode(0, n.graph.newNode(p.content, n))
}

func (p preferenceView[T]) updateNode(n *Node) {
	n.view = p
	n.updateChild(0, p.content)
}

func (p preferenceView[T]) declaredPreference() (preferenceKey, any) {
	return p.key, p.value
}

type preferenceChangeView[T comparable] struct {
	content View
	key     *PreferenceKey[T]
	action  func(T)
}

// OnPreferenceChange calls action whenever the merged value of key below
// content changes, starting from the key's default.
func OnPreferenceChange[T comparable](content View, key *PreferenceKey[T], action func(T)) View {
	return preferenceChangeView[T]{content: content, key: key, action: action}
}

const lastPreferenceState = "loom.preference.last"

func (p preferenceChangeView[T]) staticSize() (int, bool) { return 0, false }

func (p preferenceChangeView[T]) buildNode(n *Node) {
	n.state[lastPreferenceState] = p.key.def
	n.addNode(0, n.graph.newNode(p.content, n))
}

func (p preferenceChangeView[T]) updateNode(n *Node) {
	n.view = p
	n.updateChild(0, p.content)
}

func (p preferenceChangeView[T]) observe(n *Node) {
	current := PreferenceValue(n, p.key)
	if last, ok := n.state[lastPreferenceState].(T); ok && last == current {
		return
	}
	n.state[lastPreferenceState] = current
	p.action(current)
}
