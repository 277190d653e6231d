package loom

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type forEach[T any, K comparable] struct {
	items   []T
	key     func(T) K
	content func(T) View
}

// ForEach builds one view per item. Items are matched across updates by
// key: views of surviving keys keep their state, new keys are built and
// vanished keys are removed.
func ForEach[T any, K comparable](items []T, key func(T) K, content func(T) View) View {
	return forEach[T, K]{items: items, key: key, content: content}
}

func (f forEach[T, K]) staticSize() (int, bool) { return 0, false }

func (f forEach[T, K]) buildNode(n *Node) {
	for i, item := range f.items {
		n.addNode(i, n.graph.newNode(f.content(item), n))
	}
}

func (f forEach[T, K]) updateNode(n *Node) {
	last := n.view.(forEach[T, K])
	n.view = f

	oldKeys := make([]K, len(last.items))
	for i, item := range last.items {
		oldKeys[i] = last.key(item)
	}
	newKeys := make([]K, len(f.items))
	for i, item := range f.items {
		newKeys[i] = f.key(item)
	}

	script := diffKeys(oldKeys, newKeys)
	for i := len(script.removed) - 1; i >= 0; i-- {
		n.removeNode(script.removed[i])
	}
	for _, j := range script.inserted {
		n.addNode(j, n.graph.newNode(f.content(f.items[j]), n))
	}
	for _, j := range script.kept {
		n.updateChild(j, f.content(f.items[j]))
	}
	n.graph.log.Debug("foreach reconciled",
		"node", n.id, "removed", len(script.removed), "inserted", len(script.inserted), "kept", len(script.kept))
}

// editScript lists old offsets to remove and new offsets to insert, both
// ascending, plus the new offsets of retained elements. Applying removals
// from the back and then insertions from the front keeps every offset
// valid at each step.
type editScript struct {
	removed  []int
	inserted []int
	kept     []int
}

// runeBase keeps encoded keys clear of the surrogate range.
const (
	runeBase = 0x10000
	maxKeys  = utf8.MaxRune - runeBase
)

// diffKeys computes a minimal edit script between two key sequences. Keys
// are encoded as runes so the sequences can go through diff-match-patch.
func diffKeys[K comparable](before, after []K) editScript {
	codes := make(map[K]rune, len(before)+len(after))
	encode := func(keys []K) ([]rune, bool) {
		out := make([]rune, len(keys))
		for i, k := range keys {
			r, ok := codes[k]
			if !ok {
				if len(codes) >= maxKeys {
					return nil, false
				}
				r = rune(runeBase + len(codes))
				codes[k] = r
			}
			out[i] = r
		}
		return out, true
	}
	a, okA := encode(before)
	b, okB := encode(after)
	if !okA || !okB {
		return replaceAll(len(before), len(after))
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(a, b, false)

	var s editScript
	oi, ni := 0, 0
	for _, d := range diffs {
		count := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			for k := range count {
				s.kept = append(s.kept, ni+k)
			}
			oi += count
			ni += count
		case diffmatchpatch.DiffDelete:
			for k := range count {
				s.removed = append(s.removed, oi+k)
			}
			oi += count
		case diffmatchpatch.DiffInsert:
			for k := range count {
				s.inserted = append(s.inserted, ni+k)
			}
			ni += count
		}
	}
	return s
}

func replaceAll(oldLen, newLen int) editScript {
	var s editScript
	for i := range oldLen {
		s.removed = append(s.removed, i)
	}
	for i := range newLen {
		s.inserted = append(s.inserted, i)
	}
	return s
}
