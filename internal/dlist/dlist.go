// Package dlist implements an intrusive doubly-linked list over integer
// handles. The list only stores its head and length; the prev/next links of
// each node live wherever the caller keeps them (a descriptor table, or
// in-band inside the managed bytes) and are reached through Links.
//
// Handles are non-negative. Nil (-1) terminates the list in both directions.
//
// NOT thread-safe.
package dlist

import "fmt"

// Nil is the handle stored in a link that points nowhere.
const Nil = -1

// Links reads and writes the prev/next links of nodes.
type Links interface {
	Next(h int) int
	Prev(h int) int
	SetNext(h, next int)
	SetPrev(h, prev int)
}

// List is the head of an intrusive list. Use New or Init before first use.
type List struct {
	head int
	n    int
}

// New returns an empty list.
func New() List {
	return List{head: Nil}
}

// Init empties the list without touching any node links.
func (l *List) Init() {
	l.head = Nil
	l.n = 0
}

// Front returns the first handle, or Nil when empty.
func (l *List) Front() int { return l.head }

// Len returns the number of nodes.
func (l *List) Len() int { return l.n }

// Empty reports whether the list has no nodes.
func (l *List) Empty() bool { return l.head == Nil }

// PushFront links h in as the new head. h must not already be on a list.
func (l *List) PushFront(s Links, h int) {
	s.SetPrev(h, Nil)
	s.SetNext(h, l.head)
	if l.head != Nil {
		s.SetPrev(l.head, h)
	}
	l.head = h
	l.n++
}

// Remove unlinks h, which must be on l. The head moves whenever h was the
// head, independent of whether h had neighbours. h's own links are reset
// to Nil.
func (l *List) Remove(s Links, h int) {
	prev, next := s.Prev(h), s.Next(h)
	if prev != Nil {
		s.SetNext(prev, next)
	} else {
		l.head = next
	}
	if next != Nil {
		s.SetPrev(next, prev)
	}
	s.SetPrev(h, Nil)
	s.SetNext(h, Nil)
	l.n--
}

// Each calls fn for every handle from head to tail. Iteration stops when fn
// returns false. fn must not modify the list.
func (l *List) Each(s Links, fn func(h int) bool) {
	for h := l.head; h != Nil; h = s.Next(h) {
		if !fn(h) {
			return
		}
	}
}

// Handles returns the handles in list order.
func (l *List) Handles(s Links) []int {
	out := make([]int, 0, l.n)
	l.Each(s, func(h int) bool {
		out = append(out, h)
		return true
	})
	return out
}

// Check walks the list and verifies that prev links mirror next links, that
// the head has no predecessor, and that the walk length matches Len. The
// walk is bounded by limit to survive cycles.
func (l *List) Check(s Links, limit int) error {
	prev := Nil
	count := 0
	for h := l.head; h != Nil; h = s.Next(h) {
		if count >= limit {
			return fmt.Errorf("dlist: walk exceeded %d nodes (cycle?)", limit)
		}
		if p := s.Prev(h); p != prev {
			return fmt.Errorf("dlist: node %d has prev %d, want %d", h, p, prev)
		}
		prev = h
		count++
	}
	if count != l.n {
		return fmt.Errorf("dlist: walked %d nodes, length is %d", count, l.n)
	}
	return nil
}
