package dlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// table is a slice-backed Links used by the tests.
type table struct {
	prev, next []int
}

func newTable(n int) *table {
	t := &table{prev: make([]int, n), next: make([]int, n)}
	for i := range n {
		t.prev[i], t.next[i] = Nil, Nil
	}
	return t
}

func (t *table) Next(h int) int      { return t.next[h] }
func (t *table) Prev(h int) int      { return t.prev[h] }
func (t *table) SetNext(h, next int) { t.next[h] = next }
func (t *table) SetPrev(h, prev int) { t.prev[h] = prev }

// build pushes handles so that the resulting list order is order.
func build(t *testing.T, order ...int) (*List, *table) {
	t.Helper()
	s := newTable(16)
	l := New()
	for i := len(order) - 1; i >= 0; i-- {
		l.PushFront(s, order[i])
	}
	require.Equal(t, order, nonNil(l.Handles(s)))
	require.NoError(t, l.Check(s, 16))
	return &l, s
}

func nonNil(h []int) []int {
	if len(h) == 0 {
		return nil
	}
	return h
}

func Test_EmptyList(t *testing.T) {
	l := New()
	s := newTable(1)
	require.True(t, l.Empty())
	require.Equal(t, Nil, l.Front())
	require.Equal(t, 0, l.Len())
	require.Empty(t, l.Handles(s))
	require.NoError(t, l.Check(s, 1))
}

func Test_PushFront_LIFO(t *testing.T) {
	s := newTable(4)
	l := New()
	l.PushFront(s, 0)
	l.PushFront(s, 1)
	l.PushFront(s, 2)
	require.Equal(t, []int{2, 1, 0}, l.Handles(s))
	require.Equal(t, 2, l.Front())
	require.Equal(t, 3, l.Len())
	require.NoError(t, l.Check(s, 4))
}

func Test_Remove_LengthOne(t *testing.T) {
	l, s := build(t, 5)
	l.Remove(s, 5)
	require.True(t, l.Empty())
	require.Equal(t, 0, l.Len())
	require.Equal(t, Nil, s.Prev(5))
	require.Equal(t, Nil, s.Next(5))
	require.NoError(t, l.Check(s, 16))
}

func Test_Remove_LengthTwo(t *testing.T) {
	t.Run("head", func(t *testing.T) {
		l, s := build(t, 1, 2)
		l.Remove(s, 1)
		require.Equal(t, []int{2}, l.Handles(s))
		require.Equal(t, 2, l.Front())
		require.NoError(t, l.Check(s, 16))
	})
	t.Run("tail", func(t *testing.T) {
		l, s := build(t, 1, 2)
		l.Remove(s, 2)
		require.Equal(t, []int{1}, l.Handles(s))
		require.Equal(t, 1, l.Front())
		require.NoError(t, l.Check(s, 16))
	})
}

func Test_Remove_LengthN(t *testing.T) {
	cases := []struct {
		name   string
		remove int
		want   []int
	}{
		{"head", 3, []int{4, 7, 9, 11}},
		{"middle", 7, []int{3, 4, 9, 11}},
		{"second", 4, []int{3, 7, 9, 11}},
		{"penultimate", 9, []int{3, 4, 7, 11}},
		{"tail", 11, []int{3, 4, 7, 9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, s := build(t, 3, 4, 7, 9, 11)
			l.Remove(s, tc.remove)
			require.Equal(t, tc.want, l.Handles(s))
			require.Equal(t, tc.want[0], l.Front())
			require.Equal(t, len(tc.want), l.Len())
			require.NoError(t, l.Check(s, 16))
		})
	}
}

func Test_Remove_DrainInEveryOrder(t *testing.T) {
	orders := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{1, 3, 0, 2},
		{2, 0, 3, 1},
	}
	for _, order := range orders {
		l, s := build(t, 0, 1, 2, 3)
		for i, h := range order {
			l.Remove(s, h)
			require.NoError(t, l.Check(s, 16))
			require.Equal(t, 3-i, l.Len())
		}
		require.True(t, l.Empty())
	}
}

func Test_RemoveThenReinsert(t *testing.T) {
	l, s := build(t, 0, 1, 2)
	l.Remove(s, 1)
	l.PushFront(s, 1)
	require.Equal(t, []int{1, 0, 2}, l.Handles(s))
	require.NoError(t, l.Check(s, 16))
}

func Test_Check_DetectsCorruption(t *testing.T) {
	t.Run("bad prev", func(t *testing.T) {
		l, s := build(t, 0, 1, 2)
		s.SetPrev(2, 0)
		require.Error(t, l.Check(s, 16))
	})
	t.Run("cycle", func(t *testing.T) {
		l, s := build(t, 0, 1)
		s.SetNext(1, 0)
		require.Error(t, l.Check(s, 16))
	})
	t.Run("length", func(t *testing.T) {
		l, s := build(t, 0, 1)
		l.n = 3
		require.Error(t, l.Check(s, 16))
	})
}

func Test_Each_StopsEarly(t *testing.T) {
	l, s := build(t, 0, 1, 2, 3)
	var seen []int
	l.Each(s, func(h int) bool {
		seen = append(seen, h)
		return h != 1
	})
	require.Equal(t, []int{0, 1}, seen)
}
