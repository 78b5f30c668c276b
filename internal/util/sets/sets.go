// Package sets holds a small generic set used to collect tag names.
package sets

import (
	"cmp"
	"maps"
	"slices"
)

// Set is an unordered collection of distinct values.
type Set[T cmp.Ordered] map[T]struct{}

func New[T cmp.Ordered](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	s.AddAll(vals...)
	return s
}

// AddAll inserts every value, ignoring ones already present.
func (s Set[T]) AddAll(vals ...T) {
	for _, v := range vals {
		s[v] = struct{}{}
	}
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Len() int { return len(s) }

// Sorted lists the members in ascending order. An empty set gives an empty,
// non-nil slice so templates can range over it.
func (s Set[T]) Sorted() []T {
	out := slices.Sorted(maps.Keys(s))
	if out == nil {
		out = []T{}
	}
	return out
}
