// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package xsync

import (
	"slices"
	"sync"

	"go.uber.org/atomic"
)

// OrderedSet is a duplicate free collection keeping insertion order.
// Readers never block: writers publish a fresh snapshot under a mutex.
type OrderedSet[T comparable] struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[[]T]
}

// NewOrderedSet creates an empty OrderedSet.
func NewOrderedSet[T comparable]() *OrderedSet[T] {
	return new(OrderedSet[T])
}

// Add appends item unless present and reports whether it was added.
func (s *OrderedSet[T]) Add(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	if slices.Contains(items, item) {
		return false
	}
	next := append(slices.Clip(items), item)
	s.snapshot.Store(&next)
	return true
}

// Remove deletes item and reports whether it was present. The order of the
// remaining items is kept.
func (s *OrderedSet[T]) Remove(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	i := slices.Index(items, item)
	if i < 0 {
		return false
	}
	next := slices.Delete(slices.Clone(items), i, i+1)
	s.snapshot.Store(&next)
	return true
}

// Len returns the number of items.
func (s *OrderedSet[T]) Len() int {
	return len(s.load())
}

// Items returns a copy of the items in insertion order.
func (s *OrderedSet[T]) Items() []T {
	return slices.Clone(s.load())
}

// Any reports whether fn holds for at least one item.
func (s *OrderedSet[T]) Any(fn func(T) bool) bool {
	return slices.ContainsFunc(s.load(), fn)
}

func (s *OrderedSet[T]) load() []T {
	if items := s.snapshot.Load(); items != nil {
		return *items
	}
	return nil
}
