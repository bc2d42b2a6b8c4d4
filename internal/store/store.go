package store

import (
	"fmt"
	"sync"

	"github.com/safar/artprint/internal/errs"
)

// Identifiable is anything the server hands back with an opaque identifier.
type Identifiable interface {
	Identifier() string
}

// Store is the local copy of one server collection. Mutations are applied from
// the server's own responses instead of re-fetching the list.
type Store[T Identifiable] struct {
	mu       sync.RWMutex
	items    []T
	selected string
	busy     bool
}

func New[T Identifiable]() *Store[T] {
	return &Store[T]{}
}

// Reset replaces the whole collection with a fresh list result.
func (s *Store[T]) Reset(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(make([]T, 0, len(items)), items...)
	if s.selected != "" && s.indexOf(s.selected) < 0 {
		s.selected = ""
	}
}

func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) Find(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	var zero T
	return zero, errs.NotFound(fmt.Sprintf("%s not found", id))
}

func (s *Store[T]) Append(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

// Replace swaps the entry with the same identifier as item. It reports false
// when no such entry exists.
func (s *Store[T]) Replace(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(item.Identifier())
	if i < 0 {
		return false
	}
	s.items[i] = item
	return true
}

func (s *Store[T]) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

func (s *Store[T]) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

func (s *Store[T]) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

func (s *Store[T]) Selected() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	if s.selected == "" {
		return zero, false
	}
	if i := s.indexOf(s.selected); i >= 0 {
		return s.items[i], true
	}
	return zero, false
}

// Begin marks a mutation as in flight. Only one may run at a time.
func (s *Store[T]) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return errs.ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Store[T]) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

func (s *Store[T]) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

func (s *Store[T]) indexOf(id string) int {
	for i, item := range s.items {
		if item.Identifier() == id {
			return i
		}
	}
	return -1
}
