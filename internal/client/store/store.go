// Package store holds the client-side cache for one resource type. The
// server is the single authority: every completed operation replaces the
// cached list wholesale with the acknowledged one, and a failed operation
// changes nothing except the error message. The store never computes
// post-mutation state locally.
package store

import (
	"sort"
	"sync"
)

// Store is the state container for one resource type. All methods are safe
// for concurrent use; accessors return copies.
type Store[T any] struct {
	mu sync.Mutex

	id         func(*T) int64
	newDefault func() T

	items    []T
	selected map[int64]struct{}

	form     T
	formOpen bool
	editing  bool

	confirmingDelete bool

	loading bool
	err     string
}

func New[T any](id func(*T) int64, newDefault func() T) *Store[T] {
	return &Store[T]{
		id:         id,
		newDefault: newDefault,
		items:      make([]T, 0),
		selected:   make(map[int64]struct{}),
	}
}

// Begin marks an operation in flight and clears any stale error.
func (s *Store[T]) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.err = ""
}

// Complete replaces the cached list with the authoritative one and prunes the
// selection down to ids that still exist. Items never survive by merging.
func (s *Store[T]) Complete(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(make([]T, 0, len(items)), items...)
	s.loading = false
	s.err = ""

	alive := make(map[int64]struct{}, len(items))
	for i := range s.items {
		alive[s.id(&s.items[i])] = struct{}{}
	}
	for id := range s.selected {
		if _, ok := alive[id]; !ok {
			delete(s.selected, id)
		}
	}
}

// Fail records the error and ends the in-flight state. Cached items, the
// form and the selection are left untouched so the operator can retry.
func (s *Store[T]) Fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = msg
}

func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]T, 0, len(s.items)), s.items...)
}

func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store[T]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// --- form lifecycle

// OpenAdd seeds the form from the new-item template.
func (s *Store[T]) OpenAdd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = s.newDefault()
	s.formOpen = true
	s.editing = false
}

// OpenEdit copies the cached item with the given id into the form. It
// reports false when the id is not cached.
func (s *Store[T]) OpenEdit(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.id(&s.items[i]) == id {
			s.form = s.items[i]
			s.formOpen = true
			s.editing = true
			return true
		}
	}
	return false
}

func (s *Store[T]) SetForm(form T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

func (s *Store[T]) Form() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// CloseForm dismisses the form and resets it to the template.
func (s *Store[T]) CloseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = s.newDefault()
	s.formOpen = false
	s.editing = false
}

func (s *Store[T]) FormOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formOpen
}

// Editing reports whether the open form holds an existing item rather than a
// new one.
func (s *Store[T]) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// --- delete confirmation

func (s *Store[T]) OpenConfirmDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmingDelete = true
}

func (s *Store[T]) CloseConfirmDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmingDelete = false
}

func (s *Store[T]) ConfirmingDelete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmingDelete
}

// --- selection

func (s *Store[T]) ToggleSelect(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
}

func (s *Store[T]) IsSelected(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[id]
	return ok
}

func (s *Store[T]) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[int64]struct{})
}

// SelectedIDs returns the selected ids in ascending order.
func (s *Store[T]) SelectedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
