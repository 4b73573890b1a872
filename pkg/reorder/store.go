// Package reorder keeps a custom list's order in memory, applies moves
// optimistically and reconciles them with the server.
package reorder

import (
	"sort"
	"sync"
	"time"

	"github.com/zfogg/otakulist/pkg/api"
)

// Store holds the client's current view of one list. Positions are always
// a dense zero-based permutation of the stored items.
type Store struct {
	mu        sync.RWMutex
	listID    string
	items     []api.ListItem
	updatedAt time.Time

	subMu   sync.Mutex
	subs    map[int]func([]api.ListItem)
	nextSub int
	held    int
	backlog [][]api.ListItem
}

// NewStore builds a store from a fetched list
func NewStore(list *api.CustomList) *Store {
	s := &Store{subs: make(map[int]func([]api.ListItem))}
	s.listID = list.ID
	s.updatedAt = list.UpdatedAt
	s.items = normalize(list.Items)
	return s
}

// ListID returns the id of the list held by the store
func (s *Store) ListID() string {
	return s.listID
}

// Items returns a copy of the items sorted by position
func (s *Store) Items() []api.ListItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

// Len returns the number of items
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// IndexOf returns the index of the item with the given id, or -1
func (s *Store) IndexOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, id)
}

// UpdatedAt returns the server version marker the store is based on
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// SetUpdatedAt adopts a version marker issued by the server
func (s *Store) SetUpdatedAt(t time.Time) {
	s.mu.Lock()
	s.updatedAt = t
	s.mu.Unlock()
}

// ApplyOrder replaces the sequence, renumbering positions by index, and
// notifies subscribers.
func (s *Store) ApplyOrder(seq []api.ListItem) {
	next := clone(seq)
	for i := range next {
		next[i].Position = i
	}

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()

	s.publish(next)
}

// Replace swaps in a freshly fetched list, items and version together
func (s *Store) Replace(list *api.CustomList) {
	next := normalize(list.Items)

	s.mu.Lock()
	s.items = next
	s.updatedAt = list.UpdatedAt
	s.mu.Unlock()

	s.publish(next)
}

// Subscribe registers fn to be called with the new sequence after every
// mutation. The returned func removes the subscription. Mutations made by
// a Coordinator are published after it releases its lock, so fn may call
// back into the coordinator.
func (s *Store) Subscribe(fn func([]api.ListItem)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(items []api.ListItem) {
	s.subMu.Lock()
	if s.held > 0 {
		s.backlog = append(s.backlog, items)
		s.subMu.Unlock()
		return
	}
	fns := s.subscribers()
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(clone(items))
	}
}

// hold defers notifications until the matching release
func (s *Store) hold() {
	s.subMu.Lock()
	s.held++
	s.subMu.Unlock()
}

// release delivers the notifications deferred since the first hold once
// no hold remains
func (s *Store) release() {
	s.subMu.Lock()
	s.held--
	if s.held > 0 || len(s.backlog) == 0 {
		s.subMu.Unlock()
		return
	}
	backlog := s.backlog
	s.backlog = nil
	fns := s.subscribers()
	s.subMu.Unlock()

	for _, items := range backlog {
		for _, fn := range fns {
			fn(clone(items))
		}
	}
}

// subscribers must be called with s.subMu held
func (s *Store) subscribers() []func([]api.ListItem) {
	fns := make([]func([]api.ListItem), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return fns
}

// Move returns a copy of items with the element at from removed and
// reinserted at to, positions renumbered densely.
func Move(items []api.ListItem, from, to int) []api.ListItem {
	out := make([]api.ListItem, 0, len(items))
	moved := items[from]
	for i, it := range items {
		if i != from {
			out = append(out, it)
		}
	}
	out = append(out, api.ListItem{})
	copy(out[to+1:], out[to:])
	out[to] = moved

	for i := range out {
		out[i].Position = i
	}
	return out
}

// IsDense reports whether positions are exactly 0..n-1 in order
func IsDense(items []api.ListItem) bool {
	for i, it := range items {
		if it.Position != i {
			return false
		}
	}
	return true
}

func normalize(items []api.ListItem) []api.ListItem {
	out := clone(items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	for i := range out {
		out[i].Position = i
	}
	return out
}

func clone(items []api.ListItem) []api.ListItem {
	if items == nil {
		return []api.ListItem{}
	}
	out := make([]api.ListItem, len(items))
	copy(out, items)
	return out
}

func indexOf(items []api.ListItem, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func sameOrder(a, b []api.ListItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
