package state

import (
	"sync"

	"list-app-go/internal/domain/item"
	"list-app-go/internal/domain/list"
)

// State holds everything the UI renders: the list collection and the four
// typed item containers. It is the only shared mutable surface of the
// engine; all writes go through its operations, each an atomic replace of
// the affected entry.
type State struct {
	mu    sync.RWMutex
	lists []list.List

	Grocery  *Container[item.Grocery]
	Todo     *Container[item.Todo]
	Bookmark *Container[item.Bookmark]
	Note     *Container[item.Note]

	sinks map[list.Type]Sink
}

func New() *State {
	s := &State{
		Grocery:  NewContainer[item.Grocery](),
		Todo:     NewContainer[item.Todo](),
		Bookmark: NewContainer[item.Bookmark](),
		Note:     NewContainer[item.Note](),
	}
	s.sinks = map[list.Type]Sink{
		list.TypeGrocery:  newSink(s.Grocery, item.GroceryVariant),
		list.TypeTodo:     newSink(s.Todo, item.TodoVariant),
		list.TypeBookmark: newSink(s.Bookmark, item.BookmarkVariant),
		list.TypeNote:     newSink(s.Note, item.NoteVariant),
	}
	return s
}

// Sink returns the dispatch target for a list type.
func (s *State) Sink(t list.Type) (Sink, bool) {
	sk, ok := s.sinks[t]
	return sk, ok
}

func (s *State) SetLists(lists []list.List) {
	s.mu.Lock()
	s.lists = append([]list.List(nil), lists...)
	s.mu.Unlock()
}

func (s *State) Lists() []list.List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]list.List(nil), s.lists...)
}

// AddList appends a list entry, ignoring an id already present so a
// realtime insert racing the optimistic path cannot double the entry.
func (s *State) AddList(l list.List) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.lists {
		if existing.ID == l.ID {
			return false
		}
	}
	s.lists = append(append([]list.List(nil), s.lists...), l)
	return true
}

// UpdateList applies patch to the entry matched by id (or by tempID when
// given, the optimistic-placeholder swap).
func (s *State) UpdateList(id, tempID string, patch func(list.List) list.List) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	matchID := id
	if tempID != "" {
		matchID = tempID
	}

	for i, existing := range s.lists {
		if existing.ID != matchID {
			continue
		}
		next := append([]list.List(nil), s.lists...)
		next[i] = patch(existing)
		s.lists = next
		return true
	}
	return false
}

func (s *State) DeleteList(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]list.List, 0, len(s.lists))
	deleted := false
	for _, existing := range s.lists {
		if existing.ID == id {
			deleted = true
			continue
		}
		next = append(next, existing)
	}
	if !deleted {
		return false
	}
	s.lists = next
	return true
}

func (s *State) FindList(id string) (list.List, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, existing := range s.lists {
		if existing.ID == id {
			return existing, true
		}
	}
	return list.List{}, false
}

// Reset clears the list collection and all four containers; used on
// sign-out.
func (s *State) Reset() {
	s.mu.Lock()
	s.lists = nil
	s.mu.Unlock()

	s.Grocery.Reset()
	s.Todo.Reset()
	s.Bookmark.Reset()
	s.Note.Reset()
}
