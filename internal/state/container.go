package state

import (
	"sync"

	"list-app-go/internal/domain/item"
)

// Container is one keyed-by-listID collection of typed items. Every
// mutation replaces the affected key with a freshly built slice, so slices
// handed out by Items/All are never written to again and callers may hold
// them across mutations.
type Container[T item.Item[T]] struct {
	mu    sync.RWMutex
	items map[string][]T
}

func NewContainer[T item.Item[T]]() *Container[T] {
	return &Container[T]{items: make(map[string][]T)}
}

// SetAll replaces the whole collection; used on initial load.
func (c *Container[T]) SetAll(mapping map[string][]T) {
	fresh := make(map[string][]T, len(mapping))
	for listID, items := range mapping {
		fresh[listID] = append([]T(nil), items...)
	}

	c.mu.Lock()
	c.items = fresh
	c.mu.Unlock()
}

// AddMany appends a batch under listID; used on duplicate and load grouping.
func (c *Container[T]) AddMany(listID string, items []T) {
	if len(items) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.items[listID]
	next := make([]T, 0, len(current)+len(items))
	next = append(next, current...)
	next = append(next, items...)
	c.items[listID] = next
}

// Add appends one item. Re-adding an id already present under listID is a
// no-op, which makes duplicate realtime delivery harmless.
func (c *Container[T]) Add(listID string, it T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.items[listID]
	for _, existing := range current {
		if existing.ItemID() == it.ItemID() {
			return false
		}
	}

	next := make([]T, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, it)
	c.items[listID] = next
	return true
}

// Update replaces an item in place. When tempID is non-empty the entry
// matched is the optimistic placeholder rather than it.ItemID(), which is
// how the server id gets swapped in after a write acknowledgement.
func (c *Container[T]) Update(listID string, it T, tempID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.items[listID]
	if !ok {
		return false
	}

	matchID := it.ItemID()
	if tempID != "" {
		matchID = tempID
	}

	for i, existing := range current {
		if existing.ItemID() != matchID {
			continue
		}
		next := append([]T(nil), current...)
		next[i] = it
		c.items[listID] = next
		return true
	}
	return false
}

// Remove filters out itemID. The listID key disappears once its collection
// empties; removing from a missing key is a no-op.
func (c *Container[T]) Remove(listID, itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.items[listID]
	if !ok {
		return false
	}

	next := make([]T, 0, len(current))
	removed := false
	for _, existing := range current {
		if existing.ItemID() == itemID {
			removed = true
			continue
		}
		next = append(next, existing)
	}
	if !removed {
		return false
	}

	if len(next) == 0 {
		delete(c.items, listID)
	} else {
		c.items[listID] = next
	}
	return true
}

// SetAllChecked maps every item's checked flag under listID to checked.
func (c *Container[T]) SetAllChecked(listID string, checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.items[listID]
	if !ok {
		return
	}

	next := make([]T, len(current))
	for i, existing := range current {
		next[i] = existing.WithChecked(checked)
	}
	c.items[listID] = next
}

// RemoveByCheckedState drops every item whose checked flag equals checked,
// deleting the key when nothing remains.
func (c *Container[T]) RemoveByCheckedState(listID string, checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.items[listID]
	if !ok {
		return
	}

	next := make([]T, 0, len(current))
	for _, existing := range current {
		if existing.IsChecked() == checked {
			continue
		}
		next = append(next, existing)
	}

	if len(next) == 0 {
		delete(c.items, listID)
	} else {
		c.items[listID] = next
	}
}

// DeleteKey drops a list's whole collection, e.g. when the list itself goes.
func (c *Container[T]) DeleteKey(listID string) {
	c.mu.Lock()
	delete(c.items, listID)
	c.mu.Unlock()
}

func (c *Container[T]) Items(listID string) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items[listID]...)
}

func (c *Container[T]) All() map[string][]T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string][]T, len(c.items))
	for listID, items := range c.items {
		out[listID] = append([]T(nil), items...)
	}
	return out
}

func (c *Container[T]) Reset() {
	c.mu.Lock()
	c.items = make(map[string][]T)
	c.mu.Unlock()
}

// sink adapts a typed container for dispatch paths that only hold rows,
// i.e. the realtime reconciler and the duplicate operation.
type sink[T item.Item[T]] struct {
	container *Container[T]
	variant   item.Variant[T]
}

func (s sink[T]) Insert(listID string, row item.Row) bool {
	return s.container.Add(listID, s.variant.FromRow(row))
}

func (s sink[T]) Update(listID string, row item.Row) bool {
	return s.container.Update(listID, s.variant.FromRow(row), "")
}

func (s sink[T]) Remove(listID, itemID string) bool {
	return s.container.Remove(listID, itemID)
}

func (s sink[T]) DeleteKey(listID string) {
	s.container.DeleteKey(listID)
}

func (s sink[T]) Count(listID string) int {
	return len(s.container.Items(listID))
}

func (s sink[T]) Rows(listID, userID, listName string) []item.Row {
	items := s.container.Items(listID)
	rows := make([]item.Row, 0, len(items))
	for _, it := range items {
		row := s.variant.ToRow(userID, listName, it)
		row.ID = "" // fresh ids are assigned downstream
		rows = append(rows, row)
	}
	return rows
}

func (s sink[T]) CopyTo(srcListID, dstListID string, ids []string) {
	items := s.container.Items(srcListID)
	copied := make([]T, 0, len(items))
	for i, it := range items {
		if i >= len(ids) {
			break
		}
		copied = append(copied, it.WithID(ids[i]))
	}
	s.container.AddMany(dstListID, copied)
}

// Sink is the type-erased view the reconciler routes events through.
type Sink interface {
	Insert(listID string, row item.Row) bool
	Update(listID string, row item.Row) bool
	Remove(listID, itemID string) bool
	DeleteKey(listID string)
	Count(listID string) int
	Rows(listID, userID, listName string) []item.Row
	CopyTo(srcListID, dstListID string, ids []string)
}

var _ Sink = sink[item.Grocery]{}

func newSink[T item.Item[T]](c *Container[T], v item.Variant[T]) Sink {
	return sink[T]{container: c, variant: v}
}
