package cache

import (
	"encoding/json"
	"fmt"
	"sync"

	"list-app-go/internal/domain/list"
)

// ListsKey is the one logical key mirroring the remote lists table.
const ListsKey = "lists"

// Store is the minimal persisted key-value contract. Values are opaque
// byte strings; every operation is idempotent.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Close() error
}

// Lists is the list-table mirror layered on a Store. It is what the
// identity resolver consults, so it has to survive process restarts when
// backed by the SQLite store.
type Lists struct {
	mu    sync.Mutex
	store Store
}

func NewLists(store Store) *Lists {
	return &Lists{store: store}
}

// All returns the mirrored list records; nil when nothing is cached yet.
func (l *Lists) All() ([]list.List, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// Replace overwrites the whole mirror; used after a full reload.
func (l *Lists) Replace(lists []list.List) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.save(lists)
}

// Add appends a record unless a record with the same name and id is
// already mirrored.
func (l *Lists) Add(record list.List) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	lists, err := l.load()
	if err != nil {
		return err
	}
	for _, existing := range lists {
		if existing.Name == record.Name && existing.ID == record.ID {
			return nil
		}
	}
	return l.save(append(lists, record))
}

// ReplaceItem swaps the record matched by id in place. A missing mirror or
// an unmatched id is a no-op.
func (l *Lists) ReplaceItem(userID, id string, updated list.List) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	lists, err := l.load()
	if err != nil {
		return err
	}
	if lists == nil {
		return nil
	}

	for i := range lists {
		if lists[i].ID == id {
			lists[i] = updated
		}
	}
	return l.save(lists)
}

// Clear drops the mirror; used on sign-out.
func (l *Lists) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Remove(ListsKey)
}

// FindByUserIDAndID resolves a cached record by id, see list package docs.
func (l *Lists) FindByUserIDAndID(userID, id string) (list.List, bool, error) {
	lists, err := l.All()
	if err != nil {
		return list.List{}, false, err
	}
	found, ok := list.FindByUserIDAndID(lists, userID, id)
	return found, ok, nil
}

// FindByUserIDAndCleanName resolves a cached record by clean_name.
func (l *Lists) FindByUserIDAndCleanName(userID, cleanName string) (list.List, bool, error) {
	lists, err := l.All()
	if err != nil {
		return list.List{}, false, err
	}
	found, ok := list.FindByUserIDAndCleanName(lists, userID, cleanName)
	return found, ok, nil
}

func (l *Lists) load() ([]list.List, error) {
	raw, ok, err := l.store.Get(ListsKey)
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", ListsKey, err)
	}
	if !ok {
		return nil, nil
	}

	var lists []list.List
	if err := json.Unmarshal(raw, &lists); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", ListsKey, err)
	}
	return lists, nil
}

func (l *Lists) save(lists []list.List) error {
	raw, err := json.Marshal(lists)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", ListsKey, err)
	}
	if err := l.store.Set(ListsKey, raw); err != nil {
		return fmt.Errorf("cache set %s: %w", ListsKey, err)
	}
	return nil
}
