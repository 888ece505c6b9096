package sync

import (
	"context"
	"errors"
	"strconv"
	stdsync "sync"
	"time"

	"list-app-go/internal/cache"
	"list-app-go/internal/config"
	"list-app-go/internal/domain/item"
	"list-app-go/internal/domain/list"
	"list-app-go/internal/realtime"
	"list-app-go/internal/state"
	"list-app-go/pkg/logger"
)

var errBackendDown = errors.New("backend down")

// fakeBackend records every write and serves canned fetch data. Setting
// fail makes all operations error, which is how tests exercise the
// dirty-marker path.
type fakeBackend struct {
	mu stdsync.Mutex

	fail bool

	lists []list.List
	rows  []item.Row

	nextID int

	insertedLists      []list.List
	listUpdates        map[string][]map[string]any
	aggregates         map[string][2]float64
	tombstonedLists    []string
	revocations        []list.Revocation
	insertedItems      []item.Row
	itemUpdates        []item.Row
	checkedUpdates     []string
	bulkChecked        []string
	tombstonedItems    []string
	tombstonedByList   []string
	tombstonedByState  []string
	repointed          [][2]string
	sharedListUpdates  map[string][]string
	sharedItemsUpdates map[string][]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		listUpdates:        make(map[string][]map[string]any),
		aggregates:         make(map[string][2]float64),
		sharedListUpdates:  make(map[string][]string),
		sharedItemsUpdates: make(map[string][]string),
	}
}

func (f *fakeBackend) newID(prefix string) string {
	f.nextID++
	return prefix + "-" + strconv.Itoa(f.nextID)
}

func (f *fakeBackend) FetchLists(context.Context) ([]list.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errBackendDown
	}
	return append([]list.List(nil), f.lists...), nil
}

func (f *fakeBackend) FetchItems(context.Context) ([]item.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errBackendDown
	}
	return append([]item.Row(nil), f.rows...), nil
}

func (f *fakeBackend) InsertList(_ context.Context, l list.List) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errBackendDown
	}
	id := f.newID("list")
	l.ID = id
	f.insertedLists = append(f.insertedLists, l)
	return id, nil
}

func (f *fakeBackend) UpdateList(_ context.Context, id string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.listUpdates[id] = append(f.listUpdates[id], updates)
	return nil
}

func (f *fakeBackend) UpdateListAggregate(_ context.Context, id string, itemNumber int, total float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.aggregates[id] = [2]float64{float64(itemNumber), total}
	return nil
}

func (f *fakeBackend) TombstoneList(_ context.Context, cleanName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.tombstonedLists = append(f.tombstonedLists, cleanName)
	return nil
}

func (f *fakeBackend) InsertRevocation(_ context.Context, rev list.Revocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.revocations = append(f.revocations, rev)
	return nil
}

func (f *fakeBackend) InsertItem(_ context.Context, row item.Row) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errBackendDown
	}
	id := f.newID("item")
	row.ID = id
	f.insertedItems = append(f.insertedItems, row)
	return id, nil
}

func (f *fakeBackend) InsertItems(_ context.Context, rows []item.Row) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errBackendDown
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		id := f.newID("item")
		row.ID = id
		f.insertedItems = append(f.insertedItems, row)
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeBackend) UpdateItemRow(_ context.Context, id string, row item.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	row.ID = id
	f.itemUpdates = append(f.itemUpdates, row)
	return nil
}

func (f *fakeBackend) UpdateItemChecked(_ context.Context, userID, id string, checked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.checkedUpdates = append(f.checkedUpdates, id+"/"+strconv.FormatBool(checked))
	return nil
}

func (f *fakeBackend) SetCheckedByListName(_ context.Context, userID, listName string, checked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.bulkChecked = append(f.bulkChecked, listName+"/"+strconv.FormatBool(checked))
	return nil
}

func (f *fakeBackend) TombstoneItem(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.tombstonedItems = append(f.tombstonedItems, id)
	return nil
}

func (f *fakeBackend) TombstoneItemsByListName(_ context.Context, listName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.tombstonedByList = append(f.tombstonedByList, listName)
	return nil
}

func (f *fakeBackend) TombstoneItemsByChecked(_ context.Context, userID, listName string, checked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.tombstonedByState = append(f.tombstonedByState, listName+"/"+strconv.FormatBool(checked))
	return nil
}

func (f *fakeBackend) RepointItems(_ context.Context, oldListName, newListName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.repointed = append(f.repointed, [2]string{oldListName, newListName})
	return nil
}

func (f *fakeBackend) UpdateListShared(_ context.Context, cleanName string, sharedWith []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.sharedListUpdates[cleanName] = append([]string(nil), sharedWith...)
	return nil
}

func (f *fakeBackend) UpdateItemsShared(_ context.Context, listName string, sharedWith []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackendDown
	}
	f.sharedItemsUpdates[listName] = append([]string(nil), sharedWith...)
	return nil
}

func (f *fakeBackend) setFail(fail bool) {
	f.mu.Lock()
	f.fail = fail
	f.mu.Unlock()
}

// fakeSubscriber hands the registered handler back to the test so events
// can be injected directly.
type fakeSubscriber struct {
	mu      stdsync.Mutex
	handler realtime.Handler
	starts  int
	closes  int
}

func (f *fakeSubscriber) Start(handler realtime.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = handler
	f.starts++
	return nil
}

func (f *fakeSubscriber) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

// recorder collects broadcast messages for assertions.
type recorder struct {
	mu       stdsync.Mutex
	messages []string
}

func (r *recorder) Changed(entity, action, listID, itemID string) {
	r.mu.Lock()
	r.messages = append(r.messages, entity+"/"+action)
	r.mu.Unlock()
}

func (r *recorder) has(msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m == msg {
			return true
		}
	}
	return false
}

func testConfig() config.Config {
	return config.Config{
		Realtime: config.RealtimeConfig{
			ListChannel: "lists_changes",
			ItemChannel: "items_changes",
		},
		Sync: config.SyncConfig{
			RetryInterval: 10 * time.Millisecond,
			RetryAttempts: 3,
		},
	}
}

func newTestEngine(backend *fakeBackend) (*Engine, *fakeSubscriber, *recorder) {
	sub := &fakeSubscriber{}
	rec := &recorder{}
	engine := New(
		testConfig(),
		state.New(),
		cache.NewLists(cache.NewMemoryStore()),
		backend,
		sub,
		rec,
		logger.Discard(),
	)
	return engine, sub, rec
}
