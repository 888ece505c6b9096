package sync

import (
	"encoding/json"
	"testing"
	"time"

	"list-app-go/internal/domain/item"
	"list-app-go/internal/domain/list"
	"list-app-go/internal/realtime"
)

func listEvent(t *testing.T, eventType realtime.EventType, rec list.List) realtime.Event {
	t.Helper()
	payload, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal list event: %v", err)
	}
	return realtime.Event{Type: eventType, New: payload}
}

func itemEvent(t *testing.T, eventType realtime.EventType, row item.Row) realtime.Event {
	t.Helper()
	payload, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal item event: %v", err)
	}
	return realtime.Event{Type: eventType, New: payload}
}

func TestListInsertEventMaterializesList(t *testing.T) {
	backend := newFakeBackend()
	engine, _, rec := newTestEngine(backend)

	incoming := list.List{ID: "l-9", Name: "Shared", Type: list.TypeTodo, CleanName: "Shared", UserID: "owner"}
	engine.handleListEvent(listEvent(t, realtime.EventInsert, incoming))

	if _, ok := engine.State().FindList("l-9"); !ok {
		t.Fatalf("expected list added to state")
	}
	if _, ok, _ := engine.cache.FindByUserIDAndID("owner", "l-9"); !ok {
		t.Fatalf("expected list mirrored into cache")
	}
	if !rec.has("list/add") {
		t.Fatalf("expected add broadcast, got %v", rec.messages)
	}
}

func TestListInsertEventSkipsTombstone(t *testing.T) {
	backend := newFakeBackend()
	engine, _, _ := newTestEngine(backend)

	incoming := list.List{ID: "l-9", Deleted: true, Type: list.TypeTodo}
	engine.handleListEvent(listEvent(t, realtime.EventInsert, incoming))

	if _, ok := engine.State().FindList("l-9"); ok {
		t.Fatalf("tombstoned insert must not materialize")
	}
}

func TestListUpdateEventWithTombstoneRemovesList(t *testing.T) {
	backend := newFakeBackend()
	engine, _, rec := newTestEngine(backend)
	seedList(t, engine, list.List{ID: "l-1", Name: "Groceries", Type: list.TypeGrocery, CleanName: "Groceries", UserID: "user-1"})
	engine.State().Grocery.Add("l-1", item.Grocery{ID: "g-1"})

	gone := list.List{ID: "l-1", Type: list.TypeGrocery, UserID: "user-1", Deleted: true}
	engine.handleListEvent(listEvent(t, realtime.EventUpdate, gone))

	if _, ok := engine.State().FindList("l-1"); ok {
		t.Fatalf("expected list removed")
	}
	if len(engine.State().Grocery.Items("l-1")) != 0 {
		t.Fatalf("expected container key cleared")
	}
	if !rec.has("list/remove") {
		t.Fatalf("expected remove broadcast")
	}
}

func TestListUpdateEventAppliesFields(t *testing.T) {
	backend := newFakeBackend()
	engine, _, _ := newTestEngine(backend)
	seedList(t, engine, list.List{ID: "l-1", Name: "Old", Type: list.TypeGrocery, CleanName: "Old", UserID: "user-1"})

	updated := list.List{
		ID: "l-1", Name: "New", Type: list.TypeGrocery, CleanName: "New",
		UserID: "user-1", Total: 12, ItemNumber: 3, Archived: true,
	}
	engine.handleListEvent(listEvent(t, realtime.EventUpdate, updated))

	got, ok := engine.State().FindList("l-1")
	if !ok {
		t.Fatalf("list missing")
	}
	if got.Name != "New" || got.Total != 12 || got.ItemNumber != 3 || !got.Archived {
		t.Fatalf("unexpected record after update event: %+v", got)
	}
}

func TestItemEventRoutesThroughCleanName(t *testing.T) {
	backend := newFakeBackend()
	engine, _, rec := newTestEngine(backend)
	seedList(t, engine, list.List{ID: "l-1", Name: "Groceries", Type: list.TypeGrocery, CleanName: "Groceries", UserID: "user-1"})

	row := item.Row{ID: "i-1", UserID: "user-1", Name: "milk", ListName: "Groceries", Price: "2"}
	engine.handleItemEvent(itemEvent(t, realtime.EventInsert, row))

	items := engine.Grocery().Items("l-1")
	if len(items) != 1 || items[0].Name != "milk" {
		t.Fatalf("expected item routed to grocery container, got %+v", items)
	}
	if engine.retry.Len() != 0 {
		t.Fatalf("resolved event must not be queued")
	}
	if !rec.has("grocery/add") {
		t.Fatalf("expected broadcast, got %v", rec.messages)
	}
}

func TestItemEventDuplicateDeliveryIsIdempotent(t *testing.T) {
	backend := newFakeBackend()
	engine, _, _ := newTestEngine(backend)
	seedList(t, engine, list.List{ID: "l-1", Name: "Groceries", Type: list.TypeGrocery, CleanName: "Groceries", UserID: "user-1"})

	row := item.Row{ID: "i-1", UserID: "user-1", Name: "milk", ListName: "Groceries"}
	event := itemEvent(t, realtime.EventInsert, row)
	engine.handleItemEvent(event)
	engine.handleItemEvent(event)

	if items := engine.Grocery().Items("l-1"); len(items) != 1 {
		t.Fatalf("expected 1 item after duplicate delivery, got %d", len(items))
	}
}

func TestItemUpdateEventWithTombstoneRemovesItem(t *testing.T) {
	backend := newFakeBackend()
	engine, _, rec := newTestEngine(backend)
	seedList(t, engine, list.List{ID: "l-1", Name: "Groceries", Type: list.TypeGrocery, CleanName: "Groceries", UserID: "user-1"})
	engine.State().Grocery.Add("l-1", item.Grocery{ID: "i-1", Name: "milk"})

	row := item.Row{ID: "i-1", UserID: "user-1", ListName: "Groceries", Deleted: true}
	engine.handleItemEvent(itemEvent(t, realtime.EventUpdate, row))

	if items := engine.Grocery().Items("l-1"); len(items) != 0 {
		t.Fatalf("expected item removed, got %+v", items)
	}
	if !rec.has("grocery/remove") {
		t.Fatalf("expected remove broadcast")
	}
}

func TestItemEventQueuedUntilListMaterializes(t *testing.T) {
	backend := newFakeBackend()
	engine, _, _ := newTestEngine(backend)

	row := item.Row{ID: "i-1", UserID: "user-1", Name: "milk", ListName: "Groceries"}
	engine.handleItemEvent(itemEvent(t, realtime.EventInsert, row))

	if engine.retry.Len() != 1 {
		t.Fatalf("expected event queued, len=%d", engine.retry.Len())
	}

	// The list event arrives while the item event waits.
	seedList(t, engine, list.List{ID: "l-1", Name: "Groceries", Type: list.TypeGrocery, CleanName: "Groceries", UserID: "user-1"})

	deadline := time.After(2 * time.Second)
	for engine.retry.Len() != 0 {
		select {
		case <-deadline:
			t.Fatalf("queued event never resolved")
		case <-time.After(5 * time.Millisecond):
		}
	}

	items := engine.Grocery().Items("l-1")
	if len(items) != 1 || items[0].Name != "milk" {
		t.Fatalf("expected queued item applied after list arrived, got %+v", items)
	}
}

func TestItemEventDiscardedAfterRetryBudget(t *testing.T) {
	backend := newFakeBackend()
	engine, _, _ := newTestEngine(backend)

	row := item.Row{ID: "i-1", UserID: "user-1", Name: "milk", ListName: "Never"}
	engine.handleItemEvent(itemEvent(t, realtime.EventInsert, row))

	deadline := time.After(2 * time.Second)
	for engine.retry.Len() != 0 {
		select {
		case <-deadline:
			t.Fatalf("event never discarded")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if len(engine.State().Grocery.All()) != 0 {
		t.Fatalf("discarded event must not touch containers")
	}
}

func TestItemEventDuplicateWhileQueuedDoesNotMultiplyTimers(t *testing.T) {
	backend := newFakeBackend()
	engine, _, _ := newTestEngine(backend)

	row := item.Row{ID: "i-1", UserID: "user-1", ListName: "Missing"}
	event := itemEvent(t, realtime.EventInsert, row)
	engine.handleItemEvent(event)
	engine.handleItemEvent(event)

	if engine.retry.Len() != 1 {
		t.Fatalf("expected single queued timer, got %d", engine.retry.Len())
	}
	engine.retry.CancelAll()
}

func TestDispatchEventRoutesByChannel(t *testing.T) {
	backend := newFakeBackend()
	engine, sub, _ := newTestEngine(backend)
	if err := engine.Subscribe(); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	incoming := list.List{ID: "l-5", Name: "Via Channel", Type: list.TypeNote, CleanName: "Via_Channel", UserID: "user-1"}
	sub.handler("lists_changes", listEvent(t, realtime.EventInsert, incoming))

	if _, ok := engine.State().FindList("l-5"); !ok {
		t.Fatalf("expected list event dispatched via channel name")
	}

	row := item.Row{ID: "i-5", UserID: "user-1", Name: "remember", ListName: "Via_Channel"}
	sub.handler("items_changes", itemEvent(t, realtime.EventInsert, row))

	if items := engine.Note().Items("l-5"); len(items) != 1 {
		t.Fatalf("expected item event dispatched via channel name, got %+v", items)
	}
}
