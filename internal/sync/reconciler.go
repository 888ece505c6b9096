package sync

import (
	"encoding/json"
	"fmt"

	"list-app-go/internal/domain/item"
	"list-app-go/internal/domain/list"
	"list-app-go/internal/realtime"
)

// handleListEvent applies a list-channel change directly: list entries are
// the resolution target for item events, never a dependent, so no queuing
// is involved.
func (e *Engine) handleListEvent(event realtime.Event) {
	var record list.List
	if err := json.Unmarshal(event.New, &record); err != nil {
		e.log.Error("sync: malformed list event", "err", err)
		return
	}

	switch event.Type {
	case realtime.EventInsert:
		if record.Deleted {
			return
		}
		e.state.AddList(record)
		if err := e.cache.Add(record); err != nil {
			e.log.Error("sync: cache add failed", "list_id", record.ID, "err", err)
		}
		e.broadcast.Changed("list", "add", record.ID, "")

	default:
		// Deletes surface as UPDATE with the tombstone flag set.
		if record.Deleted {
			e.state.DeleteList(record.ID)
			if sink, ok := e.state.Sink(record.Type); ok {
				sink.DeleteKey(record.ID)
			}
			if err := e.cache.ReplaceItem(record.UserID, record.ID, record); err != nil {
				e.log.Error("sync: cache replace failed", "list_id", record.ID, "err", err)
			}
			e.broadcast.Changed("list", "remove", record.ID, "")
			return
		}

		e.state.UpdateList(record.ID, "", func(l list.List) list.List {
			l.Name = record.Name
			l.Type = record.Type
			l.CleanName = record.CleanName
			l.Archived = record.Archived
			l.Total = record.Total
			l.ItemNumber = record.ItemNumber
			l.SharedWith = record.SharedWith
			return l
		})
		if err := e.cache.ReplaceItem(record.UserID, record.ID, record); err != nil {
			e.log.Error("sync: cache replace failed", "list_id", record.ID, "err", err)
		}
		e.broadcast.Changed("list", "update", record.ID, "")
	}
}

// handleItemEvent routes an item-channel change to the owning list's
// container. When the list is not cached yet (the item event outran the
// list event on the wire) the event is queued for bounded retry; if the
// list never materializes the event is discarded.
func (e *Engine) handleItemEvent(event realtime.Event) {
	var row item.Row
	if err := json.Unmarshal(event.New, &row); err != nil {
		e.log.Error("sync: malformed item event", "err", err)
		return
	}

	if e.dispatchItem(event.Type, row) {
		return
	}

	key := fmt.Sprintf("item/%s/%s", event.Type, row.ID)
	eventType := event.Type
	e.retry.Enqueue(key, func() bool {
		return e.dispatchItem(eventType, row)
	})
}

// dispatchItem resolves the owning list via its clean_name and applies the
// event. The false return means "list not yet materialized locally".
func (e *Engine) dispatchItem(eventType realtime.EventType, row item.Row) bool {
	rec, ok, err := e.cache.FindByUserIDAndCleanName(row.UserID, row.ListName)
	if err != nil {
		e.log.Error("sync: cache lookup failed", "list_name", row.ListName, "err", err)
		return false
	}
	if !ok {
		return false
	}

	sink, ok := e.state.Sink(rec.Type)
	if !ok {
		e.log.Warn("sync: event for unknown list type", "type", string(rec.Type), "list_id", rec.ID)
		return true
	}

	entity := string(rec.Type)
	switch eventType {
	case realtime.EventInsert:
		if row.Deleted {
			return true
		}
		if sink.Insert(rec.ID, row) {
			e.broadcast.Changed(entity, "add", rec.ID, row.ID)
		}
	default:
		if row.Deleted {
			if sink.Remove(rec.ID, row.ID) {
				e.broadcast.Changed(entity, "remove", rec.ID, row.ID)
			}
			return true
		}
		if sink.Update(rec.ID, row) {
			e.broadcast.Changed(entity, "update", rec.ID, row.ID)
		}
	}
	return true
}
