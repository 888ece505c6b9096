package sync

import (
	"context"
	stdsync "sync"

	"list-app-go/internal/domain/item"
	"list-app-go/internal/domain/list"
	"list-app-go/internal/state"
)

// Pipeline applies optimistic mutations for one list type: the container
// changes immediately, the remote write follows, and the aggregate is
// persisted once the write lands. A failed remote write never rolls the
// local state back; the list is marked dirty instead.
//
// The inflight guard serializes aggregate-affecting mutations within the
// type. A second call arriving while one is running is dropped, not
// queued; the guard belongs to the pipeline instance, so independent
// engines (and tests) never share it.
type Pipeline[T item.Item[T]] struct {
	engine    *Engine
	container *state.Container[T]
	variant   item.Variant[T]
	entity    string

	inflight stdsync.Mutex
}

func newPipeline[T item.Item[T]](e *Engine, c *state.Container[T], v item.Variant[T]) *Pipeline[T] {
	return &Pipeline[T]{
		engine:    e,
		container: c,
		variant:   v,
		entity:    string(v.Type),
	}
}

// Items exposes the container's current collection for a list.
func (p *Pipeline[T]) Items(listID string) []T {
	return p.container.Items(listID)
}

// AddItem creates an item. Guest mode stops at the container; otherwise
// the optimistic entry carries the temp id until the server id arrives.
func (p *Pipeline[T]) AddItem(ctx context.Context, userID, listID string, it T) error {
	e := p.engine

	if userID == "" {
		if it.ItemID() == "" {
			it = it.WithID(newLocalID())
		}
		p.container.Add(listID, it)
		e.broadcast.Changed(p.entity, "add", listID, it.ItemID())
		return nil
	}

	rec, ok, err := e.cache.FindByUserIDAndID(userID, listID)
	if err != nil {
		e.log.Error("pipeline: cache lookup failed", "type", p.entity, "list_id", listID, "err", err)
	}

	placeholder := it.WithID(list.TempID)
	p.container.Add(listID, placeholder)
	e.broadcast.Changed(p.entity, "add", listID, placeholder.ItemID())

	if !ok {
		e.log.Warn("pipeline: list not cached, remote insert skipped", "type", p.entity, "list_id", listID)
		e.dirty.Mark(listID)
		return nil
	}

	rec.ItemNumber++
	rec.Total += p.variant.Amount(it)

	row := p.variant.ToRow(userID, rec.CleanName, it)
	row.ID = ""
	serverID, err := e.backend.InsertItem(ctx, row)
	if err != nil {
		e.log.Error("pipeline: item insert failed", "type", p.entity, "list_id", listID, "err", err)
		e.dirty.Mark(listID)
		return nil
	}

	p.container.Update(listID, it.WithID(serverID), list.TempID)
	e.broadcast.Changed(p.entity, "update", listID, serverID)
	e.persistAggregate(ctx, userID, rec)
	return nil
}

// RemoveItem tombstones an item. A checked item never contributed to the
// active aggregate, so removing one leaves the rollup untouched.
func (p *Pipeline[T]) RemoveItem(ctx context.Context, userID, listID, itemID string) error {
	e := p.engine

	if userID == "" {
		p.container.Remove(listID, itemID)
		e.broadcast.Changed(p.entity, "remove", listID, itemID)
		return nil
	}

	var target T
	found := false
	for _, existing := range p.container.Items(listID) {
		if existing.ItemID() == itemID {
			target = existing
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	rec, ok, err := e.cache.FindByUserIDAndID(userID, listID)
	if err != nil {
		e.log.Error("pipeline: cache lookup failed", "type", p.entity, "list_id", listID, "err", err)
	}

	p.container.Remove(listID, itemID)
	e.broadcast.Changed(p.entity, "remove", listID, itemID)

	if err := e.backend.TombstoneItem(ctx, itemID); err != nil {
		e.log.Error("pipeline: item tombstone failed", "type", p.entity, "item_id", itemID, "err", err)
		e.dirty.Mark(listID)
		return nil
	}

	if ok && !target.IsChecked() {
		rec.ItemNumber--
		rec.Total -= p.variant.Amount(target)
		e.persistAggregate(ctx, userID, rec)
	}
	return nil
}

// UpdateItem edits an item or, with toggle, flips its checked flag and
// shifts the aggregate accordingly. Dropped without error when another
// aggregate-affecting mutation is in flight.
func (p *Pipeline[T]) UpdateItem(ctx context.Context, userID, listID string, it T, toggle bool) error {
	if !p.inflight.TryLock() {
		return nil
	}
	defer p.inflight.Unlock()

	e := p.engine

	if userID == "" {
		p.container.Update(listID, it, "")
		e.broadcast.Changed(p.entity, "update", listID, it.ItemID())
		return nil
	}

	rec, ok, err := e.cache.FindByUserIDAndID(userID, listID)
	if err != nil {
		e.log.Error("pipeline: cache lookup failed", "type", p.entity, "list_id", listID, "err", err)
	}

	if toggle {
		if ok {
			if it.IsChecked() {
				rec.ItemNumber--
				rec.Total -= p.variant.Amount(it)
			} else {
				rec.ItemNumber++
				rec.Total += p.variant.Amount(it)
			}
		}

		p.container.Update(listID, it, "")
		e.broadcast.Changed(p.entity, "update", listID, it.ItemID())

		if err := e.backend.UpdateItemChecked(ctx, userID, it.ItemID(), it.IsChecked()); err != nil {
			e.log.Error("pipeline: checked update failed", "type", p.entity, "item_id", it.ItemID(), "err", err)
			e.dirty.Mark(listID)
			return nil
		}
		if ok {
			e.persistAggregate(ctx, userID, rec)
		}
		return nil
	}

	// Plain edit: an unchecked item's price or quantity change shifts the
	// total by the difference against the previous values.
	haveDelta := false
	if ok && !it.IsChecked() {
		for _, existing := range p.container.Items(listID) {
			if existing.ItemID() == it.ItemID() {
				rec.Total += p.variant.Amount(it) - p.variant.Amount(existing)
				haveDelta = true
				break
			}
		}
		if !haveDelta {
			return nil
		}
	}

	p.container.Update(listID, it, "")
	e.broadcast.Changed(p.entity, "update", listID, it.ItemID())

	if err := e.backend.UpdateItemRow(ctx, it.ItemID(), p.variant.ToRow(userID, rec.CleanName, it)); err != nil {
		e.log.Error("pipeline: item update failed", "type", p.entity, "item_id", it.ItemID(), "err", err)
		e.dirty.Mark(listID)
		return nil
	}
	if haveDelta {
		e.persistAggregate(ctx, userID, rec)
	}
	return nil
}

// SetAllChecked flips every item's checked flag. Checking everything
// zeroes the aggregate; unchecking everything adds the checked fold back.
func (p *Pipeline[T]) SetAllChecked(ctx context.Context, userID, listID string, checked bool) error {
	if !p.inflight.TryLock() {
		return nil
	}
	defer p.inflight.Unlock()

	e := p.engine

	if userID == "" {
		p.container.SetAllChecked(listID, checked)
		e.broadcast.Changed(p.entity, "check_all", listID, "")
		return nil
	}

	rec, ok, err := e.cache.FindByUserIDAndID(userID, listID)
	if err != nil {
		e.log.Error("pipeline: cache lookup failed", "type", p.entity, "list_id", listID, "err", err)
	}
	if !ok {
		p.container.SetAllChecked(listID, checked)
		e.broadcast.Changed(p.entity, "check_all", listID, "")
		e.dirty.Mark(listID)
		return nil
	}

	if checked {
		rec.ItemNumber = 0
		rec.Total = 0
	} else {
		fold := item.FoldChecked(p.container.Items(listID), p.variant.Amount)
		rec.ItemNumber += fold.ItemNumber
		rec.Total += fold.Total
	}

	p.container.SetAllChecked(listID, checked)
	e.broadcast.Changed(p.entity, "check_all", listID, "")

	if err := e.backend.SetCheckedByListName(ctx, userID, rec.CleanName, checked); err != nil {
		e.log.Error("pipeline: bulk checked update failed", "type", p.entity, "list_id", listID, "err", err)
		e.dirty.Mark(listID)
		return nil
	}
	e.persistAggregate(ctx, userID, rec)
	return nil
}

// RemoveByChecked tombstones every item matching the given checked state.
// Removing the unchecked items leaves only checked ones behind, so the
// active aggregate drops to zero; removing checked items changes nothing.
func (p *Pipeline[T]) RemoveByChecked(ctx context.Context, userID, listID string, checked bool) error {
	if !p.inflight.TryLock() {
		return nil
	}
	defer p.inflight.Unlock()

	e := p.engine

	if userID == "" {
		p.container.RemoveByCheckedState(listID, checked)
		e.broadcast.Changed(p.entity, "clear", listID, "")
		return nil
	}

	rec, ok, err := e.cache.FindByUserIDAndID(userID, listID)
	if err != nil {
		e.log.Error("pipeline: cache lookup failed", "type", p.entity, "list_id", listID, "err", err)
	}

	p.container.RemoveByCheckedState(listID, checked)
	e.broadcast.Changed(p.entity, "clear", listID, "")

	if !ok {
		e.dirty.Mark(listID)
		return nil
	}

	if err := e.backend.TombstoneItemsByChecked(ctx, userID, rec.CleanName, checked); err != nil {
		e.log.Error("pipeline: bulk tombstone failed", "type", p.entity, "list_id", listID, "err", err)
		e.dirty.Mark(listID)
		return nil
	}

	if !checked {
		rec.ItemNumber = 0
		rec.Total = 0
		e.persistAggregate(ctx, userID, rec)
	}
	return nil
}
