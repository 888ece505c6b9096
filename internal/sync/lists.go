package sync

import (
	"context"

	"list-app-go/internal/domain/item"
	"list-app-go/internal/domain/list"
	"list-app-go/internal/state"
)

// Load pulls the full remote view (lists and items fetched concurrently),
// seeds the list collection and all four containers, and rewrites the
// cache mirror. A successful load clears every dirty marker: local and
// remote are in agreement again.
func (e *Engine) Load(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	var (
		lists []list.List
		rows  []item.Row
	)
	err := join(
		func() error {
			var ferr error
			lists, ferr = e.backend.FetchLists(ctx)
			return ferr
		},
		func() error {
			var ferr error
			rows, ferr = e.backend.FetchItems(ctx)
			return ferr
		},
	)
	if err != nil {
		e.log.Error("sync: load failed", "err", err)
		return err
	}

	e.state.SetLists(lists)
	seedContainer(e.state.Grocery, item.GroceryVariant, rows, lists)
	seedContainer(e.state.Todo, item.TodoVariant, rows, lists)
	seedContainer(e.state.Bookmark, item.BookmarkVariant, rows, lists)
	seedContainer(e.state.Note, item.NoteVariant, rows, lists)

	if err := e.cache.Replace(lists); err != nil {
		e.log.Error("sync: cache replace failed", "err", err)
	}
	e.dirty.ClearAll()
	e.broadcast.Changed("session", "load", "", "")
	return nil
}

func seedContainer[T item.Item[T]](c *state.Container[T], v item.Variant[T], rows []item.Row, lists []list.List) {
	grouped := make(map[string][]T)
	for _, row := range rows {
		rec, ok := list.FindByUserIDAndCleanName(lists, row.UserID, row.ListName)
		if !ok || rec.Type != v.Type {
			continue
		}
		grouped[rec.ID] = append(grouped[rec.ID], v.FromRow(row))
	}
	c.SetAll(grouped)
}

// AddList creates a list. The optimistic entry carries the temp id; the
// write acknowledgement swaps the server id in and mirrors the record.
func (e *Engine) AddList(ctx context.Context, userID, name string, t list.Type, guestID string) error {
	if !t.Valid() {
		return list.ErrInvalidType
	}

	if userID == "" {
		id := guestID
		if id == "" {
			id = newLocalID()
		}
		e.state.AddList(list.List{ID: id, Name: name, Type: t})
		e.broadcast.Changed("list", "add", id, "")
		return nil
	}

	cached, err := e.cache.All()
	if err != nil {
		e.log.Error("sync: cache read failed", "err", err)
	}
	clean := list.CleanName(name)
	if list.Exists(cached, clean) {
		clean = list.NextCleanName(cached, clean)
	}

	record := list.List{
		Name:      name,
		Type:      t,
		CleanName: clean,
		UserID:    userID,
	}

	e.state.AddList(list.List{ID: list.TempID, Name: name, Type: t})
	e.broadcast.Changed("list", "add", list.TempID, "")

	serverID, err := e.backend.InsertList(ctx, record)
	if err != nil {
		e.log.Error("sync: list insert failed", "name", name, "err", err)
		e.dirty.Mark(list.TempID)
		return nil
	}

	record.ID = serverID
	e.state.UpdateList("", list.TempID, func(list.List) list.List {
		return record
	})
	if err := e.cache.Add(record); err != nil {
		e.log.Error("sync: cache add failed", "list_id", serverID, "err", err)
	}
	e.broadcast.Changed("list", "update", serverID, "")
	return nil
}

// DeleteList drops a list locally right away. The remote side depends on
// ownership: the owner tombstones the list row and its item rows in a
// paired write, a shared recipient records a revocation so the owner's
// data stays intact.
func (e *Engine) DeleteList(ctx context.Context, userID, listID, userEmail string) error {
	if userID == "" {
		if rec, ok := e.state.FindList(listID); ok {
			if sink, sok := e.state.Sink(rec.Type); sok {
				sink.DeleteKey(listID)
			}
		}
		e.state.DeleteList(listID)
		e.broadcast.Changed("list", "remove", listID, "")
		return nil
	}

	rec, ok, err := e.cache.FindByUserIDAndID(userID, listID)
	if err != nil {
		e.log.Error("sync: cache lookup failed", "list_id", listID, "err", err)
	}
	if !ok {
		e.state.DeleteList(listID)
		e.broadcast.Changed("list", "remove", listID, "")
		return nil
	}

	if sink, sok := e.state.Sink(rec.Type); sok {
		sink.DeleteKey(rec.ID)
	}
	e.state.DeleteList(rec.ID)
	e.broadcast.Changed("list", "remove", rec.ID, "")

	if rec.UserID != userID {
		if !rec.SharedWithContains(userEmail) {
			return nil
		}
		rev := list.Revocation{ID: rec.ID, CleanName: rec.CleanName, Revoked: userEmail}
		if err := e.backend.InsertRevocation(ctx, rev); err != nil {
			e.log.Error("sync: revocation insert failed", "list_id", rec.ID, "err", err)
			e.dirty.Mark(rec.ID)
		}
		return nil
	}

	err = join(
		func() error { return e.backend.TombstoneList(ctx, rec.CleanName) },
		func() error { return e.backend.TombstoneItemsByListName(ctx, rec.CleanName) },
	)
	if err != nil {
		e.log.Error("sync: list tombstone failed", "list_id", rec.ID, "err", err)
		e.dirty.Mark(rec.ID)
		return nil
	}

	rec.Deleted = true
	if err := e.cache.ReplaceItem(userID, rec.ID, rec); err != nil {
		e.log.Error("sync: cache replace failed", "list_id", rec.ID, "err", err)
	}
	return nil
}

// RenameList derives a fresh clean name and re-points the item rows at it
// in the same paired write that renames the list row. Item routing only
// works while both sides agree on the clean name, hence the pairing.
func (e *Engine) RenameList(ctx context.Context, userID, listID, newName string) error {
	if userID == "" {
		e.state.UpdateList(listID, "", func(l list.List) list.List {
			l.Name = newName
			return l
		})
		e.broadcast.Changed("list", "update", listID, "")
		return nil
	}

	rec, ok, err := e.cache.FindByUserIDAndID(userID, listID)
	if err != nil {
		e.log.Error("sync: cache lookup failed", "list_id", listID, "err", err)
	}
	if !ok || rec.Name == newName {
		return nil
	}

	cached, err := e.cache.All()
	if err != nil {
		e.log.Error("sync: cache read failed", "err", err)
	}
	prevClean := rec.CleanName
	clean := list.CleanName(newName)
	if list.Exists(cached, clean) {
		clean = list.NextCleanName(cached, clean)
	}

	rec.Name = newName
	rec.CleanName = clean

	e.state.UpdateList(listID, "", func(l list.List) list.List {
		l.Name = newName
		l.CleanName = clean
		return l
	})
	e.broadcast.Changed("list", "update", listID, "")

	err = join(
		func() error {
			return e.backend.UpdateList(ctx, listID, map[string]any{"name": newName, "clean_name": clean})
		},
		func() error { return e.backend.RepointItems(ctx, prevClean, clean) },
	)
	if err != nil {
		e.log.Error("sync: list rename failed", "list_id", listID, "err", err)
		e.dirty.Mark(listID)
		return nil
	}

	if err := e.cache.ReplaceItem(userID, listID, rec); err != nil {
		e.log.Error("sync: cache replace failed", "list_id", listID, "err", err)
	}
	return nil
}

// ShareList appends an email to the shared set on both the list row and
// its item rows. Re-sharing with the same email is a no-op.
func (e *Engine) ShareList(ctx context.Context, userID, listID, email string) error {
	if userID == "" {
		return nil
	}

	rec, ok, err := e.cache.FindByUserIDAndID(userID, listID)
	if err != nil {
		e.log.Error("sync: cache lookup failed", "list_id", listID, "err", err)
	}
	if !ok || rec.SharedWithContains(email) {
		return nil
	}

	rec.SharedWith = append(rec.SharedWith, email)

	err = join(
		func() error { return e.backend.UpdateListShared(ctx, rec.CleanName, rec.SharedWith) },
		func() error { return e.backend.UpdateItemsShared(ctx, rec.CleanName, rec.SharedWith) },
	)
	if err != nil {
		e.log.Error("sync: list share failed", "list_id", listID, "err", err)
		e.dirty.Mark(listID)
		return nil
	}

	e.state.UpdateList(listID, "", func(l list.List) list.List {
		l.SharedWith = rec.SharedWith
		return l
	})
	if err := e.cache.ReplaceItem(userID, listID, rec); err != nil {
		e.log.Error("sync: cache replace failed", "list_id", listID, "err", err)
	}
	e.broadcast.Changed("list", "update", listID, "")
	return nil
}

// DuplicateList copies a list and its items under a suffixed clean name,
// carrying the source aggregate as-is. The list row and the item batch are
// inserted concurrently; local state is only updated once both land, since
// the copies need their server ids.
func (e *Engine) DuplicateList(ctx context.Context, userID, srcListID, newName string, archived bool) error {
	if userID == "" {
		src, ok := e.state.FindList(srcListID)
		if !ok {
			return nil
		}
		sink, sok := e.state.Sink(src.Type)
		if !sok {
			return nil
		}

		newID := newLocalID()
		e.state.AddList(list.List{ID: newID, Name: newName, Type: src.Type, Archived: archived})

		ids := make([]string, sink.Count(srcListID))
		for i := range ids {
			ids[i] = newLocalID()
		}
		sink.CopyTo(srcListID, newID, ids)
		e.broadcast.Changed("list", "add", newID, "")
		return nil
	}

	rec, ok, err := e.cache.FindByUserIDAndID(userID, srcListID)
	if err != nil {
		e.log.Error("sync: cache lookup failed", "list_id", srcListID, "err", err)
	}
	if !ok {
		return nil
	}
	sink, sok := e.state.Sink(rec.Type)
	if !sok {
		return nil
	}

	cached, err := e.cache.All()
	if err != nil {
		e.log.Error("sync: cache read failed", "err", err)
	}
	clean := list.CleanName(rec.CleanName)
	if list.Exists(cached, clean) {
		clean = list.NextCleanName(cached, clean)
	}

	record := list.List{
		Name:       newName,
		Type:       rec.Type,
		CleanName:  clean,
		Total:      rec.Total,
		ItemNumber: rec.ItemNumber,
		UserID:     rec.UserID,
		Archived:   archived,
	}
	rows := sink.Rows(srcListID, rec.UserID, clean)

	var (
		newID string
		ids   []string
	)
	err = join(
		func() error {
			var ferr error
			newID, ferr = e.backend.InsertList(ctx, record)
			return ferr
		},
		func() error {
			var ferr error
			ids, ferr = e.backend.InsertItems(ctx, rows)
			return ferr
		},
	)
	if err != nil {
		e.log.Error("sync: list duplicate failed", "list_id", srcListID, "err", err)
		return nil
	}

	record.ID = newID
	e.state.AddList(record)
	sink.CopyTo(srcListID, newID, ids)
	if err := e.cache.Add(record); err != nil {
		e.log.Error("sync: cache add failed", "list_id", newID, "err", err)
	}
	e.broadcast.Changed("list", "add", newID, "")
	return nil
}

// SetListArchived flips the archive flag, optimistically as everywhere.
func (e *Engine) SetListArchived(ctx context.Context, userID, listID string, archived bool) error {
	e.state.UpdateList(listID, "", func(l list.List) list.List {
		l.Archived = archived
		return l
	})
	e.broadcast.Changed("list", "update", listID, "")

	if userID == "" {
		return nil
	}

	if err := e.backend.UpdateList(ctx, listID, map[string]any{"archived": archived}); err != nil {
		e.log.Error("sync: archive update failed", "list_id", listID, "err", err)
		e.dirty.Mark(listID)
	}
	return nil
}
