package sync

import (
	"context"

	"list-app-go/internal/domain/item"
	"list-app-go/internal/domain/list"
)

// Backend is the remote relational store, consumed as a black box. Reads
// exclude tombstoned rows; deletes only ever set the tombstone flag.
type Backend interface {
	FetchLists(ctx context.Context) ([]list.List, error)
	FetchItems(ctx context.Context) ([]item.Row, error)

	InsertList(ctx context.Context, l list.List) (string, error)
	UpdateList(ctx context.Context, id string, updates map[string]any) error
	UpdateListAggregate(ctx context.Context, id string, itemNumber int, total float64) error
	TombstoneList(ctx context.Context, cleanName string) error
	InsertRevocation(ctx context.Context, rev list.Revocation) error

	InsertItem(ctx context.Context, row item.Row) (string, error)
	InsertItems(ctx context.Context, rows []item.Row) ([]string, error)
	UpdateItemRow(ctx context.Context, id string, row item.Row) error
	UpdateItemChecked(ctx context.Context, userID, id string, checked bool) error
	SetCheckedByListName(ctx context.Context, userID, listName string, checked bool) error
	TombstoneItem(ctx context.Context, id string) error
	TombstoneItemsByListName(ctx context.Context, listName string) error
	TombstoneItemsByChecked(ctx context.Context, userID, listName string, checked bool) error
	RepointItems(ctx context.Context, oldListName, newListName string) error
	UpdateListShared(ctx context.Context, cleanName string, sharedWith []string) error
	UpdateItemsShared(ctx context.Context, listName string, sharedWith []string) error
}

// Broadcaster is notified after every applied local state change so
// connected UI clients can re-render. Entity is "list" or an item type,
// action names the container operation.
type Broadcaster interface {
	Changed(entity, action, listID, itemID string)
}

type noopBroadcaster struct{}

func (noopBroadcaster) Changed(string, string, string, string) {}
