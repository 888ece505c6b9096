package postgres

import (
	"context"
	"fmt"

	"list-app-go/internal/domain/item"
	"list-app-go/internal/domain/list"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Repository implements the engine's remote backend on Postgres. Reads
// filter tombstoned rows; deletes flip the tombstone flag and leave the
// row behind for the change feed.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchLists(ctx context.Context) ([]list.List, error) {
	var lists []list.List
	err := r.db.WithContext(ctx).
		Where("deleted <> ?", true).
		Order("created_at asc").
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("fetch lists: %w", err)
	}
	return lists, nil
}

func (r *Repository) FetchItems(ctx context.Context) ([]item.Row, error) {
	var rows []item.Row
	err := r.db.WithContext(ctx).
		Where("deleted <> ?", true).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	return rows, nil
}

func (r *Repository) InsertList(ctx context.Context, l list.List) (string, error) {
	l.ID = ""
	if err := r.db.WithContext(ctx).Create(&l).Error; err != nil {
		return "", fmt.Errorf("insert list: %w", err)
	}
	return l.ID, nil
}

func (r *Repository) UpdateList(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&list.List{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *Repository) UpdateListAggregate(ctx context.Context, id string, itemNumber int, total float64) error {
	return r.db.WithContext(ctx).
		Model(&list.List{}).
		Where("id = ?", id).
		Updates(map[string]any{"item_number": itemNumber, "total": total}).Error
}

func (r *Repository) TombstoneList(ctx context.Context, cleanName string) error {
	return r.db.WithContext(ctx).
		Model(&list.List{}).
		Where("clean_name = ?", cleanName).
		Update("deleted", true).Error
}

func (r *Repository) InsertRevocation(ctx context.Context, rev list.Revocation) error {
	return r.db.WithContext(ctx).Create(&rev).Error
}

func (r *Repository) InsertItem(ctx context.Context, row item.Row) (string, error) {
	row.ID = ""
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("insert item: %w", err)
	}
	return row.ID, nil
}

func (r *Repository) InsertItems(ctx context.Context, rows []item.Row) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	for i := range rows {
		rows[i].ID = ""
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("insert items: %w", err)
	}
	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	return ids, nil
}

func (r *Repository) UpdateItemRow(ctx context.Context, id string, row item.Row) error {
	return r.db.WithContext(ctx).
		Model(&item.Row{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":       row.Name,
			"checked":    row.Checked,
			"price":      row.Price,
			"quantity":   row.Quantity,
			"store_name": row.StoreName,
			"link":       row.Link,
			"notes":      row.Notes,
			"priority":   row.Priority,
			"edited":     true,
		}).Error
}

func (r *Repository) UpdateItemChecked(ctx context.Context, userID, id string, checked bool) error {
	return r.db.WithContext(ctx).
		Model(&item.Row{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("checked", checked).Error
}

func (r *Repository) SetCheckedByListName(ctx context.Context, userID, listName string, checked bool) error {
	return r.db.WithContext(ctx).
		Model(&item.Row{}).
		Where("user_id = ? AND list_name = ?", userID, listName).
		Update("checked", checked).Error
}

func (r *Repository) TombstoneItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&item.Row{}).
		Where("id = ?", id).
		Update("deleted", true).Error
}

func (r *Repository) TombstoneItemsByListName(ctx context.Context, listName string) error {
	return r.db.WithContext(ctx).
		Model(&item.Row{}).
		Where("list_name = ?", listName).
		Update("deleted", true).Error
}

func (r *Repository) TombstoneItemsByChecked(ctx context.Context, userID, listName string, checked bool) error {
	return r.db.WithContext(ctx).
		Model(&item.Row{}).
		Where("user_id = ? AND list_name = ? AND checked = ?", userID, listName, checked).
		Update("deleted", true).Error
}

func (r *Repository) RepointItems(ctx context.Context, oldListName, newListName string) error {
	return r.db.WithContext(ctx).
		Model(&item.Row{}).
		Where("list_name = ?", oldListName).
		Update("list_name", newListName).Error
}

func (r *Repository) UpdateListShared(ctx context.Context, cleanName string, sharedWith []string) error {
	return r.db.WithContext(ctx).
		Model(&list.List{}).
		Where("clean_name = ?", cleanName).
		Update("shared_with", pq.StringArray(sharedWith)).Error
}

func (r *Repository) UpdateItemsShared(ctx context.Context, listName string, sharedWith []string) error {
	return r.db.WithContext(ctx).
		Model(&item.Row{}).
		Where("list_name = ?", listName).
		Update("shared_with", pq.StringArray(sharedWith)).Error
}
