package state

import (
	"testing"

	"list-app-go/internal/domain/item"
	"list-app-go/internal/domain/list"
)

func TestContainerAddIsIdempotent(t *testing.T) {
	c := NewContainer[item.Todo]()

	if !c.Add("list-1", item.Todo{ID: "t-1", Name: "call"}) {
		t.Fatalf("expected first add to succeed")
	}
	if c.Add("list-1", item.Todo{ID: "t-1", Name: "call again"}) {
		t.Fatalf("expected duplicate add to be a no-op")
	}

	items := c.Items("list-1")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Name != "call" {
		t.Fatalf("duplicate add overwrote the original: %+v", items[0])
	}
}

func TestContainerUpdateSwapsTempID(t *testing.T) {
	c := NewContainer[item.Grocery]()
	c.Add("list-1", item.Grocery{ID: list.TempID, Name: "milk"})

	updated := c.Update("list-1", item.Grocery{ID: "srv-1", Name: "milk"}, list.TempID)
	if !updated {
		t.Fatalf("expected temp id swap to match")
	}

	items := c.Items("list-1")
	if len(items) != 1 || items[0].ID != "srv-1" {
		t.Fatalf("expected server id swapped in, got %+v", items)
	}
}

func TestContainerUpdateMissingItem(t *testing.T) {
	c := NewContainer[item.Grocery]()
	c.Add("list-1", item.Grocery{ID: "g-1"})

	if c.Update("list-1", item.Grocery{ID: "g-2"}, "") {
		t.Fatalf("expected update of unknown id to report false")
	}
	if c.Update("list-2", item.Grocery{ID: "g-1"}, "") {
		t.Fatalf("expected update under unknown list to report false")
	}
}

func TestContainerRemoveDeletesEmptyKey(t *testing.T) {
	c := NewContainer[item.Note]()
	c.Add("list-1", item.Note{ID: "n-1"})

	if !c.Remove("list-1", "n-1") {
		t.Fatalf("expected removal to succeed")
	}
	if _, ok := c.All()["list-1"]; ok {
		t.Fatalf("expected emptied key to be dropped")
	}
	if c.Remove("list-1", "n-1") {
		t.Fatalf("expected second removal to be a no-op")
	}
}

func TestContainerItemsSnapshotIsolation(t *testing.T) {
	c := NewContainer[item.Todo]()
	c.Add("list-1", item.Todo{ID: "t-1", Name: "before"})

	snapshot := c.Items("list-1")
	c.Update("list-1", item.Todo{ID: "t-1", Name: "after"}, "")

	if snapshot[0].Name != "before" {
		t.Fatalf("snapshot changed under the caller: %+v", snapshot[0])
	}
	if c.Items("list-1")[0].Name != "after" {
		t.Fatalf("container did not apply the update")
	}
}

func TestContainerSetAllChecked(t *testing.T) {
	c := NewContainer[item.Grocery]()
	c.AddMany("list-1", []item.Grocery{
		{ID: "g-1", IsCheck: false},
		{ID: "g-2", IsCheck: true},
	})

	c.SetAllChecked("list-1", true)
	for _, it := range c.Items("list-1") {
		if !it.IsCheck {
			t.Fatalf("expected all items checked, got %+v", it)
		}
	}

	c.SetAllChecked("list-1", false)
	for _, it := range c.Items("list-1") {
		if it.IsCheck {
			t.Fatalf("expected all items unchecked, got %+v", it)
		}
	}
}

func TestContainerRemoveByCheckedState(t *testing.T) {
	c := NewContainer[item.Grocery]()
	c.AddMany("list-1", []item.Grocery{
		{ID: "g-1", IsCheck: true},
		{ID: "g-2", IsCheck: false},
		{ID: "g-3", IsCheck: true},
	})

	c.RemoveByCheckedState("list-1", true)
	items := c.Items("list-1")
	if len(items) != 1 || items[0].ID != "g-2" {
		t.Fatalf("expected only the unchecked item to survive, got %+v", items)
	}

	c.RemoveByCheckedState("list-1", false)
	if _, ok := c.All()["list-1"]; ok {
		t.Fatalf("expected key dropped after clearing remaining items")
	}
}

func TestSinkInsertAndUpdateThroughRows(t *testing.T) {
	st := New()
	sink, ok := st.Sink(list.TypeGrocery)
	if !ok {
		t.Fatalf("expected grocery sink")
	}

	inserted := sink.Insert("list-1", item.Row{ID: "g-1", Name: "milk", Price: "2"})
	if !inserted {
		t.Fatalf("expected insert to apply")
	}
	if sink.Insert("list-1", item.Row{ID: "g-1", Name: "milk"}) {
		t.Fatalf("expected duplicate insert to be a no-op")
	}

	if !sink.Update("list-1", item.Row{ID: "g-1", Name: "oat milk", Price: "3"}) {
		t.Fatalf("expected update to apply")
	}
	items := st.Grocery.Items("list-1")
	if len(items) != 1 || items[0].Name != "oat milk" {
		t.Fatalf("unexpected items after update: %+v", items)
	}
}

func TestSinkRowsBlanksIDs(t *testing.T) {
	st := New()
	st.Todo.AddMany("list-1", []item.Todo{
		{ID: "t-1", Name: "one"},
		{ID: "t-2", Name: "two", IsCheck: true},
	})

	sink, _ := st.Sink(list.TypeTodo)
	rows := sink.Rows("list-1", "user-1", "Copy")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.ID != "" {
			t.Fatalf("expected blank row id, got %q", row.ID)
		}
		if row.ListName != "Copy" || row.UserID != "user-1" {
			t.Fatalf("unexpected row routing fields: %+v", row)
		}
	}
	if !rows[1].Checked {
		t.Fatalf("expected checked state carried into the row")
	}
}

func TestSinkCopyTo(t *testing.T) {
	st := New()
	st.Bookmark.AddMany("src", []item.Bookmark{
		{ID: "b-1", Name: "docs", Path: "https://example.com"},
		{ID: "b-2", Name: "blog", Path: "https://example.org"},
	})

	sink, _ := st.Sink(list.TypeBookmark)
	sink.CopyTo("src", "dst", []string{"n-1", "n-2"})

	copied := st.Bookmark.Items("dst")
	if len(copied) != 2 {
		t.Fatalf("expected 2 copied items, got %d", len(copied))
	}
	if copied[0].ID != "n-1" || copied[1].ID != "n-2" {
		t.Fatalf("expected fresh ids assigned, got %+v", copied)
	}
	if copied[0].Path != "https://example.com" {
		t.Fatalf("expected payload carried over, got %+v", copied[0])
	}

	src := st.Bookmark.Items("src")
	if len(src) != 2 || src[0].ID != "b-1" {
		t.Fatalf("source collection changed: %+v", src)
	}
}

func TestStateListOperations(t *testing.T) {
	st := New()

	if !st.AddList(list.List{ID: "l-1", Name: "Groceries", Type: list.TypeGrocery}) {
		t.Fatalf("expected add to succeed")
	}
	if st.AddList(list.List{ID: "l-1", Name: "again"}) {
		t.Fatalf("expected duplicate add to be a no-op")
	}

	if !st.UpdateList("l-1", "", func(l list.List) list.List {
		l.Name = "Food"
		return l
	}) {
		t.Fatalf("expected update to match")
	}
	rec, ok := st.FindList("l-1")
	if !ok || rec.Name != "Food" {
		t.Fatalf("unexpected record: %+v ok=%v", rec, ok)
	}

	if !st.DeleteList("l-1") {
		t.Fatalf("expected delete to succeed")
	}
	if st.DeleteList("l-1") {
		t.Fatalf("expected second delete to be a no-op")
	}
}

func TestStateUpdateListByTempID(t *testing.T) {
	st := New()
	st.AddList(list.List{ID: list.TempID, Name: "Pending"})

	if !st.UpdateList("", list.TempID, func(l list.List) list.List {
		l.ID = "srv-9"
		return l
	}) {
		t.Fatalf("expected temp id match")
	}

	if _, ok := st.FindList(list.TempID); ok {
		t.Fatalf("expected placeholder gone")
	}
	if _, ok := st.FindList("srv-9"); !ok {
		t.Fatalf("expected server id present")
	}
}

func TestStateReset(t *testing.T) {
	st := New()
	st.AddList(list.List{ID: "l-1"})
	st.Grocery.Add("l-1", item.Grocery{ID: "g-1"})

	st.Reset()

	if len(st.Lists()) != 0 {
		t.Fatalf("expected lists cleared")
	}
	if len(st.Grocery.All()) != 0 {
		t.Fatalf("expected containers cleared")
	}
}
