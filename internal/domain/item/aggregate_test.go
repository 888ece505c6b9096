package item

import "testing"

func TestPriceCoercion(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"  ", 0},
		{"abc", 0},
		{"2.50", 2.5},
		{"10", 10},
	}
	for _, tc := range cases {
		if got := Price(tc.in); got != tc.want {
			t.Fatalf("Price(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestQuantityCoercion(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 1},
		{"x", 1},
		{"3", 3},
		{"0.5", 0.5},
	}
	for _, tc := range cases {
		if got := Quantity(tc.in); got != tc.want {
			t.Fatalf("Quantity(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGroceryAmount(t *testing.T) {
	it := Grocery{Price: "2.50", Quantity: "4"}
	if got := GroceryVariant.Amount(it); got != 10 {
		t.Fatalf("expected amount 10, got %v", got)
	}

	// Missing quantity still contributes the price once.
	it = Grocery{Price: "3"}
	if got := GroceryVariant.Amount(it); got != 3 {
		t.Fatalf("expected amount 3, got %v", got)
	}

	// Malformed price contributes nothing.
	it = Grocery{Price: "free", Quantity: "2"}
	if got := GroceryVariant.Amount(it); got != 0 {
		t.Fatalf("expected amount 0, got %v", got)
	}
}

func TestNonGroceryAmountsAreZero(t *testing.T) {
	if got := TodoVariant.Amount(Todo{Name: "call"}); got != 0 {
		t.Fatalf("todo amount = %v, want 0", got)
	}
	if got := BookmarkVariant.Amount(Bookmark{Name: "docs"}); got != 0 {
		t.Fatalf("bookmark amount = %v, want 0", got)
	}
	if got := NoteVariant.Amount(Note{Name: "idea"}); got != 0 {
		t.Fatalf("note amount = %v, want 0", got)
	}
}

func TestFoldCheckedAndActive(t *testing.T) {
	items := []Grocery{
		{ID: "1", Price: "2", Quantity: "3", IsCheck: true},
		{ID: "2", Price: "5", IsCheck: false},
		{ID: "3", Price: "1", Quantity: "4", IsCheck: true},
	}

	checked := FoldChecked(items, GroceryVariant.Amount)
	if checked.ItemNumber != 2 || checked.Total != 10 {
		t.Fatalf("unexpected checked fold: %+v", checked)
	}

	active := FoldActive(items, GroceryVariant.Amount)
	if active.ItemNumber != 1 || active.Total != 5 {
		t.Fatalf("unexpected active fold: %+v", active)
	}
}

func TestFoldEmpty(t *testing.T) {
	agg := FoldChecked(nil, GroceryVariant.Amount)
	if agg.ItemNumber != 0 || agg.Total != 0 {
		t.Fatalf("expected zero aggregate, got %+v", agg)
	}
}

func TestVariantRowMapping(t *testing.T) {
	row := GroceryVariant.ToRow("user-1", "Shopping", Grocery{
		ID:       "g-1",
		Name:     "Milk",
		Price:    "2.50",
		Quantity: "2",
		Shop:     "Corner Store",
		IsCheck:  true,
	})
	if row.ListName != "Shopping" || row.StoreName != "Corner Store" || !row.Checked {
		t.Fatalf("unexpected grocery row: %+v", row)
	}

	back := GroceryVariant.FromRow(row)
	if back.Shop != "Corner Store" || back.Price != "2.50" || !back.IsCheck {
		t.Fatalf("unexpected grocery item: %+v", back)
	}

	bookmark := BookmarkVariant.FromRow(Row{ID: "b-1", Name: "docs", Link: "https://example.com"})
	if bookmark.Path != "https://example.com" {
		t.Fatalf("expected link mapped to path, got %+v", bookmark)
	}

	note := NoteVariant.ToRow("user-1", "Ideas", Note{ID: "n-1", Name: "later", Note: "try this"})
	if note.Notes != "try this" {
		t.Fatalf("expected note mapped to notes column, got %+v", note)
	}
}

func TestWithHelpersReturnCopies(t *testing.T) {
	orig := Todo{ID: "t-1", Name: "call", IsCheck: false}
	flipped := orig.WithChecked(true)
	if orig.IsCheck {
		t.Fatalf("original mutated by WithChecked")
	}
	if !flipped.IsCheck {
		t.Fatalf("expected flipped copy to be checked")
	}

	renumbered := orig.WithID("t-2")
	if orig.ID != "t-1" || renumbered.ID != "t-2" {
		t.Fatalf("unexpected ids: orig=%s copy=%s", orig.ID, renumbered.ID)
	}
}
