package item

import "list-app-go/internal/domain/list"

// Variant is the dispatch entry for one list type: how its item shape maps
// to and from the shared items row, and how much an item contributes to the
// monetary total. Pipelines and containers are parameterized by it instead
// of branching on type strings.
type Variant[T Item[T]] struct {
	Type    list.Type
	FromRow func(Row) T
	ToRow   func(userID, listName string, it T) Row
	Amount  func(T) float64
}

var GroceryVariant = Variant[Grocery]{
	Type: list.TypeGrocery,
	FromRow: func(r Row) Grocery {
		return Grocery{
			ID:       r.ID,
			Name:     r.Name,
			Price:    r.Price,
			Quantity: r.Quantity,
			Shop:     r.StoreName,
			IsCheck:  r.Checked,
		}
	},
	ToRow: func(userID, listName string, it Grocery) Row {
		return Row{
			ID:        it.ID,
			UserID:    userID,
			Name:      it.Name,
			ListName:  listName,
			Checked:   it.IsCheck,
			Price:     it.Price,
			Quantity:  it.Quantity,
			StoreName: it.Shop,
		}
	},
	Amount: func(it Grocery) float64 {
		return Price(it.Price) * Quantity(it.Quantity)
	},
}

var TodoVariant = Variant[Todo]{
	Type: list.TypeTodo,
	FromRow: func(r Row) Todo {
		return Todo{
			ID:       r.ID,
			Name:     r.Name,
			Priority: r.Priority,
			IsCheck:  r.Checked,
		}
	},
	ToRow: func(userID, listName string, it Todo) Row {
		return Row{
			ID:       it.ID,
			UserID:   userID,
			Name:     it.Name,
			ListName: listName,
			Checked:  it.IsCheck,
			Priority: it.Priority,
		}
	},
	Amount: func(Todo) float64 { return 0 },
}

var BookmarkVariant = Variant[Bookmark]{
	Type: list.TypeBookmark,
	FromRow: func(r Row) Bookmark {
		return Bookmark{
			ID:      r.ID,
			Name:    r.Name,
			Path:    r.Link,
			IsCheck: r.Checked,
		}
	},
	ToRow: func(userID, listName string, it Bookmark) Row {
		return Row{
			ID:       it.ID,
			UserID:   userID,
			Name:     it.Name,
			ListName: listName,
			Checked:  it.IsCheck,
			Link:     it.Path,
		}
	},
	Amount: func(Bookmark) float64 { return 0 },
}

var NoteVariant = Variant[Note]{
	Type: list.TypeNote,
	FromRow: func(r Row) Note {
		return Note{
			ID:      r.ID,
			Name:    r.Name,
			Note:    r.Notes,
			IsCheck: r.Checked,
		}
	},
	ToRow: func(userID, listName string, it Note) Row {
		return Row{
			ID:       it.ID,
			UserID:   userID,
			Name:     it.Name,
			ListName: listName,
			Checked:  it.IsCheck,
			Notes:    it.Note,
		}
	},
	Amount: func(Note) float64 { return 0 },
}
