package item

import (
	"time"

	"github.com/lib/pq"
)

// Row is a row of the remote items table. All four item variants share it;
// variant-specific columns are simply empty for the other types. list_name
// holds the owning list's clean_name and is the only join key used when
// routing realtime events.
type Row struct {
	ID         string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     string         `gorm:"column:user_id;index" json:"user_id"`
	Name       string         `gorm:"not null" json:"name"`
	ListName   string         `gorm:"not null;column:list_name;index" json:"list_name"`
	Checked    bool           `gorm:"not null;default:false" json:"checked"`
	Deleted    bool           `gorm:"not null;default:false" json:"deleted"`
	Edited     bool           `gorm:"not null;default:false" json:"edited"`
	Price      string         `json:"price"`
	Quantity   string         `json:"quantity"`
	StoreName  string         `gorm:"column:store_name" json:"store_name"`
	Link       string         `json:"link"`
	Notes      string         `json:"notes"`
	Priority   string         `json:"priority"`
	SharedWith pq.StringArray `gorm:"type:text[];column:shared_with" json:"shared_with"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Row) TableName() string {
	return "items"
}

// Item is the constraint shared by the four typed item shapes. The type
// parameter makes WithID/WithChecked return the concrete shape, so generic
// containers and pipelines can produce modified copies without reflection.
type Item[T any] interface {
	ItemID() string
	IsChecked() bool
	WithID(id string) T
	WithChecked(checked bool) T
}

type Grocery struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	Shop     string `json:"shop"`
	IsCheck  bool   `json:"is_check"`
}

func (g Grocery) ItemID() string    { return g.ID }
func (g Grocery) IsChecked() bool   { return g.IsCheck }
func (g Grocery) WithID(id string) Grocery {
	g.ID = id
	return g
}
func (g Grocery) WithChecked(checked bool) Grocery {
	g.IsCheck = checked
	return g
}

type Todo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Priority string `json:"priority"`
	IsCheck  bool   `json:"is_check"`
}

func (t Todo) ItemID() string  { return t.ID }
func (t Todo) IsChecked() bool { return t.IsCheck }
func (t Todo) WithID(id string) Todo {
	t.ID = id
	return t
}
func (t Todo) WithChecked(checked bool) Todo {
	t.IsCheck = checked
	return t
}

type Bookmark struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	IsCheck bool   `json:"is_check"`
}

func (b Bookmark) ItemID() string  { return b.ID }
func (b Bookmark) IsChecked() bool { return b.IsCheck }
func (b Bookmark) WithID(id string) Bookmark {
	b.ID = id
	return b
}
func (b Bookmark) WithChecked(checked bool) Bookmark {
	b.IsCheck = checked
	return b
}

type Note struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Note    string `json:"note"`
	IsCheck bool   `json:"is_check"`
}

func (n Note) ItemID() string  { return n.ID }
func (n Note) IsChecked() bool { return n.IsCheck }
func (n Note) WithID(id string) Note {
	n.ID = id
	return n
}
func (n Note) WithChecked(checked bool) Note {
	n.IsCheck = checked
	return n
}
