package list

import (
	"time"

	"github.com/lib/pq"
)

// Type discriminates the four list variants. Item payload shape and
// aggregate rules are keyed by it.
type Type string

const (
	TypeGrocery  Type = "grocery"
	TypeTodo     Type = "todo"
	TypeBookmark Type = "bookmark"
	TypeNote     Type = "note"
)

func (t Type) Valid() bool {
	switch t {
	case TypeGrocery, TypeTodo, TypeBookmark, TypeNote:
		return true
	}
	return false
}

// TempID is the placeholder id assigned to optimistically created records
// until the server id is known.
const TempID = "-1000"

// List is a row of the remote lists table and doubles as the in-memory
// list entry. CleanName is the routing key between remote item rows and
// local state; item rows reference their owning list through it, not
// through a foreign key.
type List struct {
	ID         string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Type       Type           `gorm:"not null;column:list_type" json:"list_type"`
	CleanName  string         `gorm:"not null;column:clean_name" json:"clean_name"`
	Total      float64        `gorm:"not null;default:0" json:"total"`
	ItemNumber int            `gorm:"not null;default:0;column:item_number" json:"item_number"`
	UserID     string         `gorm:"column:user_id;index" json:"user_id"`
	Deleted    bool           `gorm:"not null;default:false" json:"deleted"`
	Edited     bool           `gorm:"not null;default:false" json:"edited"`
	Archived   bool           `gorm:"not null;default:false" json:"archived"`
	SharedWith pq.StringArray `gorm:"type:text[];column:shared_with" json:"shared_with"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (List) TableName() string {
	return "lists"
}

// Revocation records a shared recipient removing a list from their own view.
// The owner's row is untouched; the recipient's email lands here instead.
type Revocation struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CleanName string    `gorm:"not null;column:clean_name" json:"clean_name"`
	Revoked   string    `gorm:"not null" json:"revoked"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Revocation) TableName() string {
	return "revoked_lists"
}

func (l List) SharedWithContains(email string) bool {
	for _, e := range l.SharedWith {
		if e == email {
			return true
		}
	}
	return false
}
