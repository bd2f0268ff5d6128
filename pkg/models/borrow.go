package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Borrow struct {
	bun.BaseModel `bun:"table:borrows,alias:br"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	BookID     int       `bun:",nullzero" json:"book_id"`
	UserID     int       `bun:",nullzero" json:"user_id"`
	BorrowDate string    `bun:",nullzero" json:"borrow_date"`
	DueDate    string    `bun:",nullzero" json:"due_date"`
	ReturnDate *string   `json:"return_date"`
}

// Open reports whether this is an open loan, i.e. the book is still out.
func (b *Borrow) Open() bool {
	return b.ReturnDate == nil
}

// BorrowDetail is the read model for borrow queries: a borrow row joined with
// the book title and username for display. It is only ever populated by query
// mapping and is never written back.
type BorrowDetail struct {
	Borrow `bun:",extend"`

	BookTitle *string `bun:"book_title,scanonly" json:"book_title"`
	UserName  *string `bun:"user_name,scanonly" json:"user_name"`
}
