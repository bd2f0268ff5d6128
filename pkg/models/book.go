package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ReadStatusRead       = "read"
	ReadStatusInProgress = "in-progress"
	ReadStatusToRead     = "to-read"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `bun:",nullzero" json:"title"`
	Author      *string   `json:"author"`
	ISBN        *string   `bun:"isbn" json:"isbn"`
	Description *string   `json:"description"`
	CategoryID  *int      `json:"category_id"`
	ReadStatus  string    `bun:",nullzero" json:"read_status"`
}

// BookWithCategory is the read model for book queries: a book row joined with
// its category name for display. It is only ever populated by query mapping
// and is never written back.
type BookWithCategory struct {
	Book `bun:",extend"`

	CategoryName *string `bun:"category_name,scanonly" json:"category_name"`
}
