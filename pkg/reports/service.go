package reports

import (
	"context"

	"github.com/devbookapp/devbook/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// BookBorrowerRow is one borrower of a given book, with how often and how
// recently they borrowed it.
type BookBorrowerRow struct {
	UserID         int    `bun:"user_id" json:"user_id"`
	Username       string `bun:"username" json:"username"`
	BorrowCount    int    `bun:"borrow_count" json:"borrow_count"`
	LastBorrowDate string `bun:"last_borrow_date" json:"last_borrow_date"`
}

// OverdueBookRow is an open loan whose due date has passed.
type OverdueBookRow struct {
	BorrowID   int    `bun:"borrow_id" json:"borrow_id"`
	BookID     int    `bun:"book_id" json:"book_id"`
	Title      string `bun:"title" json:"title"`
	UserID     int    `bun:"user_id" json:"user_id"`
	Username   string `bun:"username" json:"username"`
	BorrowDate string `bun:"borrow_date" json:"borrow_date"`
	DueDate    string `bun:"due_date" json:"due_date"`
}

type CategoryCountRow struct {
	CategoryID int    `bun:"category_id" json:"category_id"`
	Name       string `bun:"name" json:"name"`
	BookCount  int    `bun:"book_count" json:"book_count"`
}

type CategoryBorrowsRow struct {
	CategoryID   int    `bun:"category_id" json:"category_id"`
	Name         string `bun:"name" json:"name"`
	TotalBorrows int    `bun:"total_borrows" json:"total_borrows"`
}

type TopBorrowedBookRow struct {
	BookID      int    `bun:"book_id" json:"book_id"`
	Title       string `bun:"title" json:"title"`
	BorrowCount int    `bun:"borrow_count" json:"borrow_count"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// BookBorrowers returns everyone who ever borrowed the book, most recent
// borrower first.
func (svc *Service) BookBorrowers(ctx context.Context, bookID int) ([]*BookBorrowerRow, error) {
	rows := []*BookBorrowerRow{}

	err := svc.db.NewRaw(`
		SELECT u.id AS user_id, u.username, COUNT(br.id) AS borrow_count, MAX(br.borrow_date) AS last_borrow_date
		FROM borrows br
		JOIN users u ON br.user_id = u.id
		WHERE br.book_id = ?
		GROUP BY u.id, u.username
		ORDER BY last_borrow_date DESC
	`, bookID).Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return rows, nil
}

// OverdueBooks returns open loans whose due date is before the current date,
// soonest-overdue first.
func (svc *Service) OverdueBooks(ctx context.Context) ([]*OverdueBookRow, error) {
	rows := []*OverdueBookRow{}

	err := svc.db.NewRaw(`
		SELECT br.id AS borrow_id, b.id AS book_id, b.title, u.id AS user_id, u.username, br.borrow_date, br.due_date
		FROM borrows br
		JOIN books b ON br.book_id = b.id
		JOIN users u ON br.user_id = u.id
		WHERE br.return_date IS NULL AND br.due_date < date('now', 'localtime')
		ORDER BY br.due_date ASC
	`).Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return rows, nil
}

// CategoryCounts returns per-category book counts, including categories with
// no books.
func (svc *Service) CategoryCounts(ctx context.Context) ([]*CategoryCountRow, error) {
	rows := []*CategoryCountRow{}

	err := svc.db.NewRaw(`
		SELECT c.id AS category_id, c.name, COUNT(b.id) AS book_count
		FROM categories c
		LEFT JOIN books b ON c.id = b.category_id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`).Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return rows, nil
}

// MostBorrowedCategories ranks categories by total historical borrow count.
// The inner joins exclude books without a category and categories that were
// never borrowed from; ties break alphabetically.
func (svc *Service) MostBorrowedCategories(ctx context.Context) ([]*CategoryBorrowsRow, error) {
	rows := []*CategoryBorrowsRow{}

	err := svc.db.NewRaw(`
		SELECT c.id AS category_id, c.name, COUNT(br.id) AS total_borrows
		FROM categories c
		JOIN books b ON c.id = b.category_id
		JOIN borrows br ON b.id = br.book_id
		GROUP BY c.id, c.name
		ORDER BY total_borrows DESC, c.name ASC
	`).Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return rows, nil
}

// BorrowsByDate returns hydrated borrows whose borrow date is exactly the
// given day.
func (svc *Service) BorrowsByDate(ctx context.Context, date string) ([]*models.BorrowDetail, error) {
	borrows := []*models.BorrowDetail{}

	err := svc.db.
		NewSelect().
		Model(&borrows).
		ColumnExpr("br.*").
		ColumnExpr("b.title AS book_title").
		ColumnExpr("u.username AS user_name").
		Join("LEFT JOIN books b ON b.id = br.book_id").
		Join("LEFT JOIN users u ON u.id = br.user_id").
		Where("date(br.borrow_date) = ?", date).
		Order("br.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return borrows, nil
}

// TopBorrowedBooks returns the ten most-borrowed books within the given
// month (YYYY-MM), ties broken alphabetically.
func (svc *Service) TopBorrowedBooks(ctx context.Context, month string) ([]*TopBorrowedBookRow, error) {
	rows := []*TopBorrowedBookRow{}

	err := svc.db.NewRaw(`
		SELECT b.id AS book_id, b.title, COUNT(br.id) AS borrow_count
		FROM books b
		JOIN borrows br ON b.id = br.book_id
		WHERE strftime('%Y-%m', br.borrow_date) = ?
		GROUP BY b.id, b.title
		ORDER BY borrow_count DESC, b.title ASC
		LIMIT 10
	`, month).Scan(ctx, &rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return rows, nil
}
