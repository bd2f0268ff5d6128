package borrows

import (
	"context"
	"database/sql"
	"time"

	"github.com/devbookapp/devbook/pkg/database"
	"github.com/devbookapp/devbook/pkg/errcodes"
	"github.com/devbookapp/devbook/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const dateLayout = "2006-01-02"

type CreateBorrowOptions struct {
	BookID     int
	UserID     int
	DueDate    string
	BorrowDate *string
}

type ListBorrowsOptions struct {
	Page  int
	Limit int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBorrow runs the borrow-creation workflow. Date formats are validated
// at the API boundary; the checks here run in a fixed order so each failure
// maps to a distinct error: due date ordering, book existence, user
// existence, then the open-loan invariant.
//
// The existence and open-loan checks are separate reads from the insert, so
// two concurrent creates for the same book can both pass the open-loan check.
// The partial unique index on open borrows closes that window: the losing
// insert surfaces as the same conflict error.
func (svc *Service) CreateBorrow(ctx context.Context, opts CreateBorrowOptions) (*models.BorrowDetail, error) {
	borrowDate := time.Now().Format(dateLayout)
	if opts.BorrowDate != nil && *opts.BorrowDate != "" {
		borrowDate = *opts.BorrowDate
	}

	// YYYY-MM-DD strings order lexicographically the same as chronologically.
	if opts.DueDate < borrowDate {
		return nil, errcodes.ValidationError("Due date cannot be before borrow date.")
	}

	bookExists, err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		Where("b.id = ?", opts.BookID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !bookExists {
		return nil, errcodes.NotFound("Book")
	}

	userExists, err := svc.db.
		NewSelect().
		Model((*models.User)(nil)).
		Where("u.id = ?", opts.UserID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !userExists {
		return nil, errcodes.NotFound("User")
	}

	hasOpenLoan, err := svc.db.
		NewSelect().
		Model((*models.Borrow)(nil)).
		Where("br.book_id = ? AND br.return_date IS NULL", opts.BookID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if hasOpenLoan {
		return nil, errcodes.Conflict("Book is already currently borrowed.")
	}

	now := time.Now()
	borrow := &models.Borrow{
		BookID:     opts.BookID,
		UserID:     opts.UserID,
		BorrowDate: borrowDate,
		DueDate:    opts.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = svc.db.
		NewInsert().
		Model(borrow).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err, "borrows.book_id") {
			return nil, errcodes.Conflict("Book is already currently borrowed.")
		}
		return nil, errors.WithStack(err)
	}

	return svc.RetrieveBorrow(ctx, borrow.ID)
}

// ReturnBook closes an open loan. The update is conditional on the return
// date still being null, which makes the operation race-free and naturally
// idempotent: a second call affects zero rows and is disambiguated by a
// follow-up lookup.
func (svc *Service) ReturnBook(ctx context.Context, id int, returnDate *string) (*models.BorrowDetail, error) {
	effective := time.Now().Format(dateLayout)
	if returnDate != nil && *returnDate != "" {
		effective = *returnDate
	}

	res, err := svc.db.
		NewUpdate().
		Model((*models.Borrow)(nil)).
		Set("return_date = ?", effective).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("return_date IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if n == 0 {
		exists, err := svc.db.
			NewSelect().
			Model((*models.Borrow)(nil)).
			Where("br.id = ?", id).
			Exists(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !exists {
			return nil, errcodes.NotFound("Borrow record")
		}
		return nil, errcodes.Conflict("Book was already returned.")
	}

	return svc.RetrieveBorrow(ctx, id)
}

// RetrieveBorrow returns the hydrated read model, with the book title and
// username joined in for display.
func (svc *Service) RetrieveBorrow(ctx context.Context, id int) (*models.BorrowDetail, error) {
	borrow := &models.BorrowDetail{}

	err := svc.db.
		NewSelect().
		Model(borrow).
		ColumnExpr("br.*").
		ColumnExpr("b.title AS book_title").
		ColumnExpr("u.username AS user_name").
		Join("LEFT JOIN books b ON b.id = br.book_id").
		Join("LEFT JOIN users u ON u.id = br.user_id").
		Where("br.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Borrow record")
		}
		return nil, errors.WithStack(err)
	}

	return borrow, nil
}

// ListBorrows returns hydrated borrows, newest borrow date first. A zero
// limit means no pagination.
func (svc *Service) ListBorrows(ctx context.Context, opts ListBorrowsOptions) ([]*models.BorrowDetail, error) {
	borrows := []*models.BorrowDetail{}

	q := svc.db.
		NewSelect().
		Model(&borrows).
		ColumnExpr("br.*").
		ColumnExpr("b.title AS book_title").
		ColumnExpr("u.username AS user_name").
		Join("LEFT JOIN books b ON b.id = br.book_id").
		Join("LEFT JOIN users u ON u.id = br.user_id").
		Order("br.borrow_date DESC")

	if opts.Limit > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		q = q.Limit(opts.Limit).Offset((page - 1) * opts.Limit)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return borrows, nil
}
