package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/devbookapp/devbook/pkg/database"
	"github.com/devbookapp/devbook/pkg/errcodes"
	"github.com/devbookapp/devbook/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListBooksOptions struct {
	Page       int
	Limit      int
	Sort       string
	CategoryID *int
	Status     *string
	Search     *string
}

// ListMeta is the pagination metadata returned alongside a page of books. The
// total is computed by a count query sharing the data query's predicate; the
// two are not a single snapshot, so the total can be momentarily stale under
// concurrent writes.
type ListMeta struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type ListBooksResult struct {
	Data []*models.BookWithCategory `json:"data"`
	Meta ListMeta                   `json:"meta"`
}

// sortColumns is the allow-list of sort keys. Anything else silently falls
// back to the default title ascending.
var sortColumns = map[string]string{
	"title":         "b.title",
	"author":        "b.author",
	"read_status":   "b.read_status",
	"category_name": "c.name",
}

const defaultOrder = "b.title ASC"

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt
	if book.ReadStatus == "" {
		book.ReadStatus = models.ReadStatusToRead
	}

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err, "books.isbn") {
			return errcodes.ValidationError("A book with this ISBN already exists.")
		}
		if database.IsForeignKeyViolation(err) {
			return errcodes.ValidationError("Referenced category does not exist.")
		}
		return errors.WithStack(err)
	}
	return nil
}

// RetrieveBook returns the hydrated read model, with the category name joined
// in for display.
func (svc *Service) RetrieveBook(ctx context.Context, id int) (*models.BookWithCategory, error) {
	book := &models.BookWithCategory{}

	err := svc.db.
		NewSelect().
		Model(book).
		ColumnExpr("b.*").
		ColumnExpr("c.name AS category_name").
		Join("LEFT JOIN categories c ON c.id = b.category_id").
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// ListBooks builds the filtered, sorted, paginated book query. Page and limit
// are coerced to positive values rather than rejected.
func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) (*ListBooksResult, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 10
	}

	books := []*models.BookWithCategory{}

	q := svc.db.
		NewSelect().
		Model(&books).
		ColumnExpr("b.*").
		ColumnExpr("c.name AS category_name").
		Join("LEFT JOIN categories c ON c.id = b.category_id")

	if opts.CategoryID != nil {
		q = q.Where("b.category_id = ?", *opts.CategoryID)
	}
	if opts.Status != nil && *opts.Status != "" {
		q = q.Where("b.read_status = ?", *opts.Status)
	}
	if opts.Search != nil && *opts.Search != "" {
		term := "%" + *opts.Search + "%"
		q = q.Where("(b.title LIKE ? OR b.author LIKE ? OR b.isbn LIKE ?)", term, term, term)
	}

	q = q.
		OrderExpr(orderClause(opts.Sort)).
		Limit(limit).
		Offset((page - 1) * limit)

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	totalPages := (total + limit - 1) / limit

	return &ListBooksResult{
		Data: books,
		Meta: ListMeta{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

// UpdateBook is a full-record update; there is no partial patch.
func (svc *Service) UpdateBook(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now()

	res, err := svc.db.
		NewUpdate().
		Model(book).
		Column("title", "author", "isbn", "description", "category_id", "read_status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err, "books.isbn") {
			return errcodes.ValidationError("A book with this ISBN already exists.")
		}
		if database.IsForeignKeyViolation(err) {
			return errcodes.ValidationError("Referenced category does not exist.")
		}
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Book")
	}
	return nil
}

// DeleteBook removes the book and, via ON DELETE CASCADE, its borrow history.
func (svc *Service) DeleteBook(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Book)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Book")
	}
	return nil
}

// orderClause resolves a sort token of the form "column", "column_asc", or
// "column_desc" against the allow-list.
func orderClause(sort string) string {
	column, direction := sort, "ASC"
	if i := strings.LastIndex(sort, "_"); i >= 0 {
		switch strings.ToUpper(sort[i+1:]) {
		case "ASC":
			column, direction = sort[:i], "ASC"
		case "DESC":
			column, direction = sort[:i], "DESC"
		}
	}

	col, ok := sortColumns[column]
	if !ok {
		return defaultOrder
	}
	return col + " " + direction
}
