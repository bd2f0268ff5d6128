package books

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/devbookapp/devbook/pkg/errcodes"
	"github.com/devbookapp/devbook/pkg/migrations"
	"github.com/devbookapp/devbook/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// A second connection to :memory: would be a second empty database.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createTestCategory(t *testing.T, db *bun.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	_, err := db.NewInsert().Model(category).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return category
}

func strptr(s string) *string {
	return &s
}

func intptr(i int) *int {
	return &i
}

func TestCreateBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	category := createTestCategory(t, db, "Programming")

	book := &models.Book{
		Title:      "The Go Programming Language",
		Author:     strptr("Alan Donovan"),
		ISBN:       strptr("978-0134190440"),
		CategoryID: &category.ID,
	}
	err := svc.CreateBook(ctx, book)
	require.NoError(t, err)

	assert.NotZero(t, book.ID)
	assert.Equal(t, models.ReadStatusToRead, book.ReadStatus)
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	err := svc.CreateBook(ctx, &models.Book{Title: "First", ISBN: strptr("123")})
	require.NoError(t, err)

	err = svc.CreateBook(ctx, &models.Book{Title: "Second", ISBN: strptr("123")})
	require.Error(t, err)
	assert.Equal(t, errcodes.ValidationError("A book with this ISBN already exists."), err)
}

func TestCreateBookMissingCategory(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	err := svc.CreateBook(ctx, &models.Book{Title: "Orphan", CategoryID: intptr(9999)})
	require.Error(t, err)
	assert.Equal(t, errcodes.ValidationError("Referenced category does not exist."), err)
}

func TestRetrieveBookWithCategoryName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	category := createTestCategory(t, db, "Science Fiction")
	book := &models.Book{Title: "Dune", CategoryID: &category.ID}
	require.NoError(t, svc.CreateBook(ctx, book))

	got, err := svc.RetrieveBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	require.NotNil(t, got.CategoryName)
	assert.Equal(t, "Science Fiction", *got.CategoryName)
}

func TestRetrieveBookWithoutCategory(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := &models.Book{Title: "Uncategorized"}
	require.NoError(t, svc.CreateBook(ctx, book))

	got, err := svc.RetrieveBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryName)
}

func TestRetrieveBookNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.RetrieveBook(ctx, 9999)
	require.Error(t, err)
	assert.Equal(t, errcodes.NotFound("Book"), err)
}

func TestListBooksPagination(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	titles := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"}
	for _, title := range titles {
		require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: title}))
	}

	result, err := svc.ListBooks(ctx, ListBooksOptions{Page: 2, Limit: 2})
	require.NoError(t, err)

	require.Len(t, result.Data, 2)
	assert.Equal(t, "Charlie", result.Data[0].Title)
	assert.Equal(t, "Delta", result.Data[1].Title)
	assert.Equal(t, ListMeta{CurrentPage: 2, TotalPages: 3, TotalItems: 5, ItemsPerPage: 2}, result.Meta)
}

func TestListBooksCoercesPageAndLimit(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "Only"}))

	result, err := svc.ListBooks(ctx, ListBooksOptions{Page: -3, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Meta.CurrentPage)
	assert.Equal(t, 10, result.Meta.ItemsPerPage)
	assert.Len(t, result.Data, 1)
}

func TestListBooksEmptyPage(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "Single"}))

	result, err := svc.ListBooks(ctx, ListBooksOptions{Page: 5, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, 1, result.Meta.TotalItems)
	assert.Equal(t, 5, result.Meta.CurrentPage)
}

func TestListBooksFilters(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	fiction := createTestCategory(t, db, "Fiction")
	tech := createTestCategory(t, db, "Tech")

	require.NoError(t, svc.CreateBook(ctx, &models.Book{
		Title: "Neuromancer", Author: strptr("William Gibson"),
		CategoryID: &fiction.ID, ReadStatus: models.ReadStatusRead,
	}))
	require.NoError(t, svc.CreateBook(ctx, &models.Book{
		Title: "Learning Go", Author: strptr("Jon Bodner"),
		CategoryID: &tech.ID, ReadStatus: models.ReadStatusInProgress,
	}))
	require.NoError(t, svc.CreateBook(ctx, &models.Book{
		Title: "Snow Crash", Author: strptr("Neal Stephenson"),
		CategoryID: &fiction.ID, ReadStatus: models.ReadStatusToRead,
	}))

	byCategory, err := svc.ListBooks(ctx, ListBooksOptions{CategoryID: &fiction.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, byCategory.Meta.TotalItems)

	byStatus, err := svc.ListBooks(ctx, ListBooksOptions{Status: strptr(models.ReadStatusRead)})
	require.NoError(t, err)
	require.Len(t, byStatus.Data, 1)
	assert.Equal(t, "Neuromancer", byStatus.Data[0].Title)

	bySearch, err := svc.ListBooks(ctx, ListBooksOptions{Search: strptr("Stephenson")})
	require.NoError(t, err)
	require.Len(t, bySearch.Data, 1)
	assert.Equal(t, "Snow Crash", bySearch.Data[0].Title)

	combined, err := svc.ListBooks(ctx, ListBooksOptions{
		CategoryID: &fiction.ID,
		Status:     strptr(models.ReadStatusToRead),
		Search:     strptr("Snow"),
	})
	require.NoError(t, err)
	require.Len(t, combined.Data, 1)
	assert.Equal(t, "Snow Crash", combined.Data[0].Title)
}

func TestListBooksSort(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "B Book", Author: strptr("Zed")}))
	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "A Book", Author: strptr("Amy")}))

	desc, err := svc.ListBooks(ctx, ListBooksOptions{Sort: "title_desc"})
	require.NoError(t, err)
	require.Len(t, desc.Data, 2)
	assert.Equal(t, "B Book", desc.Data[0].Title)

	byAuthor, err := svc.ListBooks(ctx, ListBooksOptions{Sort: "author_asc"})
	require.NoError(t, err)
	require.Len(t, byAuthor.Data, 2)
	assert.Equal(t, "A Book", byAuthor.Data[0].Title)
}

func TestListBooksSortByCategoryName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	zoology := createTestCategory(t, db, "Zoology")
	art := createTestCategory(t, db, "Art")
	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "Animals", CategoryID: &zoology.ID}))
	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "Paintings", CategoryID: &art.ID}))

	result, err := svc.ListBooks(ctx, ListBooksOptions{Sort: "category_name_asc"})
	require.NoError(t, err)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "Paintings", result.Data[0].Title)
}

func TestListBooksUnknownSortFallsBackToTitle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "Zulu"}))
	require.NoError(t, svc.CreateBook(ctx, &models.Book{Title: "Alpha"}))

	result, err := svc.ListBooks(ctx, ListBooksOptions{Sort: "id; DROP TABLE books"})
	require.NoError(t, err)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "Alpha", result.Data[0].Title)
}

func TestOrderClause(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sort     string
		expected string
	}{
		{"", "b.title ASC"},
		{"title", "b.title ASC"},
		{"title_asc", "b.title ASC"},
		{"title_desc", "b.title DESC"},
		{"author_desc", "b.author DESC"},
		{"read_status", "b.read_status ASC"},
		{"read_status_desc", "b.read_status DESC"},
		{"category_name_asc", "c.name ASC"},
		{"bogus", "b.title ASC"},
		{"bogus_desc", "b.title ASC"},
		{"_desc", "b.title ASC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, orderClause(tt.sort), "sort=%q", tt.sort)
	}
}

func TestUpdateBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := &models.Book{Title: "Before", ReadStatus: models.ReadStatusToRead}
	require.NoError(t, svc.CreateBook(ctx, book))

	book.Title = "After"
	book.Author = strptr("Someone")
	book.ReadStatus = models.ReadStatusRead
	require.NoError(t, svc.UpdateBook(ctx, book))

	got, err := svc.RetrieveBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	require.NotNil(t, got.Author)
	assert.Equal(t, "Someone", *got.Author)
	assert.Equal(t, models.ReadStatusRead, got.ReadStatus)
}

func TestUpdateBookClearsOmittedFields(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := &models.Book{Title: "Full", Author: strptr("Author"), Description: strptr("Desc")}
	require.NoError(t, svc.CreateBook(ctx, book))

	require.NoError(t, svc.UpdateBook(ctx, &models.Book{
		ID:         book.ID,
		Title:      "Full",
		ReadStatus: models.ReadStatusToRead,
	}))

	got, err := svc.RetrieveBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Author)
	assert.Nil(t, got.Description)
}

func TestUpdateBookNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	err := svc.UpdateBook(ctx, &models.Book{ID: 9999, Title: "Ghost", ReadStatus: models.ReadStatusToRead})
	require.Error(t, err)
	assert.Equal(t, errcodes.NotFound("Book"), err)
}

func TestDeleteBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := &models.Book{Title: "Doomed"}
	require.NoError(t, svc.CreateBook(ctx, book))

	require.NoError(t, svc.DeleteBook(ctx, book.ID))

	_, err := svc.RetrieveBook(ctx, book.ID)
	assert.Equal(t, errcodes.NotFound("Book"), err)
}

func TestDeleteBookNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	err := svc.DeleteBook(ctx, 9999)
	require.Error(t, err)
	assert.Equal(t, errcodes.NotFound("Book"), err)
}

func TestDeleteBookCascadesBorrows(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := &models.Book{Title: "Borrowed Then Deleted"}
	require.NoError(t, svc.CreateBook(ctx, book))

	user := &models.User{Username: "cascade", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	_, err := db.NewInsert().Model(user).Returning("*").Exec(ctx)
	require.NoError(t, err)

	borrow := &models.Borrow{
		BookID:     book.ID,
		UserID:     user.ID,
		BorrowDate: "2026-01-01",
		DueDate:    "2026-02-01",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	_, err = db.NewInsert().Model(borrow).Returning("*").Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, book.ID))

	count, err := db.NewSelect().Model((*models.Borrow)(nil)).Where("br.book_id = ?", book.ID).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
