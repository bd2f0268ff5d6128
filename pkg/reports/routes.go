package reports

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers report routes on a pre-configured group.
func RegisterRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{reportService: NewService(db)}

	g.GET("/book/:bookId/borrowers", h.bookBorrowers)
	g.GET("/overdue-books", h.overdueBooks)
	g.GET("/category-counts", h.categoryCounts)
	g.GET("/most-borrowed-categories", h.mostBorrowedCategories)
	g.GET("/borrows-by-date", h.borrowsByDate)
	g.GET("/top-borrowed-books", h.topBorrowedBooks)
}
