package borrows

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers borrow routes on a pre-configured group.
func RegisterRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{borrowService: NewService(db)}

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:borrow_id", h.retrieve)
	g.PUT("/:borrow_id/return", h.returnBook)
}
