package users

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers user routes on a pre-configured group.
func RegisterRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{userService: NewService(db)}

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.retrieve)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}
