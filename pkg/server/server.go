package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/devbookapp/devbook/pkg/binder"
	"github.com/devbookapp/devbook/pkg/books"
	"github.com/devbookapp/devbook/pkg/borrows"
	"github.com/devbookapp/devbook/pkg/categories"
	"github.com/devbookapp/devbook/pkg/config"
	"github.com/devbookapp/devbook/pkg/errcodes"
	"github.com/devbookapp/devbook/pkg/reports"
	"github.com/devbookapp/devbook/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	e.GET("/", welcome)

	api := e.Group("/api")
	books.RegisterRoutes(api.Group("/books"), db)
	categories.RegisterRoutes(api.Group("/categories"), db)
	users.RegisterRoutes(api.Group("/users"), db)
	borrows.RegisterRoutes(api.Group("/borrows"), db)
	reports.RegisterRoutes(api.Group("/reports"), db)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to DevBook API!"})
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
