package reports

import (
	"net/http"
	"strconv"

	"github.com/devbookapp/devbook/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	reportService *Service
}

func (h *handler) bookBorrowers(c echo.Context) error {
	ctx := c.Request().Context()
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil || bookID < 1 {
		return errcodes.ValidationError("Invalid Book ID format.")
	}

	rows, err := h.reportService.BookBorrowers(ctx, bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rows))
}

func (h *handler) overdueBooks(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := h.reportService.OverdueBooks(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rows))
}

func (h *handler) categoryCounts(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := h.reportService.CategoryCounts(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rows))
}

func (h *handler) mostBorrowedCategories(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := h.reportService.MostBorrowedCategories(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rows))
}

func (h *handler) borrowsByDate(c echo.Context) error {
	ctx := c.Request().Context()

	params := BorrowsByDateQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rows, err := h.reportService.BorrowsByDate(ctx, params.Date)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rows))
}

func (h *handler) topBorrowedBooks(c echo.Context) error {
	ctx := c.Request().Context()

	params := TopBorrowedBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rows, err := h.reportService.TopBorrowedBooks(ctx, params.Month)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, rows))
}
