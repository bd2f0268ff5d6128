package borrows

import (
	"net/http"
	"strconv"

	"github.com/devbookapp/devbook/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	borrowService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBorrowsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	borrows, err := h.borrowService.ListBorrows(ctx, ListBorrowsOptions{
		Page:  params.Page,
		Limit: params.Limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, borrows))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("borrow_id"))
	if err != nil {
		return errcodes.NotFound("Borrow record")
	}

	borrow, err := h.borrowService.RetrieveBorrow(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, borrow))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBorrowPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	borrow, err := h.borrowService.CreateBorrow(ctx, CreateBorrowOptions{
		BookID:     params.BookID,
		UserID:     params.UserID,
		DueDate:    params.DueDate,
		BorrowDate: params.BorrowDate,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, borrow))
}

func (h *handler) returnBook(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("borrow_id"))
	if err != nil {
		return errcodes.NotFound("Borrow record")
	}

	// The return date is optional and so is the body itself.
	c.Set("disallow_empty_body", false)

	params := ReturnBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	borrow, err := h.borrowService.ReturnBook(ctx, id, params.ReturnDate)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := map[string]any{
		"message": "Book returned successfully",
		"data":    borrow,
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
