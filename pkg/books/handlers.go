package books

import (
	"net/http"
	"strconv"

	"github.com/devbookapp/devbook/pkg/errcodes"
	"github.com/devbookapp/devbook/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	bookService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.bookService.ListBooks(ctx, ListBooksOptions{
		Page:       params.Page,
		Limit:      params.Limit,
		Sort:       params.Sort,
		CategoryID: params.Category,
		Status:     params.Status,
		Search:     params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, result))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:       params.Title,
		Author:      params.Author,
		ISBN:        params.ISBN,
		Description: params.Description,
		CategoryID:  normalizeCategoryID(params.CategoryID),
	}
	if params.ReadStatus != nil {
		book.ReadStatus = *params.ReadStatus
	}

	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	// Re-read so the response carries the joined category name.
	created, err := h.bookService.RetrieveBook(ctx, book.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, created))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		ID:          id,
		Title:       params.Title,
		Author:      params.Author,
		ISBN:        params.ISBN,
		Description: params.Description,
		CategoryID:  normalizeCategoryID(params.CategoryID),
		ReadStatus:  models.ReadStatusToRead,
	}
	if params.ReadStatus != nil {
		book.ReadStatus = *params.ReadStatus
	}

	if err := h.bookService.UpdateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	updated, err := h.bookService.RetrieveBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, updated))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// normalizeCategoryID treats 0 and absent the same way: no category.
func normalizeCategoryID(id *int) *int {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
