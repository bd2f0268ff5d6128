package categories

import (
	"net/http"
	"strconv"

	"github.com/devbookapp/devbook/pkg/errcodes"
	"github.com/devbookapp/devbook/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	categoryService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.categoryService.ListCategories(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, categories))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Category")
	}

	category, err := h.categoryService.RetrieveCategory(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, category))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateCategoryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	category := &models.Category{Name: params.Name}
	if err := h.categoryService.CreateCategory(ctx, category); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, category))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Category")
	}

	params := UpdateCategoryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	category, err := h.categoryService.RetrieveCategory(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	category.Name = params.Name
	if err := h.categoryService.UpdateCategory(ctx, category); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, category))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Category")
	}

	if err := h.categoryService.DeleteCategory(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
