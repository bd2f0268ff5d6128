package categories

import (
	"context"
	"database/sql"
	"time"

	"github.com/devbookapp/devbook/pkg/database"
	"github.com/devbookapp/devbook/pkg/errcodes"
	"github.com/devbookapp/devbook/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateCategory(ctx context.Context, category *models.Category) error {
	now := time.Now()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = category.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(category).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err, "categories.name") {
			return errcodes.ValidationError("A category with this name already exists.")
		}
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) RetrieveCategory(ctx context.Context, id int) (*models.Category, error) {
	category := &models.Category{}

	err := svc.db.
		NewSelect().
		Model(category).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Category")
		}
		return nil, errors.WithStack(err)
	}

	return category, nil
}

func (svc *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category

	err := svc.db.
		NewSelect().
		Model(&categories).
		Order("c.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return categories, nil
}

// UpdateCategory is a full-record update; there is no partial patch.
func (svc *Service) UpdateCategory(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now()

	res, err := svc.db.
		NewUpdate().
		Model(category).
		Column("name", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err, "categories.name") {
			return errcodes.ValidationError("A category with this name already exists.")
		}
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Category")
	}
	return nil
}

// DeleteCategory removes the category. Referencing books keep their rows; the
// schema's ON DELETE SET NULL clears their category reference.
func (svc *Service) DeleteCategory(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Category)(nil)).
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
		return errcodes.NotFound("Category")
	}
	return nil
}
