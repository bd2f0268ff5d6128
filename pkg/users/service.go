package users

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

func (svc *Service) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err, "users.username") {
			return errcodes.ValidationError("A user with this username already exists.")
		}
		if database.IsUniqueViolation(err, "users.email") {
			return errcodes.ValidationError("A user with this email already exists.")
		}
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) RetrieveUser(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}

	err := svc.db.
		NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

func (svc *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User

	err := svc.db.
		NewSelect().
		Model(&users).
		Order("u.username ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return users, nil
}

// UpdateUser is a full-record update; there is no partial patch.
func (svc *Service) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	res, err := svc.db.
		NewUpdate().
		Model(user).
		Column("username", "email", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err, "users.username") {
			return errcodes.ValidationError("A user with this username already exists.")
		}
		if database.IsUniqueViolation(err, "users.email") {
			return errcodes.ValidationError("A user with this email already exists.")
		}
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("User")
	}
	return nil
}

// DeleteUser removes the user and, via ON DELETE CASCADE, every borrow record
// that references them.
func (svc *Service) DeleteUser(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.User)(nil)).
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
		return errcodes.NotFound("User")
	}
	return nil
}
