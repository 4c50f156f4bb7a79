package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/user-accounts-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned by Save when the email unique index rejects the row.
	ErrEmailTaken = errors.New("email already taken")
)

// UserRepository defines the interface for user-related database operations.
//
// FindByID and FindByEmail see soft-deleted rows as well; FindActive does not.
// SoftDelete only marks the entity, Save is what persists it.
type UserRepository interface {
	FindActive(ctx context.Context) ([]*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	SoftDelete(u *entity.User)
	Save(ctx context.Context, u *entity.User) error
}
