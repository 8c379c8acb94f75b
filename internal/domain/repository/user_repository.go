package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/chirper/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an insert violates the unique email index.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateUsername is returned when an insert violates the unique username index.
	ErrDuplicateUsername = errors.New("username already taken")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	SetVerified(ctx context.Context, id string) error
}
