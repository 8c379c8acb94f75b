package repository

import (
	"context"

	"github.com/oksasatya/chirper/internal/domain/entity"
)

// PostRepository defines the interface for post-related database operations.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	ListByUser(ctx context.Context, userID string, limit int) ([]entity.Post, error)
}
