package application

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/chirper/internal/domain/entity"
	"github.com/oksasatya/chirper/internal/domain/repository"
)

var ErrEmptyPost = errors.New("post content is empty")

const maxPostLength = 280

type PostService struct {
	Posts repository.PostRepository
	Users repository.UserRepository
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository) *PostService {
	return &PostService{Posts: posts, Users: users}
}

type CreatePostInput struct {
	Content       string
	InReplyToPost string
	InReplyToUser string
	Language      string
	Country       string
}

func (s *PostService) CreatePost(ctx context.Context, userID string, in CreatePostInput) (*entity.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrEmptyPost
	}
	if len([]rune(content)) > maxPostLength {
		return nil, errors.New("post content too long")
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	p := &entity.Post{
		UserID:   uid,
		Content:  content,
		Language: in.Language,
		Country:  in.Country,
	}
	if p.Language == "" {
		p.Language = "English"
	}
	if p.Country == "" {
		p.Country = "India"
	}
	if in.InReplyToPost != "" {
		if oid, err := primitive.ObjectIDFromHex(in.InReplyToPost); err == nil {
			p.InReplyToPost = oid
		}
	}
	if in.InReplyToUser != "" {
		if oid, err := primitive.ObjectIDFromHex(in.InReplyToUser); err == nil {
			p.InReplyToUser = oid
		}
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) ListByUser(ctx context.Context, userID string, limit int) ([]entity.Post, error) {
	return s.Posts.ListByUser(ctx, userID, limit)
}

// ListByUsername resolves a username to its account and lists that account's posts.
func (s *PostService) ListByUsername(ctx context.Context, username string, limit int) ([]entity.Post, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return s.Posts.ListByUser(ctx, u.ID.Hex(), limit)
}
