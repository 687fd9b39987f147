package repository

import (
	"context"

	"blog-app/internal/domain"
)

// PostRepository exposes persistence operations for posts.
// Get and List load the owning user; List also loads the comment count.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (int64, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, limit, offset int) ([]domain.Post, error)
	Count(ctx context.Context) (int, error)
}

// CommentRepository exposes persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID int64, limit, offset int) ([]domain.Comment, error)
	CountByPost(ctx context.Context, postID int64) (int, error)
}
