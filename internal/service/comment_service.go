package service

import (
	"context"
	"fmt"

	"blog-app/internal/domain"
	"blog-app/internal/repository"
)

// CommentInput carries the caller supplied fields of a comment.
type CommentInput struct {
	Comment string
}

// CommentService coordinates comment reads and transactional writes.
type CommentService interface {
	Get(ctx context.Context, id int64) (*domain.Comment, error)
	Create(ctx context.Context, actor *domain.User, post *domain.Post, in CommentInput) (*domain.Comment, error)
	Delete(ctx context.Context, comment *domain.Comment) error
}

type commentService struct {
	tx *Transactor
}

func NewCommentService(tx *Transactor) CommentService {
	return &commentService{tx: tx}
}

func (s *commentService) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	return s.tx.Store().Comments().Get(ctx, id)
}

// Create stores a comment by actor on post. The returned comment has its
// user and post relations attached.
func (s *commentService) Create(ctx context.Context, actor *domain.User, post *domain.Post, in CommentInput) (*domain.Comment, error) {
	if actor == nil {
		return nil, &domain.AuthorizationError{Action: "create", Entity: "comment"}
	}
	if post == nil {
		return nil, fmt.Errorf("create comment: nil post")
	}

	return Execute(ctx, s.tx, Op{Name: "comments.create"}, func(ctx context.Context, store repository.Store) (*domain.Comment, error) {
		comment := &domain.Comment{
			PostID:  post.ID,
			UserID:  actor.ID,
			Comment: in.Comment,
		}
		if _, err := store.Comments().Create(ctx, comment); err != nil {
			return nil, err
		}
		bare := *post
		bare.User = nil
		bare.Comments = nil
		bare.CommentsCount = nil
		comment.User = sanitizeUser(actor)
		comment.Post = &bare
		return comment, nil
	})
}

func (s *commentService) Delete(ctx context.Context, comment *domain.Comment) error {
	if comment == nil {
		return fmt.Errorf("delete comment: nil comment")
	}

	_, err := Execute(ctx, s.tx, Op{Name: "comments.delete", EntityID: comment.ID}, func(ctx context.Context, store repository.Store) (struct{}, error) {
		return struct{}{}, store.Comments().Delete(ctx, comment.ID)
	})
	return err
}
