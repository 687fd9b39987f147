package service

import (
	"context"
	"fmt"

	"blog-app/internal/domain"
	"blog-app/internal/repository"
)

// PostInput carries the caller supplied fields of a post.
type PostInput struct {
	Title   string
	Content string
}

// PostService coordinates post reads and transactional writes.
type PostService interface {
	List(ctx context.Context, page int) (domain.Page[domain.Post], error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	Comments(ctx context.Context, postID int64, page int) (domain.Page[domain.Comment], error)
	Create(ctx context.Context, actor *domain.User, in PostInput) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post, in PostInput) (*domain.Post, error)
	Delete(ctx context.Context, post *domain.Post) error
}

type postService struct {
	tx *Transactor
}

func NewPostService(tx *Transactor) PostService {
	return &postService{tx: tx}
}

func (s *postService) List(ctx context.Context, page int) (domain.Page[domain.Post], error) {
	page = domain.NormalizePage(page)
	posts := s.tx.Store().Posts()

	total, err := posts.Count(ctx)
	if err != nil {
		return domain.Page[domain.Post]{}, err
	}
	items, err := posts.List(ctx, domain.PerPage, domain.Offset(page, domain.PerPage))
	if err != nil {
		return domain.Page[domain.Post]{}, err
	}
	return domain.Page[domain.Post]{Items: items, Total: total, CurrentPage: page, PerPage: domain.PerPage}, nil
}

func (s *postService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.tx.Store().Posts().Get(ctx, id)
}

func (s *postService) Comments(ctx context.Context, postID int64, page int) (domain.Page[domain.Comment], error) {
	page = domain.NormalizePage(page)
	comments := s.tx.Store().Comments()

	total, err := comments.CountByPost(ctx, postID)
	if err != nil {
		return domain.Page[domain.Comment]{}, err
	}
	items, err := comments.ListByPost(ctx, postID, domain.PerPage, domain.Offset(page, domain.PerPage))
	if err != nil {
		return domain.Page[domain.Comment]{}, err
	}
	return domain.Page[domain.Comment]{Items: items, Total: total, CurrentPage: page, PerPage: domain.PerPage}, nil
}

// Create persists a new post owned by actor.
func (s *postService) Create(ctx context.Context, actor *domain.User, in PostInput) (*domain.Post, error) {
	if actor == nil {
		return nil, &domain.AuthorizationError{Action: "create", Entity: "post"}
	}

	return Execute(ctx, s.tx, Op{Name: "posts.create"}, func(ctx context.Context, store repository.Store) (*domain.Post, error) {
		post := &domain.Post{
			UserID:  actor.ID,
			Title:   in.Title,
			Content: in.Content,
		}
		if _, err := store.Posts().Create(ctx, post); err != nil {
			return nil, err
		}
		post.User = sanitizeUser(actor)
		return post, nil
	})
}

// Update rewrites title and content. The passed post is never modified; the
// updated copy is returned.
func (s *postService) Update(ctx context.Context, post *domain.Post, in PostInput) (*domain.Post, error) {
	if post == nil {
		return nil, fmt.Errorf("update post: nil post")
	}

	return Execute(ctx, s.tx, Op{Name: "posts.update", EntityID: post.ID}, func(ctx context.Context, store repository.Store) (*domain.Post, error) {
		updated := *post
		updated.Comments = nil
		updated.CommentsCount = nil
		updated.Title = in.Title
		updated.Content = in.Content
		if err := store.Posts().Update(ctx, &updated); err != nil {
			return nil, err
		}
		return &updated, nil
	})
}

// Delete removes the post and its comments.
func (s *postService) Delete(ctx context.Context, post *domain.Post) error {
	if post == nil {
		return fmt.Errorf("delete post: nil post")
	}

	_, err := Execute(ctx, s.tx, Op{Name: "posts.delete", EntityID: post.ID}, func(ctx context.Context, store repository.Store) (struct{}, error) {
		if _, err := store.Comments().DeleteByPost(ctx, post.ID); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, store.Posts().Delete(ctx, post.ID)
	})
	return err
}
