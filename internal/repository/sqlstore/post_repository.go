package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog-app/internal/domain"
	"blog-app/internal/repository"
)

type PostRepository struct {
	q querier
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	res, err := r.q.ExecContext(ctx, `
INSERT INTO posts (user_id, title, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		post.UserID,
		post.Title,
		post.Content,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("post last insert id: %w", err)
	}
	if id <= 0 {
		return 0, &repository.AckError{Entity: "post", Op: "create"}
	}
	post.ID = id
	return id, nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	post.UpdatedAt = time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
UPDATE posts
SET title=?, content=?, updated_at=?
WHERE id=?`,
		post.Title,
		post.Content,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return rowsAffected(res, &repository.AckError{Entity: "post", ID: post.ID, Op: "update"})
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM posts WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return rowsAffected(res, &repository.AckError{Entity: "post", ID: id, Op: "delete"})
}

func (r *PostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT p.id, p.user_id, p.title, p.content, p.created_at, p.updated_at, `+userColumns+`
FROM posts p
JOIN users u ON u.id = p.user_id
WHERE p.id=?`,
		id,
	)

	post, err := scanPost(row, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "post", ID: id}
		}
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT p.id, p.user_id, p.title, p.content, p.created_at, p.updated_at, `+userColumns+`,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
FROM posts p
JOIN users u ON u.id = p.user_id
ORDER BY p.created_at DESC, p.id DESC
LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows, true)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	return posts, rows.Err()
}

func (r *PostRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func scanPost(row scanner, withCount bool) (*domain.Post, error) {
	var (
		post       domain.Post
		user       domain.User
		verifiedAt sql.NullTime
		count      int
	)

	dest := []any{&post.ID, &post.UserID, &post.Title, &post.Content, &post.CreatedAt, &post.UpdatedAt}
	dest = append(dest, userDest(&user, &verifiedAt)...)
	if withCount {
		dest = append(dest, &count)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	user.EmailVerifiedAt = timePtr(verifiedAt)
	post.User = &user
	if withCount {
		post.CommentsCount = &count
	}
	return &post, nil
}
