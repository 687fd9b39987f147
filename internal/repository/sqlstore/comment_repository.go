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

type CommentRepository struct {
	q querier
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	res, err := r.q.ExecContext(ctx, `
INSERT INTO comments (post_id, user_id, comment, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		comment.PostID,
		comment.UserID,
		comment.Comment,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("comment last insert id: %w", err)
	}
	if id <= 0 {
		return 0, &repository.AckError{Entity: "comment", Op: "create"}
	}
	comment.ID = id
	return id, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM comments WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return rowsAffected(res, &repository.AckError{Entity: "comment", ID: id, Op: "delete"})
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM comments WHERE post_id=?`, postID)
	if err != nil {
		return 0, fmt.Errorf("delete post comments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("post comments rows affected: %w", err)
	}
	return n, nil
}

func (r *CommentRepository) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT c.id, c.post_id, c.user_id, c.comment, c.created_at, c.updated_at, `+userColumns+`
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.id=?`,
		id,
	)
	comment, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "comment", ID: id}
		}
		return nil, err
	}
	return comment, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]domain.Comment, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT c.id, c.post_id, c.user_id, c.comment, c.created_at, c.updated_at, `+userColumns+`
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.post_id=?
ORDER BY c.created_at DESC, c.id DESC
LIMIT ? OFFSET ?`,
		postID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) CountByPost(ctx context.Context, postID int64) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE post_id=?`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

func scanComment(row scanner) (*domain.Comment, error) {
	var (
		comment    domain.Comment
		user       domain.User
		verifiedAt sql.NullTime
	)
	dest := []any{&comment.ID, &comment.PostID, &comment.UserID, &comment.Comment, &comment.CreatedAt, &comment.UpdatedAt}
	dest = append(dest, userDest(&user, &verifiedAt)...)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	user.EmailVerifiedAt = timePtr(verifiedAt)
	comment.User = &user
	return &comment, nil
}
