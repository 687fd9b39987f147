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

type UserRepository struct {
	q querier
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.q.ExecContext(ctx, `
INSERT INTO users (name, email, password_hash, email_verified_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name,
		user.Email,
		user.PasswordHash,
		nullTimePtr(user.EmailVerifiedAt),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.NewValidationError("email", "The email has already been taken.")
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	if id <= 0 {
		return 0, &repository.AckError{Entity: "user", Op: "create"}
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT id, name, email, password_hash, email_verified_at, created_at, updated_at
FROM users
WHERE email = ?`,
		email,
	)
	return scanUser(row, 0)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
SELECT id, name, email, password_hash, email_verified_at, created_at, updated_at
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row, id)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n); err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return n > 0, nil
}

func scanUser(row scanner, id int64) (*domain.User, error) {
	var (
		user       domain.User
		verifiedAt sql.NullTime
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&verifiedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "user", ID: id}
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.EmailVerifiedAt = timePtr(verifiedAt)
	return &user, nil
}

// userColumns selects the public user columns of a joined "u" alias.
const userColumns = `u.id, u.name, u.email, u.email_verified_at, u.created_at, u.updated_at`

func userDest(user *domain.User, verifiedAt *sql.NullTime) []any {
	return []any{&user.ID, &user.Name, &user.Email, verifiedAt, &user.CreatedAt, &user.UpdatedAt}
}

func nullTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
