package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"blog-app/internal/repository"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQL backed repository.Transactor.
type Store struct {
	db      *sql.DB
	tx      *sql.Tx
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Init creates the tables if they do not exist yet.
func (s *Store) Init(ctx context.Context) error {
	for _, stmt := range schemaFor(s.dialect) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) q() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *Store) Users() repository.UserRepository {
	return &UserRepository{q: s.q()}
}

func (s *Store) Posts() repository.PostRepository {
	return &PostRepository{q: s.q()}
}

func (s *Store) Comments() repository.CommentRepository {
	return &CommentRepository{q: s.q()}
}

// WithinTx runs fn inside a transaction. Calls on a store that is already
// bound to a transaction join it instead of opening a new one.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, store repository.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	if err := fn(ctx, &Store{db: s.db, tx: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}

func rowsAffected(res sql.Result, ack *repository.AckError) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s rows affected: %w", ack.Op, ack.Entity, err)
	}
	if aff == 0 {
		return ack
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
