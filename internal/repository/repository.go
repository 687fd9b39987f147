package repository

import (
	"context"
	"fmt"
)

// Store groups the entity repositories that share one connection or transaction.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Comments() CommentRepository
}

// Transactor is a Store that can open a transaction and hand a tx-bound Store to fn.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	Store
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// AckError reports that the store accepted a statement but did not persist it,
// e.g. an update or delete that affected no rows.
type AckError struct {
	Entity string
	ID     int64
	Op     string
}

func (e *AckError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("failed to %s %s", e.Op, e.Entity)
	}
	return fmt.Sprintf("failed to %s %s #%d", e.Op, e.Entity, e.ID)
}

// EntityID exposes the id of the entity the failed statement targeted.
func (e *AckError) EntityID() int64 { return e.ID }
