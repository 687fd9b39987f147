package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"blog-app/internal/domain"
	"blog-app/internal/repository"
)

// Op names a write for logs and errors. EntityID is the target entity when
// it is known before the write starts.
type Op struct {
	Name     string
	EntityID int64
}

// Transactor runs mutations atomically and turns failures into *domain.WriteError.
type Transactor struct {
	store  repository.Transactor
	logger logrus.FieldLogger
}

func NewTransactor(store repository.Transactor, logger logrus.FieldLogger) *Transactor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Transactor{store: store, logger: logger}
}

// Store returns the non-transactional store for reads.
func (t *Transactor) Store() repository.Store { return t.store }

// Execute runs mutation inside one transaction and commits on success.
//
// Any error or panic rolls the transaction back. Validation errors are
// returned unchanged; every other failure is logged and returned as a
// *domain.WriteError.
func Execute[T any](ctx context.Context, t *Transactor, op Op, mutation func(ctx context.Context, store repository.Store) (T, error)) (T, error) {
	var result T
	err := t.store.WithinTx(ctx, func(ctx context.Context, store repository.Store) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic during %s: %v", op.Name, r)
			}
		}()
		result, err = mutation(ctx, store)
		return err
	})
	if err == nil {
		return result, nil
	}

	var zero T
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		t.logger.WithField("op", op.Name).Infof("write rejected: %v", verr)
		return zero, verr
	}

	werr := &domain.WriteError{
		Op:       op.Name,
		Message:  err.Error(),
		EntityID: op.EntityID,
		Err:      err,
	}
	var identified interface{ EntityID() int64 }
	if errors.As(err, &identified) && identified.EntityID() != 0 {
		werr.EntityID = identified.EntityID()
	}

	t.logger.WithFields(logrus.Fields{
		"op":        op.Name,
		"entity_id": werr.EntityID,
	}).WithError(err).Error("write failed, transaction rolled back")
	return zero, werr
}
