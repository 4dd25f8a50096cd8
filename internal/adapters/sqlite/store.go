// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/example/queuebot/internal/ports/secondary"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements secondary.Store with SQLite.
type Store struct {
	db           *sql.DB
	tx           *sql.Tx
	participants *ParticipantRepository
	queue        *QueueRepository
}

// NewStore creates a new SQLite store over db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		participants: NewParticipantRepository(db),
		queue:        NewQueueRepository(db),
	}
}

// Participants returns the participant repository.
func (s *Store) Participants() secondary.ParticipantRepository {
	return s.participants
}

// Queue returns the queue repository.
func (s *Store) Queue() secondary.QueueRepository {
	return s.queue
}

// WithinTx runs fn inside a transaction. Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx secondary.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	txStore := &Store{
		db:           s.db,
		tx:           tx,
		participants: NewParticipantRepository(tx),
		queue:        NewQueueRepository(tx),
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.WithError(rbErr).Warn("rollback failed")
		}
		return err
	}

	return errors.Wrap(tx.Commit(), "failed to commit transaction")
}

// Ensure Store implements the interface.
var _ secondary.Store = (*Store)(nil)
