package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightapp/internal/metrics"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrTxConflict is returned once a transaction kept failing with
	// serialization conflicts for every allowed attempt.
	ErrTxConflict = errors.New("transaction conflict")
)

// Querier is the statement surface shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	Querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// Keys whose unique violations come from two transactions allocating the
// same id concurrently; re-running the transaction picks a fresh one.
var allocationConstraints = map[string]bool{
	"reservations_pkey":           true,
	"itineraries_flight_pair_key": true,
}

// IsRetryable reports whether err is a transient concurrency failure.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return true
	case pgerrcode.UniqueViolation:
		return allocationConstraints[pgErr.ConstraintName]
	}
	return false
}

// TxRunner runs functions inside serializable transactions and re-runs them
// on serialization failures and deadlocks.
type TxRunner struct {
	db          DB
	maxAttempts int
	backoff     time.Duration
	log         *zap.Logger
}

func NewTxRunner(db DB, maxAttempts int, backoff time.Duration, log *zap.Logger) *TxRunner {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TxRunner{db: db, maxAttempts: maxAttempts, backoff: backoff, log: log}
}

// Serializable runs fn in a SERIALIZABLE transaction. fn may be called more
// than once and must not have side effects outside tx. Errors returned by fn
// that are not transient abort without retry.
func (r *TxRunner) Serializable(ctx context.Context, op string, fn func(ctx context.Context, tx pgx.Tx) error) error {
	for attempt := 1; ; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt >= r.maxAttempts {
			return fmt.Errorf("%s: %w after %d attempts: %w", op, ErrTxConflict, attempt, err)
		}

		metrics.TxRetries.WithLabelValues(op).Inc()
		r.log.Debug("retrying transaction", zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff * time.Duration(attempt)):
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
