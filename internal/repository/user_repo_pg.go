package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type PGUserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) UserRepository {
	return &PGUserRepository{db: db}
}

// Create inserts user. The primary key on the canonical username is what
// keeps concurrent registrations of the same name apart.
func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `INSERT INTO users (username, password_hash, balance) VALUES ($1, $2, $3)`,
		domain.CanonicalUsername(user.Username), user.PasswordHash, user.Balance)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return domain.ErrUsernameTaken
	}
	return err
}

func (r *PGUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `SELECT username, password_hash, balance FROM users WHERE username = $1`,
		domain.CanonicalUsername(username)).Scan(&u.Username, &u.PasswordHash, &u.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// lockBalance reads the user's balance and holds the row until the
// transaction ends.
func lockBalance(ctx context.Context, q Querier, username string) (int64, error) {
	var balance int64
	err := q.QueryRow(ctx, `SELECT balance FROM users WHERE username = $1 FOR UPDATE`, username).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return balance, err
}

func debit(ctx context.Context, q Querier, username string, amount int64) (int64, error) {
	var balance int64
	err := q.QueryRow(ctx, `UPDATE users SET balance = balance - $2 WHERE username = $1 RETURNING balance`, username, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return balance, err
}

var _ UserRepository = (*PGUserRepository)(nil)
