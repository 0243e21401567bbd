package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/Domenick1991/flightapp/internal/metrics"
	"github.com/Domenick1991/flightapp/internal/repository"
	"github.com/Domenick1991/flightapp/internal/session"
	"github.com/Domenick1991/flightapp/internal/vault"
	"go.uber.org/zap"
)

type AccountUseCase interface {
	CreateAccount(ctx context.Context, input CreateAccountInput) (string, error)
	Login(ctx context.Context, sess *session.Session, username, password string) (string, error)
	Logout(sess *session.Session) error
}

type CreateAccountInput struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	InitialBalance int64  `json:"balance"`
}

type AccountService struct {
	users  repository.UserRepository
	log    *zap.Logger
	hash   func(password string) ([]byte, error)
	verify func(password string, saltedHash []byte) bool
}

func NewAccountService(users repository.UserRepository, log *zap.Logger) *AccountService {
	return &AccountService{
		users:  users,
		log:    log,
		hash:   vault.HashPassword,
		verify: vault.VerifyPassword,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, input CreateAccountInput) (username string, err error) {
	defer func() { metrics.Record("create_account", err) }()

	if input.InitialBalance < 0 {
		return "", domain.ErrInvalidAmount
	}
	trimmed := strings.TrimSpace(input.Username)
	if trimmed == "" {
		return "", fmt.Errorf("%w: username is required", domain.ErrCreateFailed)
	}
	if trimmed != input.Username {
		return "", fmt.Errorf("%w: username has surrounding whitespace", domain.ErrCreateFailed)
	}
	canonical := domain.CanonicalUsername(input.Username)

	// Fast path only; the insert below is what enforces uniqueness.
	if _, err := s.users.GetByUsername(ctx, canonical); err == nil {
		return "", domain.ErrUsernameTaken
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		s.log.Error("hash password", zap.Error(err))
		return "", fmt.Errorf("%w: %w", domain.ErrCreateFailed, err)
	}

	err = s.users.Create(ctx, &domain.User{Username: canonical, PasswordHash: hash, Balance: input.InitialBalance})
	if errors.Is(err, domain.ErrUsernameTaken) {
		return "", err
	}
	if err != nil {
		s.log.Error("create user", zap.String("user", canonical), zap.Error(err))
		return "", fmt.Errorf("%w: %w", domain.ErrCreateFailed, err)
	}

	s.log.Info("user created", zap.String("user", canonical))
	return input.Username, nil
}

// Login authenticates sess as username. Unknown users, wrong passwords and
// store failures all surface as ErrLoginFailed.
func (s *AccountService) Login(ctx context.Context, sess *session.Session, username, password string) (name string, err error) {
	defer func() { metrics.Record("login", err) }()

	if _, ok := sess.Username(); ok {
		return "", domain.ErrAlreadyLoggedIn
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error("look up user", zap.Error(err))
		}
		return "", domain.ErrLoginFailed
	}
	if !s.verify(password, user.PasswordHash) {
		return "", domain.ErrLoginFailed
	}

	if err := sess.Authenticate(user.Username); err != nil {
		return "", err
	}
	return username, nil
}

func (s *AccountService) Logout(sess *session.Session) error {
	if _, ok := sess.Username(); !ok {
		return domain.ErrNotAuthenticated
	}
	sess.Logout()
	return nil
}

var _ AccountUseCase = (*AccountService)(nil)
