// Package accounts verifies admin credentials and provisions the first admin.
//
// Go Pattern: The service depends on a small interface (UserStore) rather
// than *database.DB, so tests can hand it an in-memory map.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shimizu-Technology/wows-catalog/internal/database"
	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// DefaultBootstrapPassword is the well-known seed password. Release builds
// refuse to provision an account with it.
const DefaultBootstrapPassword = "admin123"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrDefaultPassword is returned by Bootstrap in release mode when the
	// configured password is still the default.
	ErrDefaultPassword = errors.New("refusing to bootstrap admin with the default password")
)

// UserStore is the subset of the database the service needs.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
}

// Service authenticates admins.
type Service struct {
	users UserStore
	cost  int

	// dummyHash is compared against when the username is unknown, so both
	// failure paths pay for one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash []byte
}

// New creates an accounts service. cost <= 0 means bcrypt.DefaultCost.
func New(users UserStore, cost int) *Service {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{users: users, cost: cost}
}

// Authenticate checks a username/password pair. Any failure to match is
// reported as ErrInvalidCredentials; other errors are storage failures.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// HashPassword hashes a password at the service's cost.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		// The plaintext is irrelevant; only the cost matters.
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("wows-dummy-password"), s.cost)
	})
	return s.dummyHash
}

// BootstrapOptions controls first-run admin provisioning.
type BootstrapOptions struct {
	Username string
	Password string
	Release  bool // running with GIN_MODE=release
}

// Bootstrap creates the configured admin if no user with that name exists.
// It reports whether an account was created.
func (s *Service) Bootstrap(ctx context.Context, log zerolog.Logger, opts BootstrapOptions) (bool, error) {
	username := strings.TrimSpace(opts.Username)
	if username == "" || opts.Password == "" {
		return false, errors.New("bootstrap admin requires a username and password")
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		log.Debug().Str("username", username).Msg("bootstrap admin already exists")
		return false, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return false, fmt.Errorf("lookup bootstrap admin: %w", err)
	}

	if opts.Password == DefaultBootstrapPassword {
		if opts.Release {
			return false, ErrDefaultPassword
		}
		log.Warn().Str("username", username).
			Msg("bootstrapping admin with the DEFAULT password; change BOOTSTRAP_ADMIN_PASSWORD before exposing this instance")
	}

	hash, err := s.HashPassword(opts.Password)
	if err != nil {
		return false, err
	}
	if err := s.users.CreateUser(ctx, &models.User{Username: username, PasswordHash: hash}); err != nil {
		return false, fmt.Errorf("create bootstrap admin: %w", err)
	}

	log.Warn().Str("username", username).
		Msg("provisioned bootstrap admin account; rotate its password and disable BOOTSTRAP_ADMIN")
	return true, nil
}
