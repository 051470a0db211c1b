// Package auth registers users and authenticates logins, issuing the signed
// identity tokens that the todo service verifies on its own.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"todo-services/internal/apperr"
	"todo-services/internal/models"
	"todo-services/internal/repository"
	"todo-services/internal/token"
	"todo-services/pkg/logger"
)

// UserStore is the credential store the Issuer depends on.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// RegistrationNotifier is told about new users. Failures are logged, never returned.
type RegistrationNotifier interface {
	UserRegistered(ctx context.Context, ev models.UserRegisteredEvent) error
}

// Options configure an Issuer.
type Options struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
	Notifier   RegistrationNotifier
	Now        func() time.Time
}

// Issuer implements register and login.
type Issuer struct {
	users     UserStore
	secret    []byte
	ttl       time.Duration
	cost      int
	notifier  RegistrationNotifier
	now       func() time.Time
	dummyHash string
}

// NewIssuer builds an Issuer. It hashes a throwaway password once so that logins
// for unknown emails spend the same bcrypt time as real ones.
func NewIssuer(users UserStore, opts Options) (*Issuer, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("auth: signing secret is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	dummy, err := HashPassword(uuid.NewString(), opts.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &Issuer{
		users:     users,
		secret:    opts.Secret,
		ttl:       opts.TokenTTL,
		cost:      opts.BcryptCost,
		notifier:  opts.Notifier,
		now:       opts.Now,
		dummyHash: dummy,
	}, nil
}

// Register creates a user. The existence check and the insert are separate
// store calls; a concurrent registration that slips between them is caught by
// the store's unique constraint and reported as the same conflict.
func (i *Issuer) Register(ctx context.Context, email, password string) (models.UserPublic, error) {
	if err := validateRegistration(email, password); err != nil {
		return models.UserPublic{}, err
	}

	_, err := i.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return models.UserPublic{}, apperr.Conflict("Email already registered")
	case !errors.Is(err, repository.ErrNotFound):
		return models.UserPublic{}, apperr.Internal(err)
	}

	hash, err := HashPassword(password, i.cost)
	if err != nil {
		return models.UserPublic{}, apperr.Internal(err)
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    i.now().UTC(),
	}
	if err := i.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.UserPublic{}, apperr.Conflict("Email already registered")
		}
		return models.UserPublic{}, apperr.Internal(err)
	}
	logger.Info(ctx, "User registered", "user_id", u.ID)

	if i.notifier != nil {
		ev := models.UserRegisteredEvent{UserID: u.ID, Email: u.Email, RegisteredAt: u.CreatedAt}
		if err := i.notifier.UserRegistered(ctx, ev); err != nil {
			logger.Warn(ctx, "Registration notification failed", "error", err, "user_id", u.ID)
		}
	}
	return u.Public(), nil
}

// Login checks credentials and issues a token. Unknown email and wrong password
// produce the same error.
func (i *Issuer) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	if err := validateLogin(email, password); err != nil {
		return models.LoginResult{}, err
	}
	invalid := apperr.Unauthorized("Invalid credentials")

	u, err := i.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			VerifyPassword(i.dummyHash, password)
			return models.LoginResult{}, invalid
		}
		return models.LoginResult{}, apperr.Internal(err)
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return models.LoginResult{}, invalid
	}

	raw, err := token.Issue(i.secret, token.Identity{OwnerID: u.ID, Email: u.Email}, i.now(), i.ttl)
	if err != nil {
		return models.LoginResult{}, apperr.Internal(err)
	}
	logger.Info(ctx, "User logged in", "user_id", u.ID)
	return models.LoginResult{
		User:  models.UserIdentity{ID: u.ID, Email: u.Email},
		Token: raw,
	}, nil
}
