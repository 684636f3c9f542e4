// Package auth registers users and checks their credentials.
package auth

import (
	"context"
	"errors"
	"unicode/utf8"

	"doctrack/pkg/apperror"
	"doctrack/pkg/logger"
	"doctrack/pkg/metrics"
	"doctrack/store"

	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid username or password"

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if utf8.RuneCountInString(c.Username) < 3 {
		return apperror.Validation("Username must be at least 3 characters")
	}
	if utf8.RuneCountInString(c.Password) < 6 {
		return apperror.Validation("Password must be at least 6 characters")
	}
	return nil
}

// TokenIssuer signs a session token for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type Service struct {
	Users    *store.Entity[store.User]
	Sessions TokenIssuer
	Metrics  *metrics.Metrics
	HashCost int
}

func NewService(users *store.Entity[store.User], sessions TokenIssuer, m *metrics.Metrics) *Service {
	return &Service{Users: users, Sessions: sessions, Metrics: m, HashCost: bcrypt.DefaultCost}
}

// Register creates the account. The first account ever created is the admin.
func (s *Service) Register(ctx context.Context, creds Credentials) (store.User, error) {
	if err := creds.Validate(); err != nil {
		return store.User{}, err
	}

	exists, err := s.Users.Exists(ctx, creds.Username)
	if err != nil {
		return store.User{}, apperror.Internal(err)
	}
	if exists {
		return store.User{}, apperror.Conflict("Username already taken")
	}

	count, err := s.Users.Count(ctx)
	if err != nil {
		return store.User{}, apperror.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.HashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return store.User{}, apperror.Validation("Password is too long")
	}
	if err != nil {
		return store.User{}, apperror.Internal(err)
	}

	user := store.User{
		ID:       creds.Username,
		Username: creds.Username,
		Password: string(hash),
		IsAdmin:  count == 0,
	}
	if _, err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return store.User{}, apperror.Conflict("Username already taken")
		}
		return store.User{}, apperror.Internal(err)
	}

	if s.Metrics != nil {
		s.Metrics.UsersCreated.Inc()
	}
	logger.Sugar.Infow("User registered", "username", user.Username, "isAdmin", user.IsAdmin)
	return user.Public(), nil
}

// Login returns the user whose stored digest matches the password.
func (s *Service) Login(ctx context.Context, creds Credentials) (store.User, error) {
	if err := creds.Validate(); err != nil {
		return store.User{}, err
	}

	user, err := s.Users.Get(ctx, creds.Username)
	if errors.Is(err, store.ErrNotFound) {
		return store.User{}, apperror.NotFound(invalidCredentials)
	}
	if err != nil {
		return store.User{}, apperror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return store.User{}, apperror.Validation(invalidCredentials)
	}
	return user.Public(), nil
}

// Token returns a session token for user, or "" when sessions are off.
func (s *Service) Token(user store.User) (string, error) {
	if s.Sessions == nil {
		return "", nil
	}
	token, err := s.Sessions.Issue(user.ID)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return token, nil
}
