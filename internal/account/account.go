// Package account handles signup, login and the session-bound views built
// on top of the user repository.
package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/roach88/friendbook/internal/domain"
)

// Users is the repository surface account needs. *repo.Repository
// satisfies it.
type Users interface {
	ListAll(ctx context.Context) (domain.UserCollection, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	CurrentUser(ctx context.Context) (domain.User, error)
	CreateUser(ctx context.Context, u domain.User) error
	SetSession(ctx context.Context, username string) error
	ClearSession(ctx context.Context) error
}

type Service struct {
	Users           Users
	SuggestionLimit int
	Now             func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Login starts a session for username when password matches exactly.
// Any mismatch, including an unknown username, is
// domain.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (domain.User, error) {
	username = domain.NormalizeUsername(username)

	u, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if u.Password != password {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	if err := s.Users.SetSession(ctx, u.Username); err != nil {
		return domain.User{}, err
	}
	slog.Info("logged in", "user", u.Username)
	return u, nil
}

// Logout clears the session. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context) error {
	return s.Users.ClearSession(ctx)
}

// Current returns the logged-in user or domain.ErrUnauthorized.
func (s *Service) Current(ctx context.Context) (domain.User, error) {
	return s.Users.CurrentUser(ctx)
}
