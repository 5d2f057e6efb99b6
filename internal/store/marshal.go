package store

import (
	"context"
	"log/slog"

	"github.com/roach88/friendbook/internal/domain"
)

// LoadUsers reads the whole user collection. A missing key or a value that
// fails to decode yields an empty collection.
func (s *Store) LoadUsers(ctx context.Context) (domain.UserCollection, error) {
	raw, ok, err := s.Get(ctx, KeyUsers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return domain.UserCollection{}, nil
	}

	users, err := domain.UnmarshalUsers([]byte(raw))
	if err != nil {
		slog.Warn("discarding undecodable users value", "key", KeyUsers, "error", err)
		return domain.UserCollection{}, nil
	}
	return users, nil
}

// StoreUsers replaces the whole user collection.
func (s *Store) StoreUsers(ctx context.Context, users domain.UserCollection) error {
	data, err := domain.MarshalUsers(users)
	if err != nil {
		return err
	}
	return s.Put(ctx, KeyUsers, string(data))
}

// GetSession returns the logged-in username. ok is false when nobody is
// logged in.
func (s *Store) GetSession(ctx context.Context) (username string, ok bool, err error) {
	username, ok, err = s.Get(ctx, KeySession)
	if err != nil || !ok || username == "" {
		return "", false, err
	}
	return username, true, nil
}

// SetSession records username as logged in.
func (s *Store) SetSession(ctx context.Context, username string) error {
	return s.Put(ctx, KeySession, username)
}

// ClearSession logs out.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.Delete(ctx, KeySession)
}
