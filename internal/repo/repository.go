// Package repo is the user repository: record-level access over the user
// collection held by the key-value store.
//
// Nothing is cached. Every call loads and decodes the full collection, and
// every write re-encodes and replaces all of it.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/friendbook/internal/domain"
)

// Storage is the key-value contract the repository needs. *store.Store
// satisfies it.
type Storage interface {
	LoadUsers(ctx context.Context) (domain.UserCollection, error)
	StoreUsers(ctx context.Context, users domain.UserCollection) error
	GetSession(ctx context.Context) (string, bool, error)
	SetSession(ctx context.Context, username string) error
	ClearSession(ctx context.Context) error
}

type Repository struct {
	storage Storage
}

func New(storage Storage) *Repository {
	return &Repository{storage: storage}
}

// ListAll returns every user in registration order.
func (r *Repository) ListAll(ctx context.Context) (domain.UserCollection, error) {
	users, err := r.storage.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByUsername returns domain.ErrNotFound when no record matches.
func (r *Repository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	users, err := r.ListAll(ctx)
	if err != nil {
		return domain.User{}, err
	}
	u, ok := users.Find(username)
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

// CurrentUser resolves the session pointer. It returns
// domain.ErrUnauthorized when nobody is logged in or the session names a
// user that no longer exists.
func (r *Repository) CurrentUser(ctx context.Context) (domain.User, error) {
	username, ok, err := r.storage.GetSession(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("get session: %w", err)
	}
	if !ok {
		return domain.User{}, domain.ErrUnauthorized
	}

	u, err := r.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrUnauthorized
	}
	return u, err
}

// Upsert replaces the record with u's username. It never inserts: applied
// is false and nothing is written when no record matches.
func (r *Repository) Upsert(ctx context.Context, u domain.User) (applied bool, err error) {
	users, err := r.ListAll(ctx)
	if err != nil {
		return false, err
	}
	i := users.Index(u.Username)
	if i < 0 {
		return false, nil
	}
	users[i] = u
	if err := r.storage.StoreUsers(ctx, users); err != nil {
		return false, fmt.Errorf("upsert user %q: %w", u.Username, err)
	}
	return true, nil
}

// CreateUser appends u. It fails with domain.ErrUsernameTaken, writing
// nothing, if the username is already registered.
func (r *Repository) CreateUser(ctx context.Context, u domain.User) error {
	users, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	if users.Index(u.Username) >= 0 {
		return domain.ErrUsernameTaken
	}
	users = append(users, domain.Normalize(u))
	if err := r.storage.StoreUsers(ctx, users); err != nil {
		return fmt.Errorf("create user %q: %w", u.Username, err)
	}
	return nil
}

// ReplaceAll overwrites the whole collection. Used by consistency repair.
func (r *Repository) ReplaceAll(ctx context.Context, users domain.UserCollection) error {
	if err := r.storage.StoreUsers(ctx, users); err != nil {
		return fmt.Errorf("replace users: %w", err)
	}
	return nil
}

// DeleteUser removes a record. References to it in other users' lists and
// a session naming it are left in place.
func (r *Repository) DeleteUser(ctx context.Context, username string) error {
	users, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	i := users.Index(username)
	if i < 0 {
		return domain.ErrNotFound
	}
	users = append(users[:i], users[i+1:]...)
	if err := r.storage.StoreUsers(ctx, users); err != nil {
		return fmt.Errorf("delete user %q: %w", username, err)
	}
	return nil
}

// SessionUsername returns the raw session pointer without resolving it.
func (r *Repository) SessionUsername(ctx context.Context) (string, bool, error) {
	return r.storage.GetSession(ctx)
}

func (r *Repository) SetSession(ctx context.Context, username string) error {
	return r.storage.SetSession(ctx, username)
}

func (r *Repository) ClearSession(ctx context.Context) error {
	return r.storage.ClearSession(ctx)
}
