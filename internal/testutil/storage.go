package testutil

import (
	"context"
	"errors"

	"github.com/roach88/friendbook/internal/domain"
)

// ErrInjected is the cause carried by failures FaultyStorage injects.
var ErrInjected = errors.New("injected storage failure")

// Storage mirrors repo.Storage.
type Storage interface {
	LoadUsers(ctx context.Context) (domain.UserCollection, error)
	StoreUsers(ctx context.Context, users domain.UserCollection) error
	GetSession(ctx context.Context) (string, bool, error)
	SetSession(ctx context.Context, username string) error
	ClearSession(ctx context.Context) error
}

// FaultyStorage wraps a Storage and fails chosen StoreUsers calls.
//
// FailStoreOn is 1-based: FailStoreOn=2 lets the first write through and
// fails the second, which is how a half-applied paired mutation is produced.
// FailLoads makes every LoadUsers fail.
type FaultyStorage struct {
	Storage

	FailStoreOn int
	FailLoads   bool

	stores int
}

func (f *FaultyStorage) LoadUsers(ctx context.Context) (domain.UserCollection, error) {
	if f.FailLoads {
		return nil, &domain.StorageError{Op: "get", Key: "users", Err: ErrInjected}
	}
	return f.Storage.LoadUsers(ctx)
}

func (f *FaultyStorage) StoreUsers(ctx context.Context, users domain.UserCollection) error {
	f.stores++
	if f.FailStoreOn > 0 && f.stores == f.FailStoreOn {
		return &domain.StorageError{Op: "put", Key: "users", Err: ErrInjected}
	}
	return f.Storage.StoreUsers(ctx, users)
}

// Stores reports how many StoreUsers calls were attempted.
func (f *FaultyStorage) Stores() int { return f.stores }

// Heal stops injecting write failures.
func (f *FaultyStorage) Heal() {
	f.FailStoreOn = 0
	f.FailLoads = false
}
