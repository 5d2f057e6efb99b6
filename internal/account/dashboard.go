package account

import (
	"context"
	"errors"

	"github.com/roach88/friendbook/internal/domain"
	"github.com/roach88/friendbook/internal/suggest"
)

// Dashboard is everything the logged-in user sees after each event.
// Friends and Requests hold resolved records; usernames that no longer
// resolve are skipped. FriendCount counts raw entries, dangling ones
// included.
type Dashboard struct {
	User        domain.User          `json:"user"`
	FriendCount int                  `json:"friend_count"`
	Friends     []domain.User        `json:"friends"`
	Requests    []domain.User        `json:"requests"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

// Dashboard re-reads the current user and the collection and assembles the
// view. It returns domain.ErrUnauthorized when nobody is logged in.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	me, err := s.Users.CurrentUser(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	all, err := s.Users.ListAll(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	friends, err := s.resolve(ctx, me.Friends)
	if err != nil {
		return Dashboard{}, err
	}
	requests, err := s.resolve(ctx, me.ReceivedRequests)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		User:        me,
		FriendCount: len(me.Friends),
		Friends:     friends,
		Requests:    requests,
		Suggestions: suggest.For(me, all, s.SuggestionLimit),
	}, nil
}

func (s *Service) resolve(ctx context.Context, usernames []string) ([]domain.User, error) {
	out := make([]domain.User, 0, len(usernames))
	for _, name := range usernames {
		u, err := s.Users.FindByUsername(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
