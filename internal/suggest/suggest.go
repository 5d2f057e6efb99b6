// Package suggest picks the users offered as potential friends.
package suggest

import "github.com/roach88/friendbook/internal/domain"

// DefaultLimit is the number of suggestions shown when none is configured.
const DefaultLimit = 5

// Suggestion is a candidate friend. Pending is true when current has
// already sent them a request, so the caller offers "cancel" instead of
// "add".
type Suggestion struct {
	User    domain.User `json:"user"`
	Pending bool        `json:"pending"`
}

// For returns up to limit users from all, in collection order, excluding
// current, current's friends and anyone current has a request from.
// Targets of current's sent requests stay in the list, flagged Pending.
func For(current domain.User, all domain.UserCollection, limit int) []Suggestion {
	out := []Suggestion{}
	if limit <= 0 {
		return out
	}
	for _, u := range all {
		if len(out) == limit {
			break
		}
		if u.Username == current.Username || current.IsFriend(u.Username) || current.HasReceivedFrom(u.Username) {
			continue
		}
		out = append(out, Suggestion{User: u, Pending: current.HasSentTo(u.Username)})
	}
	return out
}

// Usernames lists the suggested usernames in order.
func Usernames(s []Suggestion) []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		out = append(out, v.User.Username)
	}
	return out
}
