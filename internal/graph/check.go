package graph

import (
	"fmt"

	"github.com/roach88/friendbook/internal/domain"
)

// AnomalyKind classifies a broken graph invariant.
type AnomalyKind string

const (
	AnomalyDuplicateUser    AnomalyKind = "duplicate_user"
	AnomalySelfReference    AnomalyKind = "self_reference"
	AnomalyDuplicateEntry   AnomalyKind = "duplicate_entry"
	AnomalyDangling         AnomalyKind = "dangling"
	AnomalyOneSidedFriend   AnomalyKind = "one_sided_friend"
	AnomalyOrphanSent       AnomalyKind = "orphan_sent"
	AnomalyOrphanReceived   AnomalyKind = "orphan_received"
	AnomalyFriendAndRequest AnomalyKind = "friend_and_request"
)

// Anomaly is one invariant violation found in User's lists.
type Anomaly struct {
	Kind  AnomalyKind `json:"kind"`
	User  string      `json:"user"`
	Other string      `json:"other,omitempty"`
	List  string      `json:"list,omitempty"`
}

func (a Anomaly) String() string {
	if a.Other == "" {
		return fmt.Sprintf("%s: %s", a.Kind, a.User)
	}
	return fmt.Sprintf("%s: %s %s %s", a.Kind, a.User, a.List, a.Other)
}

const (
	listFriends  = "friends"
	listSent     = "sentRequests"
	listReceived = "receivedRequests"
)

// Check scans the collection and reports every anomaly. Duplicate user
// records come first; the rest follow in collection order, then list order.
// A graph built only by completed engine operations has none.
func Check(users domain.UserCollection) []Anomaly {
	var out []Anomaly

	byName := make(map[string]domain.User, len(users))
	for _, u := range users {
		if _, dup := byName[u.Username]; dup {
			out = append(out, Anomaly{Kind: AnomalyDuplicateUser, User: u.Username})
			continue
		}
		byName[u.Username] = u
	}

	for _, u := range users {
		lists := []struct {
			name    string
			entries []string
			mirror  func(other domain.User) bool
			kind    AnomalyKind
		}{
			{listFriends, u.Friends, func(o domain.User) bool { return o.IsFriend(u.Username) }, AnomalyOneSidedFriend},
			{listSent, u.SentRequests, func(o domain.User) bool { return o.HasReceivedFrom(u.Username) }, AnomalyOrphanSent},
			{listReceived, u.ReceivedRequests, func(o domain.User) bool { return o.HasSentTo(u.Username) }, AnomalyOrphanReceived},
		}

		for _, l := range lists {
			seen := make(map[string]bool, len(l.entries))
			for _, name := range l.entries {
				a := Anomaly{User: u.Username, Other: name, List: l.name}
				switch other, exists := byName[name]; {
				case seen[name]:
					a.Kind = AnomalyDuplicateEntry
				case name == u.Username:
					a.Kind = AnomalySelfReference
				case !exists:
					a.Kind = AnomalyDangling
				case !l.mirror(other):
					a.Kind = l.kind
				case l.name == listFriends && (u.HasSentTo(name) || u.HasReceivedFrom(name)):
					a.Kind = AnomalyFriendAndRequest
				default:
					seen[name] = true
					continue
				}
				seen[name] = true
				out = append(out, a)
			}
		}
	}
	return out
}

// Repair returns a copy of users with every anomaly removed, plus the
// anomalies that were fixed. One-sided entries are dropped rather than
// completed, so an interrupted operation is rolled back, never forward.
// Friendship wins over a pending request between the same pair. Duplicate
// user records keep the first occurrence.
func Repair(users domain.UserCollection) (domain.UserCollection, []Anomaly) {
	found := Check(users)
	if len(found) == 0 {
		return users, nil
	}

	byName := make(map[string]domain.User, len(users))
	out := make(domain.UserCollection, 0, len(users))
	for _, u := range users {
		if _, dup := byName[u.Username]; dup {
			continue
		}
		byName[u.Username] = u
		out = append(out, u)
	}

	for i, u := range out {
		keep := func(name string, mirror func(o domain.User) bool) bool {
			if name == u.Username {
				return false
			}
			other, ok := byName[name]
			return ok && mirror(other)
		}

		repaired := u.Clone()
		repaired.Friends = filterUnique(u.Friends, func(n string) bool {
			return keep(n, func(o domain.User) bool { return o.IsFriend(u.Username) })
		})
		repaired.SentRequests = filterUnique(u.SentRequests, func(n string) bool {
			return !domain.Contains(repaired.Friends, n) &&
				keep(n, func(o domain.User) bool { return o.HasReceivedFrom(u.Username) })
		})
		repaired.ReceivedRequests = filterUnique(u.ReceivedRequests, func(n string) bool {
			return !domain.Contains(repaired.Friends, n) &&
				keep(n, func(o domain.User) bool { return o.HasSentTo(u.Username) })
		})
		out[i] = repaired
	}
	return out, found
}

func filterUnique(list []string, keep func(string) bool) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if domain.Contains(out, v) || !keep(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
