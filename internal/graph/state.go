package graph

import "github.com/roach88/friendbook/internal/domain"

// State is the relationship between an ordered pair of users.
type State int

const (
	StateNone State = iota
	StateOutgoing
	StateIncoming
	StateFriends
	StateInconsistent
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateOutgoing:
		return "outgoing"
	case StateIncoming:
		return "incoming"
	case StateFriends:
		return "friends"
	default:
		return "inconsistent"
	}
}

// MarshalText renders the state name in JSON output and traces.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// pair holds the six membership facts that define a State.
type pair struct {
	aSent, aReceived, aFriend bool
	bSent, bReceived, bFriend bool
}

func pairOf(a, b domain.User) pair {
	return pair{
		aSent:     a.HasSentTo(b.Username),
		aReceived: a.HasReceivedFrom(b.Username),
		aFriend:   a.IsFriend(b.Username),
		bSent:     b.HasSentTo(a.Username),
		bReceived: b.HasReceivedFrom(a.Username),
		bFriend:   b.IsFriend(a.Username),
	}
}

func (p pair) outgoingMark() bool { return p.aSent || p.bReceived }
func (p pair) incomingMark() bool { return p.aReceived || p.bSent }
func (p pair) friendMark() bool { return p.aFriend || p.bFriend }

// StateOf classifies the pair (a, b) from a's point of view.
func StateOf(a, b domain.User) State {
	p := pairOf(a, b)

	marks := 0
	for _, m := range []bool{p.outgoingMark(), p.incomingMark(), p.friendMark()} {
		if m {
			marks++
		}
	}

	switch {
	case marks == 0:
		return StateNone
	case marks > 1:
		return StateInconsistent
	case p.aSent && p.bReceived:
		return StateOutgoing
	case p.aReceived && p.bSent:
		return StateIncoming
	case p.aFriend && p.bFriend:
		return StateFriends
	}
	return StateInconsistent
}
