package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/friendbook/internal/domain"
)

// Op names a graph operation.
type Op string

const (
	OpSend     Op = "send"
	OpCancel   Op = "cancel"
	OpAccept   Op = "accept"
	OpReject   Op = "reject"
	OpUnfriend Op = "unfriend"
)

// Ops lists every operation in a stable order.
var Ops = []Op{OpSend, OpCancel, OpAccept, OpReject, OpUnfriend}

// ParseOp accepts an operation name.
func ParseOp(s string) (Op, error) {
	for _, op := range Ops {
		if string(op) == s {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

// Repository is the record access the engine needs. *repo.Repository
// satisfies it.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	Upsert(ctx context.Context, u domain.User) (bool, error)
}

// Transition reports what one operation did to a pair.
type Transition struct {
	OpID    string `json:"op_id"`
	Op      Op     `json:"op"`
	Actor   string `json:"actor"`
	Target  string `json:"target"`
	From    State  `json:"from"`
	To      State  `json:"to"`
	Applied bool   `json:"applied"`
}

// mutation edits both records in place and reports whether anything
// changed. It returns an error only for a refused precondition.
type mutation func(self, other *domain.User, p pair) (bool, error)

// Engine performs paired friendship mutations.
type Engine struct {
	repo  Repository
	opIDs OpIDGenerator
}

// New creates an engine. A nil generator defaults to UUIDv7Generator.
func New(repo Repository, opIDs OpIDGenerator) *Engine {
	if opIDs == nil {
		opIDs = UUIDv7Generator{}
	}
	return &Engine{repo: repo, opIDs: opIDs}
}

// SendRequest asks target to become actor's friend.
func (e *Engine) SendRequest(ctx context.Context, actor, target string) (Transition, error) {
	return e.Do(ctx, OpSend, actor, target)
}

// CancelRequest withdraws actor's pending request to target.
func (e *Engine) CancelRequest(ctx context.Context, actor, target string) (Transition, error) {
	return e.Do(ctx, OpCancel, actor, target)
}

// AcceptRequest makes actor and sender friends.
func (e *Engine) AcceptRequest(ctx context.Context, actor, sender string) (Transition, error) {
	return e.Do(ctx, OpAccept, actor, sender)
}

// RejectRequest drops sender's pending request to actor.
func (e *Engine) RejectRequest(ctx context.Context, actor, sender string) (Transition, error) {
	return e.Do(ctx, OpReject, actor, sender)
}

// Unfriend ends the friendship between actor and target.
func (e *Engine) Unfriend(ctx context.Context, actor, target string) (Transition, error) {
	return e.Do(ctx, OpUnfriend, actor, target)
}

// Do runs op for the pair (actor, target).
//
// A missing target returns domain.ErrNotFound and writes nothing. A storage
// failure on the actor's write returns the error with nothing persisted; a
// failure on the target's write returns *PartialWriteError.
func (e *Engine) Do(ctx context.Context, op Op, actor, target string) (Transition, error) {
	mutate, err := mutationFor(op)
	if err != nil {
		return Transition{}, err
	}

	self, other, err := e.load(ctx, actor, target)
	if err != nil {
		return Transition{Op: op, Actor: actor, Target: target}, err
	}

	from := StateOf(self, other)
	t := Transition{
		OpID:   e.opIDs.Generate(),
		Op:     op,
		Actor:  self.Username,
		Target: other.Username,
		From:   from,
		To:     from,
	}
	log := slog.With("op_id", t.OpID, "op", op, "actor", t.Actor, "target", t.Target)

	changed, err := mutate(&self, &other, pairOf(self, other))
	if err != nil {
		log.Debug("operation refused", "state", from, "error", err)
		return t, err
	}
	if !changed {
		log.Debug("operation not applicable", "state", from)
		return t, nil
	}

	if err := e.write(ctx, self); err != nil {
		log.Error("actor write failed", "error", err)
		return t, fmt.Errorf("%s %s->%s: %w", op, t.Actor, t.Target, err)
	}
	if err := e.write(ctx, other); err != nil {
		log.Error("target write failed, pair left one-sided", "error", err)
		return t, &PartialWriteError{OpID: t.OpID, Op: op, Actor: t.Actor, Target: t.Target, Err: err}
	}

	t.To = StateOf(self, other)
	t.Applied = true
	log.Info("friendship transition", "from", t.From, "to", t.To)
	return t, nil
}

// Retry finishes an operation that failed with *PartialWriteError by
// recomputing it from the stored records and writing only the target side.
func (e *Engine) Retry(ctx context.Context, pe *PartialWriteError) (Transition, error) {
	mutate, err := mutationFor(pe.Op)
	if err != nil {
		return Transition{}, err
	}

	self, other, err := e.load(ctx, pe.Actor, pe.Target)
	if err != nil {
		return Transition{OpID: pe.OpID, Op: pe.Op, Actor: pe.Actor, Target: pe.Target}, err
	}

	from := StateOf(self, other)
	t := Transition{OpID: pe.OpID, Op: pe.Op, Actor: self.Username, Target: other.Username, From: from, To: from}
	log := slog.With("op_id", t.OpID, "op", t.Op, "actor", t.Actor, "target", t.Target)

	changed, err := mutate(&self, &other, pairOf(self, other))
	if err != nil || !changed {
		log.Debug("retry found nothing to finish", "state", from, "error", err)
		return t, err
	}

	if err := e.write(ctx, other); err != nil {
		log.Error("retry of target write failed", "error", err)
		return t, &PartialWriteError{OpID: t.OpID, Op: t.Op, Actor: t.Actor, Target: t.Target, Err: err}
	}

	t.To = StateOf(self, other)
	t.Applied = true
	log.Info("friendship transition completed by retry", "from", t.From, "to", t.To)
	return t, nil
}

func (e *Engine) load(ctx context.Context, actor, target string) (domain.User, domain.User, error) {
	actor = domain.NormalizeUsername(actor)
	target = domain.NormalizeUsername(target)

	if target == "" {
		return domain.User{}, domain.User{}, domain.NewValidationError(map[string]string{"username": "required"})
	}
	if actor == target {
		return domain.User{}, domain.User{}, domain.NewValidationError(map[string]string{"username": "cannot target yourself"})
	}

	self, err := e.repo.FindByUsername(ctx, actor)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, domain.User{}, err
	}
	other, err := e.repo.FindByUsername(ctx, target)
	if err != nil {
		return domain.User{}, domain.User{}, err
	}
	return self, other, nil
}

func (e *Engine) write(ctx context.Context, u domain.User) error {
	applied, err := e.repo.Upsert(ctx, u)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("user %q vanished mid-operation: %w", u.Username, domain.ErrNotFound)
	}
	return nil
}

func mutationFor(op Op) (mutation, error) {
	switch op {
	case OpSend:
		return send, nil
	case OpCancel:
		return cancel, nil
	case OpAccept:
		return accept, nil
	case OpReject:
		return reject, nil
	case OpUnfriend:
		return unfriend, nil
	}
	return nil, fmt.Errorf("unknown operation %q", op)
}

func send(self, other *domain.User, p pair) (bool, error) {
	switch {
	case p.friendMark():
		return false, ErrAlreadyFriends
	case p.incomingMark():
		return false, ErrRequestPending
	case p.aSent && p.bReceived:
		return false, ErrRequestPending
	}
	self.SentRequests = domain.With(self.SentRequests, other.Username)
	other.ReceivedRequests = domain.With(other.ReceivedRequests, self.Username)
	return true, nil
}

func cancel(self, other *domain.User, p pair) (bool, error) {
	if !p.outgoingMark() {
		return false, nil
	}
	self.SentRequests = domain.Without(self.SentRequests, other.Username)
	other.ReceivedRequests = domain.Without(other.ReceivedRequests, self.Username)
	return true, nil
}

func accept(self, other *domain.User, p pair) (bool, error) {
	if !p.incomingMark() {
		return false, nil
	}
	clearRequests(self, other)
	self.Friends = domain.With(self.Friends, other.Username)
	other.Friends = domain.With(other.Friends, self.Username)
	return true, nil
}

func reject(self, other *domain.User, p pair) (bool, error) {
	if !p.incomingMark() {
		return false, nil
	}
	self.ReceivedRequests = domain.Without(self.ReceivedRequests, other.Username)
	other.SentRequests = domain.Without(other.SentRequests, self.Username)
	return true, nil
}

func unfriend(self, other *domain.User, p pair) (bool, error) {
	if !p.friendMark() {
		return false, nil
	}
	self.Friends = domain.Without(self.Friends, other.Username)
	other.Friends = domain.Without(other.Friends, self.Username)
	return true, nil
}

// clearRequests drops request entries in both directions so friends never
// overlap with requests.
func clearRequests(a, b *domain.User) {
	a.SentRequests = domain.Without(a.SentRequests, b.Username)
	a.ReceivedRequests = domain.Without(a.ReceivedRequests, b.Username)
	b.SentRequests = domain.Without(b.SentRequests, a.Username)
	b.ReceivedRequests = domain.Without(b.ReceivedRequests, a.Username)
}
