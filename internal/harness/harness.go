package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/friendbook/internal/domain"
	"github.com/roach88/friendbook/internal/graph"
	"github.com/roach88/friendbook/internal/repo"
	"github.com/roach88/friendbook/internal/store"
	"github.com/roach88/friendbook/internal/testutil"
)

// Harness holds the per-scenario state of one run.
type Harness struct {
	repo    *repo.Repository
	storage *testutil.FaultyStorage
	engine  *graph.Engine
	clock   *testutil.DeterministicClock

	// lastPartial is the most recent unfinished paired write.
	lastPartial *graph.PartialWriteError
}

// Run executes a scenario in a fresh in-memory store and returns the result.
// The returned error covers harness failures; expectation and assertion
// failures are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	faulty := &testutil.FaultyStorage{Storage: st}
	r := repo.New(faulty)
	h := &Harness{
		repo:    r,
		storage: faulty,
		engine:  graph.New(r, testutil.NewSequentialOpIDs("op")),
		clock:   testutil.NewDeterministicClock(),
	}

	ctx := context.Background()

	if err := h.setup(ctx, scenario.Users); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	result := NewResult()
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	users, err := r.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read final state: %w", err)
	}
	result.Users = users

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) setup(ctx context.Context, users []UserFixture) error {
	for i, f := range users {
		u := domain.User{
			Username:         f.Username,
			Password:         f.Password,
			Firstname:        f.Firstname,
			Surname:          f.Surname,
			Gender:           domain.DefaultGender,
			Friends:          f.Friends,
			SentRequests:     f.SentRequests,
			ReceivedRequests: f.ReceivedRequests,
		}
		if err := h.repo.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
	}
	return nil
}

// executeFlow runs each step against the engine and checks its expect
// clause. Injected write failures are cleared after every step.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		seq := h.clock.Next()

		var (
			tr  graph.Transition
			err error
		)
		if step.Op == OpRetry {
			if h.lastPartial == nil {
				return fmt.Errorf("flow[%d]: retry with no partial write to finish", i)
			}
			tr, err = h.engine.Retry(ctx, h.lastPartial)
		} else {
			if step.FailTargetWrite {
				h.storage.FailStoreOn = h.storage.Stores() + 2
			}
			tr, err = h.engine.Do(ctx, graph.Op(step.Op), step.Actor, step.Target)
			h.storage.Heal()
		}

		if pe, ok := graph.AsPartialWrite(err); ok {
			h.lastPartial = pe
		} else if err == nil && tr.Applied && step.Op == OpRetry {
			h.lastPartial = nil
		}

		ev := traceEvent(seq, step, tr, err)
		result.addTrace(ev)

		for _, msg := range checkExpect(i, step.Expect, ev) {
			result.AddError(msg)
		}

		slog.Debug("flow step completed",
			"step", i,
			"op", ev.Op,
			"op_id", ev.OpID,
			"applied", ev.Applied,
			"error", ev.Error,
		)
	}
	return nil
}

func traceEvent(seq int64, step FlowStep, tr graph.Transition, err error) TraceEvent {
	ev := TraceEvent{
		Seq:     seq,
		OpID:    tr.OpID,
		Op:      step.Op,
		Actor:   tr.Actor,
		Target:  tr.Target,
		Applied: tr.Applied,
		Error:   ErrorCode(err),
	}
	if ev.Actor == "" && ev.Target == "" {
		ev.Actor, ev.Target = step.Actor, step.Target
	}
	if tr.OpID != "" {
		ev.From = tr.From.String()
		ev.To = tr.To.String()
	}
	return ev
}

func checkExpect(i int, exp *Expect, ev TraceEvent) []string {
	var errs []string
	wantErr := ""
	if exp != nil {
		wantErr = exp.Error
	}
	if ev.Error != wantErr {
		errs = append(errs, fmt.Sprintf("flow[%d] %s: expected error %q, got %q", i, ev.Op, wantErr, ev.Error))
	}
	if exp == nil {
		return errs
	}
	if exp.Applied != nil && *exp.Applied != ev.Applied {
		errs = append(errs, fmt.Sprintf("flow[%d] %s: expected applied=%t, got %t", i, ev.Op, *exp.Applied, ev.Applied))
	}
	if exp.To != "" && exp.To != ev.To {
		errs = append(errs, fmt.Sprintf("flow[%d] %s: expected to=%s, got %q", i, ev.Op, exp.To, ev.To))
	}
	return errs
}

// ErrorCode names the class of an engine error as scenarios spell it.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if _, ok := graph.AsPartialWrite(err); ok {
		return "partial_write"
	}
	switch {
	case errors.Is(err, graph.ErrAlreadyFriends):
		return "already_friends"
	case errors.Is(err, graph.ErrRequestPending):
		return "request_pending"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case domain.IsStorageError(err):
		return "storage"
	}
	return "error"
}
