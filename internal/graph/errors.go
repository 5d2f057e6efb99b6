package graph

import (
	"errors"
	"fmt"

	"github.com/roach88/friendbook/internal/domain"
)

// Precondition failures of SendRequest. Both unwrap to domain.ErrValidation.
var (
	ErrAlreadyFriends = fmt.Errorf("already friends: %w", domain.ErrValidation)
	ErrRequestPending = fmt.Errorf("friend request already pending: %w", domain.ErrValidation)
)

// PartialWriteError reports a paired mutation whose actor side was written
// and whose target side was not. The pair is one-sided until Engine.Retry
// succeeds or the collection is repaired.
type PartialWriteError struct {
	OpID   string
	Op     Op
	Actor  string
	Target string
	Err    error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s %s->%s (op=%s): %q written, %q not written: %v",
		e.Op, e.Actor, e.Target, e.OpID, e.Actor, e.Target, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// AsPartialWrite extracts a *PartialWriteError from err's chain.
func AsPartialWrite(err error) (*PartialWriteError, bool) {
	var pe *PartialWriteError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
