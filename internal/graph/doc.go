// Package graph implements the friendship state machine over pairs of user
// records.
//
// # States
//
// For an ordered pair (actor, target) the pair is in exactly one of:
//
//	none         neither lists the other anywhere
//	outgoing     actor.sentRequests has target, target.receivedRequests has actor
//	incoming     the mirror image of outgoing
//	friends      each lists the other in friends
//	inconsistent any one-sided entry, or more than one of the above at once
//
// # Operations
//
//	SendRequest   none -> outgoing
//	CancelRequest outgoing -> none
//	AcceptRequest incoming -> friends
//	RejectRequest incoming -> none
//	Unfriend      friends -> none
//
// Every operation reads both records, computes both new records, then writes
// the actor's record before the target's. The store has no multi-record
// transaction: if the second write fails the pair is left one-sided and the
// call returns a *PartialWriteError that Engine.Retry can finish.
//
// # Preconditions
//
// SendRequest refuses when the pair is already friends or a request is
// pending in either direction. The other operations look at entries on
// either side of the pair, so they also complete a half-written earlier
// call; when there is nothing to act on they are no-ops reported with
// Applied=false rather than errors. Repeating any completed operation is
// therefore harmless.
package graph
