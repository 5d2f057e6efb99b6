// Package domain holds the friendbook data model: user records, the user
// collection persisted under the "users" key, and the error taxonomy shared
// by every layer.
//
// # Persisted layout
//
// The collection is a JSON array of User objects. Field names match the
// layout written by earlier browser builds (camelCase request lists), so an
// exported localStorage blob can be imported unchanged.
//
// # Sets
//
// Friends, SentRequests and ReceivedRequests are username sets stored as
// ordered lists. Insertion order is kept for display; Without removes every
// occurrence and With never appends a duplicate.
package domain
