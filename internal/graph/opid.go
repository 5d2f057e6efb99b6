package graph

import "github.com/google/uuid"

// OpIDGenerator names each operation so the two writes it makes can be
// correlated in logs and in a PartialWriteError.
type OpIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 operation ids.
type UUIDv7Generator struct{}

// Generate panics only if the system random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
