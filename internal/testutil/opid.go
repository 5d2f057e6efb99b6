package testutil

import (
	"fmt"
	"sync"
)

// SequentialOpIDs hands out "<prefix>-1", "<prefix>-2", ... in place of
// UUIDv7 operation ids, so traces and log assertions are reproducible.
type SequentialOpIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialOpIDs uses "op" when prefix is empty.
func NewSequentialOpIDs(prefix string) *SequentialOpIDs {
	if prefix == "" {
		prefix = "op"
	}
	return &SequentialOpIDs{prefix: prefix}
}

// Generate implements graph.OpIDGenerator.
func (g *SequentialOpIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
