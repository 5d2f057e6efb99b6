package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialOpIDs(t *testing.T) {
	gen := NewSequentialOpIDs("scenario")
	assert.Equal(t, "scenario-1", gen.Generate())
	assert.Equal(t, "scenario-2", gen.Generate())

	assert.Equal(t, "op-1", NewSequentialOpIDs("").Generate())
}
