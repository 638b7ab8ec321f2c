package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorLowestFree(t *testing.T) {
	var a Allocator

	require.Equal(t, 0, a.Acquire())
	require.Equal(t, 1, a.Acquire())
	require.Equal(t, 2, a.Acquire())

	a.Release(1)
	a.Release(0)

	// Lowest index first, even though 1 was released earlier.
	assert.Equal(t, 0, a.Acquire())
	assert.Equal(t, 1, a.Acquire())
	assert.Equal(t, 3, a.Acquire())
	assert.Equal(t, 4, a.Peak())
}

func TestAllocatorPingPong(t *testing.T) {
	var a Allocator

	cur := a.Acquire()
	for range 10 {
		next := a.Acquire()
		a.Release(cur)
		cur = next
	}

	assert.Equal(t, 2, a.Peak())
}

func TestAllocatorDoubleReleasePanics(t *testing.T) {
	var a Allocator
	s := a.Acquire()
	a.Release(s)

	assert.Panics(t, func() { a.Release(s) })
	assert.Panics(t, func() { a.Release(7) })
}
