package rendercontrol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScratchpad(t *testing.T) {
	t.Parallel()

	var s Scratchpad

	for i := 0; i < ScratchpadSize; i++ {
		id, err := s.Alloc()
		require.NoError(t, err)
		assert.Equal(t, uint32(i), id)
	}

	_, err := s.Alloc()
	assert.ErrorIs(t, err, ErrScratchpadFull)
	assert.Equal(t, ScratchpadSize, s.InUse())

	s.Free(42)
	s.Free(1000)

	id, err := s.Alloc()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), id)

	s.Clear()
	assert.Zero(t, s.InUse())

	id, err = s.Alloc()
	require.NoError(t, err)
	assert.Zero(t, id)
}
