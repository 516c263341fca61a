package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pancake/internal/kernel"
)

func TestWalk_BoundariesMatch(t *testing.T) {
	for n := 1; n <= 8; n++ {
		for _, blocks := range []int{1, 5, 24, 100} {
			r, err := Walk(context.Background(), n, blocks)
			require.NoError(t, err)
			assert.True(t, r.OK(), "n=%d blocks=%d: %v", n, blocks, r.Mismatches)
			assert.Equal(t, r.Blocks-1, r.Boundaries)
		}
	}
}

func TestWalk_DigestIndependentOfBlocks(t *testing.T) {
	ref, err := Walk(context.Background(), 7, 1)
	require.NoError(t, err)

	for _, blocks := range []int{2, 7, 24, 1000} {
		r, err := Walk(context.Background(), 7, blocks)
		require.NoError(t, err)
		assert.Equal(t, ref.Digest, r.Digest, "blocks=%d", blocks)
		assert.Equal(t, uint64(5040), r.Permutations)
	}
}

func TestWalk_DigestMatchesDecodedSequence(t *testing.T) {
	const n = 5
	fact, err := kernel.NewFactorials(n)
	require.NoError(t, err)

	perms := make([][]int, 0, fact.PermMax())
	for idx := uint64(0); idx < fact.PermMax(); idx++ {
		s := kernel.Decode(fact, n, idx)
		perms = append(perms, s.Slice())
	}

	r, err := Walk(context.Background(), n, 24)
	require.NoError(t, err)
	assert.Equal(t, Digest(perms), r.Digest)

	// Order matters.
	perms[0], perms[1] = perms[1], perms[0]
	assert.NotEqual(t, Digest(perms), r.Digest)
}

func TestWalk_DigestDiffersByN(t *testing.T) {
	a, err := Walk(context.Background(), 4, 24)
	require.NoError(t, err)
	b, err := Walk(context.Background(), 5, 24)
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest, b.Digest)
}

func TestWalk_InvalidInput(t *testing.T) {
	_, err := Walk(context.Background(), 0, 24)
	assert.ErrorIs(t, err, kernel.ErrInvalidN)

	_, err = Walk(context.Background(), 5, 0)
	assert.ErrorIs(t, err, kernel.ErrInvalidBlocks)

	_, err = Walk(context.Background(), 16, kernel.MaxBlocks+1)
	assert.ErrorIs(t, err, kernel.ErrInvalidBlocks)
}

func TestWalk_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Walk(ctx, 6, 24)
	assert.ErrorIs(t, err, context.Canceled)
}
