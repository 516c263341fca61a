package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	out, err := execute(t, "verify", "6", "--blocks", "7")
	require.NoError(t, err)
	// 720 over 7 leaves a remainder, so there are 8 blocks.
	assert.Contains(t, out, "n=6 blocks=8 permutations=720 boundaries=7")
	assert.Contains(t, out, "✓ all block boundaries match")

	out, err = execute(t, "verify", "6", "--blocks", "7", "--format", "json")
	require.NoError(t, err)
	var first map[string]any
	decodeResponse(t, out, &first)

	out, err = execute(t, "verify", "6", "--blocks", "1", "--format", "json")
	require.NoError(t, err)
	var second map[string]any
	decodeResponse(t, out, &second)
	assert.Equal(t, first["digest"], second["digest"])
}
