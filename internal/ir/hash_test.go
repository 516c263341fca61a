package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunID_Deterministic(t *testing.T) {
	req := RunRequest{N: 7, Blocks: 24, Workers: 4}
	a := MustRunID("tok", req, 1)
	b := MustRunID("tok", req, 1)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestRunID_IgnoresWorkers(t *testing.T) {
	a := MustRunID("tok", RunRequest{N: 7, Blocks: 24, Workers: 1}, 1)
	b := MustRunID("tok", RunRequest{N: 7, Blocks: 24, Workers: 8}, 1)
	assert.Equal(t, a, b)
}

func TestRunID_Distinguishes(t *testing.T) {
	base := MustRunID("tok", RunRequest{N: 7, Blocks: 24}, 1)
	assert.NotEqual(t, base, MustRunID("tok2", RunRequest{N: 7, Blocks: 24}, 1))
	assert.NotEqual(t, base, MustRunID("tok", RunRequest{N: 8, Blocks: 24}, 1))
	assert.NotEqual(t, base, MustRunID("tok", RunRequest{N: 7, Blocks: 1}, 1))
	assert.NotEqual(t, base, MustRunID("tok", RunRequest{N: 7, Blocks: 24}, 2))
}

func TestBlockID(t *testing.T) {
	a, err := BlockID("run", 0, 0, 210)
	require.NoError(t, err)
	b, err := BlockID("run", 1, 210, 420)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestResultHash_DomainSeparated(t *testing.T) {
	h := ResultHash(7, 228, 16)
	assert.Equal(t, h, ResultHash(7, 228, 16))
	assert.NotEqual(t, h, ResultHash(7, 228, 15))
	assert.NotEqual(t, h, ResultHash(8, 228, 16))

	canonical, err := MarshalCanonical(map[string]any{"n": 7, "checksum": 228, "max_flips": 16})
	require.NoError(t, err)
	assert.NotEqual(t, hashWithDomain(DomainRun, canonical), h)
	assert.Equal(t, hashWithDomain(DomainResult, canonical), h)
}
