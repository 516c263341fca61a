package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBench_JSON(t *testing.T) {
	out, err := execute(t, "bench", "6", "--samples", "2", "--warmup", "0", "--workers", "2", "--format", "json")
	require.NoError(t, err)

	var data BenchOutput
	decodeResponse(t, out, &data)
	assert.Equal(t, int64(49), data.Checksum)
	assert.Equal(t, 10, data.MaxFlips)
	assert.Equal(t, 2, data.Workers)
	assert.Equal(t, 2, data.Serial.Samples)
	assert.Equal(t, 2, data.Parallel.Samples)
}

func TestBench_InvalidConfig(t *testing.T) {
	_, err := execute(t, "bench", "6", "--samples", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
