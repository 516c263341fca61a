package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden_Scenarios(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestMarshalTrace_Canonical(t *testing.T) {
	trace := []TraceEvent{
		{Type: EventRun, Run: 0, Seq: 1, RunID: "r", N: 1, NumBlocks: 1, ResultHash: "h"},
		{Type: EventBlock, Run: 0, Seq: 2, Index: 0, Start: 0, End: 1},
	}

	got, err := MarshalTrace("s", trace)
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"s","trace":[`+
			`{"checksum":0,"max_flips":0,"n":1,"num_blocks":1,"result_hash":"h","run":0,"run_id":"r","seq":1,"type":"run"},`+
			`{"checksum":0,"end":1,"index":0,"max_flips":0,"run":0,"seq":2,"start":0,"type":"block"}]}`,
		string(got))
}
