package harness

import "github.com/roach88/pancake/internal/ir"

// Trace event types.
const (
	EventRun   = "run"
	EventBlock = "block"
)

// TraceEvent is one recorded completion: a whole run or one of its blocks.
type TraceEvent struct {
	Type string `json:"type"`
	Run  int    `json:"run"` // index into Scenario.Runs
	Seq  int64  `json:"seq"`

	// Run events.
	RunID      string `json:"run_id,omitempty"`
	N          int    `json:"n,omitempty"`
	NumBlocks  int    `json:"num_blocks,omitempty"`
	ResultHash string `json:"result_hash,omitempty"`

	// Block events.
	Index int    `json:"index,omitempty"`
	Start uint64 `json:"start,omitempty"`
	End   uint64 `json:"end,omitempty"`

	Checksum int64 `json:"checksum"`
	MaxFlips int   `json:"max_flips"`
}

// Result is the outcome of a scenario.
type Result struct {
	// Pass is true when every run succeeded and every assertion held.
	Pass bool `json:"pass"`

	// Trace holds run and block completions in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds failure messages. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Runs holds the recorded runs, indexed like Scenario.Runs.
	// A run that failed to execute leaves a nil entry.
	Runs []*ir.RunRecord `json:"-"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddRunTrace appends a run completion followed by its blocks.
func (r *Result) AddRunTrace(runIdx int, rec *ir.RunRecord) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:       EventRun,
		Run:        runIdx,
		Seq:        rec.Seq,
		RunID:      rec.ID,
		N:          rec.N,
		NumBlocks:  rec.NumBlocks,
		ResultHash: rec.ResultHash,
		Checksum:   rec.Checksum,
		MaxFlips:   rec.MaxFlips,
	})
	for _, b := range rec.BlockRecords {
		r.Trace = append(r.Trace, TraceEvent{
			Type:     EventBlock,
			Run:      runIdx,
			Seq:      b.Seq,
			Index:    b.Index,
			Start:    b.Start,
			End:      b.End,
			Checksum: b.Checksum,
			MaxFlips: b.MaxFlips,
		})
	}
}
