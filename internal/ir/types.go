package ir

// RunRequest describes one kernel invocation.
type RunRequest struct {
	// N is the permutation size, 1..16.
	N int `json:"n" yaml:"n"`

	// Blocks is the preferred block count. Zero means the kernel default.
	Blocks int `json:"blocks" yaml:"blocks"`

	// Workers bounds parallelism. Zero means GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`
}

// Params returns the request as a canonical-JSON-ready map.
// Workers is excluded: it never changes the result.
func (r RunRequest) Params() map[string]any {
	return map[string]any{
		"n":      r.N,
		"blocks": r.Blocks,
	}
}

// RunRecord is a completed, recorded kernel run.
type RunRecord struct {
	ID            string        `json:"id"`
	Token         string        `json:"token"`
	N             int           `json:"n"`
	Blocks        int           `json:"blocks"`     // requested block count
	NumBlocks     int           `json:"num_blocks"` // actual, including a remainder block
	Workers       int           `json:"workers"`
	Checksum      int64         `json:"checksum"`
	MaxFlips      int           `json:"max_flips"`
	ResultHash    string        `json:"result_hash"`
	Seq           int64         `json:"seq"`
	EngineVersion string        `json:"engine_version"`
	IRVersion     string        `json:"ir_version"`
	BlockRecords  []BlockRecord `json:"block_records,omitempty"`
}

// Request reconstructs the request that produced the run.
func (r RunRecord) Request() RunRequest {
	return RunRequest{N: r.N, Blocks: r.Blocks, Workers: r.Workers}
}

// BlockRecord is the result of one block of a run.
type BlockRecord struct {
	ID       string `json:"id"`
	RunID    string `json:"run_id"`
	Index    int    `json:"index"`
	Start    uint64 `json:"start"`
	End      uint64 `json:"end"`
	Checksum int64  `json:"checksum"`
	MaxFlips int    `json:"max_flips"`
	Seq      int64  `json:"seq"`
}

// Expect holds a known-good kernel result.
type Expect struct {
	Checksum int64 `json:"checksum" yaml:"checksum"`
	MaxFlips int   `json:"max_flips" yaml:"max_flips"`
}

// Workload is one entry of a suite: a request, how many times to repeat it,
// and optionally the result it must produce.
type Workload struct {
	Name    string  `json:"name"`
	N       int     `json:"n"`
	Blocks  int     `json:"blocks"`
	Workers int     `json:"workers"`
	Steps   int     `json:"steps"`
	Expect  *Expect `json:"expect,omitempty"`
}

// Request returns the workload's run request.
func (w Workload) Request() RunRequest {
	return RunRequest{N: w.N, Blocks: w.Blocks, Workers: w.Workers}
}

// Suite is a named collection of workloads compiled from CUE.
type Suite struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Workloads   []Workload `json:"workloads"`
}
