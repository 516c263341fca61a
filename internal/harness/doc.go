// Package harness runs conformance scenarios against the engine.
//
// A scenario is a YAML file listing kernel runs and assertions over their
// results:
//
//	name: reference_n7
//	description: n=7 matches the published result
//	runs:
//	  - n: 7
//	    blocks: 24
//	assertions:
//	  - type: result
//	    run: 0
//	    checksum: 228
//	    max_flips: 16
//
// Each scenario executes against a fresh in-memory store with a
// deterministic clock and fixed run tokens, so its trace (run and block
// completions with their seq numbers and content-addressed IDs) is
// byte-for-byte reproducible and can be compared against golden files in
// testdata/golden.
//
// Supported assertion types:
//   - result: a run produced the given checksum and max_flips
//   - invariant: every run of the same n produced the same result hash
//   - block_count: a run was split into exactly count blocks
//   - max_flips_at_least: a run's max_flips is at least value
//   - deterministic: replaying every run from the store reproduces it
package harness
