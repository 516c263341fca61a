// Package ir provides the record types shared by the runner, store, harness
// and CLI, plus canonical JSON and content-addressed identity for them.
//
// This package imports nothing internal. Every other internal package may
// import ir; ir stays the foundational layer.
//
// Key constraints:
//   - No float fields; counts and checksums are integers
//   - All JSON tags use snake_case
//   - Ordering uses logical seq numbers, never wall-clock time
package ir
