// Package store provides SQLite-backed durable storage for kernel runs.
//
// The store is an append-only log with two tables:
//   - runs: one row per executed request, holding the reduced result
//   - blocks: one row per block of a run, holding that block's result
//
// # Ordering
//
// All list queries order by seq ASC, id ASC COLLATE BINARY. seq comes from
// the engine's logical clock, so listings are identical across replays.
//
// # Idempotency
//
// Writes use ON CONFLICT DO NOTHING. Rewriting a run or block with the same
// content-addressed ID is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Blocks must reference an existing run
package store
