// Package engine runs the Fannkuch kernel in parallel and records the results.
//
// A Runner fans the blocks of one kernel invocation out to a fixed set of
// worker goroutines. Blocks share nothing but the read-only factorial table,
// and per-block results are reduced after all workers finish, so the result
// does not depend on worker count or completion order.
//
// An Engine wraps a Runner with identity and persistence: every run gets a
// token, a logical seq from the Clock, and content-addressed IDs for itself
// and each of its blocks, and is written to the store in one transaction.
// Replay re-executes stored runs and reports any divergence.
package engine
