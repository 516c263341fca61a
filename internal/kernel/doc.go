// Package kernel implements the block-parallel Fannkuch-Redux kernel.
//
// The permutation space [0, n!) is split into contiguous blocks. Each block is
// seeded directly from its starting index (Decode), then walked with an
// amortized O(1) successor step (State.Next) while counting pancake flips for
// every permutation (CountFlips). Per-block results fold into one global result
// with a commutative, associative Merge, so blocks may be executed in any order
// on any number of workers.
//
// The package is pure and allocation-free in the hot loop: permutation state is
// held in fixed arrays sized for MaxN elements. It starts no goroutines; see
// internal/engine for the parallel runner.
//
// # Enumeration order
//
// The order is the one induced by the counter-driven prefix rotation in Next,
// not lexicographic order. Checksums are defined relative to that order, so
// Decode and Next must agree exactly: decoding idx and stepping k times equals
// decoding idx+k.
package kernel
