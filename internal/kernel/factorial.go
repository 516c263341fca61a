package kernel

import (
	"errors"
	"fmt"
)

// MaxN is the largest supported permutation size.
// Permutation arrays are fixed at this length.
const MaxN = 16

// ErrInvalidN reports an n outside [1, MaxN].
var ErrInvalidN = errors.New("n out of range")

// MaxBlocks is the largest accepted block count. Every block gets its own
// result slot and, when recorded, its own row.
const MaxBlocks = 1 << 16

// ErrInvalidBlocks reports a block count outside [1, MaxBlocks].
var ErrInvalidBlocks = errors.New("block count out of range")

// Factorials holds fact[i] = i! for i in [0, n].
// 16! fits comfortably in uint64.
type Factorials []uint64

// CheckN fails fast for n outside [1, MaxN].
func CheckN(n int) error {
	if n < 1 || n > MaxN {
		return fmt.Errorf("%w: got %d, want 1..%d", ErrInvalidN, n, MaxN)
	}
	return nil
}

// CheckBlocks fails fast for a block count outside [1, MaxBlocks].
func CheckBlocks(numBlocks int) error {
	if numBlocks < 1 || numBlocks > MaxBlocks {
		return fmt.Errorf("%w: got %d, want 1..%d", ErrInvalidBlocks, numBlocks, MaxBlocks)
	}
	return nil
}

// NewFactorials builds the factorial table for n.
func NewFactorials(n int) (Factorials, error) {
	if err := CheckN(n); err != nil {
		return nil, err
	}
	fact := make(Factorials, n+1)
	fact[0] = 1
	for i := 1; i <= n; i++ {
		fact[i] = fact[i-1] * uint64(i)
	}
	return fact, nil
}

// N returns the permutation size the table was built for.
func (f Factorials) N() int {
	return len(f) - 1
}

// PermMax returns n!, the number of permutations.
func (f Factorials) PermMax() uint64 {
	return f[len(f)-1]
}
