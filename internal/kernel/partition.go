package kernel

// DefaultBlocks is the preferred block count. The partition may hold one
// extra remainder block, or a single block when n! is smaller than this.
const DefaultBlocks = 24

// Block is a half-open range [Start, End) of global permutation indices.
type Block struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// Len returns the number of permutations in the block.
func (b Block) Len() uint64 {
	return b.End - b.Start
}

// Partition splits [0, permMax) into contiguous, ordered, non-empty blocks.
//
// When permMax < numBlocks the whole range is one block. Otherwise there are
// numBlocks blocks of permMax/numBlocks indices, plus a trailing block holding
// the remainder when the division is not exact. numBlocks is clamped to
// [1, MaxBlocks].
func Partition(permMax uint64, numBlocks int) []Block {
	if permMax == 0 {
		return nil
	}
	numBlocks = min(max(numBlocks, 1), MaxBlocks)

	b := uint64(numBlocks)
	if permMax < b {
		return []Block{{Start: 0, End: permMax}}
	}

	size := permMax / b
	blocks := make([]Block, 0, numBlocks+1)
	for i := uint64(0); i < b; i++ {
		blocks = append(blocks, Block{Start: i * size, End: (i + 1) * size})
	}
	if permMax%b != 0 {
		blocks = append(blocks, Block{Start: b * size, End: permMax})
	}
	return blocks
}
