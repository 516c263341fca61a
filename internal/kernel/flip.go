package kernel

// CountFlips returns the number of prefix reversals needed to bring 0 to the
// front of perm. It returns 0 when perm already starts with 0.
//
// perm is not modified; the flips run on a stack copy. Each iteration reverses
// the prefix [0..v] where v is the front value: v is written to its final slot
// and the displaced value becomes the new front, so only the interior
// [1..v) needs an explicit reversal, and only when it holds two or more values.
func CountFlips(perm *Perm) int {
	first := perm[0]
	if first == 0 {
		return 0
	}

	scratch := *perm
	flips := 1
	for scratch[first] != 0 {
		next := scratch[first]
		scratch[first] = first
		if first > 2 {
			for lo, hi := 1, first-1; lo < hi; lo, hi = lo+1, hi-1 {
				scratch[lo], scratch[hi] = scratch[hi], scratch[lo]
			}
		}
		first = next
		flips++
	}
	return flips
}
