package kernel

// Perm is a permutation of {0, ..., n-1} stored in the first n slots.
// Slots at n and beyond keep their identity values.
type Perm [MaxN]int

// State is the enumeration cursor: the current permutation plus the
// factorial-number-system counter that drives Next.
type State struct {
	N       int
	Current Perm
	Count   [MaxN]int
}

// Identity returns the identity permutation.
func Identity() Perm {
	var p Perm
	for i := range p {
		p[i] = i
	}
	return p
}

// Decode builds the state for global permutation index idx without replaying
// earlier permutations.
//
// idx is read as factorial-number-system digits from the most significant
// place down. Digit d at place i rotates the first i+1 elements left by d, and
// becomes Count[i], which is exactly the counter Next would hold after
// arriving at idx from index 0.
func Decode(fact Factorials, n int, idx uint64) State {
	s := State{N: n, Current: Identity()}
	for i := n - 1; i > 0; i-- {
		d := idx / fact[i]
		idx %= fact[i]
		s.Count[i] = int(d)

		prev := s.Current
		rot := int(d)
		for j := 0; j <= i; j++ {
			k := j + rot
			if k > i {
				k -= i + 1
			}
			s.Current[j] = prev[k]
		}
	}
	return s
}

// Next advances to the successor permutation.
//
// The first two elements are swapped. Then, for every place i whose counter
// has wrapped (Count[i] >= i), the counter resets and the prefix [0..i+1] is
// rotated: the old Current[1] moves to the front, the interior shifts down by
// one and the previously saved front lands at the end of the prefix.
//
// Next must not be called on the last permutation.
func (s *State) Next() {
	first := s.Current[1]
	s.Current[1] = s.Current[0]
	s.Current[0] = first

	i := 1
	for s.Count[i] >= i {
		s.Count[i] = 0
		i++
		next := s.Current[1]
		s.Current[0] = next
		copy(s.Current[1:i], s.Current[2:i+1])
		s.Current[i] = first
		first = next
	}
	s.Count[i]++
}

// Slice returns a copy of the first N elements of the current permutation.
func (s *State) Slice() []int {
	out := make([]int, s.N)
	copy(out, s.Current[:s.N])
	return out
}
