// Package collections provides compact data structures for trace processing.
package collections

import "math/bits"

// NodeSet is a set of small non-negative node identifiers backed by a bit
// vector. Coherence tracking touches a set per page, so a node set is kept
// an order of magnitude smaller than a map:
//   - map[int]struct{}: ~48B per entry plus bucket overhead
//   - NodeSet: 1 bit per node id
type NodeSet struct {
	words []uint64
}

// NewNodeSet creates a node set containing the given nodes.
func NewNodeSet(nodes ...int) *NodeSet {
	s := &NodeSet{words: make([]uint64, 1)}
	for _, n := range nodes {
		s.Add(n)
	}
	return s
}

// Add inserts node n into the set. Negative ids are ignored.
func (s *NodeSet) Add(n int) {
	if n < 0 {
		return
	}
	word := n / 64
	if word >= len(s.words) {
		s.grow(word + 1)
	}
	s.words[word] |= 1 << (n % 64)
}

// Contains reports whether node n is in the set.
func (s *NodeSet) Contains(n int) bool {
	if n < 0 || n/64 >= len(s.words) {
		return false
	}
	return s.words[n/64]&(1<<(n%64)) != 0
}

// Remove deletes node n from the set.
func (s *NodeSet) Remove(n int) {
	if n < 0 || n/64 >= len(s.words) {
		return
	}
	s.words[n/64] &^= 1 << (n % 64)
}

// Clear empties the set.
func (s *NodeSet) Clear() {
	for i := range s.words {
		s.words[i] = 0
	}
}

// Len returns the number of nodes in the set.
func (s *NodeSet) Len() int {
	count := 0
	for _, w := range s.words {
		count += bits.OnesCount64(w)
	}
	return count
}

// Members returns the nodes in the set in ascending order.
func (s *NodeSet) Members() []int {
	members := make([]int, 0, s.Len())
	for i, w := range s.words {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			members = append(members, i*64+bit)
			w &^= 1 << bit
		}
	}
	return members
}

func (s *NodeSet) grow(words int) {
	grown := make([]uint64, words)
	copy(grown, s.words)
	s.words = grown
}
