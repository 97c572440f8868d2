package engine

import (
	"fmt"

	"github.com/prxssh/mediactl/pkg/rng"
)

// Weight is a sibling-relative selection weight. Zero means inactive:
// for selection purposes the entry is skipped; for rendering purposes
// a row of all-zero weights is treated as equal weight (see Weights.IsUnity).
type Weight = uint32

// Weights is a borrowed, non-empty view over a weights slice with at
// least one positive entry. It is the only thing the ordering
// disciplines are allowed to see.
type Weights struct {
	w []Weight
}

// NewWeights returns a Weights view over w, or ok=false if every entry
// is zero (selection is undefined in that case; callers fall back to
// EqualWeights for rendering or treat the node as inactive).
func NewWeights(w []Weight) (Weights, bool) {
	for _, v := range w {
		if v > 0 {
			return Weights{w: w}, true
		}
	}
	return Weights{}, false
}

// EqualWeights returns a Weights view where every one of n entries has
// weight 1. Used for bucket item selection, which has no independent
// weights array of its own.
func EqualWeights(n int) Weights {
	if n <= 0 {
		panic("engine: EqualWeights requires a positive length")
	}
	w := make([]Weight, n)
	for i := range w {
		w[i] = 1
	}
	return Weights{w: w}
}

// Len returns the number of entries in the view.
func (w Weights) Len() int { return len(w.w) }

// At returns the weight at index i.
func (w Weights) At(i int) Weight { return w.w[i] }

// GetMaxIndex returns the last valid index in the view.
func (w Weights) GetMaxIndex() int { return len(w.w) - 1 }

// IndexAsUsize is an identity accessor kept for symmetry with the
// source design's PathRef-style borrowed indices; indices here are
// already plain ints.
func (w Weights) IndexAsUsize(i int) int { return i }

// IsUnity reports whether every weight in the view equals 1.
func (w Weights) IsUnity() bool {
	for _, v := range w.w {
		if v != 1 {
			return false
		}
	}
	return true
}

// OrderKind enumerates the selection disciplines a node can use.
type OrderKind uint8

const (
	InOrder OrderKind = iota
	Random
	Shuffle
)

func (k OrderKind) String() string {
	switch k {
	case InOrder:
		return "in-order"
	case Random:
		return "random"
	case Shuffle:
		return "shuffle"
	default:
		return fmt.Sprintf("OrderKind(%d)", uint8(k))
	}
}

// ParseOrderKind parses the textual command-log spelling of an order
// type.
func ParseOrderKind(s string) (OrderKind, error) {
	switch s {
	case "in-order":
		return InOrder, nil
	case "random":
		return Random, nil
	case "shuffle":
		return Shuffle, nil
	default:
		return 0, fmt.Errorf("engine: unknown order type %q", s)
	}
}

// OrderState holds one node's mutable ordering discipline state. It is
// cloned wholesale when peek clones the order tree, and is the only
// thing peek mutates.
type OrderState struct {
	Kind OrderKind

	// InOrder state.
	nextIndex int
	count     Weight

	// Shuffle state.
	residual         []int
	prevItemsCount   int
	shuffleHasWeight []Weight
}

// NewOrderState returns a freshly reset OrderState of the given kind.
func NewOrderState(kind OrderKind) *OrderState {
	return &OrderState{Kind: kind}
}

// Clone deep-copies the state, used when peek clones the order tree.
func (s *OrderState) Clone() *OrderState {
	clone := &OrderState{
		Kind:      s.Kind,
		nextIndex: s.nextIndex,
		count:     s.count,
	}
	if s.residual != nil {
		clone.residual = append([]int(nil), s.residual...)
	}
	if s.shuffleHasWeight != nil {
		clone.shuffleHasWeight = append([]Weight(nil), s.shuffleHasWeight...)
	}
	clone.prevItemsCount = s.prevItemsCount
	return clone
}

// Next draws the next index according to the node's order kind. The
// returned index always satisfies weights.At(index) > 0.
func (s *OrderState) Next(src rng.Source, weights Weights) (int, error) {
	switch s.Kind {
	case InOrder:
		return s.nextInOrder(weights)
	case Random:
		return s.nextRandom(src, weights)
	case Shuffle:
		return s.nextShuffle(src, weights)
	default:
		return 0, fmt.Errorf("engine: order state has unknown kind %v", s.Kind)
	}
}

// nextInOrder yields each index i exactly weights[i] times in ascending
// order, wrapping at the end and skipping zero-weight entries. Grounded
// on internal/piece/strategy.go's selectSequential, which walks
// pk.nextPiece forward and wraps/resets when it advances past verified
// or out-of-range pieces.
func (s *OrderState) nextInOrder(weights Weights) (int, error) {
	if s.nextIndex > weights.GetMaxIndex() {
		s.nextIndex = 0
		s.count = 0
	}

	for attempts := 0; attempts <= weights.Len(); attempts++ {
		if weights.At(s.nextIndex) == 0 {
			s.nextIndex = (s.nextIndex + 1) % weights.Len()
			s.count = 0
			continue
		}

		idx := s.nextIndex
		s.count++
		if s.count >= weights.At(idx) {
			s.count = 0
			s.nextIndex = (s.nextIndex + 1) % weights.Len()
		}
		return idx, nil
	}

	return 0, fmt.Errorf("engine: nextInOrder: no positive weight found")
}

// nextRandom chooses an index with probability proportional to its
// weight via a breakpoints-and-uniform construction, or shortcuts to a
// uniform draw when IsUnity. Grounded on selectRandom's Fisher-Yates
// partial shuffle generalized to weighted selection.
func (s *OrderState) nextRandom(src rng.Source, weights Weights) (int, error) {
	if weights.IsUnity() {
		idx, err := rng.IndexIn(src, weights.Len())
		if err != nil {
			return 0, err
		}
		return idx, nil
	}

	breakpoints := make([]uint64, 0, weights.Len())
	var total uint64
	indices := make([]int, 0, weights.Len())
	for i := 0; i <= weights.GetMaxIndex(); i++ {
		if weights.At(i) == 0 {
			continue
		}
		total += uint64(weights.At(i))
		breakpoints = append(breakpoints, total)
		indices = append(indices, i)
	}
	if total == 0 {
		return 0, fmt.Errorf("engine: nextRandom: all weights zero")
	}

	n := rng.BytesForLength(int(total))
	b, err := src.Fill(n)
	if err != nil {
		return 0, err
	}
	draw := rng.Uint64From(b) % total

	lo, hi := 0, len(breakpoints)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if draw < breakpoints[mid] {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return indices[lo], nil
}

// nextShuffle yields a random permutation of the multiset where index i
// appears weights[i] times, then repeats with a fresh permutation.
// Grounded on internal/piece/availability_bucket.go's addTo, which
// randomizes a new entry's position within a dense slice to avoid
// deterministic herding.
func (s *OrderState) nextShuffle(src rng.Source, weights Weights) (int, error) {
	s.reconcileShuffle(weights)

	if len(s.residual) == 0 {
		s.rebuildShuffle(weights)
	}
	if len(s.residual) == 0 {
		return 0, fmt.Errorf("engine: nextShuffle: no positive weight found")
	}

	idx, err := rng.IndexIn(src, len(s.residual))
	if err != nil {
		return 0, err
	}

	chosen := s.residual[idx]
	last := len(s.residual) - 1
	s.residual[idx] = s.residual[last]
	s.residual = s.residual[:last]

	return chosen, nil
}

func (s *OrderState) reconcileShuffle(weights Weights) {
	n := weights.Len()
	if s.shuffleHasWeight == nil {
		s.shuffleHasWeight = make([]Weight, n)
		copy(s.shuffleHasWeight, weights.w)
		s.prevItemsCount = n
		s.rebuildShuffle(weights)
		return
	}

	if n == s.prevItemsCount {
		same := true
		for i := 0; i < n; i++ {
			if s.shuffleHasWeight[i] != weights.At(i) {
				same = false
				break
			}
		}
		if same {
			return
		}
	}

	if n > s.prevItemsCount {
		for i := s.prevItemsCount; i < n; i++ {
			for c := Weight(0); c < weights.At(i); c++ {
				s.residual = append(s.residual, i)
			}
		}
	} else {
		filtered := s.residual[:0]
		for _, idx := range s.residual {
			if idx <= weights.GetMaxIndex() {
				filtered = append(filtered, idx)
			}
		}
		s.residual = filtered
	}

	s.shuffleHasWeight = append([]Weight(nil), weights.w...)
	s.prevItemsCount = n

	if len(s.residual) == 0 {
		s.rebuildShuffle(weights)
	}
}

func (s *OrderState) rebuildShuffle(weights Weights) {
	s.residual = s.residual[:0]
	for i := 0; i <= weights.GetMaxIndex(); i++ {
		for c := Weight(0); c < weights.At(i); c++ {
			s.residual = append(s.residual, i)
		}
	}
	s.shuffleHasWeight = append([]Weight(nil), weights.w...)
	s.prevItemsCount = weights.Len()
}
