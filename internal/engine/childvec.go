package engine

// ChildVec stores children and a parallel weights array in lockstep.
// Grounded on internal/piece/piece.go's parallel blocks+status slices
// and pkg/availabilitybucket/bucket.go's dense paired-slice style.
type ChildVec[N any] struct {
	children []N
	weights  []Weight
}

// Push appends a child with the default weight of 1.
func (c *ChildVec[N]) Push(child N) int {
	c.children = append(c.children, child)
	c.weights = append(c.weights, 1)
	return len(c.children) - 1
}

// Remove deletes the child and its weight at index. Children after index
// shift down by one; callers are responsible for adjusting any cached
// paths via Path.ModifyForRemoved.
func (c *ChildVec[N]) Remove(index int) {
	c.children = append(c.children[:index], c.children[index+1:]...)
	c.weights = append(c.weights[:index], c.weights[index+1:]...)
}

// SetWeight sets the sibling-relative weight at index.
func (c *ChildVec[N]) SetWeight(index int, w Weight) {
	c.weights[index] = w
}

// WeightAt returns the weight at index.
func (c *ChildVec[N]) WeightAt(index int) Weight { return c.weights[index] }

// Len returns the number of children.
func (c *ChildVec[N]) Len() int { return len(c.children) }

// IsEmpty reports whether the vector has no children.
func (c *ChildVec[N]) IsEmpty() bool { return len(c.children) == 0 }

// At returns the child at index.
func (c *ChildVec[N]) At(index int) N { return c.children[index] }

// Set replaces the child at index in place (topology-preserving).
func (c *ChildVec[N]) Set(index int, child N) { c.children[index] = child }

// Children returns the live backing slice; callers must not retain
// references across mutation.
func (c *ChildVec[N]) Children() []N { return c.children }

// Weights returns a view over the weights, or ok=false if every weight
// is zero.
func (c *ChildVec[N]) Weights() (Weights, bool) {
	return NewWeights(c.weights)
}

// WeightsSlice exposes a defensive copy of the raw weights, for
// rendering and serialization.
func (c *ChildVec[N]) WeightsSlice() []Weight {
	return append([]Weight(nil), c.weights...)
}
