package engine

import "github.com/prxssh/mediactl/pkg/rng"

// AcceptedPeek carries the order-tree state a Peeked walk advanced,
// ready for Network.FinalizePeeked to install as the live order state.
// It never touches the item tree.
type AcceptedPeek struct {
	rootOrder *OrderState
	orderRoot ChildVec[*orderNode]
}

// Peeked is the result of a speculative lookahead walk. Borrowed item
// references stay valid only as long as the owning Network isn't
// mutated.
type Peeked[T any] struct {
	items         []T
	sourceBuckets []BucketID
	effort        uint64
	accepted      AcceptedPeek
}

// Items returns the items gathered by the walk, in draw order.
func (p *Peeked[T]) Items() []T { return p.items }

// SourceBuckets returns, for each item, the bucket id it was drawn
// from.
func (p *Peeked[T]) SourceBuckets() []BucketID { return p.sourceBuckets }

// GetEffortCount returns the bounded work measure spent gathering this
// batch.
func (p *Peeked[T]) GetEffortCount() uint64 { return p.effort }

// AcceptIntoInner transfers the cloned-and-advanced order state out,
// for later installation via Network.FinalizePeeked.
func (p *Peeked[T]) AcceptIntoInner() AcceptedPeek { return p.accepted }

// CancelIntoItems discards the order state, returning cloned items.
// Test helper only; production callers should prefer AcceptIntoInner
// or simply dropping the Peeked value.
func (p *Peeked[T]) CancelIntoItems() []T {
	return append([]T(nil), p.items...)
}

// defaultPeekEffortBudget bounds worst-case per-call work when
// unfillable buckets would otherwise cause naive retry loops to spin.
const defaultPeekEffortBudget = 4096

// Peek speculatively produces up to count items without mutating the
// network: it clones the order tree, walks it count times (or until the
// effort budget is exhausted), and returns the gathered items alongside
// the advanced-but-not-yet-installed order state.
func (n *Network[T, U]) Peek(src rng.Source, count int) (*Peeked[T], error) {
	return n.peekWithBudget(src, count, defaultPeekEffortBudget)
}

func (n *Network[T, U]) peekWithBudget(src rng.Source, count int, budget uint64) (*Peeked[T], error) {
	clonedRoot := n.trees.rootOrder.Clone()
	clonedOrderRoot := ChildVec[*orderNode]{}
	for i := 0; i < n.trees.orderRoot.Len(); i++ {
		clonedOrderRoot.Push(n.trees.orderRoot.At(i).clone())
		clonedOrderRoot.SetWeight(i, n.trees.orderRoot.WeightAt(i))
	}

	items := make([]T, 0, count)
	buckets := make([]BucketID, 0, count)

	var effort uint64
	for len(items) < count && effort < budget {
		effort++
		item, bucketID, ok, err := n.walkOnce(src, clonedRoot, &clonedOrderRoot)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		items = append(items, item)
		buckets = append(buckets, bucketID)
	}

	return &Peeked[T]{
		items:         items,
		sourceBuckets: buckets,
		effort:        effort,
		accepted: AcceptedPeek{
			rootOrder: clonedRoot,
			orderRoot: clonedOrderRoot,
		},
	}, nil
}

// walkOnce performs a single root-to-bucket draw using the given
// (already-cloned) order state, mutating only that cloned state.
func (n *Network[T, U]) walkOnce(src rng.Source, rootOrder *OrderState, orderRoot *ChildVec[*orderNode]) (item T, bucketID BucketID, ok bool, err error) {
	itemVec := &n.trees.itemRoot
	orderVec := orderRoot
	order := rootOrder

	for {
		weights, hasWeights := itemVec.Weights()
		if !hasWeights {
			var zero T
			return zero, 0, false, nil
		}

		idx, nextErr := order.Next(src, weights)
		if nextErr != nil {
			var zero T
			return zero, 0, false, nextErr
		}

		child := itemVec.At(idx)
		childOrder := orderVec.At(idx)

		if child.IsBucket() {
			if len(child.Items()) == 0 {
				var zero T
				return zero, 0, false, nil
			}
			itemWeights := EqualWeights(len(child.Items()))
			itemIdx, itemErr := childOrder.order.Next(src, itemWeights)
			if itemErr != nil {
				var zero T
				return zero, 0, false, itemErr
			}
			return child.Items()[itemIdx], child.ID(), true, nil
		}

		itemVec = child.Next()
		orderVec = &childOrder.children
		order = childOrder.order
	}
}

// FinalizePeeked installs the advanced order state carried by accepted
// as the network's live order state.
func (n *Network[T, U]) FinalizePeeked(accepted AcceptedPeek) {
	n.trees.rootOrder = accepted.rootOrder
	n.trees.orderRoot = accepted.orderRoot
}
