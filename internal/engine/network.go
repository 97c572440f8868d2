package engine

import "fmt"

// Network owns the item tree, the parallel order tree, and the
// bucket-id index: all mutation goes through Modify, all read access
// through the exported query methods.
type Network[T any, U any] struct {
	trees       *Trees[T, U]
	bucketPaths *bucketPathsMap
}

// NewNetwork returns an empty (root-only) network.
func NewNetwork[T any, U any]() *Network[T, U] {
	return &Network[T, U]{
		trees:       NewTrees[T, U](),
		bucketPaths: newBucketPathsMap(),
	}
}

// ModifyKind discriminates the seven ModifyCmd variants.
type ModifyKind uint8

const (
	CmdAddBucket ModifyKind = iota
	CmdAddJoint
	CmdDeleteEmpty
	CmdFillBucket
	CmdSetFilters
	CmdSetWeight
	CmdSetOrderType
)

// ModifyCmd is the tagged-union command accepted by Network.Modify. Only
// the fields relevant to Kind are read.
type ModifyCmd[T any, U any] struct {
	Kind ModifyKind

	// AddBucket / AddJoint.
	Parent Path

	// DeleteEmpty / FillBucket / SetFilters / SetWeight / SetOrderType.
	Path Path

	NewContents []T
	NewFilters  []U
	Weight      Weight
	OrderKind   OrderKind
}

func wrapPathErr(sentinel error, op string, path Path) error {
	return fmt.Errorf("engine: %s %s: %w", op, path, sentinel)
}

// Modify applies a single command. On error the network is left exactly
// as it was before the call (every precondition is validated before any
// mutation happens).
func (n *Network[T, U]) Modify(cmd ModifyCmd[T, U]) error {
	switch cmd.Kind {
	case CmdAddBucket:
		return n.addBucket(cmd.Parent)
	case CmdAddJoint:
		return n.addJoint(cmd.Parent)
	case CmdDeleteEmpty:
		return n.deleteEmpty(cmd.Path)
	case CmdFillBucket:
		return n.fillBucket(cmd.Path, cmd.NewContents)
	case CmdSetFilters:
		return n.setFilters(cmd.Path, cmd.NewFilters)
	case CmdSetWeight:
		return n.setWeight(cmd.Path, cmd.Weight)
	case CmdSetOrderType:
		return n.setOrderType(cmd.Path, cmd.OrderKind)
	default:
		return fmt.Errorf("engine: modify: unknown command kind %d", cmd.Kind)
	}
}

// resolveParentForAdd locates the ChildVecs a new child should be
// pushed into, distinguishing UnknownPath from CannotAddToBucket.
func (n *Network[T, U]) resolveParentForAdd(path Path) (*ChildVec[*Node[T, U]], *ChildVec[*orderNode], error) {
	if path.IsRoot() {
		return &n.trees.itemRoot, &n.trees.orderRoot, nil
	}
	node, ok := n.trees.NodeAt(path)
	if !ok {
		return nil, nil, wrapPathErr(ErrUnknownPath, "add", path)
	}
	if node.IsBucket() {
		return nil, nil, wrapPathErr(ErrCannotAddToBucket, "add", path)
	}
	orderNode, ok := n.trees.orderNodeAt(path)
	if !ok {
		return nil, nil, wrapPathErr(ErrUnknownPath, "add", path)
	}
	return node.Next(), &orderNode.children, nil
}

func (n *Network[T, U]) addBucket(parent Path) error {
	itemVec, orderVec, err := n.resolveParentForAdd(parent)
	if err != nil {
		return err
	}

	id := n.bucketPaths.allocID()
	itemVec.Push(NewBucket[T, U](id))
	orderVec.Push(newOrderBucket(InOrder))

	path := parent.Push(itemVec.Len() - 1)
	n.bucketPaths.addNeedsFill(id, path)

	return nil
}

func (n *Network[T, U]) addJoint(parent Path) error {
	itemVec, orderVec, err := n.resolveParentForAdd(parent)
	if err != nil {
		return err
	}

	itemVec.Push(NewJoint[T, U]())
	orderVec.Push(newOrderJoint(InOrder))

	return nil
}

func (n *Network[T, U]) deleteEmpty(path Path) error {
	if path.IsRoot() {
		return wrapPathErr(ErrDeleteRoot, "delete", path)
	}

	node, ok := n.trees.NodeAt(path)
	if !ok {
		return wrapPathErr(ErrUnknownPath, "delete", path)
	}

	if node.IsBucket() {
		if len(node.Items()) > 0 {
			return wrapPathErr(ErrDeleteNonemptyBucket, "delete", path)
		}
	} else if node.Next().Len() > 0 {
		return wrapPathErr(ErrDeleteNonemptyJoint, "delete", path)
	}

	last, parent, _ := path.SplitLast()
	parentItemVec, parentOrderVec, ok := n.trees.childVecsAt(parent)
	if !ok {
		return wrapPathErr(ErrUnknownPath, "delete", path)
	}

	// Remove from the order tree first: if this step fails, the item
	// tree remains untouched.
	parentOrderVec.Remove(last)
	parentItemVec.Remove(last)

	if node.IsBucket() {
		n.bucketPaths.updateForRemovedPath(path, node.ID())
	} else {
		n.fixupCachedPathsForRemoval(path)
	}

	return nil
}

// fixupCachedPathsForRemoval rewrites cached bucket paths after a joint
// (rather than a bucket) was removed -- there is no single bucket id to
// drop, but sibling paths after the removed index still shift.
func (n *Network[T, U]) fixupCachedPathsForRemoval(removedPath Path) {
	for id, path := range n.bucketPaths.cached {
		adjusted, err := path.ModifyForRemoved(removedPath)
		if err == nil {
			n.bucketPaths.cached[id] = adjusted
		}
	}
}

func (n *Network[T, U]) fillBucket(path Path, newContents []T) error {
	node, ok := n.trees.NodeAt(path)
	if !ok {
		return wrapPathErr(ErrUnknownPath, "fill-bucket", path)
	}
	if !node.IsBucket() {
		return wrapPathErr(ErrFillJoint, "fill-bucket", path)
	}

	node.SetItems(append([]T(nil), newContents...))
	n.bucketPaths.removeNeedsFill(node.ID())
	n.bucketPaths.addCached(node.ID(), path)

	return nil
}

func (n *Network[T, U]) setFilters(path Path, newFilters []U) error {
	if path.IsRoot() {
		return wrapPathErr(ErrFilterRoot, "set-filters", path)
	}

	node, ok := n.trees.NodeAt(path)
	if !ok {
		return wrapPathErr(ErrUnknownPath, "set-filters", path)
	}

	node.SetFilters(append([]U(nil), newFilters...))

	if node.IsBucket() {
		n.bucketPaths.addNeedsFill(node.ID(), path)
		return nil
	}

	// Setting a joint's filters invalidates every bucket reachable from
	// it.
	return VisitDepthFirstItemsAt(node.Next(), path, func(p Path, child *Node[T, U]) error {
		if child.IsBucket() {
			n.bucketPaths.addNeedsFill(child.ID(), p)
		}
		return nil
	})
}

func (n *Network[T, U]) setWeight(path Path, w Weight) error {
	if path.IsRoot() {
		return wrapPathErr(ErrWeightRoot, "set-weight", path)
	}

	last, parent, _ := path.SplitLast()
	itemVec, _, ok := n.trees.childVecsAt(parent)
	if !ok || last < 0 || last >= itemVec.Len() {
		return wrapPathErr(ErrUnknownPath, "set-weight", path)
	}

	itemVec.SetWeight(last, w)
	return nil
}

func (n *Network[T, U]) setOrderType(path Path, kind OrderKind) error {
	if path.IsRoot() {
		n.trees.rootOrder = NewOrderState(kind)
		return nil
	}

	orderNode, ok := n.trees.orderNodeAt(path)
	if !ok {
		return wrapPathErr(ErrUnknownPath, "set-order-type", path)
	}

	orderNode.order = NewOrderState(kind)
	return nil
}

// GetBucketsNeedingFill primes the cache via a full traversal if any
// needs-fill id is uncached, then returns each needing-fill id's cached
// path. The ids themselves are not returned.
func (n *Network[T, U]) GetBucketsNeedingFill() ([]Path, error) {
	if !n.bucketPaths.allCached() {
		if err := n.refreshCache(); err != nil {
			return nil, err
		}
	}

	ids := n.bucketPaths.needsFillIDs()
	paths := make([]Path, 0, len(ids))
	for _, id := range ids {
		paths = append(paths, n.bucketPaths.cached[id])
	}
	return paths, nil
}

func (n *Network[T, U]) refreshCache() error {
	return n.trees.VisitDepthFirst(func(elem TraversalElem[T, U]) error {
		if elem.Node.IsBucket() {
			n.bucketPaths.addCached(elem.Node.ID(), elem.NodePath)
		}
		return nil
	})
}

// FindBucketPath returns the cached path for id, refreshing the cache
// via a full traversal first if needed.
func (n *Network[T, U]) FindBucketPath(id BucketID) (Path, error) {
	if path, ok := n.bucketPaths.cached[id]; ok {
		return path, nil
	}
	if err := n.refreshCache(); err != nil {
		return Path{}, err
	}
	if path, ok := n.bucketPaths.cached[id]; ok {
		return path, nil
	}
	return Path{}, fmt.Errorf("engine: find-bucket-path: id %d: %w", id, ErrUnknownBucketID)
}

// GetFilters returns the filter groups along the path from root to path
// (inclusive), skipping empty groups.
func (n *Network[T, U]) GetFilters(path Path) ([][]U, error) {
	if path.IsRoot() {
		return nil, nil
	}

	groups := make([][]U, 0, path.Len())
	for d := 1; d <= path.Len(); d++ {
		prefix := Path{indices: path.indices[:d]}
		node, ok := n.trees.NodeAt(prefix)
		if !ok {
			return nil, wrapPathErr(ErrUnknownPath, "get-filters", path)
		}
		if len(node.Filters()) > 0 {
			groups = append(groups, node.Filters())
		}
	}
	return groups, nil
}
