package engine

// BucketID stably identifies a bucket across its lifetime. Ids are
// never reused; the Network's counter only increases.
type BucketID uint64

// Node is the item-tree node type: either a Joint (children, no items)
// or a Bucket (items, stable id, no children).
type Node[T any, U any] struct {
	isBucket bool

	// Joint fields.
	next ChildVec[*Node[T, U]]

	// Bucket fields.
	id    BucketID
	items []T

	filters []U
}

// NewJoint returns a fresh, empty joint node.
func NewJoint[T any, U any]() *Node[T, U] {
	return &Node[T, U]{isBucket: false}
}

// NewBucket returns a fresh, empty bucket node with the given id.
func NewBucket[T any, U any](id BucketID) *Node[T, U] {
	return &Node[T, U]{isBucket: true, id: id}
}

// IsBucket reports whether this node is a bucket (leaf).
func (n *Node[T, U]) IsBucket() bool { return n.isBucket }

// ID returns the bucket id; only valid when IsBucket() is true.
func (n *Node[T, U]) ID() BucketID { return n.id }

// Items returns the bucket's items; only valid when IsBucket() is true.
func (n *Node[T, U]) Items() []T { return n.items }

// SetItems replaces the bucket's items.
func (n *Node[T, U]) SetItems(items []T) { n.items = items }

// Filters returns the node's own filter group (not concatenated with
// ancestors).
func (n *Node[T, U]) Filters() []U { return n.filters }

// SetFilters replaces the node's filter group.
func (n *Node[T, U]) SetFilters(f []U) { n.filters = f }

// Next returns the joint's child vector; only valid when IsBucket() is
// false.
func (n *Node[T, U]) Next() *ChildVec[*Node[T, U]] { return &n.next }

// orderNode is the parallel order-tree node: holds only the ordering
// discipline state, kept bit-for-bit topologically identical to the
// item tree.
type orderNode struct {
	order    *OrderState
	children ChildVec[*orderNode]
	isBucket bool
}

func newOrderJoint(kind OrderKind) *orderNode {
	return &orderNode{order: NewOrderState(kind), isBucket: false}
}

func newOrderBucket(kind OrderKind) *orderNode {
	return &orderNode{order: NewOrderState(kind), isBucket: true}
}

// clone deep-copies an order subtree, used by peek to clone the whole
// order tree without touching the item tree.
func (o *orderNode) clone() *orderNode {
	c := &orderNode{order: o.order.Clone(), isBucket: o.isBucket}
	for i := 0; i < o.children.Len(); i++ {
		c.children.Push(o.children.At(i).clone())
		c.children.SetWeight(i, o.children.WeightAt(i))
	}
	return c
}

// Trees bundles the item tree and its parallel order tree. Root is
// represented as a ChildVec, not a Node: the containing spigot has no
// weight or filters of its own, only children.
type Trees[T any, U any] struct {
	itemRoot  ChildVec[*Node[T, U]]
	orderRoot ChildVec[*orderNode]
	rootOrder *OrderState
}

// NewTrees returns an empty Trees (root-only network).
func NewTrees[T any, U any]() *Trees[T, U] {
	return &Trees[T, U]{rootOrder: NewOrderState(InOrder)}
}

// TraversalElem is yielded once per node below the root during a
// depth-first walk.
type TraversalElem[T any, U any] struct {
	NodePath      Path
	ParentWeights Weights
	NodeWeight    Weight
	Node          *Node[T, U]
	Order         *orderNode
}

type stackFrame[T any, U any] struct {
	path     Path
	itemVec  *ChildVec[*Node[T, U]]
	orderVec *ChildVec[*orderNode]
	index    int
}

// VisitDepthFirst performs an iterative (explicit-stack) depth-first
// traversal of both trees in lockstep, calling f for every node below
// the root. It asserts at every step that the two trees agree on child
// counts, following the explicit-loop-over-recursion style used
// elsewhere in this codebase's selection walks.
func (t *Trees[T, U]) VisitDepthFirst(f func(TraversalElem[T, U]) error) error {
	stack := []*stackFrame[T, U]{
		{path: Root(), itemVec: &t.itemRoot, orderVec: &t.orderRoot, index: 0},
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.itemVec.Len() != top.orderVec.Len() {
			panic("engine: item tree and order tree disagree on child count at " + top.path.String())
		}

		if top.index >= top.itemVec.Len() {
			stack = stack[:len(stack)-1]
			continue
		}

		i := top.index
		top.index++

		childPath := top.path.Push(i)
		itemChild := top.itemVec.At(i)
		orderChild := top.orderVec.At(i)

		parentWeights, _ := top.itemVec.Weights()
		elem := TraversalElem[T, U]{
			NodePath:      childPath,
			ParentWeights: parentWeights,
			NodeWeight:    top.itemVec.WeightAt(i),
			Node:          itemChild,
			Order:         orderChild,
		}
		if err := f(elem); err != nil {
			return err
		}

		if !itemChild.IsBucket() {
			stack = append(stack, &stackFrame[T, U]{
				path:     childPath,
				itemVec:  itemChild.Next(),
				orderVec: &orderChild.children,
				index:    0,
			})
		}
	}

	return nil
}

// VisitDepthFirstItemsAt traverses an arbitrary subtree of the item
// tree alone (no order tree needed), used when invalidating buckets
// after a filter change.
func VisitDepthFirstItemsAt[T any, U any](root *ChildVec[*Node[T, U]], basePath Path, f func(Path, *Node[T, U]) error) error {
	type frame struct {
		path  Path
		vec   *ChildVec[*Node[T, U]]
		index int
	}
	stack := []*frame{{path: basePath, vec: root, index: 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.index >= top.vec.Len() {
			stack = stack[:len(stack)-1]
			continue
		}
		i := top.index
		top.index++

		childPath := top.path.Push(i)
		child := top.vec.At(i)

		if err := f(childPath, child); err != nil {
			return err
		}

		if !child.IsBucket() {
			stack = append(stack, &frame{path: childPath, vec: child.Next(), index: 0})
		}
	}
	return nil
}

// navigate locates the item node and order node at path, along with
// the ChildVec each lives in and its index there. ok=false for an
// unknown path; navigating the root returns ok=true with the root
// ChildVecs and index -1.
func (t *Trees[T, U]) navigate(path Path) (itemVec *ChildVec[*Node[T, U]], orderVec *ChildVec[*orderNode], index int, ok bool) {
	itemVec = &t.itemRoot
	orderVec = &t.orderRoot
	index = -1

	for d := 0; d < path.Len(); d++ {
		i := path.At(d)
		if i < 0 || i >= itemVec.Len() || i >= orderVec.Len() {
			return nil, nil, 0, false
		}
		index = i
		if d == path.Len()-1 {
			return itemVec, orderVec, index, true
		}
		itemChild := itemVec.At(i)
		if itemChild.IsBucket() {
			return nil, nil, 0, false
		}
		orderChild := orderVec.At(i)
		itemVec = itemChild.Next()
		orderVec = &orderChild.children
	}

	return itemVec, orderVec, index, true
}

// NodeAt returns the item node at path, or ok=false if unknown or root.
func (t *Trees[T, U]) NodeAt(path Path) (*Node[T, U], bool) {
	if path.IsRoot() {
		return nil, false
	}
	vec, _, idx, ok := t.navigate(path)
	if !ok {
		return nil, false
	}
	return vec.At(idx), true
}

// orderNodeAt returns the order node at path, or ok=false if unknown or
// root.
func (t *Trees[T, U]) orderNodeAt(path Path) (*orderNode, bool) {
	if path.IsRoot() {
		return nil, false
	}
	_, orderVec, idx, ok := t.navigate(path)
	if !ok {
		return nil, false
	}
	return orderVec.At(idx), true
}

// childVecsAt returns the ChildVecs a joint (or root) owns, for adding
// new children under path.
func (t *Trees[T, U]) childVecsAt(path Path) (*ChildVec[*Node[T, U]], *ChildVec[*orderNode], bool) {
	if path.IsRoot() {
		return &t.itemRoot, &t.orderRoot, true
	}
	node, ok := t.NodeAt(path)
	if !ok || node.IsBucket() {
		return nil, nil, false
	}
	orderNode, ok := t.orderNodeAt(path)
	if !ok {
		return nil, nil, false
	}
	return node.Next(), &orderNode.children, true
}
