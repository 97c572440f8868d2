package engine

// SerializeCollect visits the network depth-first and emits, per node,
// the sequence of ModifyCmds that recreate it. SetFilters and
// FillBucket commands are always emitted here; higher layers that
// re-populate filters/items from an ItemSource on load may choose to
// drop them by convention before persisting.
func (n *Network[T, U]) SerializeCollect() []ModifyCmd[T, U] {
	var cmds []ModifyCmd[T, U]

	if n.trees.rootOrder.Kind != InOrder {
		cmds = append(cmds, ModifyCmd[T, U]{
			Kind: CmdSetOrderType, Path: Root(), OrderKind: n.trees.rootOrder.Kind,
		})
	}

	// VisitDepthFirst walks in creation order only if children were
	// appended in that order and never reordered -- true for this
	// design, since ChildVec.Push always appends and Remove never
	// reorders survivors relative to each other.
	_ = n.trees.VisitDepthFirst(func(elem TraversalElem[T, U]) error {
		last, parent, _ := elem.NodePath.SplitLast()
		_ = last

		if elem.Node.IsBucket() {
			cmds = append(cmds, ModifyCmd[T, U]{Kind: CmdAddBucket, Parent: parent})
		} else {
			cmds = append(cmds, ModifyCmd[T, U]{Kind: CmdAddJoint, Parent: parent})
		}

		if elem.Order.order.Kind != InOrder {
			cmds = append(cmds, ModifyCmd[T, U]{
				Kind: CmdSetOrderType, Path: elem.NodePath, OrderKind: elem.Order.order.Kind,
			})
		}

		if elem.NodeWeight != 1 || !elem.ParentWeights.IsUnity() {
			cmds = append(cmds, ModifyCmd[T, U]{
				Kind: CmdSetWeight, Path: elem.NodePath, Weight: elem.NodeWeight,
			})
		}

		if len(elem.Node.Filters()) > 0 {
			cmds = append(cmds, ModifyCmd[T, U]{
				Kind: CmdSetFilters, Path: elem.NodePath, NewFilters: elem.Node.Filters(),
			})
		}

		if elem.Node.IsBucket() && len(elem.Node.Items()) > 0 {
			cmds = append(cmds, ModifyCmd[T, U]{
				Kind: CmdFillBucket, Path: elem.NodePath, NewContents: elem.Node.Items(),
			})
		}

		return nil
	})

	return cmds
}

// FromCommands constructs an empty network and replays each command via
// Modify, propagating the first error encountered.
func FromCommands[T any, U any](cmds []ModifyCmd[T, U]) (*Network[T, U], error) {
	n := NewNetwork[T, U]()
	for _, cmd := range cmds {
		if err := n.Modify(cmd); err != nil {
			return nil, err
		}
	}
	return n, nil
}
