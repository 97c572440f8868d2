package engine

import "testing"

func TestVisitDepthFirstOrderAndPaths(t *testing.T) {
	n := NewNetwork[string, string]()
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddJoint, Parent: Root()}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: Root()}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: NewPath(0)}))

	var visited []string
	err := n.trees.VisitDepthFirst(func(elem TraversalElem[string, string]) error {
		visited = append(visited, elem.NodePath.String())
		return nil
	})
	if err != nil {
		t.Fatalf("VisitDepthFirst: %v", err)
	}

	want := []string{".0", ".0.0", ".1"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited = %v, want %v", visited, want)
		}
	}
}

func TestVisitDepthFirstItemsAtSubtreeOnly(t *testing.T) {
	n := NewNetwork[string, string]()
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddJoint, Parent: Root()}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: NewPath(0)}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: Root()}))

	node, ok := n.trees.NodeAt(NewPath(0))
	if !ok {
		t.Fatal("NodeAt(.0): not found")
	}

	var visited []string
	err := VisitDepthFirstItemsAt(node.Next(), NewPath(0), func(p Path, child *Node[string, string]) error {
		visited = append(visited, p.String())
		return nil
	})
	if err != nil {
		t.Fatalf("VisitDepthFirstItemsAt: %v", err)
	}

	if len(visited) != 1 || visited[0] != ".0.0" {
		t.Fatalf("visited = %v, want [.0.0] (sibling .1 must not appear)", visited)
	}
}

func TestOrderNodeCloneIsIndependent(t *testing.T) {
	original := newOrderJoint(Random)
	original.children.Push(newOrderBucket(Shuffle))
	original.children.SetWeight(0, 5)

	clone := original.clone()
	clone.children.SetWeight(0, 9)

	if original.children.WeightAt(0) != 5 {
		t.Fatalf("mutating clone's child weight affected original: %d", original.children.WeightAt(0))
	}
	if clone.order == original.order {
		t.Fatal("clone shares the same *OrderState pointer as the original")
	}
}
