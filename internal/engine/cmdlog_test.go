package engine

import "testing"

func TestSerializeCollectFromCommandsRoundTrip(t *testing.T) {
	n := NewNetwork[string, string]()
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddJoint, Parent: Root()}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: NewPath(0)}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdFillBucket, Path: NewPath(0, 0), NewContents: []string{"a", "b"}}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdSetFilters, Path: NewPath(0, 0), NewFilters: []string{"genre:jazz"}}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdSetWeight, Path: NewPath(0), Weight: 3}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdSetOrderType, Path: NewPath(0, 0), OrderKind: Shuffle}))

	cmds := n.SerializeCollect()
	if len(cmds) == 0 {
		t.Fatal("SerializeCollect: want at least one command")
	}

	replayed, err := FromCommands(cmds)
	if err != nil {
		t.Fatalf("FromCommands: %v", err)
	}

	node, ok := replayed.trees.NodeAt(NewPath(0, 0))
	if !ok {
		t.Fatal("replayed tree: .0.0 not found")
	}
	if len(node.Items()) != 2 || node.Items()[0] != "a" || node.Items()[1] != "b" {
		t.Fatalf("replayed items = %v, want [a b]", node.Items())
	}
	if len(node.Filters()) != 1 || node.Filters()[0] != "genre:jazz" {
		t.Fatalf("replayed filters = %v, want [genre:jazz]", node.Filters())
	}

	orderNode, ok := replayed.trees.orderNodeAt(NewPath(0, 0))
	if !ok || orderNode.order.Kind != Shuffle {
		t.Fatalf("replayed order kind = %+v, want Shuffle", orderNode)
	}

	itemVec, _, _, ok := replayed.trees.navigate(NewPath(0))
	if !ok {
		t.Fatal("replayed navigate .0: not found")
	}
	if itemVec.WeightAt(0) != 3 {
		t.Fatalf("replayed weight at .0 = %d, want 3", itemVec.WeightAt(0))
	}
}

func TestSerializeCollectOmitsDefaultOrderType(t *testing.T) {
	n := NewNetwork[string, string]()
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: Root()}))

	cmds := n.SerializeCollect()
	for _, cmd := range cmds {
		if cmd.Kind == CmdSetOrderType {
			t.Fatalf("unexpected CmdSetOrderType for a node left at the default InOrder kind: %+v", cmd)
		}
	}
}
