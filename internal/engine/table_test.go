package engine

import "testing"

func buildThreeBucketNetwork(t *testing.T) *Network[string, string] {
	t.Helper()
	n := NewNetwork[string, string]()
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: Root()}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: Root()}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: Root()}))
	return n
}

func TestViewTableUnboundedShowsEveryTopLevelBucket(t *testing.T) {
	n := buildThreeBucketNetwork(t)
	view, err := n.ViewTable(ViewParams{})
	if err != nil {
		t.Fatalf("ViewTable: %v", err)
	}
	if len(view.Rows) != 1 || len(view.Rows[0].Cells) != 3 {
		t.Fatalf("Rows = %+v, want one row of 3 cells", view.Rows)
	}
	for i, cell := range view.Rows[0].Cells {
		if cell.Kind != CellNode || cell.Position != i {
			t.Fatalf("cell %d = %+v, want CellNode at position %d", i, cell, i)
		}
	}
}

func TestViewTableMaxWidthInsertsContinuation(t *testing.T) {
	n := buildThreeBucketNetwork(t)
	view, err := n.ViewTable(ViewParams{MaxWidth: 2})
	if err != nil {
		t.Fatalf("ViewTable: %v", err)
	}
	cells := view.Rows[0].Cells
	if len(cells) != 3 {
		t.Fatalf("cells = %+v, want 2 node cells plus 1 continuation", cells)
	}
	if cells[0].Kind != CellNode || cells[1].Kind != CellNode {
		t.Fatalf("cells[0:2] = %+v, want CellNode", cells[:2])
	}
	if cells[2].Kind != CellContinuation || cells[2].DisplayWidth != 0 {
		t.Fatalf("cells[2] = %+v, want a zero-width CellContinuation", cells[2])
	}
}

func TestViewTableMaxDepthAbbreviatesJoints(t *testing.T) {
	n := NewNetwork[string, string]()
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddJoint, Parent: Root()}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: NewPath(0)}))

	view, err := n.ViewTable(ViewParams{MaxDepth: 1})
	if err != nil {
		t.Fatalf("ViewTable: %v", err)
	}
	if len(view.Rows) != 1 {
		t.Fatalf("Rows = %+v, want exactly one row (depth-1 abbreviated the joint)", view.Rows)
	}
	if !view.Rows[0].Cells[0].Abbreviated {
		t.Fatalf("cell = %+v, want Abbreviated=true", view.Rows[0].Cells[0])
	}
}

func TestViewTableRejectsNegativeDimensions(t *testing.T) {
	n := buildThreeBucketNetwork(t)
	if _, err := n.ViewTable(ViewParams{MaxDepth: -1}); err != ErrExcessiveViewDimensions {
		t.Fatalf("ViewTable(MaxDepth=-1): err = %v, want ErrExcessiveViewDimensions", err)
	}
}
