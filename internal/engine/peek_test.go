package engine

import (
	"testing"

	"github.com/prxssh/mediactl/pkg/rng"
)

func TestPeekReturnsRequestedCountWithoutMutatingLiveState(t *testing.T) {
	n := NewNetwork[string, string]()
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: Root()}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdFillBucket, Path: NewPath(0), NewContents: []string{"a", "b", "c"}}))

	src := rng.NewMathSource(1, 2)
	peeked, err := n.Peek(src, 5)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if len(peeked.Items()) != 5 {
		t.Fatalf("Items() = %v, want 5 items", peeked.Items())
	}
	if len(peeked.SourceBuckets()) != 5 {
		t.Fatalf("SourceBuckets() len = %d, want 5", len(peeked.SourceBuckets()))
	}
	for _, id := range peeked.SourceBuckets() {
		if id != BucketID(0) {
			t.Fatalf("SourceBuckets() = %v, want every draw from bucket 0", peeked.SourceBuckets())
		}
	}

	// The live order state must be untouched until FinalizePeeked runs:
	// peeking again from the same starting point reproduces the same
	// first item.
	again, err := n.Peek(src, 1)
	if err != nil {
		t.Fatalf("second Peek: %v", err)
	}
	if again.Items()[0] != peeked.Items()[0] {
		t.Fatalf("second Peek first item = %v, want %v (live order state untouched)", again.Items()[0], peeked.Items()[0])
	}
}

func TestPeekExhaustsEffortBudgetOnUnfillableBucket(t *testing.T) {
	n := NewNetwork[string, string]()
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: Root()}))
	// Left unfilled: every walk hits an empty bucket and yields nothing.

	src := rng.NewMathSource(1, 2)
	peeked, err := n.peekWithBudget(src, 10, 16)
	if err != nil {
		t.Fatalf("peekWithBudget: %v", err)
	}
	if len(peeked.Items()) != 0 {
		t.Fatalf("Items() = %v, want none from an empty bucket", peeked.Items())
	}
	if peeked.GetEffortCount() != 16 {
		t.Fatalf("GetEffortCount() = %d, want the full 16-unit budget spent", peeked.GetEffortCount())
	}
}

func TestFinalizePeekedInstallsAdvancedOrderState(t *testing.T) {
	n := NewNetwork[string, string]()
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: Root()}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdAddBucket, Parent: Root()}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdFillBucket, Path: NewPath(0), NewContents: []string{"a"}}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdFillBucket, Path: NewPath(1), NewContents: []string{"b"}}))
	must(t, n.Modify(ModifyCmd[string, string]{Kind: CmdSetOrderType, Path: Root(), OrderKind: InOrder}))

	src := rng.NewMathSource(1, 2)
	peeked, err := n.Peek(src, 1)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if peeked.Items()[0] != "a" {
		t.Fatalf("first peeked item = %v, want a (InOrder starts at index 0)", peeked.Items())
	}

	n.FinalizePeeked(peeked.AcceptIntoInner())

	next, err := n.Peek(src, 1)
	if err != nil {
		t.Fatalf("Peek after finalize: %v", err)
	}
	if next.Items()[0] != "b" {
		t.Fatalf("next peeked item after finalize = %v, want b (InOrder advanced past index 0)", next.Items())
	}
}
