package engine

import "testing"

func TestPathStringAndParseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"root", Root(), "."},
		{"single", NewPath(3), ".3"},
		{"nested", NewPath(1, 2, 3), ".1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			parsed, err := ParsePath(tt.want)
			if err != nil {
				t.Fatalf("ParsePath(%q): %v", tt.want, err)
			}
			if !parsed.Equal(tt.path) {
				t.Errorf("ParsePath(%q) = %v, want %v", tt.want, parsed, tt.path)
			}
		})
	}
}

func TestParsePathRejectsMalformedInput(t *testing.T) {
	for _, s := range []string{"1.2", ".1..2", ".x", ".-1"} {
		if _, err := ParsePath(s); err == nil {
			t.Errorf("ParsePath(%q): want error, got nil", s)
		}
	}
}

func TestPathSplitLastAndPop(t *testing.T) {
	p := NewPath(1, 2, 3)

	last, parent, ok := p.SplitLast()
	if !ok || last != 3 || !parent.Equal(NewPath(1, 2)) {
		t.Fatalf("SplitLast() = (%d, %v, %v), want (3, .1.2, true)", last, parent, ok)
	}

	popped, ok := p.Pop()
	if !ok || !popped.Equal(NewPath(1, 2)) {
		t.Fatalf("Pop() = (%v, %v), want (.1.2, true)", popped, ok)
	}

	if _, ok := Root().Pop(); ok {
		t.Error("Pop() on root: want ok=false")
	}
	if _, _, ok := Root().SplitLast(); ok {
		t.Error("SplitLast() on root: want ok=false")
	}
}

func TestPathModifyForRemovedSelf(t *testing.T) {
	p := NewPath(1, 2)
	if _, err := p.ModifyForRemoved(p); err != ErrRemovedSelf {
		t.Errorf("ModifyForRemoved(self) = %v, want ErrRemovedSelf", err)
	}
}

func TestPathModifyForRemovedShiftsLaterSiblings(t *testing.T) {
	// Removing .0.1 shifts a later sibling .0.2 down to .0.1.
	removed := NewPath(0, 1)
	sibling := NewPath(0, 2)

	adjusted, err := sibling.ModifyForRemoved(removed)
	if err != nil {
		t.Fatalf("ModifyForRemoved: %v", err)
	}
	if !adjusted.Equal(NewPath(0, 1)) {
		t.Errorf("adjusted = %v, want .0.1", adjusted)
	}
}

func TestPathModifyForRemovedLeavesEarlierSiblingsAlone(t *testing.T) {
	removed := NewPath(0, 2)
	sibling := NewPath(0, 1)

	adjusted, err := sibling.ModifyForRemoved(removed)
	if err != nil {
		t.Fatalf("ModifyForRemoved: %v", err)
	}
	if !adjusted.Equal(sibling) {
		t.Errorf("adjusted = %v, want unchanged %v", adjusted, sibling)
	}
}

func TestPathModifyForRemovedLeavesUnrelatedSubtreeAlone(t *testing.T) {
	removed := NewPath(0, 1)
	unrelated := NewPath(1, 0)

	adjusted, err := unrelated.ModifyForRemoved(removed)
	if err != nil {
		t.Fatalf("ModifyForRemoved: %v", err)
	}
	if !adjusted.Equal(unrelated) {
		t.Errorf("adjusted = %v, want unchanged %v", adjusted, unrelated)
	}
}
