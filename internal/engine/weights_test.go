package engine

import (
	"testing"

	"github.com/prxssh/mediactl/pkg/rng"
)

func TestParseOrderKindRoundTrip(t *testing.T) {
	for _, kind := range []OrderKind{InOrder, Random, Shuffle} {
		parsed, err := ParseOrderKind(kind.String())
		if err != nil {
			t.Fatalf("ParseOrderKind(%q): %v", kind.String(), err)
		}
		if parsed != kind {
			t.Errorf("ParseOrderKind(%q) = %v, want %v", kind.String(), parsed, kind)
		}
	}
}

func TestParseOrderKindRejectsUnknown(t *testing.T) {
	if _, err := ParseOrderKind("bogus"); err == nil {
		t.Error("ParseOrderKind(bogus): want error, got nil")
	}
}

func TestNewWeightsRejectsAllZero(t *testing.T) {
	if _, ok := NewWeights([]Weight{0, 0, 0}); ok {
		t.Error("NewWeights(all zero): want ok=false")
	}
	if _, ok := NewWeights([]Weight{0, 1, 0}); !ok {
		t.Error("NewWeights(one positive): want ok=true")
	}
}

func TestEqualWeightsIsUnity(t *testing.T) {
	w := EqualWeights(3)
	if !w.IsUnity() {
		t.Error("EqualWeights: want IsUnity() true")
	}
	if w.Len() != 3 || w.GetMaxIndex() != 2 {
		t.Errorf("Len/GetMaxIndex = %d/%d, want 3/2", w.Len(), w.GetMaxIndex())
	}
}

func TestOrderStateInOrderCyclesByWeight(t *testing.T) {
	s := NewOrderState(InOrder)
	w, ok := NewWeights([]Weight{2, 1})
	if !ok {
		t.Fatal("NewWeights: want ok")
	}

	var got []int
	for i := 0; i < 6; i++ {
		idx, err := s.Next(rng.CryptoSource{}, w)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, idx)
	}

	want := []int{0, 0, 1, 0, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("draws = %v, want %v", got, want)
		}
	}
}

func TestOrderStateInOrderSkipsZeroWeightEntries(t *testing.T) {
	s := NewOrderState(InOrder)
	w, ok := NewWeights([]Weight{0, 1, 0})
	if !ok {
		t.Fatal("NewWeights: want ok")
	}

	for i := 0; i < 4; i++ {
		idx, err := s.Next(rng.CryptoSource{}, w)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if idx != 1 {
			t.Fatalf("draw %d = %d, want 1 (only positive-weight index)", i, idx)
		}
	}
}

func TestOrderStateShuffleExhaustsEachIndexOncePerRound(t *testing.T) {
	s := NewOrderState(Shuffle)
	w, ok := NewWeights([]Weight{1, 1, 1})
	if !ok {
		t.Fatal("NewWeights: want ok")
	}
	src := rng.NewMathSource(1, 2)

	seen := map[int]int{}
	for i := 0; i < 6; i++ {
		idx, err := s.Next(src, w)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		seen[idx]++
	}

	for i := 0; i < 3; i++ {
		if seen[i] != 2 {
			t.Fatalf("index %d drawn %d times over two rounds, want 2", i, seen[i])
		}
	}
}

func TestOrderStateRandomStaysWithinRange(t *testing.T) {
	s := NewOrderState(Random)
	w, ok := NewWeights([]Weight{1, 5, 2})
	if !ok {
		t.Fatal("NewWeights: want ok")
	}
	src := rng.NewMathSource(7, 9)

	for i := 0; i < 50; i++ {
		idx, err := s.Next(src, w)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if idx < 0 || idx > w.GetMaxIndex() {
			t.Fatalf("draw %d out of range", idx)
		}
	}
}
