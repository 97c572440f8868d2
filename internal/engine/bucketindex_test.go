package engine

import "testing"

func TestBucketPathsMapAllocIDIsMonotonic(t *testing.T) {
	m := newBucketPathsMap()
	a := m.allocID()
	b := m.allocID()
	c := m.allocID()
	if !(a < b && b < c) {
		t.Fatalf("ids not monotonic: %d, %d, %d", a, b, c)
	}
}

func TestBucketPathsMapNeedsFillLifecycle(t *testing.T) {
	m := newBucketPathsMap()
	id := m.allocID()
	m.addNeedsFill(id, NewPath(0))

	if !m.allCached() {
		t.Fatal("allCached: want true right after addNeedsFill")
	}
	ids := m.needsFillIDs()
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("needsFillIDs = %v, want [%d]", ids, id)
	}

	m.removeNeedsFill(id)
	if len(m.needsFillIDs()) != 0 {
		t.Fatal("needsFillIDs after removeNeedsFill: want empty")
	}
}

func TestBucketPathsMapUpdateForRemovedShiftsSurvivors(t *testing.T) {
	m := newBucketPathsMap()
	idA := m.allocID()
	idB := m.allocID()
	m.addCached(idA, NewPath(0))
	m.addCached(idB, NewPath(1))

	m.updateForRemovedPath(NewPath(0), idA)

	if _, ok := m.cached[idA]; ok {
		t.Fatal("cached still holds removed id")
	}
	shifted, ok := m.cached[idB]
	if !ok || !shifted.Equal(NewPath(0)) {
		t.Fatalf("survivor path = %v, ok=%v, want .0", shifted, ok)
	}
}

func TestBucketPathsMapAllCachedFalseWhenMissing(t *testing.T) {
	m := newBucketPathsMap()
	m.needsFill[BucketID(99)] = struct{}{}
	if m.allCached() {
		t.Fatal("allCached: want false when a needs-fill id has no cached path")
	}
}
