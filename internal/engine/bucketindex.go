package engine

// bucketPathsMap is the bucket-id <-> path index. It tracks which
// buckets still need their contents filled and caches each bucket's
// current path so find_bucket_path doesn't require a tree walk on
// every call. Grounded directly on
// internal/piece/availability_bucket.go's id->position cache-with-
// fixups discipline (pos[]/swap-remove) generalized from "piece index
// inside an availability bucket" to "bucket id's current path".
type bucketPathsMap struct {
	needsFill  map[BucketID]struct{}
	cached     map[BucketID]Path
	nextID     BucketID
}

func newBucketPathsMap() *bucketPathsMap {
	return &bucketPathsMap{
		needsFill: make(map[BucketID]struct{}),
		cached:    make(map[BucketID]Path),
		nextID:    0,
	}
}

// allocID returns a fresh, monotonically increasing bucket id.
func (m *bucketPathsMap) allocID() BucketID {
	id := m.nextID
	m.nextID++
	return id
}

// addNeedsFill marks id as needing fill and (re)caches its path.
func (m *bucketPathsMap) addNeedsFill(id BucketID, path Path) {
	m.needsFill[id] = struct{}{}
	m.cached[id] = path
}

// removeNeedsFill clears the needs-fill flag on id, called when the
// bucket is filled.
func (m *bucketPathsMap) removeNeedsFill(id BucketID) {
	delete(m.needsFill, id)
}

// addCached refreshes the cached path for id if it differs from what's
// stored.
func (m *bucketPathsMap) addCached(id BucketID, path Path) {
	if existing, ok := m.cached[id]; !ok || !existing.Equal(path) {
		m.cached[id] = path
	}
}

// updateForRemovedPath drops removedID from both structures (if it was
// the removed node), then rewrites every remaining cached path via
// Path.ModifyForRemoved, asserting none of them equals removedPath --
// that equality would indicate a missing earlier cleanup.
func (m *bucketPathsMap) updateForRemovedPath(removedPath Path, removedID BucketID) {
	delete(m.needsFill, removedID)
	delete(m.cached, removedID)

	for id, path := range m.cached {
		if path.Equal(removedPath) {
			panic("engine: bucket-path cache still holds the removed path for a live id " + id.string())
		}
		adjusted, err := path.ModifyForRemoved(removedPath)
		if err == nil {
			m.cached[id] = adjusted
		}
	}
}

// needsFillIDs returns a defensive copy of the ids currently marked as
// needing fill.
func (m *bucketPathsMap) needsFillIDs() []BucketID {
	ids := make([]BucketID, 0, len(m.needsFill))
	for id := range m.needsFill {
		ids = append(ids, id)
	}
	return ids
}

// allCached reports whether every id in needsFill has a cached path; if
// not, the caller must run a full traversal to repopulate the cache
// before enumerating.
func (m *bucketPathsMap) allCached() bool {
	for id := range m.needsFill {
		if _, ok := m.cached[id]; !ok {
			return false
		}
	}
	return true
}

func (id BucketID) string() string {
	// Small helper kept local to this file; avoids importing strconv
	// just for a panic message.
	if id == 0 {
		return "0"
	}
	digits := make([]byte, 0, 20)
	n := uint64(id)
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
