package engine

import (
	"errors"
	"strconv"
	"strings"
)

// ErrRemovedSelf is returned by Path.ModifyForRemoved when the path
// being adjusted is exactly the path that was removed.
var ErrRemovedSelf = errors.New("engine: path designates the removed node itself")

// Path is a root-relative sequence of child indices. The empty path
// denotes the root (the containing spigot, not a node itself).
type Path struct {
	indices []int
}

// Root returns the empty (root) path.
func Root() Path { return Path{} }

// NewPath constructs a Path from a sequence of indices, copying the
// slice so the caller's backing array can be reused.
func NewPath(indices ...int) Path {
	return Path{indices: append([]int(nil), indices...)}
}

// Len returns the depth of the path (0 for root).
func (p Path) Len() int { return len(p.indices) }

// IsRoot reports whether the path designates the root.
func (p Path) IsRoot() bool { return len(p.indices) == 0 }

// At returns the index at depth d.
func (p Path) At(d int) int { return p.indices[d] }

// Indices returns a defensive copy of the underlying index sequence.
func (p Path) Indices() []int { return append([]int(nil), p.indices...) }

// Push returns a new path with i appended.
func (p Path) Push(i int) Path {
	next := make([]int, len(p.indices)+1)
	copy(next, p.indices)
	next[len(p.indices)] = i
	return Path{indices: next}
}

// Pop returns the path with its last index removed, and ok=false if p
// is already the root.
func (p Path) Pop() (Path, bool) {
	if len(p.indices) == 0 {
		return p, false
	}
	return Path{indices: append([]int(nil), p.indices[:len(p.indices)-1]...)}, true
}

// SplitLast returns the final index and the parent path, or ok=false if
// p is the root.
func (p Path) SplitLast() (last int, parent Path, ok bool) {
	if len(p.indices) == 0 {
		return 0, Path{}, false
	}
	last = p.indices[len(p.indices)-1]
	parent = Path{indices: append([]int(nil), p.indices[:len(p.indices)-1]...)}
	return last, parent, true
}

// Equal reports whether p and other designate the same path.
func (p Path) Equal(other Path) bool {
	if len(p.indices) != len(other.indices) {
		return false
	}
	for i := range p.indices {
		if p.indices[i] != other.indices[i] {
			return false
		}
	}
	return true
}

// ModifyForRemoved rewrites p in place (returning the adjusted copy) so
// that it still designates the same node after removedPath has been
// deleted from the tree. If p equals removedPath, the node itself was
// deleted and ErrRemovedSelf is returned. Every other path is affected
// only when it shares removedPath's parent and its index at that depth
// is strictly greater than removedPath's index there, in which case
// that index is decremented by one.
func (p Path) ModifyForRemoved(removedPath Path) (Path, error) {
	if p.Equal(removedPath) {
		return p, ErrRemovedSelf
	}

	removedLast, removedParent, ok := removedPath.SplitLast()
	if !ok {
		// Removing the root is never valid; nothing to adjust.
		return p, nil
	}

	if p.Len() <= removedParent.Len() {
		return p, nil
	}

	pParent := Path{indices: p.indices[:removedParent.Len()]}
	if !pParent.Equal(removedParent) {
		return p, nil
	}

	depth := removedParent.Len()
	if p.indices[depth] > removedLast {
		adjusted := append([]int(nil), p.indices...)
		adjusted[depth]--
		return Path{indices: adjusted}, nil
	}

	return p, nil
}

// String renders the canonical textual form: "." for root, ".i.j.k"
// otherwise.
func (p Path) String() string {
	if len(p.indices) == 0 {
		return "."
	}
	var b strings.Builder
	for _, i := range p.indices {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// ParsePath parses the canonical textual form produced by String.
func ParsePath(s string) (Path, error) {
	if s == "." || s == "" {
		return Root(), nil
	}
	if s[0] != '.' {
		return Path{}, errors.New("engine: path must start with '.'")
	}
	parts := strings.Split(s[1:], ".")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return Path{}, errors.New("engine: path has empty segment")
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Path{}, errors.New("engine: path segment must be a non-negative integer")
		}
		indices = append(indices, n)
	}
	return Path{indices: indices}, nil
}
