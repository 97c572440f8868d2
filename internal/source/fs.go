package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FSSource resolves filters by treating each filter as a path segment
// joined onto Root and listing the files found there. A bucket
// filtered to ["jazz", "miles-davis"] lists Root/jazz/miles-davis.
type FSSource struct {
	Root string
}

// NewFSSource returns an FSSource rooted at root.
func NewFSSource(root string) *FSSource {
	return &FSSource{Root: root}
}

func (s *FSSource) Lookup(ctx context.Context, filters []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	segments := append([]string{s.Root}, filters...)
	dir := filepath.Join(segments...)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("source: fs: read %s: %w", dir, err)
	}

	items := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		items = append(items, filepath.Join(dir, e.Name()))
	}
	return items, nil
}
