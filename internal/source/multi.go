package source

import (
	"context"
	"fmt"
)

// MultiSource fans a Lookup call out to several underlying sources and
// concatenates their results, for buckets whose filters span more than
// one provider's vocabulary (e.g. a shell-backed music catalog plus a
// filesystem-backed podcast archive).
type MultiSource struct {
	sources []ItemSource
}

// NewMultiSource combines sources, queried in the given order.
func NewMultiSource(sources ...ItemSource) *MultiSource {
	return &MultiSource{sources: sources}
}

func (m *MultiSource) Lookup(ctx context.Context, filters []string) ([]string, error) {
	var items []string
	for i, s := range m.sources {
		found, err := s.Lookup(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("source: multi: source %d: %w", i, err)
		}
		items = append(items, found...)
	}
	return items, nil
}
