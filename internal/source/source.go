// Package source implements the ItemSource boundary: given a bucket's
// filter set, produce the concrete items (media URLs) that fill it.
// The selection engine itself is agnostic to where items come from --
// this package supplies the concrete providers a driver wires in.
package source

import "context"

// ItemSource resolves a set of filter tokens into the items that
// satisfy all of them. Implementations may hit a catalog process, a
// filesystem, or fan out to several other sources.
type ItemSource interface {
	Lookup(ctx context.Context, filters []string) ([]string, error)
}
