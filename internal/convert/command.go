// Package convert implements the playlist convergence controller: a
// cooperatively-scheduled state machine that drives an observed player
// playlist towards a desired ordered sequence of item URLs, one
// primitive command per tick.
package convert

import (
	"errors"
	"fmt"
)

// ErrZeroMaxHistoryCount reports that a Command was built with
// MaxHistoryCount 0. The field must be nonzero: trimHistory compares
// against it with <=, so a zero would trim history far more
// aggressively than any caller intends.
var ErrZeroMaxHistoryCount = errors.New("convert: MaxHistoryCount must be nonzero")

// Command is the target a Converter works towards. CurrentOrPastURL
// must be what is currently playing or, if nothing is playing yet, the
// immediately preceding item; NextURLs is the ordered sequence that
// should follow it. MaxHistoryCount bounds how many items before the
// comparison start are kept as history and must be nonzero; build a
// Command with NewCommand rather than a struct literal to get that
// checked.
type Command struct {
	CurrentOrPastURL string
	NextURLs         []string
	MaxHistoryCount  uint32
}

// NewCommand builds a Command, rejecting a zero maxHistoryCount the
// way the original's NonZeroU32 type would have at construction.
func NewCommand(currentOrPastURL string, nextURLs []string, maxHistoryCount uint32) (Command, error) {
	if maxHistoryCount == 0 {
		return Command{}, fmt.Errorf("convert: new command: %w", ErrZeroMaxHistoryCount)
	}
	return Command{
		CurrentOrPastURL: currentOrPastURL,
		NextURLs:         nextURLs,
		MaxHistoryCount:  maxHistoryCount,
	}, nil
}

// PlaylistItem is one entry in the player's observed playlist.
type PlaylistItem struct {
	ID  string
	URL string
}

// PlaylistInfo is the player's observed, ordered playlist.
type PlaylistInfo struct {
	Items []PlaylistItem
}

// PlaybackStatus carries the currently-playing item id, or nil if
// nothing is playing. Grounded on the player's status payload, where
// VLC represents the numeric playlist item id as a string in JSON; this
// package treats ids uniformly as strings.
type PlaybackStatus struct {
	CurrentItemID *string
}

// ComparisonStart identifies the index in the playlist at or after
// which the controller compares against NextURLs. IncludeCurrent means
// CurrentOrPastURL itself must be matched/added at Index before
// NextURLs.
type ComparisonStart struct {
	Index          int
	IncludeCurrent bool
}
