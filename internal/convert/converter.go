package convert

// Converter is the per-instance playlist convergence state machine.
// Next is called once per tick; it never holds the playlist or
// playback status itself, only the state that must survive between
// ticks: the one-shot play command flag and the comparison-start pin.
//
// Grounded on internal/scheduler's tick-driven "decide one action, let
// the caller re-observe and call again" shape, adapted from a
// piece-request scheduler to a playlist-convergence scheduler.
type Converter struct {
	// playCommand is consumed at most once: the first tick whose
	// anchor resolves to "nothing is playing yet, but the expected
	// current item is already last in the playlist" issues Play and
	// clears this flag for good.
	playCommand bool

	// pin is the comparison start once the controller has committed to
	// one. It only ever advances (see commit), which is what keeps the
	// controller from ever proposing to delete an item at or before a
	// point it already promised not to touch.
	pin *ComparisonStart
}

// NewConverter returns a Converter armed to issue exactly one Play
// command over its lifetime, the first time one is warranted.
func NewConverter() *Converter {
	return &Converter{playCommand: true}
}

// Next runs one tick. A nil LowAction together with a nil error means
// the playlist already matches cmd; otherwise the action describes the
// single primitive command the caller should issue (or that the
// caller's observation is stale and must be refreshed) before calling
// Next again.
func (c *Converter) Next(playlist PlaylistInfo, status PlaybackStatus, cmd Command) (*LowAction, error) {
	items := playlist.Items
	currentIdx := locateCurrent(items, status.CurrentItemID)

	candidate, action := c.establish(items, currentIdx, cmd)
	if action != nil {
		return action, nil
	}
	c.commit(candidate)

	if action := c.trimHistory(items, cmd.MaxHistoryCount); action != nil {
		return action, nil
	}

	return c.converge(items, cmd)
}

// locateCurrent returns the index of the playing item, or -1 if
// nothing is playing or the playing id can no longer be found (the
// latter is treated the same as "nothing playing": the next
// observation will reflect reality once the player catches up).
func locateCurrent(items []PlaylistItem, currentID *string) int {
	if currentID == nil {
		return -1
	}
	for i, it := range items {
		if it.ID == *currentID {
			return i
		}
	}
	return -1
}

// establish computes where comparison should start from the freshly
// observed anchor, branching over where the expected current-or-past
// item turns up relative to the playlist. It
// either returns a candidate pin to fold into c.pin, or an immediate
// LowAction when the one-shot play command is still available and
// warranted. A playing item is always history, never a delete target:
// even when it matches neither the expected current-or-past item nor
// its predecessor, the pin simply moves past it with IncludeCurrent
// set, so the still-missing expected item gets added ahead of it
// rather than the playing item getting deleted out from under it.
func (c *Converter) establish(items []PlaylistItem, currentIdx int, cmd Command) (ComparisonStart, *LowAction) {
	if currentIdx >= 0 {
		if items[currentIdx].URL == cmd.CurrentOrPastURL {
			return ComparisonStart{Index: currentIdx + 1, IncludeCurrent: false}, nil
		}
		if currentIdx > 0 && items[currentIdx-1].URL == cmd.CurrentOrPastURL {
			return ComparisonStart{Index: currentIdx, IncludeCurrent: false}, nil
		}
		return ComparisonStart{Index: currentIdx + 1, IncludeCurrent: true}, nil
	}

	if last := len(items) - 1; last >= 0 && items[last].URL == cmd.CurrentOrPastURL {
		if c.playCommand {
			c.playCommand = false
			action := commandAction(LowCommand{Kind: LowPlay, ID: items[last].ID})
			return ComparisonStart{}, &action
		}
		return ComparisonStart{Index: len(items), IncludeCurrent: false}, nil
	}

	return ComparisonStart{Index: len(items), IncludeCurrent: true}, nil
}

// commit folds candidate into the pin, keeping whichever places the
// comparison start further along the playlist, so the pin only ever
// advances: a later tick observing a transient regression -- the
// player momentarily reporting an earlier current item, say -- cannot
// walk the pin backwards into territory already promised safe.
func (c *Converter) commit(candidate ComparisonStart) {
	if c.pin == nil || candidate.Index > c.pin.Index {
		pin := candidate
		c.pin = &pin
		return
	}
	if candidate.Index == c.pin.Index && candidate.IncludeCurrent {
		c.pin.IncludeCurrent = true
	}
}

// trimHistory enforces the history-window edge case: items strictly
// before the pin beyond MaxHistoryCount are deleted oldest-first, one
// per tick, same as every other mutation this controller issues.
// Deleting items[0] shifts every surviving index down by one, so the
// pin -- which points past it -- is decremented to match; otherwise
// the pin would drift out of step with the playlist it is meant to
// describe on the very next tick.
func (c *Converter) trimHistory(items []PlaylistItem, maxHistory uint32) *LowAction {
	before := c.pin.Index
	if before <= int(maxHistory) {
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	c.pin.Index--
	action := commandAction(LowCommand{Kind: LowDelete, ID: items[0].ID})
	return &action
}

// converge matches items from the pin onward against cmd's expected
// sequence as a subsequence: it walks the tail looking for each
// expected URL in order, tolerating stale items interspersed among
// them. Anything expected but not yet found gets added before anything
// stale gets trimmed -- appending the missing items first, then
// deleting surplus oldest-first, is what keeps a still-wanted item
// from ever being removed just because something unwanted sits ahead
// of it in the tail.
func (c *Converter) converge(items []PlaylistItem, cmd Command) (*LowAction, error) {
	expected := expectedURLs(cmd, c.pin.IncludeCurrent)
	tail := items[min(c.pin.Index, len(items)):]

	ei := 0
	firstStale := -1
	lastMatched := -1
	for ti := 0; ti < len(tail) && ei < len(expected); ti++ {
		if tail[ti].URL == expected[ei] {
			ei++
			lastMatched = ti
			continue
		}
		if firstStale == -1 {
			firstStale = ti
		}
	}

	if ei < len(expected) {
		action := commandAction(LowCommand{Kind: LowAdd, URL: expected[ei]})
		return &action, nil
	}
	if firstStale != -1 {
		action := commandAction(LowCommand{Kind: LowDelete, ID: tail[firstStale].ID})
		return &action, nil
	}
	if lastMatched+1 < len(tail) {
		action := commandAction(LowCommand{Kind: LowDelete, ID: tail[lastMatched+1].ID})
		return &action, nil
	}
	return nil, nil
}

func expectedURLs(cmd Command, includeCurrent bool) []string {
	if !includeCurrent {
		return cmd.NextURLs
	}
	urls := make([]string, 0, len(cmd.NextURLs)+1)
	urls = append(urls, cmd.CurrentOrPastURL)
	return append(urls, cmd.NextURLs...)
}
