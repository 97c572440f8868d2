package convert

// LowCommand is one primitive playlist mutation the controller asks the
// driver to issue against the player.
type LowCommand struct {
	Kind LowCommandKind
	// ID is the playlist item id a Delete or Play targets.
	ID string
	// URL is the item an Add appends.
	URL string
}

// LowCommandKind enumerates the primitive playlist mutations.
type LowCommandKind uint8

const (
	// LowAdd appends URL to the end of the observed playlist.
	LowAdd LowCommandKind = iota
	// LowDelete removes the item identified by ID.
	LowDelete
	// LowPlay starts playback at the item identified by ID.
	LowPlay
)

func (k LowCommandKind) String() string {
	switch k {
	case LowAdd:
		return "add"
	case LowDelete:
		return "delete"
	case LowPlay:
		return "play"
	default:
		return "unknown"
	}
}

// LowAction is what Next returns when the playlist has not yet
// converged: either a command to issue, or a signal that the caller's
// observation is stale and a fresh PlaylistInfo/PlaybackStatus is
// needed before the controller can make progress.
type LowAction struct {
	Command             *LowCommand
	NeedsFreshObservation bool
}

func commandAction(cmd LowCommand) LowAction {
	return LowAction{Command: &cmd}
}

var needsFreshObservation = LowAction{NeedsFreshObservation: true}
