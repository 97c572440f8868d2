package player

// PlaylistItem mirrors the player's notion of one playlist entry. URI
// is a fully-qualified media URL; a player may expose extra fields
// (duration, title) which this package does not surface since the
// convergence controller only cares about identity and URL.
type PlaylistItem struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// PlaylistInfo is the full observed playlist, root-to-leaf in playback
// order.
type PlaylistInfo struct {
	Items []PlaylistItem `json:"items"`
}

// PlaybackStatus is the player's current playback state.
type PlaybackStatus struct {
	CurrentItemID *string `json:"currentId"`
	State         string  `json:"state"` // "playing" | "paused" | "stopped"
}
