package entity

// Player binds a browser session to its current match.
type Player struct {
	ID      string `json:"id"`
	MatchID string `json:"match_id,omitempty"`
}
