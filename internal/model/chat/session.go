package chat

import "time"

// Session captures a transient in-memory conversation keyed by a
// client-supplied identifier. CreatedAt is set once and survives history
// clears.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionSummary is the listing view of a session.
type SessionSummary struct {
	SessionID    string `json:"session_id"`
	MessageCount int    `json:"message_count"`
}
