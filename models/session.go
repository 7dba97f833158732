package models

import "time"

// Attempt is one completed practice round. Immutable once appended to a
// session's history.
type Attempt struct {
	Score     string    `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// RoundResult is the outcome of one evaluation round as returned to the
// client. The most recent one is the only "active" result for a session.
type RoundResult struct {
	Score         string `json:"score"`
	Feedback      string `json:"feedback"`
	TargetMessage string `json:"targetMessage"`
	Round         int    `json:"round"`
	Duplicate     bool   `json:"duplicate"`
	Saved         bool   `json:"saved"`
}

// Session holds the per-user practice state. History is append-only and
// ordered by insertion; AudioRound forces the client to discard the
// previous recorder widget when a new round starts.
type Session struct {
	ID            string       `json:"sessionId"`
	History       []Attempt    `json:"history"`
	AudioRound    int          `json:"audioRound"`
	LastSignature string       `json:"-"`
	LastResult    *RoundResult `json:"-"`
	CreatedAt     time.Time    `json:"-"`
	LastActivity  time.Time    `json:"-"`
}
