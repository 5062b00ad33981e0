package entity

import "time"

// User is a registered account. Accounts are optional: guests play with a
// bare player id and only registered users get persisted this way.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// MatchRecord is one finished (or conceded) match archived for history.
type MatchRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	TargetWord     string    `json:"target_word"`
	GuessCount     int       `json:"guess_count"`
	FinalRank      int       `json:"final_rank"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	Completed      bool      `json:"completed"`
	PlayedAt       time.Time `json:"played_at"`
}
