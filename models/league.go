package models

import "time"

// LeagueBlock is a round-robin group whose top finisher seeds the finals
// bracket. WinnerPlayerID is either derived from standings or set by an
// admin override.
type LeagueBlock struct {
	ID             int       `json:"id" db:"id"`
	TournamentID   int       `json:"tournament_id" db:"tournament_id"`
	Name           string    `json:"name" db:"name"`
	WinnerPlayerID *int      `json:"winner_player_id,omitempty" db:"winner_player_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// LeagueMatch is one round-robin result inside a block.
type LeagueMatch struct {
	ID        int       `json:"id" db:"id"`
	BlockID   int       `json:"block_id" db:"block_id"`
	P1ID      int       `json:"p1_id" db:"p1_id"`
	P2ID      int       `json:"p2_id" db:"p2_id"`
	P1Score   int       `json:"p1_score" db:"p1_score"`
	P2Score   int       `json:"p2_score" db:"p2_score"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
