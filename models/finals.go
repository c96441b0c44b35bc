package models

import (
	"encoding/json"
	"time"
)

// MatchFormat matches the match_format ENUM on final_brackets.
type MatchFormat string

const (
	FormatBestOfOne   MatchFormat = "bo1"
	FormatBestOfThree MatchFormat = "bo3"
)

// SetWinsTarget is the number of set wins that takes a match of this
// format: one for a single set, two for a best-of-three.
func (f MatchFormat) SetWinsTarget() int {
	if f == FormatBestOfOne {
		return 1
	}
	return 2
}

// FinalBracket is one knockout bracket belonging to a tournament.
// VisibleRounds extends how many rounds the bracket shows even when they
// hold no slots or results yet; it is server-authoritative configuration,
// not client preference.
type FinalBracket struct {
	ID            int         `json:"id" db:"id"`
	TournamentID  int         `json:"tournament_id" db:"tournament_id"`
	Title         string      `json:"title" db:"title"`
	MatchFormat   MatchFormat `json:"match_format" db:"match_format"`
	VisibleRounds int         `json:"visible_rounds" db:"visible_rounds"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

// FinalSlot is a single (round, slot) position within a bracket, optionally
// occupied by a player. Slots are created and removed by admin action.
type FinalSlot struct {
	ID        int  `json:"id" db:"id"`
	BracketID int  `json:"bracket_id" db:"bracket_id"`
	Round     int  `json:"round" db:"round_no"`
	Slot      int  `json:"slot" db:"slot_no"`
	PlayerID  *int `json:"player_id,omitempty" db:"player_id"`

	Player *Player `json:"player,omitempty" db:"-"`
}

// SetScore is one set of a final. Equal or negative values mean the set
// has not been played.
type SetScore struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

// FinalMatch is the result container for one (round, match number) pair.
// Winner/loser and sets are nulled whenever an upstream slot changes.
type FinalMatch struct {
	ID             int           `json:"id" db:"id"`
	BracketID      int           `json:"bracket_id" db:"bracket_id"`
	Round          int           `json:"round" db:"round_no"`
	MatchNo        int           `json:"match_no" db:"match_no"`
	SetsJSON       *string       `json:"-" db:"sets_json"`
	WinnerPlayerID *int          `json:"winner_player_id,omitempty" db:"winner_player_id"`
	LoserPlayerID  *int          `json:"loser_player_id,omitempty" db:"loser_player_id"`
	Advantage      int           `json:"advantage" db:"advantage"`
	FinishReason   *FinishReason `json:"finish_reason,omitempty" db:"finish_reason"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`

	Sets []SetScore `json:"sets,omitempty" db:"-"`

	// Per-side set tallies from the played sets, for display next to the
	// decided winner. Derived, never persisted.
	SetWins1 int `json:"set_wins1" db:"-"`
	SetWins2 int `json:"set_wins2" db:"-"`
}

// DecodeSets populates Sets from the raw JSON column.
func (m *FinalMatch) DecodeSets() error {
	m.Sets = nil
	if m.SetsJSON == nil || *m.SetsJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(*m.SetsJSON), &m.Sets)
}

// EncodeSets serializes Sets into the raw JSON column.
func (m *FinalMatch) EncodeSets() error {
	if len(m.Sets) == 0 {
		m.SetsJSON = nil
		return nil
	}
	raw, err := json.Marshal(m.Sets)
	if err != nil {
		return err
	}
	s := string(raw)
	m.SetsJSON = &s
	return nil
}
