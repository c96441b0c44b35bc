package models

import "time"

type MatchMode string

const (
	MatchModeSolo MatchMode = "solo"
	MatchModeTeam MatchMode = "team"
)

// FinishReason matches the finish_reason ENUM in the database. Walkover and
// forfeit finishes suppress rating impact.
type FinishReason string

const (
	FinishNormal    FinishReason = "normal"
	FinishTimeLimit FinishReason = "time_limit"
	FinishForfeit   FinishReason = "forfeit"
	FinishWalkover  FinishReason = "walkover"
)

// Match records one completed contest. Winner/loser players and teams are
// mutually exclusive by mode.
type Match struct {
	ID             int          `json:"id" db:"id"`
	Mode           MatchMode    `json:"mode" db:"mode"`
	WinnerPlayerID *int         `json:"winner_player_id,omitempty" db:"winner_player_id"`
	LoserPlayerID  *int         `json:"loser_player_id,omitempty" db:"loser_player_id"`
	WinnerTeamID   *int         `json:"winner_team_id,omitempty" db:"winner_team_id"`
	LoserTeamID    *int         `json:"loser_team_id,omitempty" db:"loser_team_id"`
	WinnerScore    int          `json:"winner_score" db:"winner_score"`
	LoserScore     int          `json:"loser_score" db:"loser_score"`
	FinishReason   FinishReason `json:"finish_reason" db:"finish_reason"`
	TournamentID   *int         `json:"tournament_id,omitempty" db:"tournament_id"`
	Rated          bool         `json:"rated" db:"rated"`
	ReporterID     int          `json:"reporter_id" db:"reporter_id"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`

	WinnerPlayer *Player `json:"winner_player,omitempty" db:"-"`
	LoserPlayer  *Player `json:"loser_player,omitempty" db:"-"`
	WinnerTeam   *Team   `json:"winner_team,omitempty" db:"-"`
	LoserTeam    *Team   `json:"loser_team,omitempty" db:"-"`
}

// ScoreDiff is the score margin used by the rating formula.
func (m *Match) ScoreDiff() int {
	return m.WinnerScore - m.LoserScore
}
