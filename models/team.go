package models

import "time"

// Team groups players for team-mode matches.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Members []Player `json:"members,omitempty" db:"-"`
}

type TeamMember struct {
	ID       int `json:"id" db:"id"`
	TeamID   int `json:"team_id" db:"team_id"`
	PlayerID int `json:"player_id" db:"player_id"`
}
