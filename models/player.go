package models

import "time"

// PlayerRole matches the role ENUM in the database.
type PlayerRole string

const (
	RoleAdmin  PlayerRole = "admin"
	RolePlayer PlayerRole = "player"
)

// Player is a registered club member. Points and handicap move whenever a
// rated match involving the player is finalized.
type Player struct {
	ID           int        `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         PlayerRole `json:"role" db:"role"`
	Points       int        `json:"points" db:"points"`
	Handicap     int        `json:"handicap" db:"handicap"`
	MatchCount   int        `json:"match_count" db:"match_count"`
	Wins         int        `json:"wins" db:"wins"`
	Losses       int        `json:"losses" db:"losses"`
	Dummy        bool       `json:"dummy" db:"dummy"`
	Active       bool       `json:"active" db:"active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	AvatarKey *string `json:"-" db:"avatar_key"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"-"`
}

func (p *Player) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
