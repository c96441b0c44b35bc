package models

import "time"

// Tournament groups matches, league blocks and finals brackets. BonusFactor
// multiplies rating deltas for matches flagged as tournament matches.
type Tournament struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Date        time.Time `json:"date" db:"date"`
	Active      bool      `json:"active" db:"active"`
	BonusFactor float64   `json:"bonus_factor" db:"bonus_factor"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
