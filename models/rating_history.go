package models

import "time"

// RatingHistory is a per-player audit row written alongside every rated
// match finalization.
type RatingHistory struct {
	ID             int       `json:"id" db:"id"`
	PlayerID       int       `json:"player_id" db:"player_id"`
	MatchID        int       `json:"match_id" db:"match_id"`
	PointsBefore   int       `json:"points_before" db:"points_before"`
	PointsAfter    int       `json:"points_after" db:"points_after"`
	PointsDelta    int       `json:"points_delta" db:"points_delta"`
	HandicapBefore int       `json:"handicap_before" db:"handicap_before"`
	HandicapAfter  int       `json:"handicap_after" db:"handicap_after"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
