package models

type DashboardStats struct {
	PlayersTotal      int `json:"players_total"`
	MatchesTotal      int `json:"matches_total"`
	TournamentsTotal  int `json:"tournaments_total"`
	ActiveTournaments int `json:"active_tournaments"`
	NoticesTotal      int `json:"notices_total"`
}
