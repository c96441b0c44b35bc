package brackets

import (
	"sort"

	"github.com/dykim-dev/matchboard/models"
)

// Standing is one player's accumulated record within a league block.
type Standing struct {
	PlayerID     int    `json:"player_id"`
	Name         string `json:"name"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	ScoreFor     int    `json:"score_for"`
	ScoreAgainst int    `json:"score_against"`
}

func (s Standing) Diff() int {
	return s.ScoreFor - s.ScoreAgainst
}

// ComputeStandings folds a block's round-robin results into per-player
// standings. names maps player ids to display names; players present in
// names but without matches still appear with a zero record.
func ComputeStandings(matches []models.LeagueMatch, names map[int]string) []Standing {
	byPlayer := make(map[int]*Standing, len(names))
	for id, name := range names {
		byPlayer[id] = &Standing{PlayerID: id, Name: name}
	}

	get := func(id int) *Standing {
		if s, ok := byPlayer[id]; ok {
			return s
		}
		s := &Standing{PlayerID: id}
		byPlayer[id] = s
		return s
	}

	for _, m := range matches {
		p1 := get(m.P1ID)
		p2 := get(m.P2ID)

		p1.ScoreFor += m.P1Score
		p1.ScoreAgainst += m.P2Score
		p2.ScoreFor += m.P2Score
		p2.ScoreAgainst += m.P1Score

		switch {
		case m.P1Score > m.P2Score:
			p1.Wins++
			p2.Losses++
		case m.P2Score > m.P1Score:
			p2.Wins++
			p1.Losses++
		}
	}

	standings := make([]Standing, 0, len(byPlayer))
	for _, s := range byPlayer {
		standings = append(standings, *s)
	}
	SortStandings(standings)
	return standings
}

// SortStandings orders standings by wins, then point differential, then
// points scored, with name as the final stable tie-break.
func SortStandings(standings []Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Diff() != b.Diff() {
			return a.Diff() > b.Diff()
		}
		if a.ScoreFor != b.ScoreFor {
			return a.ScoreFor > b.ScoreFor
		}
		return a.Name < b.Name
	})
}

// BlockWinner returns the top-ranked standing, or nil for an empty block.
func BlockWinner(standings []Standing) *Standing {
	if len(standings) == 0 {
		return nil
	}
	top := standings[0]
	return &top
}
