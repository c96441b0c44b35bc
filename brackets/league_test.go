package brackets

import (
	"testing"

	"github.com/dykim-dev/matchboard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortStandingsTieBreaks(t *testing.T) {
	standings := []Standing{
		{PlayerID: 1, Name: "dana", Wins: 2, ScoreFor: 40, ScoreAgainst: 30},
		{PlayerID: 2, Name: "alex", Wins: 3, ScoreFor: 30, ScoreAgainst: 28},
		// Same wins and diff as player 4, fewer points scored.
		{PlayerID: 3, Name: "casey", Wins: 3, ScoreFor: 35, ScoreAgainst: 30},
		{PlayerID: 4, Name: "blair", Wins: 3, ScoreFor: 45, ScoreAgainst: 40},
		// Fully tied with player 4 except the name.
		{PlayerID: 5, Name: "avery", Wins: 3, ScoreFor: 45, ScoreAgainst: 40},
	}

	SortStandings(standings)

	ids := make([]int, len(standings))
	for i, s := range standings {
		ids[i] = s.PlayerID
	}
	// wins desc, diff desc, scored desc, then name asc.
	assert.Equal(t, []int{5, 4, 3, 2, 1}, ids)
}

func TestComputeStandings(t *testing.T) {
	names := map[int]string{1: "alex", 2: "blair", 3: "casey"}
	matches := []models.LeagueMatch{
		{P1ID: 1, P2ID: 2, P1Score: 15, P2Score: 10},
		{P1ID: 2, P2ID: 3, P1Score: 15, P2Score: 12},
		{P1ID: 1, P2ID: 3, P1Score: 15, P2Score: 5},
	}

	standings := ComputeStandings(matches, names)
	require.Len(t, standings, 3)

	assert.Equal(t, 1, standings[0].PlayerID)
	assert.Equal(t, 2, standings[0].Wins)
	assert.Equal(t, 30, standings[0].ScoreFor)
	assert.Equal(t, 15, standings[0].ScoreAgainst)

	winner := BlockWinner(standings)
	require.NotNil(t, winner)
	assert.Equal(t, 1, winner.PlayerID)
}

func TestComputeStandingsDrawCountsNoWin(t *testing.T) {
	names := map[int]string{1: "alex", 2: "blair"}
	matches := []models.LeagueMatch{{P1ID: 1, P2ID: 2, P1Score: 10, P2Score: 10}}

	standings := ComputeStandings(matches, names)
	require.Len(t, standings, 2)
	for _, s := range standings {
		assert.Equal(t, 0, s.Wins)
		assert.Equal(t, 0, s.Losses)
	}
}

func TestBlockWinnerEmpty(t *testing.T) {
	assert.Nil(t, BlockWinner(nil))
}
