package brackets

import (
	"testing"

	"github.com/dykim-dev/matchboard/models"
	"github.com/stretchr/testify/assert"
)

func TestSlotPair(t *testing.T) {
	tests := []struct {
		matchNo int
		lo, hi  int
	}{
		{1, 1, 2},
		{2, 3, 4},
		{3, 5, 6},
		{8, 15, 16},
	}
	for _, tt := range tests {
		lo, hi := SlotPair(tt.matchNo)
		assert.Equal(t, tt.lo, lo)
		assert.Equal(t, tt.hi, hi)
	}
}

func TestMatchNumberInvertsSlotPair(t *testing.T) {
	for m := 1; m <= 16; m++ {
		lo, hi := SlotPair(m)
		assert.Equal(t, m, MatchNumber(lo))
		assert.Equal(t, m, MatchNumber(hi))
	}
}

func TestRoundMatchCount(t *testing.T) {
	tests := []struct {
		name       string
		maxSlot    int
		resultRows int
		want       int
	}{
		{"derived from slots", 8, 0, 4},
		{"results exceed slots", 2, 3, 3},
		{"odd max slot rounds down", 5, 0, 2},
		{"empty round still counts one", 0, 0, 1},
		{"single slot", 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundMatchCount(tt.maxSlot, tt.resultRows))
		})
	}
}

func TestRoundMatchCounts(t *testing.T) {
	pid := 7
	slots := []models.FinalSlot{
		{Round: 1, Slot: 1, PlayerID: &pid},
		{Round: 1, Slot: 4, PlayerID: &pid},
		{Round: 2, Slot: 2}, // unoccupied, contributes nothing
	}
	matches := []models.FinalMatch{
		{Round: 1, MatchNo: 1},
		{Round: 3, MatchNo: 1},
		{Round: 3, MatchNo: 2},
	}

	counts := RoundMatchCounts(slots, matches)

	assert.Equal(t, 2, counts[1], "highest occupied slot drives the count")
	assert.Equal(t, 2, counts[3], "result rows alone still count")
	_, ok := counts[2]
	assert.False(t, ok, "round with only empty slots is absent")
}

func TestVisibleRounds(t *testing.T) {
	pid := 7
	slots := []models.FinalSlot{
		{Round: 1, Slot: 1, PlayerID: &pid},
		{Round: 3, Slot: 1}, // unoccupied, does not extend visibility
	}
	matches := []models.FinalMatch{{Round: 2, MatchNo: 1}}

	assert.Equal(t, []int{1, 2}, VisibleRounds(slots, matches, 0))

	// Admin-configured visibility extends past observed data.
	assert.Equal(t, []int{1, 2, 3, 4}, VisibleRounds(slots, matches, 4))
}
