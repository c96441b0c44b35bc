package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeEqualOpponents(t *testing.T) {
	// Equal points, equal handicaps, no margin, no bonus: the logistic
	// expectation is exactly 0.5, so both sides move by K/2.
	d := Compute(1500, 1500, 10, 10, 0, 1.0)

	assert.Equal(t, 16, d.WinnerPoints)
	assert.Equal(t, -16, d.LoserPoints)
	assert.Equal(t, 0, d.WinnerHandicap)
	assert.Equal(t, 0, d.LoserHandicap)
}

func TestComputeDeterministic(t *testing.T) {
	a := Compute(1620, 1480, 12, 7, 5, 1.5)
	b := Compute(1620, 1480, 12, 7, 5, 1.5)
	assert.Equal(t, a, b)
}

func TestComputeHandicapStep(t *testing.T) {
	tests := []struct {
		name      string
		scoreDiff int
		winner    int
		loser     int
	}{
		{"no step below margin", 0, 0, 0},
		{"no step just below boundary", 9, 0, 0},
		{"step at exact boundary", 10, -1, 1},
		{"step above boundary", 25, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Compute(1500, 1400, 5, 5, tt.scoreDiff, 1.0)
			assert.Equal(t, tt.winner, d.WinnerHandicap)
			assert.Equal(t, tt.loser, d.LoserHandicap)
		})
	}
}

func TestComputeMarginScalesWinnerAndLoser(t *testing.T) {
	base := Compute(1500, 1500, 0, 0, 0, 1.0)
	wide := Compute(1500, 1500, 0, 0, 30, 1.0)

	// margin multiplier at diff 30 is exactly 2.
	assert.Equal(t, base.WinnerPoints*2, wide.WinnerPoints)
	assert.Equal(t, base.LoserPoints*2, wide.LoserPoints)
}

func TestComputeHandicapGapAffectsWinnerOnly(t *testing.T) {
	even := Compute(1500, 1500, 0, 0, 0, 1.0)
	gap := Compute(1500, 1500, 25, 0, 0, 1.0)

	// handicap multiplier 1.5 applies to the winner side only.
	assert.Equal(t, 24, gap.WinnerPoints)
	assert.Equal(t, even.LoserPoints, gap.LoserPoints)
}

func TestComputeBonus(t *testing.T) {
	plain := Compute(1500, 1500, 0, 0, 0, 1.0)
	boosted := Compute(1500, 1500, 0, 0, 0, 2.0)

	assert.Equal(t, plain.WinnerPoints*2, boosted.WinnerPoints)
	assert.Equal(t, plain.LoserPoints*2, boosted.LoserPoints)
}

func TestApplyPointsClampsAtZero(t *testing.T) {
	assert.Equal(t, 0, ApplyPoints(10, -25))
	assert.Equal(t, 0, ApplyPoints(0, -1))
	assert.Equal(t, 5, ApplyPoints(20, -15))
	assert.Equal(t, 1520, ApplyPoints(1500, 20))
}

func TestApplyHandicapClamps(t *testing.T) {
	assert.Equal(t, 0, ApplyHandicap(0, -1))
	assert.Equal(t, 50, ApplyHandicap(50, 1))
	assert.Equal(t, 49, ApplyHandicap(50, -1))
	assert.Equal(t, 1, ApplyHandicap(0, 1))
	assert.Equal(t, 50, ApplyHandicap(45, 100))
	assert.Equal(t, 0, ApplyHandicap(5, -100))
}
