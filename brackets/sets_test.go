package brackets

import (
	"testing"

	"github.com/dykim-dev/matchboard/models"
	"github.com/stretchr/testify/assert"
)

func TestTallySetsBestOfThree(t *testing.T) {
	tests := []struct {
		name string
		sets []models.SetScore
		adv1 int
		adv2 int
		want Side
	}{
		{
			name: "single set is not enough",
			sets: []models.SetScore{{P1: 2, P2: 0}},
			want: SideNone,
		},
		{
			name: "side one wins two one",
			sets: []models.SetScore{{P1: 15, P2: 10}, {P1: 10, P2: 15}, {P1: 15, P2: 12}},
			want: Side1,
		},
		{
			name: "side two sweeps",
			sets: []models.SetScore{{P1: 8, P2: 15}, {P1: 11, P2: 15}},
			want: Side2,
		},
		{
			name: "advantage turns one set into a win",
			sets: []models.SetScore{{P1: 10, P2: 15}},
			adv2: 1,
			want: Side2,
		},
		{
			name: "advantage alone does not decide",
			sets: nil,
			adv2: 1,
			want: SideNone,
		},
		{
			name: "equal scores are unplayed",
			sets: []models.SetScore{{P1: 0, P2: 0}, {P1: 0, P2: 0}},
			want: SideNone,
		},
		{
			name: "negative sentinels are unplayed",
			sets: []models.SetScore{{P1: -1, P2: -1}, {P1: 15, P2: 9}},
			want: SideNone,
		},
		{
			name: "unplayed sets skipped within a decided match",
			sets: []models.SetScore{{P1: 15, P2: 9}, {P1: -1, P2: -1}, {P1: 15, P2: 13}},
			want: Side1,
		},
	}

	target := models.FormatBestOfThree.SetWinsTarget()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TallySets(tt.sets, tt.adv1, tt.adv2, target))
		})
	}
}

func TestTallySetsSingleSet(t *testing.T) {
	target := models.FormatBestOfOne.SetWinsTarget()

	assert.Equal(t, Side1, TallySets([]models.SetScore{{P1: 21, P2: 15}}, 0, 0, target),
		"one decisive set takes a single-set match")
	assert.Equal(t, Side2, TallySets([]models.SetScore{{P1: 10, P2: 21}}, 0, 0, target))
	assert.Equal(t, SideNone, TallySets([]models.SetScore{{P1: 0, P2: 0}}, 0, 0, target),
		"unplayed set decides nothing")
	assert.Equal(t, Side2, TallySets(nil, 0, 1, target),
		"a pre-credited set win already meets the single-set target")
}

func TestCountSetWins(t *testing.T) {
	sets := []models.SetScore{
		{P1: 15, P2: 10},
		{P1: 9, P2: 15},
		{P1: 0, P2: 0},
		{P1: -1, P2: -1},
		{P1: 15, P2: 11},
	}
	w1, w2 := CountSetWins(sets)
	assert.Equal(t, 2, w1)
	assert.Equal(t, 1, w2)
}
