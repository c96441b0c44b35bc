package brackets

import "github.com/dykim-dev/matchboard/models"

// Side identifies the winner of a tally.
type Side int

const (
	SideNone Side = 0
	Side1    Side = 1
	Side2    Side = 2
)

// TallySets determines the winner of a final from its set scores. target
// is the number of set wins that takes the match, per the bracket's
// configured format (models.MatchFormat.SetWinsTarget).
//
// Advantage pre-credits set wins before any set is counted, which is how a
// pairing compensates for a walkover in an earlier round: crediting the
// walkover beneficiary's opponent +1 turns a best-of-three into an
// effective first-to-one for that opponent. Sets with equal scores or any
// negative value are treated as not yet played. Returns SideNone while
// neither side has reached the target strictly ahead of the other.
func TallySets(sets []models.SetScore, advantage1, advantage2, target int) Side {
	wins1, wins2 := advantage1, advantage2

	if winner := decided(wins1, wins2, target); winner != SideNone {
		return winner
	}

	for _, s := range sets {
		if s.P1 < 0 || s.P2 < 0 || s.P1 == s.P2 {
			continue
		}
		if s.P1 > s.P2 {
			wins1++
		} else {
			wins2++
		}
		if winner := decided(wins1, wins2, target); winner != SideNone {
			return winner
		}
	}

	return SideNone
}

func decided(wins1, wins2, target int) Side {
	if wins1 >= target && wins1 > wins2 {
		return Side1
	}
	if wins2 >= target && wins2 > wins1 {
		return Side2
	}
	return SideNone
}

// CountSetWins returns the raw per-side set tally, ignoring unplayed sets.
// Served alongside the decided winner in the bracket read model.
func CountSetWins(sets []models.SetScore) (int, int) {
	var wins1, wins2 int
	for _, s := range sets {
		if s.P1 < 0 || s.P2 < 0 || s.P1 == s.P2 {
			continue
		}
		if s.P1 > s.P2 {
			wins1++
		} else {
			wins2++
		}
	}
	return wins1, wins2
}
