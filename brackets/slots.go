// Package brackets holds the knockout-bracket bookkeeping: slot and
// match-number arithmetic, best-of-three set tallying, round visibility,
// and the websocket hub that pushes bracket changes to watching clients.
package brackets

import "github.com/dykim-dev/matchboard/models"

// SlotPair returns the two slot numbers feeding match matchNo of a round.
// Match m always pairs slots 2m-1 and 2m.
func SlotPair(matchNo int) (int, int) {
	return 2*matchNo - 1, 2 * matchNo
}

// MatchNumber returns the match number a slot feeds into.
func MatchNumber(slot int) int {
	return (slot + 1) / 2
}

// RoundMatchCount derives how many matches a round holds from the highest
// occupied slot and the number of result rows already recorded for it.
// A round observed at all has at least one match.
func RoundMatchCount(maxSlot, resultRows int) int {
	count := maxSlot / 2
	if resultRows > count {
		count = resultRows
	}
	if count < 1 {
		count = 1
	}
	return count
}

// RoundMatchCounts derives how many matches each round holds, keyed by
// round number. Rounds appear once they have an occupied slot or a
// recorded result.
func RoundMatchCounts(slots []models.FinalSlot, matches []models.FinalMatch) map[int]int {
	maxSlots := make(map[int]int)
	for _, s := range slots {
		if s.PlayerID != nil && s.Slot > maxSlots[s.Round] {
			maxSlots[s.Round] = s.Slot
		}
	}
	resultRows := make(map[int]int)
	for _, m := range matches {
		resultRows[m.Round]++
	}

	counts := make(map[int]int)
	for round, maxSlot := range maxSlots {
		counts[round] = RoundMatchCount(maxSlot, resultRows[round])
	}
	for round, rows := range resultRows {
		if _, ok := counts[round]; !ok {
			counts[round] = RoundMatchCount(0, rows)
		}
	}
	return counts
}

// VisibleRounds reports which rounds of a bracket should be shown: every
// round holding an assigned slot or a recorded result, plus rounds an
// admin extended visibility to via the bracket configuration.
func VisibleRounds(slots []models.FinalSlot, matches []models.FinalMatch, configured int) []int {
	highest := configured
	for _, s := range slots {
		if s.PlayerID != nil && s.Round > highest {
			highest = s.Round
		}
	}
	for _, m := range matches {
		if m.Round > highest {
			highest = m.Round
		}
	}

	rounds := make([]int, 0, highest)
	for r := 1; r <= highest; r++ {
		rounds = append(rounds, r)
	}
	return rounds
}
