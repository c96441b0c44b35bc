// Package rating implements the club's ELO-style point and handicap
// adjustment. The formula used to live in three slightly divergent copies
// (preview panel, legacy registration flow, report endpoint); this package
// is the single authoritative one.
package rating

import "math"

const (
	// KFactor scales every point movement.
	KFactor = 32.0

	// Handicap step threshold: a win by this margin or more moves both
	// players' handicaps by one.
	handicapStepMargin = 10

	MinPoints   = 0
	MinHandicap = 0
	MaxHandicap = 50
)

// Delta holds the signed adjustments produced for one finalized match.
type Delta struct {
	WinnerPoints   int
	LoserPoints    int
	WinnerHandicap int
	LoserHandicap  int
}

// Compute returns the point and handicap deltas for a finalized match.
//
// The expected-score term is the standard logistic ELO expectation on the
// winner's side. The winner's delta is additionally scaled by the handicap
// gap; the loser's is not. bonus is the tournament coefficient, 1.0 for a
// plain club match. Pure function; callers clamp with ApplyPoints and
// ApplyHandicap before persisting.
func Compute(winnerPoints, loserPoints, winnerHandicap, loserHandicap, scoreDiff int, bonus float64) Delta {
	expected := 1.0 / (1.0 + math.Pow(10, float64(loserPoints-winnerPoints)/400.0))

	marginMult := 1.0 + float64(scoreDiff)/30.0
	handicapMult := 1.0 + float64(winnerHandicap-loserHandicap)/50.0

	d := Delta{
		WinnerPoints: int(math.Round(KFactor * (1.0 - expected) * marginMult * handicapMult * bonus)),
		LoserPoints:  int(math.Round(-KFactor * expected * marginMult * bonus)),
	}

	if scoreDiff >= handicapStepMargin {
		d.WinnerHandicap = -1
		d.LoserHandicap = 1
	}

	return d
}

// ApplyPoints adds a delta to a points total, clamping at zero.
func ApplyPoints(points, delta int) int {
	result := points + delta
	if result < MinPoints {
		return MinPoints
	}
	return result
}

// ApplyHandicap adds a delta to a handicap, clamping to [MinHandicap, MaxHandicap].
func ApplyHandicap(handicap, delta int) int {
	result := handicap + delta
	if result < MinHandicap {
		return MinHandicap
	}
	if result > MaxHandicap {
		return MaxHandicap
	}
	return result
}
