package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dykim-dev/matchboard/brackets"
	"github.com/dykim-dev/matchboard/models"
)

func newFinalsFixture(bs ...*models.FinalBracket) (FinalsService, *fakeSlotRepo, *fakeFinalMatchRepo, *fakeNotifier, *fakeTxRunner) {
	tx := &fakeTxRunner{}
	bracketRepo := newFakeBracketRepo(bs...)
	slotRepo := newFakeSlotRepo()
	matchRepo := newFakeFinalMatchRepo()
	notifier := &fakeNotifier{}

	playerRepo := newFakePlayerRepo()
	for id := 1; id <= 20; id++ {
		playerRepo.players[id] = &models.Player{ID: id, Role: models.RolePlayer, Active: true}
	}

	svc := NewFinalsService(tx, bracketRepo, slotRepo, matchRepo, playerRepo, notifier, slog.Default())
	return svc, slotRepo, matchRepo, notifier, tx
}

func testBracket() *models.FinalBracket {
	return &models.FinalBracket{
		ID:           1,
		TournamentID: 1,
		Title:        "Championship Finals",
		MatchFormat:  models.FormatBestOfThree,
	}
}

func TestAssignSlotClearsResultsFromRound(t *testing.T) {
	svc, slotRepo, matchRepo, notifier, tx := newFinalsFixture(testBracket())

	// Seed results in rounds 1 and 2.
	matchRepo.matches[matchKey{1, 1}] = &models.FinalMatch{
		BracketID: 1, Round: 1, MatchNo: 1,
		WinnerPlayerID: intPtr(10), LoserPlayerID: intPtr(11),
	}
	matchRepo.matches[matchKey{2, 1}] = &models.FinalMatch{
		BracketID: 1, Round: 2, MatchNo: 1,
		WinnerPlayerID: intPtr(10), LoserPlayerID: intPtr(12),
	}

	err := svc.AssignSlot(context.Background(), AssignSlotInput{
		BracketID: 1,
		Round:     2,
		Slot:      1,
		PlayerID:  intPtr(13),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls, "upsert and clear share a transaction")
	require.Len(t, matchRepo.clearedFrom, 1)
	assert.Equal(t, 2, matchRepo.clearedFrom[0])

	// Round 1 survives, round 2 is reset.
	assert.NotNil(t, matchRepo.matches[matchKey{1, 1}].WinnerPlayerID)
	assert.Nil(t, matchRepo.matches[matchKey{2, 1}].WinnerPlayerID)

	stored, ok := slotRepo.slots[slotKey{2, 1}]
	require.True(t, ok)
	assert.Equal(t, 13, *stored.PlayerID)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, brackets.EventSlotUpdated, notifier.events[0].Type)
}

func TestAssignSlotNilPlayerClearsOccupant(t *testing.T) {
	svc, slotRepo, _, _, _ := newFinalsFixture(testBracket())

	require.NoError(t, svc.AssignSlot(context.Background(), AssignSlotInput{
		BracketID: 1, Round: 1, Slot: 3, PlayerID: intPtr(5),
	}))
	require.NoError(t, svc.AssignSlot(context.Background(), AssignSlotInput{
		BracketID: 1, Round: 1, Slot: 3, PlayerID: nil,
	}))

	stored, ok := slotRepo.slots[slotKey{1, 3}]
	require.True(t, ok)
	assert.Nil(t, stored.PlayerID)
}

func TestAssignSlotValidation(t *testing.T) {
	svc, _, _, _, _ := newFinalsFixture(testBracket())

	err := svc.AssignSlot(context.Background(), AssignSlotInput{BracketID: 1, Round: 0, Slot: 1})
	assert.ErrorIs(t, err, ErrSlotInvalid)

	err = svc.AssignSlot(context.Background(), AssignSlotInput{BracketID: 99, Round: 1, Slot: 1})
	assert.ErrorIs(t, err, ErrBracketNotFound)
}

func TestReportResultDecidesWinnerFromSets(t *testing.T) {
	svc, _, matchRepo, notifier, _ := newFinalsFixture(testBracket())

	// Match 1 of round 1 reads slots 1 and 2.
	require.NoError(t, svc.AssignSlot(context.Background(), AssignSlotInput{
		BracketID: 1, Round: 1, Slot: 1, PlayerID: intPtr(10),
	}))
	require.NoError(t, svc.AssignSlot(context.Background(), AssignSlotInput{
		BracketID: 1, Round: 1, Slot: 2, PlayerID: intPtr(11),
	}))

	match, err := svc.ReportResult(context.Background(), ReportResultInput{
		BracketID: 1,
		Round:     1,
		MatchNo:   1,
		Sets: []models.SetScore{
			{P1: 21, P2: 15},
			{P1: 19, P2: 21},
			{P1: 21, P2: 18},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, match.WinnerPlayerID)
	assert.Equal(t, 10, *match.WinnerPlayerID)
	assert.Equal(t, 11, *match.LoserPlayerID)
	require.NotNil(t, match.SetsJSON)
	assert.Equal(t, 2, match.SetWins1)
	assert.Equal(t, 1, match.SetWins2)

	stored := matchRepo.matches[matchKey{1, 1}]
	require.NotNil(t, stored)
	assert.Equal(t, 10, *stored.WinnerPlayerID)

	var resultEvents int
	for _, e := range notifier.events {
		if e.Type == brackets.EventResultUpdated {
			resultEvents++
		}
	}
	assert.Equal(t, 1, resultEvents)
}

func TestReportResultSingleSetFormat(t *testing.T) {
	bracket := testBracket()
	bracket.MatchFormat = models.FormatBestOfOne
	svc, _, _, _, _ := newFinalsFixture(bracket)

	require.NoError(t, svc.AssignSlot(context.Background(), AssignSlotInput{
		BracketID: 1, Round: 1, Slot: 1, PlayerID: intPtr(10),
	}))
	require.NoError(t, svc.AssignSlot(context.Background(), AssignSlotInput{
		BracketID: 1, Round: 1, Slot: 2, PlayerID: intPtr(11),
	}))

	// One decisive set closes out a single-set match.
	match, err := svc.ReportResult(context.Background(), ReportResultInput{
		BracketID: 1,
		Round:     1,
		MatchNo:   1,
		Sets:      []models.SetScore{{P1: 21, P2: 15}},
	})
	require.NoError(t, err)

	require.NotNil(t, match.WinnerPlayerID)
	assert.Equal(t, 10, *match.WinnerPlayerID)
	assert.Equal(t, 11, *match.LoserPlayerID)
}

func TestAssignSlotUnknownPlayerRejected(t *testing.T) {
	svc, slotRepo, matchRepo, _, tx := newFinalsFixture(testBracket())

	err := svc.AssignSlot(context.Background(), AssignSlotInput{
		BracketID: 1, Round: 1, Slot: 1, PlayerID: intPtr(99),
	})
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	assert.Empty(t, slotRepo.slots, "nothing stored for an unknown occupant")
	assert.Empty(t, matchRepo.clearedFrom)
	assert.Equal(t, 0, tx.calls)
}

func TestReportResultAdvantagePreCreditsSetWins(t *testing.T) {
	svc, _, _, _, _ := newFinalsFixture(testBracket())

	require.NoError(t, svc.AssignSlot(context.Background(), AssignSlotInput{
		BracketID: 1, Round: 1, Slot: 1, PlayerID: intPtr(10),
	}))
	require.NoError(t, svc.AssignSlot(context.Background(), AssignSlotInput{
		BracketID: 1, Round: 1, Slot: 2, PlayerID: intPtr(11),
	}))

	// Side 2 starts one set up, so a single real set win closes it out.
	match, err := svc.ReportResult(context.Background(), ReportResultInput{
		BracketID:  1,
		Round:      1,
		MatchNo:    1,
		Sets:       []models.SetScore{{P1: 12, P2: 21}},
		Advantage2: 1,
	})
	require.NoError(t, err)

	require.NotNil(t, match.WinnerPlayerID)
	assert.Equal(t, 11, *match.WinnerPlayerID)
	assert.Equal(t, 1, match.Advantage)
}

func TestReportResultUndecidedLeavesWinnerNil(t *testing.T) {
	svc, _, matchRepo, _, _ := newFinalsFixture(testBracket())

	match, err := svc.ReportResult(context.Background(), ReportResultInput{
		BracketID: 1,
		Round:     1,
		MatchNo:   1,
		Sets:      []models.SetScore{{P1: 21, P2: 15}, {P1: 10, P2: 21}},
	})
	require.NoError(t, err)

	assert.Nil(t, match.WinnerPlayerID, "split sets decide nothing")
	assert.Nil(t, match.LoserPlayerID)

	// The partial score is still stored so the frontend can render it.
	assert.NotNil(t, matchRepo.matches[matchKey{1, 1}])
}

func TestReportResultClearsOnlyLaterRounds(t *testing.T) {
	svc, _, matchRepo, _, tx := newFinalsFixture(testBracket())

	matchRepo.matches[matchKey{1, 2}] = &models.FinalMatch{
		BracketID: 1, Round: 1, MatchNo: 2, WinnerPlayerID: intPtr(20),
	}
	matchRepo.matches[matchKey{2, 1}] = &models.FinalMatch{
		BracketID: 1, Round: 2, MatchNo: 1, WinnerPlayerID: intPtr(20),
	}

	_, err := svc.ReportResult(context.Background(), ReportResultInput{
		BracketID: 1,
		Round:     1,
		MatchNo:   1,
		Sets:      []models.SetScore{{P1: 21, P2: 10}, {P1: 21, P2: 12}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	require.Len(t, matchRepo.clearedAfter, 1)
	assert.Equal(t, 1, matchRepo.clearedAfter[0])

	// Sibling match in the same round keeps its result; the next round is
	// invalidated.
	assert.NotNil(t, matchRepo.matches[matchKey{1, 2}].WinnerPlayerID)
	assert.Nil(t, matchRepo.matches[matchKey{2, 1}].WinnerPlayerID)
}

func TestGetBracketReadModel(t *testing.T) {
	svc, _, _, _, _ := newFinalsFixture(testBracket())

	for slot, player := range map[int]int{1: 10, 2: 11, 3: 12, 4: 13} {
		require.NoError(t, svc.AssignSlot(context.Background(), AssignSlotInput{
			BracketID: 1, Round: 1, Slot: slot, PlayerID: intPtr(player),
		}))
	}
	_, err := svc.ReportResult(context.Background(), ReportResultInput{
		BracketID: 1,
		Round:     1,
		MatchNo:   1,
		Sets:      []models.SetScore{{P1: 21, P2: 15}, {P1: 21, P2: 18}},
	})
	require.NoError(t, err)

	view, err := svc.GetBracket(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, view.VisibleRounds)
	assert.Equal(t, 2, view.RoundMatchCounts[1], "four occupied slots make two matches")

	require.Len(t, view.Matches, 1)
	assert.Equal(t, 2, view.Matches[0].SetWins1)
	assert.Equal(t, 0, view.Matches[0].SetWins2)
}

func TestUpdateConfigBroadcasts(t *testing.T) {
	svc, _, _, notifier, _ := newFinalsFixture(testBracket())

	err := svc.UpdateConfig(context.Background(), 1, models.FormatBestOfOne, 3)
	require.NoError(t, err)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, brackets.EventConfigUpdated, notifier.events[0].Type)

	err = svc.UpdateConfig(context.Background(), 1, models.MatchFormat("bo7"), 3)
	assert.ErrorIs(t, err, ErrMatchFormatInvalid)
}

func TestCreateBracketDefaultsToBestOfThree(t *testing.T) {
	svc, _, _, _, _ := newFinalsFixture()

	bracket, err := svc.CreateBracket(context.Background(), CreateBracketInput{
		TournamentID: 1,
		Title:        "Finals",
	})
	require.NoError(t, err)
	assert.Equal(t, models.FormatBestOfThree, bracket.MatchFormat)

	_, err = svc.CreateBracket(context.Background(), CreateBracketInput{TournamentID: 1})
	assert.ErrorIs(t, err, ErrValidationFailed)
}
