package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dykim-dev/matchboard/brackets"
	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/repositories"
)

// BracketNotifier receives bracket change events; implemented by
// brackets.Hub. A nil-safe no-op implementation is used in tests.
type BracketNotifier interface {
	BroadcastToRoom(roomID string, event brackets.Event)
}

type CreateBracketInput struct {
	TournamentID int                `json:"tournament_id"`
	Title        string             `json:"title"`
	MatchFormat  models.MatchFormat `json:"match_format"`
}

type AssignSlotInput struct {
	BracketID int  `json:"bracket_id"`
	Round     int  `json:"round"`
	Slot      int  `json:"slot"`
	PlayerID  *int `json:"player_id"` // nil clears the occupant
}

type ReportResultInput struct {
	BracketID    int                  `json:"bracket_id"`
	Round        int                  `json:"round"`
	MatchNo      int                  `json:"match_no"`
	Sets         []models.SetScore    `json:"sets"`
	Advantage1   int                  `json:"advantage1"`
	Advantage2   int                  `json:"advantage2"`
	FinishReason *models.FinishReason `json:"finish_reason,omitempty"`
}

// BracketView is the assembled read model for one bracket.
type BracketView struct {
	Bracket          *models.FinalBracket `json:"bracket"`
	Slots            []models.FinalSlot   `json:"slots"`
	Matches          []models.FinalMatch  `json:"matches"`
	VisibleRounds    []int                `json:"visible_rounds"`
	RoundMatchCounts map[int]int          `json:"round_match_counts"`
}

type FinalsService interface {
	CreateBracket(ctx context.Context, input CreateBracketInput) (*models.FinalBracket, error)
	GetBracket(ctx context.Context, id int) (*BracketView, error)
	UpdateConfig(ctx context.Context, bracketID int, matchFormat models.MatchFormat, visibleRounds int) error
	// AssignSlot sets or clears the occupant of a (round, slot) position.
	// Every result from that round onward is nulled in the same
	// transaction, so downstream results can never reference a stale
	// participant.
	AssignSlot(ctx context.Context, input AssignSlotInput) error
	// ReportResult tallies the sets and stores winner/loser for a (round,
	// match number) pair, clearing any results in later rounds.
	ReportResult(ctx context.Context, input ReportResultInput) (*models.FinalMatch, error)
}

type finalsService struct {
	tx          TxRunner
	bracketRepo repositories.FinalBracketRepository
	slotRepo    repositories.FinalSlotRepository
	matchRepo   repositories.FinalMatchRepository
	playerRepo  repositories.PlayerRepository
	notifier    BracketNotifier
	logger      *slog.Logger
}

func NewFinalsService(
	tx TxRunner,
	bracketRepo repositories.FinalBracketRepository,
	slotRepo repositories.FinalSlotRepository,
	matchRepo repositories.FinalMatchRepository,
	playerRepo repositories.PlayerRepository,
	notifier BracketNotifier,
	logger *slog.Logger,
) FinalsService {
	return &finalsService{
		tx:          tx,
		bracketRepo: bracketRepo,
		slotRepo:    slotRepo,
		matchRepo:   matchRepo,
		playerRepo:  playerRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *finalsService) CreateBracket(ctx context.Context, input CreateBracketInput) (*models.FinalBracket, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: bracket title is required", ErrValidationFailed)
	}
	if input.MatchFormat == "" {
		input.MatchFormat = models.FormatBestOfThree
	}
	if input.MatchFormat != models.FormatBestOfOne && input.MatchFormat != models.FormatBestOfThree {
		return nil, ErrMatchFormatInvalid
	}

	bracket := &models.FinalBracket{
		TournamentID: input.TournamentID,
		Title:        input.Title,
		MatchFormat:  input.MatchFormat,
	}
	if err := s.bracketRepo.Create(ctx, bracket); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to create bracket: %w", err)
	}

	s.logger.Info("bracket created",
		slog.Int("bracket_id", bracket.ID),
		slog.Int("tournament_id", bracket.TournamentID))
	return bracket, nil
}

func (s *finalsService) GetBracket(ctx context.Context, id int) (*BracketView, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBracketNotFound) {
			return nil, ErrBracketNotFound
		}
		return nil, err
	}

	slots, err := s.slotRepo.ListByBracket(ctx, id)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByBracket(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		matches[i].SetWins1, matches[i].SetWins2 = brackets.CountSetWins(matches[i].Sets)
	}

	return &BracketView{
		Bracket:          bracket,
		Slots:            slots,
		Matches:          matches,
		VisibleRounds:    brackets.VisibleRounds(slots, matches, bracket.VisibleRounds),
		RoundMatchCounts: brackets.RoundMatchCounts(slots, matches),
	}, nil
}

func (s *finalsService) UpdateConfig(ctx context.Context, bracketID int, matchFormat models.MatchFormat, visibleRounds int) error {
	if matchFormat != models.FormatBestOfOne && matchFormat != models.FormatBestOfThree {
		return ErrMatchFormatInvalid
	}
	if visibleRounds < 0 {
		return fmt.Errorf("%w: visible rounds cannot be negative", ErrValidationFailed)
	}

	if err := s.bracketRepo.UpdateConfig(ctx, bracketID, matchFormat, visibleRounds); err != nil {
		if errors.Is(err, repositories.ErrBracketNotFound) {
			return ErrBracketNotFound
		}
		return err
	}

	s.notify(bracketID, brackets.EventConfigUpdated, map[string]interface{}{
		"match_format":   matchFormat,
		"visible_rounds": visibleRounds,
	})
	return nil
}

func (s *finalsService) AssignSlot(ctx context.Context, input AssignSlotInput) error {
	if input.Round < 1 || input.Slot < 1 {
		return ErrSlotInvalid
	}

	if _, err := s.bracketRepo.GetByID(ctx, input.BracketID); err != nil {
		if errors.Is(err, repositories.ErrBracketNotFound) {
			return ErrBracketNotFound
		}
		return err
	}

	if input.PlayerID != nil {
		if _, err := s.playerRepo.GetByID(ctx, *input.PlayerID); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return ErrPlayerNotFound
			}
			return fmt.Errorf("failed to load slot occupant %d: %w", *input.PlayerID, err)
		}
	}

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		slot := &models.FinalSlot{
			BracketID: input.BracketID,
			Round:     input.Round,
			Slot:      input.Slot,
			PlayerID:  input.PlayerID,
		}
		if err := s.slotRepo.Upsert(ctx, exec, slot); err != nil {
			if errors.Is(err, repositories.ErrFinalSlotPlayerInvalid) {
				return ErrPlayerNotFound
			}
			return err
		}
		// The occupant changed, so nothing recorded from this round on can
		// be trusted anymore.
		return s.matchRepo.ClearFromRound(ctx, exec, input.BracketID, input.Round)
	})
	if err != nil {
		return err
	}

	s.logger.Info("bracket slot assigned",
		slog.Int("bracket_id", input.BracketID),
		slog.Int("round", input.Round),
		slog.Int("slot", input.Slot))

	s.notify(input.BracketID, brackets.EventSlotUpdated, map[string]interface{}{
		"round":     input.Round,
		"slot":      input.Slot,
		"match_no":  brackets.MatchNumber(input.Slot),
		"player_id": input.PlayerID,
	})
	return nil
}

func (s *finalsService) ReportResult(ctx context.Context, input ReportResultInput) (*models.FinalMatch, error) {
	if input.Round < 1 || input.MatchNo < 1 {
		return nil, ErrSlotInvalid
	}
	if input.FinishReason != nil {
		switch *input.FinishReason {
		case models.FinishNormal, models.FinishTimeLimit, models.FinishForfeit, models.FinishWalkover:
		default:
			return nil, ErrFinishReasonInvalid
		}
	}

	bracket, err := s.bracketRepo.GetByID(ctx, input.BracketID)
	if err != nil {
		if errors.Is(err, repositories.ErrBracketNotFound) {
			return nil, ErrBracketNotFound
		}
		return nil, err
	}

	slots, err := s.slotRepo.ListByBracket(ctx, input.BracketID)
	if err != nil {
		return nil, err
	}
	slot1, slot2 := brackets.SlotPair(input.MatchNo)
	p1 := occupant(slots, input.Round, slot1)
	p2 := occupant(slots, input.Round, slot2)

	match := &models.FinalMatch{
		BracketID:    input.BracketID,
		Round:        input.Round,
		MatchNo:      input.MatchNo,
		Sets:         input.Sets,
		Advantage:    input.Advantage2 - input.Advantage1,
		FinishReason: input.FinishReason,
	}

	// The bracket's configured format decides how many set wins close the
	// match out.
	target := bracket.MatchFormat.SetWinsTarget()
	switch brackets.TallySets(input.Sets, input.Advantage1, input.Advantage2, target) {
	case brackets.Side1:
		match.WinnerPlayerID = p1
		match.LoserPlayerID = p2
	case brackets.Side2:
		match.WinnerPlayerID = p2
		match.LoserPlayerID = p1
	}
	match.SetWins1, match.SetWins2 = brackets.CountSetWins(input.Sets)

	if err := match.EncodeSets(); err != nil {
		return nil, fmt.Errorf("failed to encode sets: %w", err)
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.Upsert(ctx, exec, match); err != nil {
			return err
		}
		// Overwriting a result invalidates everything downstream of it.
		return s.matchRepo.ClearAfterRound(ctx, exec, input.BracketID, input.Round)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket result reported",
		slog.Int("bracket_id", input.BracketID),
		slog.Int("round", input.Round),
		slog.Int("match_no", input.MatchNo))

	s.notify(input.BracketID, brackets.EventResultUpdated, match)
	return match, nil
}

func (s *finalsService) notify(bracketID int, eventType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	room := strconv.Itoa(bracketID)
	s.notifier.BroadcastToRoom(room, brackets.Event{
		Type:      eventType,
		BracketID: room,
		Payload:   payload,
	})
}

func occupant(slots []models.FinalSlot, round, slotNo int) *int {
	for _, s := range slots {
		if s.Round == round && s.Slot == slotNo {
			return s.PlayerID
		}
	}
	return nil
}
