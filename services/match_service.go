package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/rating"
	"github.com/dykim-dev/matchboard/repositories"
)

// TxRunner is implemented by db.NewTxRunner; declared here so services can
// be constructed with fakes in tests.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type CreateMatchInput struct {
	Mode           models.MatchMode    `json:"mode"`
	WinnerPlayerID *int                `json:"winner_player_id,omitempty"`
	LoserPlayerID  *int                `json:"loser_player_id,omitempty"`
	WinnerTeamID   *int                `json:"winner_team_id,omitempty"`
	LoserTeamID    *int                `json:"loser_team_id,omitempty"`
	WinnerScore    int                 `json:"winner_score"`
	LoserScore     int                 `json:"loser_score"`
	FinishReason   models.FinishReason `json:"finish_reason"`
	TournamentID   *int                `json:"tournament_id,omitempty"`
	Rated          bool                `json:"rated"`
}

type MatchService interface {
	// CreateMatch records a finished contest. For rated singles matches the
	// rating deltas, player aggregates and history rows are written in the
	// same transaction as the match itself.
	CreateMatch(ctx context.Context, reporterID int, input CreateMatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type matchService struct {
	tx             TxRunner
	matchRepo      repositories.MatchRepository
	playerRepo     repositories.PlayerRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	historyRepo    repositories.RatingHistoryRepository
	logger         *slog.Logger
}

func NewMatchService(
	tx TxRunner,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	historyRepo repositories.RatingHistoryRepository,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:             tx,
		matchRepo:      matchRepo,
		playerRepo:     playerRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		historyRepo:    historyRepo,
		logger:         logger,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, reporterID int, input CreateMatchInput) (*models.Match, error) {
	if err := validateMatchInput(input); err != nil {
		return nil, err
	}

	reporter, err := s.playerRepo.GetByID(ctx, reporterID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load reporter %d: %w", reporterID, err)
	}

	if err := s.authorizeReporter(ctx, reporter, input); err != nil {
		return nil, err
	}

	match := &models.Match{
		Mode:           input.Mode,
		WinnerPlayerID: input.WinnerPlayerID,
		LoserPlayerID:  input.LoserPlayerID,
		WinnerTeamID:   input.WinnerTeamID,
		LoserTeamID:    input.LoserTeamID,
		WinnerScore:    input.WinnerScore,
		LoserScore:     input.LoserScore,
		FinishReason:   input.FinishReason,
		TournamentID:   input.TournamentID,
		Rated:          input.Rated && ratingApplies(input),
		ReporterID:     reporterID,
	}

	bonus := 1.0
	if input.TournamentID != nil {
		tournament, err := s.tournamentRepo.GetByID(ctx, *input.TournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return nil, ErrTournamentNotFound
			}
			return nil, fmt.Errorf("failed to load tournament %d: %w", *input.TournamentID, err)
		}
		if !tournament.Active {
			return nil, ErrTournamentInactive
		}
		if match.Rated {
			bonus = tournament.BonusFactor
		}
	}

	var winner, loser *models.Player
	if match.Rated {
		if winner, loser, err = s.loadPair(ctx, *input.WinnerPlayerID, *input.LoserPlayerID); err != nil {
			return nil, err
		}
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return mapMatchRepoError(err)
		}
		if !match.Rated {
			return nil
		}
		return s.applyRating(ctx, exec, match, winner, loser, bonus)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match recorded",
		slog.Int("match_id", match.ID),
		slog.String("mode", string(match.Mode)),
		slog.Bool("rated", match.Rated),
		slog.Int("reporter_id", reporterID))

	return match, nil
}

// applyRating computes and persists both players' new rating state and the
// corresponding history rows inside the match transaction.
func (s *matchService) applyRating(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, winner, loser *models.Player, bonus float64) error {
	delta := rating.Compute(
		winner.Points, loser.Points,
		winner.Handicap, loser.Handicap,
		match.ScoreDiff(), bonus,
	)

	winnerPoints := rating.ApplyPoints(winner.Points, delta.WinnerPoints)
	winnerHandicap := rating.ApplyHandicap(winner.Handicap, delta.WinnerHandicap)
	loserPoints := rating.ApplyPoints(loser.Points, delta.LoserPoints)
	loserHandicap := rating.ApplyHandicap(loser.Handicap, delta.LoserHandicap)

	if err := s.playerRepo.ApplyResult(ctx, exec, winner.ID, winnerPoints, winnerHandicap, true); err != nil {
		return err
	}
	if err := s.playerRepo.ApplyResult(ctx, exec, loser.ID, loserPoints, loserHandicap, false); err != nil {
		return err
	}

	entries := []*models.RatingHistory{
		{
			PlayerID:       winner.ID,
			MatchID:        match.ID,
			PointsBefore:   winner.Points,
			PointsAfter:    winnerPoints,
			PointsDelta:    winnerPoints - winner.Points,
			HandicapBefore: winner.Handicap,
			HandicapAfter:  winnerHandicap,
		},
		{
			PlayerID:       loser.ID,
			MatchID:        match.ID,
			PointsBefore:   loser.Points,
			PointsAfter:    loserPoints,
			PointsDelta:    loserPoints - loser.Points,
			HandicapBefore: loser.Handicap,
			HandicapAfter:  loserHandicap,
		},
	}
	for _, entry := range entries {
		if err := s.historyRepo.Create(ctx, exec, entry); err != nil {
			return err
		}
	}
	return nil
}

// authorizeReporter enforces the participation rule: the acting player must
// be one of the match participants, a member of one of the teams, or an
// admin.
func (s *matchService) authorizeReporter(ctx context.Context, reporter *models.Player, input CreateMatchInput) error {
	if reporter.IsAdmin() {
		return nil
	}

	switch input.Mode {
	case models.MatchModeSolo:
		if *input.WinnerPlayerID == reporter.ID || *input.LoserPlayerID == reporter.ID {
			return nil
		}
	case models.MatchModeTeam:
		for _, teamID := range []int{*input.WinnerTeamID, *input.LoserTeamID} {
			isMember, err := s.teamRepo.IsMember(ctx, teamID, reporter.ID)
			if err != nil {
				return fmt.Errorf("failed to check team membership: %w", err)
			}
			if isMember {
				return nil
			}
		}
	}
	return ErrForbiddenOperation
}

func (s *matchService) loadPair(ctx context.Context, winnerID, loserID int) (*models.Player, *models.Player, error) {
	winner, err := s.playerRepo.GetByID(ctx, winnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, nil, ErrPlayerNotFound
		}
		return nil, nil, fmt.Errorf("failed to load winner %d: %w", winnerID, err)
	}
	loser, err := s.playerRepo.GetByID(ctx, loserID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, nil, ErrPlayerNotFound
		}
		return nil, nil, fmt.Errorf("failed to load loser %d: %w", loserID, err)
	}
	// Retired players keep their record but no longer move ratings.
	if !winner.Active || !loser.Active {
		return nil, nil, ErrPlayerInactive
	}
	return winner, loser, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListRecent(ctx context.Context, limit int) ([]*models.Match, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.matchRepo.ListRecent(ctx, limit)
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	return s.matchRepo.ListByTournament(ctx, tournamentID)
}

func validateMatchInput(input CreateMatchInput) error {
	switch input.Mode {
	case models.MatchModeSolo:
		if input.WinnerPlayerID == nil || input.LoserPlayerID == nil ||
			input.WinnerTeamID != nil || input.LoserTeamID != nil {
			return ErrMatchModeInvalid
		}
		if *input.WinnerPlayerID == *input.LoserPlayerID {
			return ErrSelfMatch
		}
	case models.MatchModeTeam:
		if input.WinnerTeamID == nil || input.LoserTeamID == nil ||
			input.WinnerPlayerID != nil || input.LoserPlayerID != nil {
			return ErrMatchModeInvalid
		}
		if *input.WinnerTeamID == *input.LoserTeamID {
			return ErrSelfMatch
		}
	default:
		return ErrMatchModeInvalid
	}

	if input.LoserScore >= input.WinnerScore {
		return ErrScoreInvalid
	}

	switch input.FinishReason {
	case models.FinishNormal, models.FinishTimeLimit, models.FinishForfeit, models.FinishWalkover:
	default:
		return ErrFinishReasonInvalid
	}
	return nil
}

// ratingApplies reports whether a match can move ratings at all: only
// singles matches ended by play (normal or time limit) are rated, walkovers
// and forfeits never are.
func ratingApplies(input CreateMatchInput) bool {
	if input.Mode != models.MatchModeSolo {
		return false
	}
	switch input.FinishReason {
	case models.FinishWalkover, models.FinishForfeit:
		return false
	}
	return true
}

func mapMatchRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrMatchPlayerInvalid):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrMatchTeamInvalid):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrMatchTournamentInvalid):
		return ErrTournamentNotFound
	}
	return err
}
