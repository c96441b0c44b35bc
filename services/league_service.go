package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dykim-dev/matchboard/brackets"
	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/repositories"
)

type RecordLeagueMatchInput struct {
	BlockID int `json:"block_id"`
	P1ID    int `json:"p1_id"`
	P2ID    int `json:"p2_id"`
	P1Score int `json:"p1_score"`
	P2Score int `json:"p2_score"`
}

type LeagueService interface {
	CreateBlock(ctx context.Context, tournamentID int, name string) (*models.LeagueBlock, error)
	ListBlocks(ctx context.Context, tournamentID int) ([]*models.LeagueBlock, error)
	RecordMatch(ctx context.Context, input RecordLeagueMatchInput) (*models.LeagueMatch, error)
	// Standings folds the block's results into the table ordering: wins,
	// then point differential, then points scored, then name.
	Standings(ctx context.Context, blockID int) ([]brackets.Standing, error)
	// SetWinner records a block's winner. A nil playerID derives the
	// winner from the current standings instead of an admin override.
	SetWinner(ctx context.Context, blockID int, playerID *int) (*models.LeagueBlock, error)
}

type leagueService struct {
	leagueRepo repositories.LeagueRepository
	playerRepo repositories.PlayerRepository
	logger     *slog.Logger
}

func NewLeagueService(
	leagueRepo repositories.LeagueRepository,
	playerRepo repositories.PlayerRepository,
	logger *slog.Logger,
) LeagueService {
	return &leagueService{
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
		logger:     logger,
	}
}

func (s *leagueService) CreateBlock(ctx context.Context, tournamentID int, name string) (*models.LeagueBlock, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: block name is required", ErrValidationFailed)
	}

	block := &models.LeagueBlock{TournamentID: tournamentID, Name: name}
	if err := s.leagueRepo.CreateBlock(ctx, block); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to create league block: %w", err)
	}
	return block, nil
}

func (s *leagueService) ListBlocks(ctx context.Context, tournamentID int) ([]*models.LeagueBlock, error) {
	return s.leagueRepo.ListBlocksByTournament(ctx, tournamentID)
}

func (s *leagueService) RecordMatch(ctx context.Context, input RecordLeagueMatchInput) (*models.LeagueMatch, error) {
	if input.P1ID == input.P2ID {
		return nil, ErrSelfMatch
	}
	if input.P1Score < 0 || input.P2Score < 0 {
		return nil, fmt.Errorf("%w: scores cannot be negative", ErrValidationFailed)
	}

	match := &models.LeagueMatch{
		BlockID: input.BlockID,
		P1ID:    input.P1ID,
		P2ID:    input.P2ID,
		P1Score: input.P1Score,
		P2Score: input.P2Score,
	}
	if err := s.leagueRepo.CreateMatch(ctx, match); err != nil {
		switch {
		case errors.Is(err, repositories.ErrLeagueBlockNotFound):
			return nil, ErrLeagueBlockNotFound
		case errors.Is(err, repositories.ErrLeaguePlayerInvalid):
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to record league match: %w", err)
	}
	return match, nil
}

func (s *leagueService) Standings(ctx context.Context, blockID int) ([]brackets.Standing, error) {
	if _, err := s.leagueRepo.GetBlock(ctx, blockID); err != nil {
		if errors.Is(err, repositories.ErrLeagueBlockNotFound) {
			return nil, ErrLeagueBlockNotFound
		}
		return nil, err
	}

	matches, err := s.leagueRepo.ListMatchesByBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	names, err := s.playerNames(ctx, matches)
	if err != nil {
		return nil, err
	}
	return brackets.ComputeStandings(matches, names), nil
}

func (s *leagueService) SetWinner(ctx context.Context, blockID int, playerID *int) (*models.LeagueBlock, error) {
	if playerID == nil {
		standings, err := s.Standings(ctx, blockID)
		if err != nil {
			return nil, err
		}
		winner := brackets.BlockWinner(standings)
		if winner == nil {
			return nil, fmt.Errorf("%w: block has no results to derive a winner from", ErrValidationFailed)
		}
		playerID = &winner.PlayerID
	}

	if err := s.leagueRepo.SetBlockWinner(ctx, blockID, playerID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrLeagueBlockNotFound):
			return nil, ErrLeagueBlockNotFound
		case errors.Is(err, repositories.ErrLeaguePlayerInvalid):
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	s.logger.Info("league block winner set",
		slog.Int("block_id", blockID),
		slog.Int("player_id", *playerID))

	return s.leagueRepo.GetBlock(ctx, blockID)
}

// playerNames resolves display names for every player appearing in the
// block's matches.
func (s *leagueService) playerNames(ctx context.Context, matches []models.LeagueMatch) (map[int]string, error) {
	names := make(map[int]string)
	for _, m := range matches {
		for _, id := range []int{m.P1ID, m.P2ID} {
			if _, ok := names[id]; ok {
				continue
			}
			player, err := s.playerRepo.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, repositories.ErrPlayerNotFound) {
					names[id] = fmt.Sprintf("player %d", id)
					continue
				}
				return nil, err
			}
			names[id] = player.Name
		}
	}
	return names, nil
}
