package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/repositories"
)

type TournamentInput struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Active      bool      `json:"active"`
	BonusFactor float64   `json:"bonus_factor"`
}

type TournamentService interface {
	Create(ctx context.Context, input TournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error)
	// DeactivatePast is run periodically by the scheduler in main.
	DeactivatePast(ctx context.Context) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository, logger *slog.Logger) TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo, logger: logger}
}

func (s *tournamentService) Create(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:        input.Name,
		Date:        input.Date,
		Active:      input.Active,
		BonusFactor: input.BonusFactor,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, fmt.Errorf("%w: tournament name already exists", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, activeOnly bool) ([]*models.Tournament, error) {
	return s.tournamentRepo.List(ctx, activeOnly)
}

func (s *tournamentService) Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tournament.Name = input.Name
	tournament.Date = input.Date
	tournament.Active = input.Active
	tournament.BonusFactor = input.BonusFactor

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) DeactivatePast(ctx context.Context) error {
	affected, err := s.tournamentRepo.DeactivatePast(ctx)
	if err != nil {
		return err
	}
	if affected > 0 {
		s.logger.Info("deactivated past tournaments", slog.Int("count", affected))
	}
	return nil
}

func validateTournamentInput(input TournamentInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.Date.IsZero() {
		return fmt.Errorf("%w: tournament date is required", ErrValidationFailed)
	}
	if input.BonusFactor <= 0 {
		return ErrBonusFactorInvalid
	}
	return nil
}
