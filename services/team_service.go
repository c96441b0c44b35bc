package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/repositories"
)

type TeamService interface {
	Create(ctx context.Context, name string) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Delete(ctx context.Context, id int) error
	AddMember(ctx context.Context, teamID, playerID int) error
	RemoveMember(ctx context.Context, teamID, playerID int) error
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
}

func NewTeamService(teamRepo repositories.TeamRepository, playerRepo repositories.PlayerRepository) TeamService {
	return &teamService{teamRepo: teamRepo, playerRepo: playerRepo}
}

func (s *teamService) Create(ctx context.Context, name string) (*models.Team, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}

	team := &models.Team{Name: name}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].PasswordHash = ""
	}
	team.Members = members
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]*models.Team, error) {
	return s.teamRepo.List(ctx)
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	return nil
}

func (s *teamService) AddMember(ctx context.Context, teamID, playerID int) error {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}

	if err := s.teamRepo.AddMember(ctx, teamID, playerID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMemberConflict):
			return ErrMemberConflict
		case errors.Is(err, repositories.ErrTeamMemberInvalid):
			return ErrTeamNotFound
		}
		return err
	}
	return nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, playerID int) error {
	if err := s.teamRepo.RemoveMember(ctx, teamID, playerID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	return nil
}
