package services

import (
	"context"

	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	playerRepo     repositories.PlayerRepository
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	noticeRepo     repositories.NoticeRepository
}

func NewDashboardService(
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	noticeRepo repositories.NoticeRepository,
) DashboardService {
	return &dashboardService{
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		noticeRepo:     noticeRepo,
	}
}

// Stats fans the count queries out concurrently; they are independent reads.
func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.PlayersTotal, err = s.playerRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.MatchesTotal, err = s.matchRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TournamentsTotal, err = s.tournamentRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveTournaments, err = s.tournamentRepo.CountActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.NoticesTotal, err = s.noticeRepo.Count(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
