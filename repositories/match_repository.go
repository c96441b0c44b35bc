package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dykim-dev/matchboard/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchPlayerInvalid     = errors.New("match references an unknown player")
	ErrMatchTeamInvalid       = errors.New("match references an unknown team")
	ErrMatchTournamentInvalid = errors.New("match references an unknown tournament")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	Count(ctx context.Context) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, mode, winner_player_id, loser_player_id, winner_team_id, loser_team_id,
	winner_score, loser_score, finish_reason, tournament_id, rated, reporter_id, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(mode, winner_player_id, loser_player_id, winner_team_id, loser_team_id,
			 winner_score, loser_score, finish_reason, tournament_id, rated, reporter_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.Mode,
		match.WinnerPlayerID,
		match.LoserPlayerID,
		match.WinnerTeamID,
		match.LoserTeamID,
		match.WinnerScore,
		match.LoserScore,
		match.FinishReason,
		match.TournamentID,
		match.Rated,
		match.ReporterID,
	).Scan(&match.ID, &match.CreatedAt)

	return handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.Mode,
		&match.WinnerPlayerID,
		&match.LoserPlayerID,
		&match.WinnerTeamID,
		&match.LoserTeamID,
		&match.WinnerScore,
		&match.LoserScore,
		&match.FinishReason,
		&match.TournamentID,
		&match.Rated,
		&match.ReporterID,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListRecent(ctx context.Context, limit int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches ORDER BY created_at DESC, id DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, tournamentID)
}

func (r *postgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func (r *postgresMatchRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match := &models.Match{}
		if scanErr := rows.Scan(
			&match.ID,
			&match.Mode,
			&match.WinnerPlayerID,
			&match.LoserPlayerID,
			&match.WinnerTeamID,
			&match.LoserTeamID,
			&match.WinnerScore,
			&match.LoserScore,
			&match.FinishReason,
			&match.TournamentID,
			&match.Rated,
			&match.ReporterID,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "matches_winner_player_id_fkey", "matches_loser_player_id_fkey", "matches_reporter_id_fkey":
			return ErrMatchPlayerInvalid
		case "matches_winner_team_id_fkey", "matches_loser_team_id_fkey":
			return ErrMatchTeamInvalid
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		}
	}
	return err
}
