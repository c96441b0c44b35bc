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
	ErrLeagueBlockNotFound = errors.New("league block not found")
	ErrLeagueMatchNotFound = errors.New("league match not found")
	ErrLeaguePlayerInvalid = errors.New("league match references an unknown player")
)

type LeagueRepository interface {
	CreateBlock(ctx context.Context, block *models.LeagueBlock) error
	GetBlock(ctx context.Context, id int) (*models.LeagueBlock, error)
	ListBlocksByTournament(ctx context.Context, tournamentID int) ([]*models.LeagueBlock, error)
	SetBlockWinner(ctx context.Context, blockID int, playerID *int) error
	CreateMatch(ctx context.Context, match *models.LeagueMatch) error
	ListMatchesByBlock(ctx context.Context, blockID int) ([]models.LeagueMatch, error)
	DeleteMatch(ctx context.Context, id int) error
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) CreateBlock(ctx context.Context, block *models.LeagueBlock) error {
	query := `
		INSERT INTO league_blocks (tournament_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, block.TournamentID, block.Name).
		Scan(&block.ID, &block.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "league_blocks_tournament_id_fkey" {
			return ErrTournamentNotFound
		}
		return err
	}
	return nil
}

func (r *postgresLeagueRepository) GetBlock(ctx context.Context, id int) (*models.LeagueBlock, error) {
	query := `
		SELECT id, tournament_id, name, winner_player_id, created_at
		FROM league_blocks WHERE id = $1`

	block := &models.LeagueBlock{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&block.ID,
		&block.TournamentID,
		&block.Name,
		&block.WinnerPlayerID,
		&block.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueBlockNotFound
		}
		return nil, fmt.Errorf("failed to scan league block %d: %w", id, err)
	}
	return block, nil
}

func (r *postgresLeagueRepository) ListBlocksByTournament(ctx context.Context, tournamentID int) ([]*models.LeagueBlock, error) {
	query := `
		SELECT id, tournament_id, name, winner_player_id, created_at
		FROM league_blocks WHERE tournament_id = $1 ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query league blocks for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	blocks := make([]*models.LeagueBlock, 0)
	for rows.Next() {
		block := &models.LeagueBlock{}
		if scanErr := rows.Scan(
			&block.ID,
			&block.TournamentID,
			&block.Name,
			&block.WinnerPlayerID,
			&block.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan league block row: %w", scanErr)
		}
		blocks = append(blocks, block)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *postgresLeagueRepository) SetBlockWinner(ctx context.Context, blockID int, playerID *int) error {
	query := `UPDATE league_blocks SET winner_player_id = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, playerID, blockID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "league_blocks_winner_player_id_fkey" {
			return ErrLeaguePlayerInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrLeagueBlockNotFound)
}

func (r *postgresLeagueRepository) CreateMatch(ctx context.Context, match *models.LeagueMatch) error {
	query := `
		INSERT INTO league_matches (block_id, p1_id, p2_id, p1_score, p2_score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		match.BlockID,
		match.P1ID,
		match.P2ID,
		match.P1Score,
		match.P2Score,
	).Scan(&match.ID, &match.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "league_matches_block_id_fkey":
				return ErrLeagueBlockNotFound
			case "league_matches_p1_id_fkey", "league_matches_p2_id_fkey":
				return ErrLeaguePlayerInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresLeagueRepository) ListMatchesByBlock(ctx context.Context, blockID int) ([]models.LeagueMatch, error) {
	query := `
		SELECT id, block_id, p1_id, p2_id, p1_score, p2_score, created_at
		FROM league_matches WHERE block_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, blockID)
	if err != nil {
		return nil, fmt.Errorf("failed to query league matches for block %d: %w", blockID, err)
	}
	defer rows.Close()

	matches := make([]models.LeagueMatch, 0)
	for rows.Next() {
		var match models.LeagueMatch
		if scanErr := rows.Scan(
			&match.ID,
			&match.BlockID,
			&match.P1ID,
			&match.P2ID,
			&match.P1Score,
			&match.P2Score,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan league match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresLeagueRepository) DeleteMatch(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM league_matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeagueMatchNotFound)
}
