package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dykim-dev/matchboard/models"
)

type RatingHistoryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.RatingHistory) error
	ListByPlayer(ctx context.Context, playerID int, limit int) ([]models.RatingHistory, error)
}

type postgresRatingHistoryRepository struct {
	db *sql.DB
}

func NewPostgresRatingHistoryRepository(db *sql.DB) RatingHistoryRepository {
	return &postgresRatingHistoryRepository{db: db}
}

func (r *postgresRatingHistoryRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.RatingHistory) error {
	query := `
		INSERT INTO rating_history
			(player_id, match_id, points_before, points_after, points_delta, handicap_before, handicap_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		entry.PlayerID,
		entry.MatchID,
		entry.PointsBefore,
		entry.PointsAfter,
		entry.PointsDelta,
		entry.HandicapBefore,
		entry.HandicapAfter,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert rating history for player %d: %w", entry.PlayerID, err)
	}
	return nil
}

func (r *postgresRatingHistoryRepository) ListByPlayer(ctx context.Context, playerID int, limit int) ([]models.RatingHistory, error) {
	query := `
		SELECT id, player_id, match_id, points_before, points_after, points_delta, handicap_before, handicap_after, created_at
		FROM rating_history WHERE player_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating history for player %d: %w", playerID, err)
	}
	defer rows.Close()

	entries := make([]models.RatingHistory, 0)
	for rows.Next() {
		var entry models.RatingHistory
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.PlayerID,
			&entry.MatchID,
			&entry.PointsBefore,
			&entry.PointsAfter,
			&entry.PointsDelta,
			&entry.HandicapBefore,
			&entry.HandicapAfter,
			&entry.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan rating history row: %w", scanErr)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
