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
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerEmailConflict = errors.New("player email conflict")
	ErrPlayerNameConflict  = errors.New("player name conflict")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByEmail(ctx context.Context, email string) (*models.Player, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error
	// ApplyResult updates a player's rating state and tallies after a
	// finalized match, inside the caller's transaction.
	ApplyResult(ctx context.Context, exec SQLExecutor, id, points, handicap int, won bool) error
	Count(ctx context.Context) (int, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, name, email, password_hash, role, points, handicap, match_count, wins, losses, dummy, active, avatar_key, created_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (name, email, password_hash, role, points, handicap, dummy, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.Name,
		player.Email,
		player.PasswordHash,
		player.Role,
		player.Points,
		player.Handicap,
		player.Dummy,
		player.Active,
	).Scan(&player.ID, &player.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "players_email_key":
				return ErrPlayerEmailConflict
			case "players_name_key":
				return ErrPlayerNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE email = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, email))
}

// List returns players ordered by ranking points. Dummy placeholder rows
// are excluded from the public ranking.
func (r *postgresPlayerRepository) List(ctx context.Context, activeOnly bool) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE dummy = FALSE`
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY points DESC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		player, scanErr := scanPlayerRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, player)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			name = $1,
			email = $2,
			password_hash = $3,
			role = $4,
			active = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		player.Name,
		player.Email,
		player.PasswordHash,
		player.Role,
		player.Active,
		player.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "players_email_key":
				return ErrPlayerEmailConflict
			case "players_name_key":
				return ErrPlayerNameConflict
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	query := `UPDATE players SET avatar_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, avatarKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) ApplyResult(ctx context.Context, exec SQLExecutor, id, points, handicap int, won bool) error {
	query := `
		UPDATE players SET
			points = $1,
			handicap = $2,
			match_count = match_count + 1,
			wins = wins + CASE WHEN $3 THEN 1 ELSE 0 END,
			losses = losses + CASE WHEN $3 THEN 0 ELSE 1 END
		WHERE id = $4`

	result, err := exec.ExecContext(ctx, query, points, handicap, won, id)
	if err != nil {
		return fmt.Errorf("ApplyResult: failed to update player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE dummy = FALSE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func (r *postgresPlayerRepository) scanPlayer(row *sql.Row) (*models.Player, error) {
	player := &models.Player{}
	err := row.Scan(
		&player.ID,
		&player.Name,
		&player.Email,
		&player.PasswordHash,
		&player.Role,
		&player.Points,
		&player.Handicap,
		&player.MatchCount,
		&player.Wins,
		&player.Losses,
		&player.Dummy,
		&player.Active,
		&player.AvatarKey,
		&player.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func scanPlayerRow(rows *sql.Rows) (*models.Player, error) {
	player := &models.Player{}
	err := rows.Scan(
		&player.ID,
		&player.Name,
		&player.Email,
		&player.PasswordHash,
		&player.Role,
		&player.Points,
		&player.Handicap,
		&player.MatchCount,
		&player.Wins,
		&player.Losses,
		&player.Dummy,
		&player.Active,
		&player.AvatarKey,
		&player.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan player row: %w", err)
	}
	return player, nil
}
