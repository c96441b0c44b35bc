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
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamNameConflict  = errors.New("team name conflict")
	ErrTeamMemberInvalid = errors.New("team member references an unknown player or team")
	ErrMemberConflict    = errors.New("player is already a member of this team")
	ErrMemberNotFound    = errors.New("team membership not found")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Delete(ctx context.Context, id int) error
	AddMember(ctx context.Context, teamID, playerID int) error
	RemoveMember(ctx context.Context, teamID, playerID int) error
	ListMembers(ctx context.Context, teamID int) ([]models.Player, error)
	IsMember(ctx context.Context, teamID, playerID int) (bool, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `INSERT INTO teams (name) VALUES ($1) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, team.Name).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == "teams_name_key" {
			return ErrTeamNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT id, name, created_at FROM teams WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&team.ID, &team.Name, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team %d: %w", id, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM teams ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team := &models.Team{}
		if scanErr := rows.Scan(&team.ID, &team.Name, &team.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, teamID, playerID int) error {
	query := `INSERT INTO team_members (team_id, player_id) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, teamID, playerID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrMemberConflict
			case "23503":
				return ErrTeamMemberInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) RemoveMember(ctx context.Context, teamID, playerID int) error {
	query := `DELETE FROM team_members WHERE team_id = $1 AND player_id = $2`
	result, err := r.db.ExecContext(ctx, query, teamID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]models.Player, error) {
	query := `
		SELECT p.id, p.name, p.email, p.password_hash, p.role, p.points, p.handicap,
		       p.match_count, p.wins, p.losses, p.dummy, p.active, p.avatar_key, p.created_at
		FROM players p
		JOIN team_members tm ON tm.player_id = p.id
		WHERE tm.team_id = $1
		ORDER BY p.name ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members for team %d: %w", teamID, err)
	}
	defer rows.Close()

	members := make([]models.Player, 0)
	for rows.Next() {
		player, scanErr := scanPlayerRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		members = append(members, *player)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *postgresTeamRepository) IsMember(ctx context.Context, teamID, playerID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND player_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, teamID, playerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership (team %d, player %d): %w", teamID, playerID, err)
	}
	return exists, nil
}
