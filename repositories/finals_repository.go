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
	ErrBracketNotFound        = errors.New("final bracket not found")
	ErrFinalSlotNotFound      = errors.New("final slot not found")
	ErrFinalMatchNotFound     = errors.New("final match not found")
	ErrFinalSlotPlayerInvalid = errors.New("final slot references an unknown player")
)

type FinalBracketRepository interface {
	Create(ctx context.Context, bracket *models.FinalBracket) error
	GetByID(ctx context.Context, id int) (*models.FinalBracket, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.FinalBracket, error)
	UpdateConfig(ctx context.Context, id int, matchFormat models.MatchFormat, visibleRounds int) error
	Delete(ctx context.Context, id int) error
}

type FinalSlotRepository interface {
	// Upsert creates or replaces the occupant of (round, slot).
	Upsert(ctx context.Context, exec SQLExecutor, slot *models.FinalSlot) error
	Delete(ctx context.Context, exec SQLExecutor, bracketID, round, slotNo int) error
	ListByBracket(ctx context.Context, bracketID int) ([]models.FinalSlot, error)
}

type FinalMatchRepository interface {
	// Upsert stores the result for (round, match number), overwriting any
	// previous result for the same pair.
	Upsert(ctx context.Context, exec SQLExecutor, match *models.FinalMatch) error
	ListByBracket(ctx context.Context, bracketID int) ([]models.FinalMatch, error)
	// ClearFromRound nulls every result with round_no >= round. Invoked
	// whenever a slot occupant changes, so downstream results never go
	// stale. Earlier rounds are untouched.
	ClearFromRound(ctx context.Context, exec SQLExecutor, bracketID, round int) error
	// ClearAfterRound nulls results with round_no > round, used when a
	// round's own result is re-reported.
	ClearAfterRound(ctx context.Context, exec SQLExecutor, bracketID, round int) error
}

type postgresFinalBracketRepository struct {
	db *sql.DB
}

func NewPostgresFinalBracketRepository(db *sql.DB) FinalBracketRepository {
	return &postgresFinalBracketRepository{db: db}
}

func (r *postgresFinalBracketRepository) Create(ctx context.Context, bracket *models.FinalBracket) error {
	query := `
		INSERT INTO final_brackets (tournament_id, title, match_format, visible_rounds)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		bracket.TournamentID,
		bracket.Title,
		bracket.MatchFormat,
		bracket.VisibleRounds,
	).Scan(&bracket.ID, &bracket.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "final_brackets_tournament_id_fkey" {
			return ErrTournamentNotFound
		}
		return err
	}
	return nil
}

func (r *postgresFinalBracketRepository) GetByID(ctx context.Context, id int) (*models.FinalBracket, error) {
	query := `
		SELECT id, tournament_id, title, match_format, visible_rounds, created_at
		FROM final_brackets WHERE id = $1`

	bracket := &models.FinalBracket{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&bracket.ID,
		&bracket.TournamentID,
		&bracket.Title,
		&bracket.MatchFormat,
		&bracket.VisibleRounds,
		&bracket.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, fmt.Errorf("failed to scan bracket %d: %w", id, err)
	}
	return bracket, nil
}

func (r *postgresFinalBracketRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.FinalBracket, error) {
	query := `
		SELECT id, tournament_id, title, match_format, visible_rounds, created_at
		FROM final_brackets WHERE tournament_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query brackets for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	brackets := make([]*models.FinalBracket, 0)
	for rows.Next() {
		bracket := &models.FinalBracket{}
		if scanErr := rows.Scan(
			&bracket.ID,
			&bracket.TournamentID,
			&bracket.Title,
			&bracket.MatchFormat,
			&bracket.VisibleRounds,
			&bracket.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan bracket row: %w", scanErr)
		}
		brackets = append(brackets, bracket)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return brackets, nil
}

func (r *postgresFinalBracketRepository) UpdateConfig(ctx context.Context, id int, matchFormat models.MatchFormat, visibleRounds int) error {
	query := `UPDATE final_brackets SET match_format = $1, visible_rounds = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, matchFormat, visibleRounds, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *postgresFinalBracketRepository) Delete(ctx context.Context, id int) error {
	// Slots and results cascade in the schema.
	result, err := r.db.ExecContext(ctx, `DELETE FROM final_brackets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

type postgresFinalSlotRepository struct {
	db *sql.DB
}

func NewPostgresFinalSlotRepository(db *sql.DB) FinalSlotRepository {
	return &postgresFinalSlotRepository{db: db}
}

func (r *postgresFinalSlotRepository) Upsert(ctx context.Context, exec SQLExecutor, slot *models.FinalSlot) error {
	query := `
		INSERT INTO final_slots (bracket_id, round_no, slot_no, player_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (bracket_id, round_no, slot_no)
		DO UPDATE SET player_id = EXCLUDED.player_id
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		slot.BracketID,
		slot.Round,
		slot.Slot,
		slot.PlayerID,
	).Scan(&slot.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "final_slots_player_id_fkey":
				return ErrFinalSlotPlayerInvalid
			case "final_slots_bracket_id_fkey":
				return ErrBracketNotFound
			}
		}
		return fmt.Errorf("failed to upsert slot (bracket %d r%d s%d): %w", slot.BracketID, slot.Round, slot.Slot, err)
	}
	return nil
}

func (r *postgresFinalSlotRepository) Delete(ctx context.Context, exec SQLExecutor, bracketID, round, slotNo int) error {
	query := `DELETE FROM final_slots WHERE bracket_id = $1 AND round_no = $2 AND slot_no = $3`
	result, err := exec.ExecContext(ctx, query, bracketID, round, slotNo)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFinalSlotNotFound)
}

func (r *postgresFinalSlotRepository) ListByBracket(ctx context.Context, bracketID int) ([]models.FinalSlot, error) {
	query := `
		SELECT id, bracket_id, round_no, slot_no, player_id
		FROM final_slots WHERE bracket_id = $1
		ORDER BY round_no ASC, slot_no ASC`

	rows, err := r.db.QueryContext(ctx, query, bracketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots for bracket %d: %w", bracketID, err)
	}
	defer rows.Close()

	slots := make([]models.FinalSlot, 0)
	for rows.Next() {
		var slot models.FinalSlot
		if scanErr := rows.Scan(&slot.ID, &slot.BracketID, &slot.Round, &slot.Slot, &slot.PlayerID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan slot row: %w", scanErr)
		}
		slots = append(slots, slot)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

type postgresFinalMatchRepository struct {
	db *sql.DB
}

func NewPostgresFinalMatchRepository(db *sql.DB) FinalMatchRepository {
	return &postgresFinalMatchRepository{db: db}
}

func (r *postgresFinalMatchRepository) Upsert(ctx context.Context, exec SQLExecutor, match *models.FinalMatch) error {
	query := `
		INSERT INTO final_matches
			(bracket_id, round_no, match_no, sets_json, winner_player_id, loser_player_id, advantage, finish_reason, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (bracket_id, round_no, match_no)
		DO UPDATE SET
			sets_json = EXCLUDED.sets_json,
			winner_player_id = EXCLUDED.winner_player_id,
			loser_player_id = EXCLUDED.loser_player_id,
			advantage = EXCLUDED.advantage,
			finish_reason = EXCLUDED.finish_reason,
			updated_at = NOW()
		RETURNING id, updated_at`

	err := exec.QueryRowContext(ctx, query,
		match.BracketID,
		match.Round,
		match.MatchNo,
		match.SetsJSON,
		match.WinnerPlayerID,
		match.LoserPlayerID,
		match.Advantage,
		match.FinishReason,
	).Scan(&match.ID, &match.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "final_matches_bracket_id_fkey" {
			return ErrBracketNotFound
		}
		return fmt.Errorf("failed to upsert final match (bracket %d r%d m%d): %w", match.BracketID, match.Round, match.MatchNo, err)
	}
	return nil
}

func (r *postgresFinalMatchRepository) ListByBracket(ctx context.Context, bracketID int) ([]models.FinalMatch, error) {
	query := `
		SELECT id, bracket_id, round_no, match_no, sets_json, winner_player_id, loser_player_id, advantage, finish_reason, updated_at
		FROM final_matches WHERE bracket_id = $1
		ORDER BY round_no ASC, match_no ASC`

	rows, err := r.db.QueryContext(ctx, query, bracketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query final matches for bracket %d: %w", bracketID, err)
	}
	defer rows.Close()

	matches := make([]models.FinalMatch, 0)
	for rows.Next() {
		var match models.FinalMatch
		if scanErr := rows.Scan(
			&match.ID,
			&match.BracketID,
			&match.Round,
			&match.MatchNo,
			&match.SetsJSON,
			&match.WinnerPlayerID,
			&match.LoserPlayerID,
			&match.Advantage,
			&match.FinishReason,
			&match.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan final match row: %w", scanErr)
		}
		if decodeErr := match.DecodeSets(); decodeErr != nil {
			return nil, fmt.Errorf("failed to decode sets for final match %d: %w", match.ID, decodeErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresFinalMatchRepository) ClearFromRound(ctx context.Context, exec SQLExecutor, bracketID, round int) error {
	return r.clear(ctx, exec, bracketID, round, `round_no >= $2`)
}

func (r *postgresFinalMatchRepository) ClearAfterRound(ctx context.Context, exec SQLExecutor, bracketID, round int) error {
	return r.clear(ctx, exec, bracketID, round, `round_no > $2`)
}

func (r *postgresFinalMatchRepository) clear(ctx context.Context, exec SQLExecutor, bracketID, round int, cond string) error {
	query := `
		UPDATE final_matches SET
			sets_json = NULL,
			winner_player_id = NULL,
			loser_player_id = NULL,
			advantage = 0,
			finish_reason = NULL,
			updated_at = NOW()
		WHERE bracket_id = $1 AND ` + cond

	// Zero affected rows is fine here: there may be nothing downstream yet.
	if _, err := exec.ExecContext(ctx, query, bracketID, round); err != nil {
		return fmt.Errorf("failed to clear final matches (bracket %d, from round %d): %w", bracketID, round, err)
	}
	return nil
}
