package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dykim-dev/matchboard/models"
)

var ErrNoticeNotFound = errors.New("notice not found")

type NoticeRepository interface {
	Create(ctx context.Context, notice *models.Notice) error
	GetByID(ctx context.Context, id int) (*models.Notice, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Notice, error)
	Update(ctx context.Context, notice *models.Notice) error
	UpdateImageKey(ctx context.Context, id int, imageKey *string) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresNoticeRepository struct {
	db *sql.DB
}

func NewPostgresNoticeRepository(db *sql.DB) NoticeRepository {
	return &postgresNoticeRepository{db: db}
}

const noticeColumns = `id, title, content, notice_date, published, image_key, author_id, created_at`

func (r *postgresNoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	query := `
		INSERT INTO notices (title, content, notice_date, published, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		notice.Title,
		notice.Content,
		notice.Date,
		notice.Published,
		notice.AuthorID,
	).Scan(&notice.ID, &notice.CreatedAt)
}

func (r *postgresNoticeRepository) GetByID(ctx context.Context, id int) (*models.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE id = $1`

	notice := &models.Notice{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&notice.ID,
		&notice.Title,
		&notice.Content,
		&notice.Date,
		&notice.Published,
		&notice.ImageKey,
		&notice.AuthorID,
		&notice.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoticeNotFound
		}
		return nil, fmt.Errorf("failed to scan notice %d: %w", id, err)
	}
	return notice, nil
}

func (r *postgresNoticeRepository) List(ctx context.Context, publishedOnly bool) ([]*models.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY notice_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notices: %w", err)
	}
	defer rows.Close()

	notices := make([]*models.Notice, 0)
	for rows.Next() {
		notice := &models.Notice{}
		if scanErr := rows.Scan(
			&notice.ID,
			&notice.Title,
			&notice.Content,
			&notice.Date,
			&notice.Published,
			&notice.ImageKey,
			&notice.AuthorID,
			&notice.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan notice row: %w", scanErr)
		}
		notices = append(notices, notice)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *postgresNoticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	query := `
		UPDATE notices SET title = $1, content = $2, notice_date = $3, published = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		notice.Title,
		notice.Content,
		notice.Date,
		notice.Published,
		notice.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNoticeNotFound)
}

func (r *postgresNoticeRepository) UpdateImageKey(ctx context.Context, id int, imageKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notices SET image_key = $1 WHERE id = $2`, imageKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNoticeNotFound)
}

func (r *postgresNoticeRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNoticeNotFound)
}

func (r *postgresNoticeRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notices`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notices: %w", err)
	}
	return count, nil
}
