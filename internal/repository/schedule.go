package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luishrb/congress-portal/internal/model"
)

// ScheduleRepository handles persistence for programme entries.
type ScheduleRepository interface {
	Create(ctx context.Context, in model.ScheduleInput) (*model.ScheduleItem, error)
	Update(ctx context.Context, id string, in model.ScheduleInput) (*model.ScheduleItem, error)
	GetByID(ctx context.Context, id string) (*model.ScheduleItem, error)
	List(ctx context.Context, publishedOnly bool) ([]model.ScheduleItem, error)
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
}

type pgScheduleRepository struct {
	db *pgxpool.Pool
}

// NewScheduleRepository constructs a Postgres-backed ScheduleRepository.
func NewScheduleRepository(db *pgxpool.Pool) ScheduleRepository {
	return &pgScheduleRepository{db: db}
}

const scheduleColumns = `id, title, description, image_url, is_published, published_at,
	created_at, updated_at`

func scanScheduleItem(row pgx.Row) (*model.ScheduleItem, error) {
	var s model.ScheduleItem
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.ImageURL, &s.IsPublished,
		&s.PublishedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *pgScheduleRepository) Create(ctx context.Context, in model.ScheduleInput) (*model.ScheduleItem, error) {
	now := time.Now().UTC()
	s := &model.ScheduleItem{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO schedule (id, title, description, image_url, is_published, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Title, s.Description, s.ImageURL, s.IsPublished, s.PublishedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert schedule entry: %w", err)
	}
	return s, nil
}

func (r *pgScheduleRepository) Update(ctx context.Context, id string, in model.ScheduleInput) (*model.ScheduleItem, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE schedule
		 SET title = $2, description = $3, image_url = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+scheduleColumns,
		id, in.Title, in.Description, in.ImageURL,
	)
	s, err := scanScheduleItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("update schedule entry: %w", err)
	}
	return s, nil
}

func (r *pgScheduleRepository) GetByID(ctx context.Context, id string) (*model.ScheduleItem, error) {
	row := r.db.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM schedule WHERE id = $1`, id)
	s, err := scanScheduleItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get schedule entry: %w", err)
	}
	return s, nil
}

func (r *pgScheduleRepository) List(ctx context.Context, publishedOnly bool) ([]model.ScheduleItem, error) {
	q := `SELECT ` + scheduleColumns + ` FROM schedule`
	if publishedOnly {
		q += ` WHERE is_published = TRUE`
	}
	q += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	defer rows.Close()

	var out []model.ScheduleItem
	for rows.Next() {
		s, err := scanScheduleItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *pgScheduleRepository) SetPublished(ctx context.Context, id string, published bool) error {
	var publishedAt *time.Time
	if published {
		now := time.Now().UTC()
		publishedAt = &now
	}
	ct, err := r.db.Exec(ctx,
		`UPDATE schedule SET is_published = $2, published_at = $3, updated_at = now() WHERE id = $1`,
		id, published, publishedAt,
	)
	if err != nil {
		return fmt.Errorf("publish schedule entry: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *pgScheduleRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM schedule WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
