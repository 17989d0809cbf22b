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

// NewsRepository handles persistence for news posts.
type NewsRepository interface {
	Create(ctx context.Context, in model.NewsInput) (*model.News, error)
	Update(ctx context.Context, id string, in model.NewsInput) (*model.News, error)
	GetByID(ctx context.Context, id string) (*model.News, error)
	List(ctx context.Context, publishedOnly bool) ([]model.News, error)
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
}

type pgNewsRepository struct {
	db *pgxpool.Pool
}

// NewNewsRepository constructs a Postgres-backed NewsRepository.
func NewNewsRepository(db *pgxpool.Pool) NewsRepository {
	return &pgNewsRepository{db: db}
}

const newsColumns = `id, title, content, summary, image_url, video_url, image_size,
	is_published, published_at, created_at, updated_at`

func scanNews(row pgx.Row) (*model.News, error) {
	var n model.News
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Summary, &n.ImageURL, &n.VideoURL,
		&n.ImageSize, &n.IsPublished, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *pgNewsRepository) Create(ctx context.Context, in model.NewsInput) (*model.News, error) {
	now := time.Now().UTC()
	n := &model.News{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Content:   in.Content,
		Summary:   in.Summary,
		ImageURL:  in.ImageURL,
		VideoURL:  in.VideoURL,
		ImageSize: in.ImageSize,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO news (id, title, content, summary, image_url, video_url, image_size,
			is_published, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		n.ID, n.Title, n.Content, n.Summary, n.ImageURL, n.VideoURL, n.ImageSize,
		n.IsPublished, n.PublishedAt, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert news: %w", err)
	}
	return n, nil
}

func (r *pgNewsRepository) Update(ctx context.Context, id string, in model.NewsInput) (*model.News, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE news
		 SET title = $2, content = $3, summary = $4, image_url = $5, video_url = $6,
		     image_size = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING `+newsColumns,
		id, in.Title, in.Content, in.Summary, in.ImageURL, in.VideoURL, in.ImageSize,
	)
	n, err := scanNews(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("update news: %w", err)
	}
	return n, nil
}

func (r *pgNewsRepository) GetByID(ctx context.Context, id string) (*model.News, error) {
	row := r.db.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id)
	n, err := scanNews(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("get news: %w", err)
	}
	return n, nil
}

func (r *pgNewsRepository) List(ctx context.Context, publishedOnly bool) ([]model.News, error) {
	q := `SELECT ` + newsColumns + ` FROM news`
	if publishedOnly {
		q += ` WHERE is_published = TRUE`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer rows.Close()

	var out []model.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (r *pgNewsRepository) SetPublished(ctx context.Context, id string, published bool) error {
	var publishedAt *time.Time
	if published {
		now := time.Now().UTC()
		publishedAt = &now
	}
	ct, err := r.db.Exec(ctx,
		`UPDATE news SET is_published = $2, published_at = $3, updated_at = now() WHERE id = $1`,
		id, published, publishedAt,
	)
	if err != nil {
		return fmt.Errorf("publish news: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNewsNotFound
	}
	return nil
}

func (r *pgNewsRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNewsNotFound
	}
	return nil
}
