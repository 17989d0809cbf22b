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

// MinicourseRepository handles persistence for minicourses.
type MinicourseRepository interface {
	Create(ctx context.Context, in model.MinicourseInput) (*model.Minicourse, error)
	Update(ctx context.Context, id string, in model.MinicourseInput) (*model.Minicourse, error)
	UpdateCapacity(ctx context.Context, id string, vacancies int) error
	GetByID(ctx context.Context, id string) (*model.Minicourse, error)
	List(ctx context.Context, publishedOnly bool) ([]model.Minicourse, error)
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
}

type pgMinicourseRepository struct {
	db *pgxpool.Pool
}

// NewMinicourseRepository constructs a Postgres-backed MinicourseRepository.
func NewMinicourseRepository(db *pgxpool.Pool) MinicourseRepository {
	return &pgMinicourseRepository{db: db}
}

const minicourseColumns = `id, title, description, instructor, instructor_photo_url,
	location, date, time, type, theme, price, image_url, payment_url,
	vacancies, vacancies_left, is_published, published_at, created_at, updated_at`

func scanMinicourse(row pgx.Row) (*model.Minicourse, error) {
	var m model.Minicourse
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Instructor, &m.InstructorPhotoURL,
		&m.Location, &m.Date, &m.Time, &m.Type, &m.Theme, &m.Price, &m.ImageURL, &m.PaymentURL,
		&m.Vacancies, &m.VacanciesLeft, &m.IsPublished, &m.PublishedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new unpublished minicourse with all seats available.
func (r *pgMinicourseRepository) Create(ctx context.Context, in model.MinicourseInput) (*model.Minicourse, error) {
	now := time.Now().UTC()
	m := &model.Minicourse{
		ID:                 uuid.New().String(),
		Title:              in.Title,
		Description:        in.Description,
		Instructor:         in.Instructor,
		InstructorPhotoURL: in.InstructorPhotoURL,
		Location:           in.Location,
		Date:               in.Date,
		Time:               in.Time,
		Type:               in.Type,
		Theme:              in.Theme,
		Price:              in.Price,
		ImageURL:           in.ImageURL,
		PaymentURL:         in.PaymentURL,
		Vacancies:          in.Vacancies,
		VacanciesLeft:      in.Vacancies,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO minicourses (id, title, description, instructor, instructor_photo_url,
			location, date, time, type, theme, price, image_url, payment_url,
			vacancies, vacancies_left, is_published, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		m.ID, m.Title, m.Description, m.Instructor, m.InstructorPhotoURL,
		m.Location, m.Date, m.Time, m.Type, m.Theme, m.Price, m.ImageURL, m.PaymentURL,
		m.Vacancies, m.VacanciesLeft, m.IsPublished, m.PublishedAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert minicourse: %w", err)
	}
	return m, nil
}

// Update rewrites the descriptive fields. Capacity is left untouched here;
// use UpdateCapacity so vacancies_left is adjusted consistently.
func (r *pgMinicourseRepository) Update(ctx context.Context, id string, in model.MinicourseInput) (*model.Minicourse, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE minicourses
		 SET title = $2, description = $3, instructor = $4, instructor_photo_url = $5,
		     location = $6, date = $7, time = $8, type = $9, theme = $10, price = $11,
		     image_url = $12, payment_url = $13, updated_at = now()
		 WHERE id = $1
		 RETURNING `+minicourseColumns,
		id, in.Title, in.Description, in.Instructor, in.InstructorPhotoURL,
		in.Location, in.Date, in.Time, in.Type, in.Theme, in.Price,
		in.ImageURL, in.PaymentURL,
	)
	m, err := scanMinicourse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMinicourseNotFound
		}
		return nil, fmt.Errorf("update minicourse: %w", err)
	}
	return m, nil
}

// UpdateCapacity changes the total seat count, shifting vacancies_left by
// the same delta and clamping it into [0, vacancies].
func (r *pgMinicourseRepository) UpdateCapacity(ctx context.Context, id string, vacancies int) error {
	ct, err := r.db.Exec(ctx,
		`UPDATE minicourses
		 SET vacancies_left = GREATEST(0, LEAST($2, vacancies_left + ($2 - vacancies))),
		     vacancies = $2,
		     updated_at = now()
		 WHERE id = $1`,
		id, vacancies,
	)
	if err != nil {
		return fmt.Errorf("update capacity: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrMinicourseNotFound
	}
	return nil
}

// GetByID returns a single minicourse or ErrMinicourseNotFound.
func (r *pgMinicourseRepository) GetByID(ctx context.Context, id string) (*model.Minicourse, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+minicourseColumns+` FROM minicourses WHERE id = $1`, id)
	m, err := scanMinicourse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMinicourseNotFound
		}
		return nil, fmt.Errorf("get minicourse: %w", err)
	}
	return m, nil
}

// List returns minicourses newest first, optionally published only.
func (r *pgMinicourseRepository) List(ctx context.Context, publishedOnly bool) ([]model.Minicourse, error) {
	q := `SELECT ` + minicourseColumns + ` FROM minicourses`
	if publishedOnly {
		q += ` WHERE is_published = TRUE`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list minicourses: %w", err)
	}
	defer rows.Close()

	var out []model.Minicourse
	for rows.Next() {
		m, err := scanMinicourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan minicourse: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// SetPublished flips visibility, stamping published_at on first publish.
func (r *pgMinicourseRepository) SetPublished(ctx context.Context, id string, published bool) error {
	var publishedAt *time.Time
	if published {
		now := time.Now().UTC()
		publishedAt = &now
	}
	ct, err := r.db.Exec(ctx,
		`UPDATE minicourses SET is_published = $2, published_at = $3, updated_at = now() WHERE id = $1`,
		id, published, publishedAt,
	)
	if err != nil {
		return fmt.Errorf("publish minicourse: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrMinicourseNotFound
	}
	return nil
}

// Delete removes a minicourse. Callers must check the registration guard
// first; the FK constraint is the backstop.
func (r *pgMinicourseRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM minicourses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete minicourse: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrMinicourseNotFound
	}
	return nil
}
