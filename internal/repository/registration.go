package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luishrb/congress-portal/internal/model"
)

// RegistrationRepository handles persistence for minicourse registrations,
// including the seat-claiming and seat-releasing transactions.
type RegistrationRepository interface {
	// Register claims one seat and creates the registration atomically.
	Register(ctx context.Context, minicourseID string, req model.RegisterRequest) (*model.Registration, error)
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	// Delete removes a registration and returns one seat to its parent
	// minicourse in the same transaction.
	Delete(ctx context.Context, id string) error
	SetPayment(ctx context.Context, id string, isPaid bool) (*model.Registration, error)
	List(ctx context.Context, minicourseID string, paid *bool) ([]model.Registration, error)
	CountByMinicourse(ctx context.Context, minicourseID string) (total, paidCount int, err error)
}

type pgRegistrationRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

// NewRegistrationRepository constructs a Postgres-backed RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool, log *slog.Logger) RegistrationRepository {
	return &pgRegistrationRepository{db: db, log: log}
}

const registrationColumns = `id, minicourse_id, name, email, cpf, phone, institution,
	is_paid, paid_at, created_at, updated_at`

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(&reg.ID, &reg.MinicourseID, &reg.Name, &reg.Email, &reg.CPF,
		&reg.Phone, &reg.Institution, &reg.IsPaid, &reg.PaidAt, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Register performs a concurrency-safe seat claim.
//
// The claim is a single conditional decrement: the UPDATE only matches while
// vacancies_left > 0, so two concurrent registrations for the last seat
// cannot both succeed — the row lock serialises them and the loser sees zero
// rows affected. The registration insert lives in the same transaction, so a
// registration row can never exist without its matching decrement.
func (r *pgRegistrationRepository) Register(ctx context.Context, minicourseID string, req model.RegisterRequest) (*model.Registration, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	ct, err := tx.Exec(ctx,
		`UPDATE minicourses
		 SET vacancies_left = vacancies_left - 1, updated_at = now()
		 WHERE id = $1 AND vacancies_left > 0 AND is_published = TRUE`,
		minicourseID,
	)
	if err != nil {
		return nil, fmt.Errorf("claim seat: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Full, missing, or unpublished — find out which. Unpublished
		// minicourses are invisible to registrants, so they read as missing.
		var published bool
		err = tx.QueryRow(ctx,
			`SELECT is_published FROM minicourses WHERE id = $1`, minicourseID,
		).Scan(&published)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrMinicourseNotFound
			}
			return nil, fmt.Errorf("check minicourse: %w", err)
		}
		if !published {
			err = ErrMinicourseNotFound
			return nil, err
		}
		err = ErrNoVacanciesLeft
		return nil, err
	}

	now := time.Now().UTC()
	reg := &model.Registration{
		ID:           uuid.New().String(),
		MinicourseID: minicourseID,
		Name:         req.Name,
		Email:        req.Email,
		CPF:          req.CPF,
		Phone:        req.Phone,
		Institution:  req.Institution,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO minicourse_registrations
			(id, minicourse_id, name, email, cpf, phone, institution, is_paid, paid_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		reg.ID, reg.MinicourseID, reg.Name, reg.Email, reg.CPF, reg.Phone,
		reg.Institution, reg.IsPaid, reg.PaidAt, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit registration: %w", err)
	}
	return reg, nil
}

// GetByID returns a single registration or ErrRegistrationNotFound.
func (r *pgRegistrationRepository) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM minicourse_registrations WHERE id = $1`, id)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

// Delete removes a registration and returns its seat to the parent
// minicourse. The increment is clamped to the total so counter drift can
// never push vacancies_left above vacancies.
func (r *pgRegistrationRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var minicourseID string
	err = tx.QueryRow(ctx,
		`DELETE FROM minicourse_registrations WHERE id = $1 RETURNING minicourse_id`, id,
	).Scan(&minicourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}

	ct, err := tx.Exec(ctx,
		`UPDATE minicourses
		 SET vacancies_left = LEAST(vacancies_left + 1, vacancies), updated_at = now()
		 WHERE id = $1`,
		minicourseID,
	)
	if err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	if ct.RowsAffected() == 0 {
		r.log.Warn("consistency warning: registration parent missing, seat not released",
			"registration_id", id, "minicourse_id", minicourseID)
	}

	if err = tx.Commit(ctx); err != nil {
		r.log.Warn("consistency warning: cancel commit failed, counter may need manual reconciliation",
			"registration_id", id, "minicourse_id", minicourseID, "error", err)
		return fmt.Errorf("commit cancellation: %w", err)
	}
	return nil
}

// SetPayment flips is_paid and stamps or clears paid_at. Seat counters are
// never touched by payment changes.
func (r *pgRegistrationRepository) SetPayment(ctx context.Context, id string, isPaid bool) (*model.Registration, error) {
	var paidAt *time.Time
	if isPaid {
		now := time.Now().UTC()
		paidAt = &now
	}
	row := r.db.QueryRow(ctx,
		`UPDATE minicourse_registrations
		 SET is_paid = $2, paid_at = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+registrationColumns,
		id, isPaid, paidAt,
	)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return reg, nil
}

// List returns registrations, optionally filtered by minicourse and by
// payment state, oldest first.
func (r *pgRegistrationRepository) List(ctx context.Context, minicourseID string, paid *bool) ([]model.Registration, error) {
	q := `SELECT ` + registrationColumns + ` FROM minicourse_registrations WHERE 1=1`
	args := []any{}
	if minicourseID != "" {
		args = append(args, minicourseID)
		q += fmt.Sprintf(` AND minicourse_id = $%d`, len(args))
	}
	if paid != nil {
		args = append(args, *paid)
		q += fmt.Sprintf(` AND is_paid = $%d`, len(args))
	}
	q += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, *reg)
	}
	return out, rows.Err()
}

// CountByMinicourse returns total and paid registration counts.
func (r *pgRegistrationRepository) CountByMinicourse(ctx context.Context, minicourseID string) (int, int, error) {
	var total, paidCount int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_paid)
		 FROM minicourse_registrations WHERE minicourse_id = $1`,
		minicourseID,
	).Scan(&total, &paidCount)
	if err != nil {
		return 0, 0, fmt.Errorf("count registrations: %w", err)
	}
	return total, paidCount, nil
}
