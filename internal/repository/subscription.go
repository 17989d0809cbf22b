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

// SubscriptionRepository handles persistence for congress subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, req model.SubscribeRequest) (*model.Subscription, error)
	GetByID(ctx context.Context, id string) (*model.Subscription, error)
	List(ctx context.Context, paid *bool) ([]model.Subscription, error)
	SetPayment(ctx context.Context, id string, isPaid bool) (*model.Subscription, error)
	Delete(ctx context.Context, id string) error
}

type pgSubscriptionRepository struct {
	db *pgxpool.Pool
}

// NewSubscriptionRepository constructs a Postgres-backed SubscriptionRepository.
func NewSubscriptionRepository(db *pgxpool.Pool) SubscriptionRepository {
	return &pgSubscriptionRepository{db: db}
}

const subscriptionColumns = `id, name, email, cpf, phone, institution, status,
	is_paid, paid_at, created_at, updated_at`

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var s model.Subscription
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.CPF, &s.Phone, &s.Institution,
		&s.Status, &s.IsPaid, &s.PaidAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *pgSubscriptionRepository) Create(ctx context.Context, req model.SubscribeRequest) (*model.Subscription, error) {
	now := time.Now().UTC()
	s := &model.Subscription{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       req.Email,
		CPF:         req.CPF,
		Phone:       req.Phone,
		Institution: req.Institution,
		Status:      "pending",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO subscriptions (id, name, email, cpf, phone, institution, status,
			is_paid, paid_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.Name, s.Email, s.CPF, s.Phone, s.Institution, s.Status,
		s.IsPaid, s.PaidAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}
	return s, nil
}

func (r *pgSubscriptionRepository) GetByID(ctx context.Context, id string) (*model.Subscription, error) {
	row := r.db.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	s, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return s, nil
}

func (r *pgSubscriptionRepository) List(ctx context.Context, paid *bool) ([]model.Subscription, error) {
	q := `SELECT ` + subscriptionColumns + ` FROM subscriptions`
	args := []any{}
	if paid != nil {
		args = append(args, *paid)
		q += ` WHERE is_paid = $1`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// SetPayment mirrors the registration payment toggle: paid_at is stamped on
// the false→true transition and cleared on true→false. Status tracks it.
func (r *pgSubscriptionRepository) SetPayment(ctx context.Context, id string, isPaid bool) (*model.Subscription, error) {
	var paidAt *time.Time
	status := "pending"
	if isPaid {
		now := time.Now().UTC()
		paidAt = &now
		status = "confirmed"
	}
	row := r.db.QueryRow(ctx,
		`UPDATE subscriptions
		 SET is_paid = $2, paid_at = $3, status = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+subscriptionColumns,
		id, isPaid, paidAt, status,
	)
	s, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("update subscription payment: %w", err)
	}
	return s, nil
}

func (r *pgSubscriptionRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}
