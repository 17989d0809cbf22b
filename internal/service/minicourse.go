package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/repository"
)

// MinicourseService owns the minicourse catalog and the seat-inventory
// workflow: registrations claim seats, cancellations return them, payment
// toggles never touch them.
type MinicourseService struct {
	minicourses   repository.MinicourseRepository
	registrations repository.RegistrationRepository
}

// NewMinicourseService constructs a MinicourseService with its dependencies.
func NewMinicourseService(
	minicourses repository.MinicourseRepository,
	registrations repository.RegistrationRepository,
) *MinicourseService {
	return &MinicourseService{minicourses: minicourses, registrations: registrations}
}

func validateMinicourseInput(in model.MinicourseInput) (model.MinicourseInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, invalid("title", "title is required")
	}
	if in.Price < 0 {
		return in, invalid("price", "price cannot be negative")
	}
	return in, nil
}

// CreateMinicourse creates an unpublished minicourse with every seat open.
func (s *MinicourseService) CreateMinicourse(ctx context.Context, actor auth.Actor, in model.MinicourseInput) (*model.Minicourse, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	in, err := validateMinicourseInput(in)
	if err != nil {
		return nil, err
	}
	if in.Vacancies < 1 {
		return nil, invalid("vacancies", "vacancies must be at least 1")
	}
	return s.minicourses.Create(ctx, in)
}

// UpdateMinicourse rewrites descriptive fields. Capacity edits go through
// UpdateCapacity so the remaining-seat counter stays consistent.
func (s *MinicourseService) UpdateMinicourse(ctx context.Context, actor auth.Actor, id string, in model.MinicourseInput) (*model.Minicourse, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	in, err := validateMinicourseInput(in)
	if err != nil {
		return nil, err
	}
	return s.minicourses.Update(ctx, id, in)
}

// UpdateCapacity changes the total seat count.
func (s *MinicourseService) UpdateCapacity(ctx context.Context, actor auth.Actor, id string, vacancies int) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}
	if vacancies < 1 {
		return invalid("vacancies", "vacancies must be at least 1")
	}
	return s.minicourses.UpdateCapacity(ctx, id, vacancies)
}

// SetPublished toggles public visibility of a minicourse.
func (s *MinicourseService) SetPublished(ctx context.Context, actor auth.Actor, id string, published bool) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return s.minicourses.SetPublished(ctx, id, published)
}

// DeleteMinicourse removes a minicourse, refusing while any registration
// still references it.
func (s *MinicourseService) DeleteMinicourse(ctx context.Context, actor auth.Actor, id string) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}
	total, _, err := s.registrations.CountByMinicourse(ctx, id)
	if err != nil {
		return fmt.Errorf("check registrations: %w", err)
	}
	if total > 0 {
		return repository.ErrHasRegistrations
	}
	return s.minicourses.Delete(ctx, id)
}

// ListMinicourses returns the catalog. Non-admin actors only see
// published entries.
func (s *MinicourseService) ListMinicourses(ctx context.Context, actor auth.Actor) ([]model.Minicourse, error) {
	return s.minicourses.List(ctx, !actor.IsAdmin)
}

// GetMinicourse returns one minicourse; unpublished entries are hidden from
// non-admin actors.
func (s *MinicourseService) GetMinicourse(ctx context.Context, actor auth.Actor, id string) (*model.Minicourse, error) {
	m, err := s.minicourses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsPublished && !actor.IsAdmin {
		return nil, repository.ErrMinicourseNotFound
	}
	return m, nil
}

// Register validates the participant's details and claims one seat. The
// seat decrement and the registration insert are a single atomic unit in
// the repository, so capacity can never be oversold or go negative.
func (s *MinicourseService) Register(ctx context.Context, minicourseID string, req model.RegisterRequest) (*model.Registration, error) {
	if minicourseID == "" {
		return nil, repository.ErrMinicourseNotFound
	}
	fields, err := validateContact(contactFields{
		Name:        req.Name,
		Email:       req.Email,
		CPF:         req.CPF,
		Phone:       req.Phone,
		Institution: req.Institution,
	})
	if err != nil {
		return nil, err
	}
	req = model.RegisterRequest{
		Name:        fields.Name,
		Email:       fields.Email,
		CPF:         fields.CPF,
		Phone:       fields.Phone,
		Institution: fields.Institution,
	}

	reg, err := s.registrations.Register(ctx, minicourseID, req)
	if err != nil {
		if errors.Is(err, repository.ErrMinicourseNotFound) ||
			errors.Is(err, repository.ErrNoVacanciesLeft) {
			return nil, err
		}
		return nil, fmt.Errorf("register for minicourse: %w", err)
	}
	return reg, nil
}

// CancelRegistration deletes a registration and returns its seat,
// regardless of payment state.
func (s *MinicourseService) CancelRegistration(ctx context.Context, actor auth.Actor, id string) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return s.registrations.Delete(ctx, id)
}

// SetRegistrationPayment flips is_paid and paid_at. Capacity is untouched.
func (s *MinicourseService) SetRegistrationPayment(ctx context.Context, actor auth.Actor, id string, isPaid bool) (*model.Registration, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	return s.registrations.SetPayment(ctx, id, isPaid)
}

// ListRegistrations returns registrations for one minicourse, optionally
// filtered by payment state.
func (s *MinicourseService) ListRegistrations(ctx context.Context, actor auth.Actor, minicourseID string, paid *bool) ([]model.Registration, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	if _, err := s.minicourses.GetByID(ctx, minicourseID); err != nil {
		return nil, err
	}
	return s.registrations.List(ctx, minicourseID, paid)
}

// RegistrationSummary aggregates seat and payment counts for one minicourse.
func (s *MinicourseService) RegistrationSummary(ctx context.Context, actor auth.Actor, minicourseID string) (*model.RegistrationSummary, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	m, err := s.minicourses.GetByID(ctx, minicourseID)
	if err != nil {
		return nil, err
	}
	total, paidCount, err := s.registrations.CountByMinicourse(ctx, minicourseID)
	if err != nil {
		return nil, err
	}
	return &model.RegistrationSummary{
		MinicourseID:  m.ID,
		Title:         m.Title,
		Vacancies:     m.Vacancies,
		VacanciesLeft: m.VacanciesLeft,
		Total:         total,
		Paid:          paidCount,
		Unpaid:        total - paidCount,
	}, nil
}
