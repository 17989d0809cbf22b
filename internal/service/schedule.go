package service

import (
	"context"
	"strings"

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/repository"
)

// ScheduleService manages the congress programme.
type ScheduleService struct {
	schedule repository.ScheduleRepository
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(schedule repository.ScheduleRepository) *ScheduleService {
	return &ScheduleService{schedule: schedule}
}

func validateScheduleInput(in model.ScheduleInput) (model.ScheduleInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, invalid("title", "title is required")
	}
	return in, nil
}

// Create adds an unpublished programme entry.
func (s *ScheduleService) Create(ctx context.Context, actor auth.Actor, in model.ScheduleInput) (*model.ScheduleItem, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	in, err := validateScheduleInput(in)
	if err != nil {
		return nil, err
	}
	return s.schedule.Create(ctx, in)
}

// Update rewrites a programme entry.
func (s *ScheduleService) Update(ctx context.Context, actor auth.Actor, id string, in model.ScheduleInput) (*model.ScheduleItem, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	in, err := validateScheduleInput(in)
	if err != nil {
		return nil, err
	}
	return s.schedule.Update(ctx, id, in)
}

// SetPublished toggles visibility.
func (s *ScheduleService) SetPublished(ctx context.Context, actor auth.Actor, id string, published bool) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return s.schedule.SetPublished(ctx, id, published)
}

// Delete removes a programme entry.
func (s *ScheduleService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return s.schedule.Delete(ctx, id)
}

// List returns programme entries; non-admin actors only see published ones.
func (s *ScheduleService) List(ctx context.Context, actor auth.Actor) ([]model.ScheduleItem, error) {
	return s.schedule.List(ctx, !actor.IsAdmin)
}
