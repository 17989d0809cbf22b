package service

import (
	"context"

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/repository"
)

// SubscriptionService manages general congress sign-ups. Subscriptions use
// the same contact validation and payment semantics as minicourse
// registrations but are not capacity-limited.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
}

// NewSubscriptionService constructs a SubscriptionService.
func NewSubscriptionService(subscriptions repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions}
}

// Subscribe validates and stores a pending subscription.
func (s *SubscriptionService) Subscribe(ctx context.Context, req model.SubscribeRequest) (*model.Subscription, error) {
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
	return s.subscriptions.Create(ctx, model.SubscribeRequest{
		Name:        fields.Name,
		Email:       fields.Email,
		CPF:         fields.CPF,
		Phone:       fields.Phone,
		Institution: fields.Institution,
	})
}

// List returns subscriptions, optionally filtered by payment state.
func (s *SubscriptionService) List(ctx context.Context, actor auth.Actor, paid *bool) ([]model.Subscription, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	return s.subscriptions.List(ctx, paid)
}

// SetPayment flips is_paid and paid_at on a subscription.
func (s *SubscriptionService) SetPayment(ctx context.Context, actor auth.Actor, id string, isPaid bool) (*model.Subscription, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	return s.subscriptions.SetPayment(ctx, id, isPaid)
}

// Delete removes a subscription.
func (s *SubscriptionService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return s.subscriptions.Delete(ctx, id)
}
