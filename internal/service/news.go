package service

import (
	"context"
	"strings"

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/repository"
)

// NewsService manages news posts and their publication state.
type NewsService struct {
	news repository.NewsRepository
}

// NewNewsService constructs a NewsService.
func NewNewsService(news repository.NewsRepository) *NewsService {
	return &NewsService{news: news}
}

func validateNewsInput(in model.NewsInput) (model.NewsInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, invalid("title", "title is required")
	}
	switch in.ImageSize {
	case "":
		in.ImageSize = "medium"
	case "small", "medium", "full":
	default:
		return in, invalid("image_size", "image_size must be small, medium or full")
	}
	return in, nil
}

// Create adds an unpublished news post.
func (s *NewsService) Create(ctx context.Context, actor auth.Actor, in model.NewsInput) (*model.News, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	in, err := validateNewsInput(in)
	if err != nil {
		return nil, err
	}
	return s.news.Create(ctx, in)
}

// Update rewrites a news post.
func (s *NewsService) Update(ctx context.Context, actor auth.Actor, id string, in model.NewsInput) (*model.News, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	in, err := validateNewsInput(in)
	if err != nil {
		return nil, err
	}
	return s.news.Update(ctx, id, in)
}

// SetPublished toggles visibility.
func (s *NewsService) SetPublished(ctx context.Context, actor auth.Actor, id string, published bool) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return s.news.SetPublished(ctx, id, published)
}

// Delete removes a news post.
func (s *NewsService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}
	return s.news.Delete(ctx, id)
}

// List returns news posts; non-admin actors only see published ones.
func (s *NewsService) List(ctx context.Context, actor auth.Actor) ([]model.News, error) {
	return s.news.List(ctx, !actor.IsAdmin)
}

// Get returns one news post, hiding unpublished posts from non-admins.
func (s *NewsService) Get(ctx context.Context, actor auth.Actor, id string) (*model.News, error) {
	n, err := s.news.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.IsPublished && !actor.IsAdmin {
		return nil, repository.ErrNewsNotFound
	}
	return n, nil
}
