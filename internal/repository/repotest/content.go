package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/repository"
)

// News is an in-memory NewsRepository.
type News struct {
	mu    sync.Mutex
	items map[string]*model.News
}

// NewNews constructs an empty News store.
func NewNews() *News {
	return &News{items: make(map[string]*model.News)}
}

func (r *News) Create(ctx context.Context, in model.NewsInput) (*model.News, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	r.items[n.ID] = n
	c := *n
	return &c, nil
}

func (r *News) Update(ctx context.Context, id string, in model.NewsInput) (*model.News, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNewsNotFound
	}
	n.Title = in.Title
	n.Content = in.Content
	n.Summary = in.Summary
	n.ImageURL = in.ImageURL
	n.VideoURL = in.VideoURL
	n.ImageSize = in.ImageSize
	n.UpdatedAt = time.Now().UTC()
	c := *n
	return &c, nil
}

func (r *News) GetByID(ctx context.Context, id string) (*model.News, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNewsNotFound
	}
	c := *n
	return &c, nil
}

func (r *News) List(ctx context.Context, publishedOnly bool) ([]model.News, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.News
	for _, n := range r.items {
		if publishedOnly && !n.IsPublished {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *News) SetPublished(ctx context.Context, id string, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return repository.ErrNewsNotFound
	}
	n.IsPublished = published
	if published {
		now := time.Now().UTC()
		n.PublishedAt = &now
	} else {
		n.PublishedAt = nil
	}
	return nil
}

func (r *News) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNewsNotFound
	}
	delete(r.items, id)
	return nil
}

// Schedule is an in-memory ScheduleRepository.
type Schedule struct {
	mu    sync.Mutex
	items map[string]*model.ScheduleItem
}

// NewSchedule constructs an empty Schedule store.
func NewSchedule() *Schedule {
	return &Schedule{items: make(map[string]*model.ScheduleItem)}
}

func (r *Schedule) Create(ctx context.Context, in model.ScheduleInput) (*model.ScheduleItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	s := &model.ScheduleItem{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.items[s.ID] = s
	c := *s
	return &c, nil
}

func (r *Schedule) Update(ctx context.Context, id string, in model.ScheduleInput) (*model.ScheduleItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, repository.ErrScheduleNotFound
	}
	s.Title = in.Title
	s.Description = in.Description
	s.ImageURL = in.ImageURL
	s.UpdatedAt = time.Now().UTC()
	c := *s
	return &c, nil
}

func (r *Schedule) GetByID(ctx context.Context, id string) (*model.ScheduleItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, repository.ErrScheduleNotFound
	}
	c := *s
	return &c, nil
}

func (r *Schedule) List(ctx context.Context, publishedOnly bool) ([]model.ScheduleItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ScheduleItem
	for _, s := range r.items {
		if publishedOnly && !s.IsPublished {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *Schedule) SetPublished(ctx context.Context, id string, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return repository.ErrScheduleNotFound
	}
	s.IsPublished = published
	if published {
		now := time.Now().UTC()
		s.PublishedAt = &now
	} else {
		s.PublishedAt = nil
	}
	return nil
}

func (r *Schedule) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrScheduleNotFound
	}
	delete(r.items, id)
	return nil
}
