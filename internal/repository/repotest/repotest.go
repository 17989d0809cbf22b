// Package repotest provides in-memory repository implementations for tests.
// The store's mutex gives the seat claim the same all-or-nothing semantics
// as the Postgres transaction.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/repository"
)

// Store holds minicourses and their registrations behind one lock.
type Store struct {
	mu      sync.Mutex
	courses map[string]*model.Minicourse
	regs    map[string]*model.Registration
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		courses: make(map[string]*model.Minicourse),
		regs:    make(map[string]*model.Registration),
	}
}

// Minicourses returns the store's MinicourseRepository view.
func (s *Store) Minicourses() repository.MinicourseRepository {
	return &minicourses{s: s}
}

// Registrations returns the store's RegistrationRepository view.
func (s *Store) Registrations() repository.RegistrationRepository {
	return &registrations{s: s}
}

type minicourses struct{ s *Store }

func (m *minicourses) Create(ctx context.Context, in model.MinicourseInput) (*model.Minicourse, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now().UTC()
	mc := &model.Minicourse{
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
	m.s.courses[mc.ID] = mc
	return copyCourse(mc), nil
}

func (m *minicourses) Update(ctx context.Context, id string, in model.MinicourseInput) (*model.Minicourse, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mc, ok := m.s.courses[id]
	if !ok {
		return nil, repository.ErrMinicourseNotFound
	}
	mc.Title = in.Title
	mc.Description = in.Description
	mc.Instructor = in.Instructor
	mc.InstructorPhotoURL = in.InstructorPhotoURL
	mc.Location = in.Location
	mc.Date = in.Date
	mc.Time = in.Time
	mc.Type = in.Type
	mc.Theme = in.Theme
	mc.Price = in.Price
	mc.ImageURL = in.ImageURL
	mc.PaymentURL = in.PaymentURL
	mc.UpdatedAt = time.Now().UTC()
	return copyCourse(mc), nil
}

func (m *minicourses) UpdateCapacity(ctx context.Context, id string, vacancies int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mc, ok := m.s.courses[id]
	if !ok {
		return repository.ErrMinicourseNotFound
	}
	left := mc.VacanciesLeft + (vacancies - mc.Vacancies)
	if left < 0 {
		left = 0
	}
	if left > vacancies {
		left = vacancies
	}
	mc.Vacancies = vacancies
	mc.VacanciesLeft = left
	mc.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *minicourses) GetByID(ctx context.Context, id string) (*model.Minicourse, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mc, ok := m.s.courses[id]
	if !ok {
		return nil, repository.ErrMinicourseNotFound
	}
	return copyCourse(mc), nil
}

func (m *minicourses) List(ctx context.Context, publishedOnly bool) ([]model.Minicourse, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Minicourse
	for _, mc := range m.s.courses {
		if publishedOnly && !mc.IsPublished {
			continue
		}
		out = append(out, *copyCourse(mc))
	}
	return out, nil
}

func (m *minicourses) SetPublished(ctx context.Context, id string, published bool) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mc, ok := m.s.courses[id]
	if !ok {
		return repository.ErrMinicourseNotFound
	}
	mc.IsPublished = published
	if published {
		now := time.Now().UTC()
		mc.PublishedAt = &now
	} else {
		mc.PublishedAt = nil
	}
	return nil
}

func (m *minicourses) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.courses[id]; !ok {
		return repository.ErrMinicourseNotFound
	}
	delete(m.s.courses, id)
	return nil
}

type registrations struct{ s *Store }

func (r *registrations) Register(ctx context.Context, minicourseID string, req model.RegisterRequest) (*model.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	mc, ok := r.s.courses[minicourseID]
	if !ok || !mc.IsPublished {
		return nil, repository.ErrMinicourseNotFound
	}
	if mc.VacanciesLeft <= 0 {
		return nil, repository.ErrNoVacanciesLeft
	}
	mc.VacanciesLeft--

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
	r.s.regs[reg.ID] = reg
	return copyReg(reg), nil
}

func (r *registrations) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.regs[id]
	if !ok {
		return nil, repository.ErrRegistrationNotFound
	}
	return copyReg(reg), nil
}

func (r *registrations) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.regs[id]
	if !ok {
		return repository.ErrRegistrationNotFound
	}
	delete(r.s.regs, id)
	if mc, ok := r.s.courses[reg.MinicourseID]; ok {
		mc.VacanciesLeft++
		if mc.VacanciesLeft > mc.Vacancies {
			mc.VacanciesLeft = mc.Vacancies
		}
	}
	return nil
}

func (r *registrations) SetPayment(ctx context.Context, id string, isPaid bool) (*model.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.regs[id]
	if !ok {
		return nil, repository.ErrRegistrationNotFound
	}
	reg.IsPaid = isPaid
	if isPaid {
		now := time.Now().UTC()
		reg.PaidAt = &now
	} else {
		reg.PaidAt = nil
	}
	reg.UpdatedAt = time.Now().UTC()
	return copyReg(reg), nil
}

func (r *registrations) List(ctx context.Context, minicourseID string, paid *bool) ([]model.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Registration
	for _, reg := range r.s.regs {
		if minicourseID != "" && reg.MinicourseID != minicourseID {
			continue
		}
		if paid != nil && reg.IsPaid != *paid {
			continue
		}
		out = append(out, *copyReg(reg))
	}
	return out, nil
}

func (r *registrations) CountByMinicourse(ctx context.Context, minicourseID string) (int, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total, paidCount int
	for _, reg := range r.s.regs {
		if reg.MinicourseID != minicourseID {
			continue
		}
		total++
		if reg.IsPaid {
			paidCount++
		}
	}
	return total, paidCount, nil
}

func copyCourse(m *model.Minicourse) *model.Minicourse {
	c := *m
	return &c
}

func copyReg(r *model.Registration) *model.Registration {
	c := *r
	return &c
}

// Users is an in-memory UserRepository.
type Users struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by email
}

// NewUsers constructs an empty Users store.
func NewUsers() *Users {
	return &Users{users: make(map[string]*model.User)}
}

func (r *Users) Create(ctx context.Context, email, passwordHash string, isAdmin bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[email]; ok {
		return nil, repository.ErrEmailTaken
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[email] = u
	c := *u
	return &c, nil
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *Users) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// Subscriptions is an in-memory SubscriptionRepository.
type Subscriptions struct {
	mu   sync.Mutex
	subs map[string]*model.Subscription
}

// NewSubscriptions constructs an empty Subscriptions store.
func NewSubscriptions() *Subscriptions {
	return &Subscriptions{subs: make(map[string]*model.Subscription)}
}

func (r *Subscriptions) Create(ctx context.Context, req model.SubscribeRequest) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	r.subs[s.ID] = s
	c := *s
	return &c, nil
}

func (r *Subscriptions) GetByID(ctx context.Context, id string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return nil, repository.ErrSubscriptionNotFound
	}
	c := *s
	return &c, nil
}

func (r *Subscriptions) List(ctx context.Context, paid *bool) ([]model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Subscription
	for _, s := range r.subs {
		if paid != nil && s.IsPaid != *paid {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *Subscriptions) SetPayment(ctx context.Context, id string, isPaid bool) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return nil, repository.ErrSubscriptionNotFound
	}
	s.IsPaid = isPaid
	if isPaid {
		now := time.Now().UTC()
		s.PaidAt = &now
		s.Status = "confirmed"
	} else {
		s.PaidAt = nil
		s.Status = "pending"
	}
	s.UpdatedAt = time.Now().UTC()
	c := *s
	return &c, nil
}

func (r *Subscriptions) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return repository.ErrSubscriptionNotFound
	}
	delete(r.subs, id)
	return nil
}
