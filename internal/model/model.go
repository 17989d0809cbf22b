// Package model defines the core domain types for the congress portal.
package model

import "time"

// Minicourse is a capacity-limited, paid workshop offered during the congress.
type Minicourse struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Instructor         string     `json:"instructor"`
	InstructorPhotoURL string     `json:"instructor_photo_url"`
	Location           string     `json:"location"`
	Date               string     `json:"date"`
	Time               string     `json:"time"`
	Type               string     `json:"type"`
	Theme              string     `json:"theme"`
	Price              float64    `json:"price"`
	ImageURL           string     `json:"image_url"`
	PaymentURL         string     `json:"payment_url"`
	Vacancies          int        `json:"vacancies"`
	VacanciesLeft      int        `json:"vacancies_left"`
	IsPublished        bool       `json:"is_published"`
	PublishedAt        *time.Time `json:"published_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsFull returns true when no seats remain.
func (m *Minicourse) IsFull() bool {
	return m.VacanciesLeft <= 0
}

// Registration is a participant's claim on one seat of a minicourse.
type Registration struct {
	ID           string     `json:"id"`
	MinicourseID string     `json:"minicourse_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	CPF          string     `json:"cpf"`
	Phone        string     `json:"phone"`
	Institution  string     `json:"institution"`
	IsPaid       bool       `json:"is_paid"`
	PaidAt       *time.Time `json:"paid_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// News is an announcement shown on the public site once published.
type News struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Summary     string     `json:"summary"`
	ImageURL    string     `json:"image_url"`
	VideoURL    string     `json:"video_url"`
	ImageSize   string     `json:"image_size"` // small | medium | full
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ScheduleItem is one entry of the congress programme.
type ScheduleItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Subscription is a general congress sign-up. Unlike minicourse
// registrations, subscriptions are not capacity-limited.
type Subscription struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	CPF         string     `json:"cpf"`
	Phone       string     `json:"phone"`
	Institution string     `json:"institution"`
	Status      string     `json:"status"`
	IsPaid      bool       `json:"is_paid"`
	PaidAt      *time.Time `json:"paid_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// User is a portal account. Only admins can log in; there is no
// self-service sign-up.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegistrationSummary aggregates payment state for one minicourse.
type RegistrationSummary struct {
	MinicourseID  string `json:"minicourse_id"`
	Title         string `json:"title"`
	Vacancies     int    `json:"vacancies"`
	VacanciesLeft int    `json:"vacancies_left"`
	Total         int    `json:"total"`
	Paid          int    `json:"paid"`
	Unpaid        int    `json:"unpaid"`
}
