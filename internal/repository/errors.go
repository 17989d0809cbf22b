// Package repository implements all database access for the congress portal.
// It uses pgx directly (no ORM). Each aggregate gets an interface plus a
// Postgres implementation so services can be tested against in-memory fakes.
package repository

import "errors"

// Domain errors surfaced by the repositories.
var (
	ErrMinicourseNotFound   = errors.New("minicourse not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrNewsNotFound         = errors.New("news not found")
	ErrScheduleNotFound     = errors.New("schedule entry not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrUserNotFound         = errors.New("user not found")

	// ErrNoVacanciesLeft is returned when a registration attempt finds
	// the minicourse fully booked.
	ErrNoVacanciesLeft = errors.New("no vacancies left")

	// ErrHasRegistrations blocks deletion of a minicourse that still has
	// registrations claiming its seats.
	ErrHasRegistrations = errors.New("minicourse has registrations")

	// ErrEmailTaken is returned when creating a user with a duplicate email.
	ErrEmailTaken = errors.New("email already in use")
)
