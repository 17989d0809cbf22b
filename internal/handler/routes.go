package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/luishrb/congress-portal/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Auth          *service.AuthService
	Minicourses   *service.MinicourseService
	News          *service.NewsService
	Schedule      *service.ScheduleService
	Subscriptions *service.SubscriptionService
}

// NewRouter builds the chi router with the full public and admin surface.
func NewRouter(svcs Services, log *slog.Logger) chi.Router {
	authHandler := NewAuthHandler(svcs.Auth)
	minicourseHandler := NewMinicourseHandler(svcs.Minicourses)
	registrationHandler := NewRegistrationHandler(svcs.Minicourses)
	newsHandler := NewNewsHandler(svcs.News)
	scheduleHandler := NewScheduleHandler(svcs.Schedule)
	subscriptionHandler := NewSubscriptionHandler(svcs.Subscriptions)

	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(log))             // structured access log
	r.Use(CORS)                    // permissive CORS
	r.Use(WithActor(svcs.Auth))    // resolve session into an explicit actor

	// Health
	r.Get("/health", HealthCheck)

	// Auth
	r.Post("/auth/login", authHandler.Login)

	// Public API
	r.Route("/minicourses", func(r chi.Router) {
		r.Get("/", minicourseHandler.List)
		r.Get("/{id}", minicourseHandler.Get)
		r.Post("/{id}/register", minicourseHandler.Register)
	})
	r.Route("/news", func(r chi.Router) {
		r.Get("/", newsHandler.List)
		r.Get("/{id}", newsHandler.Get)
	})
	r.Get("/schedule", scheduleHandler.List)
	r.Post("/subscriptions", subscriptionHandler.Subscribe)

	// Admin API
	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAdmin)

		r.Route("/minicourses", func(r chi.Router) {
			r.Post("/", minicourseHandler.Create)
			r.Put("/{id}", minicourseHandler.Update)
			r.Post("/{id}/capacity", minicourseHandler.UpdateCapacity)
			r.Post("/{id}/publish", minicourseHandler.SetPublished)
			r.Delete("/{id}", minicourseHandler.Delete)
			r.Get("/{id}/registrations", registrationHandler.ListByMinicourse)
			r.Get("/{id}/registrations/export", registrationHandler.Export)
			r.Get("/{id}/summary", minicourseHandler.Summary)
		})

		r.Route("/registrations", func(r chi.Router) {
			r.Post("/{id}/payment", registrationHandler.SetPayment)
			r.Delete("/{id}", registrationHandler.Cancel)
		})

		r.Route("/news", func(r chi.Router) {
			r.Post("/", newsHandler.Create)
			r.Put("/{id}", newsHandler.Update)
			r.Post("/{id}/publish", newsHandler.SetPublished)
			r.Delete("/{id}", newsHandler.Delete)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Post("/", scheduleHandler.Create)
			r.Put("/{id}", scheduleHandler.Update)
			r.Post("/{id}/publish", scheduleHandler.SetPublished)
			r.Delete("/{id}", scheduleHandler.Delete)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", subscriptionHandler.List)
			r.Post("/{id}/payment", subscriptionHandler.SetPayment)
			r.Delete("/{id}", subscriptionHandler.Delete)
		})
	})

	return r
}
