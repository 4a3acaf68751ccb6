package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/liturgy-api/internal/config"
	"github.com/zapponejosh/liturgy-api/internal/database"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/calendar/today
//	GET    /api/v1/calendar/date/{date}
//	GET    /api/v1/calendar/range?start=&end=
//	GET    /api/v1/calendar/month/{year}/{month}
//	GET    /api/v1/calendar/year/{year}
//	GET    /api/v1/calendar/feasts/{year}
//	GET    /api/v1/calendar/celebrations/{id}
//	GET    /api/v1/calendar/export/{year}.ics
//	GET    /api/v1/hours/templates
//	GET    /api/v1/hours/compline/{date}
//	GET    /api/v1/hours/marian-antiphon/{date}
//	GET    /api/v1/hours/components/{id}
//
//	user:   /api/v1/me, /me/keys, /me/preferences, /me/compline/{date}
//	editor: /api/v1/admin/celebrations
//	admin:  /api/v1/admin/users
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	// ==========================================================================
	// Public routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/today", handlers.GetToday)
			r.Get("/date/{date}", handlers.GetDate)
			r.Get("/range", handlers.GetRange)
			r.Get("/month/{year}/{month}", handlers.GetMonth)
			r.Get("/year/{year}", handlers.GetYear)
			r.Get("/feasts/{year}", handlers.GetFeasts)
			r.Get("/celebrations/{id}", handlers.GetCelebration)
			r.Get("/export/{year}.ics", handlers.ExportYear)
		})

		r.Route("/hours", func(r chi.Router) {
			r.Get("/templates", handlers.ListTemplates)
			r.Get("/compline/{date}", handlers.GetCompline)
			r.Get("/marian-antiphon/{date}", handlers.GetMarianAntiphon)
			r.Get("/components/{id}", handlers.GetComponent)
		})

		// ======================================================================
		// Authenticated routes
		// ======================================================================
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(handlers.db, cfg, logger))

			r.Get("/me", handlers.GetCurrentUser)
			r.Get("/me/keys", handlers.GetMyAPIKeys)
			r.Delete("/me/keys/{keyID}", handlers.RevokeMyAPIKey)
			r.Get("/me/preferences", handlers.GetMyPreferences)
			r.Put("/me/preferences", handlers.UpdateMyPreferences)
			r.Get("/me/compline/{date}", handlers.GetMyCompline)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(database.RoleEditor))

				r.Get("/admin/celebrations", handlers.ListCelebrationRecords)
				r.Post("/admin/celebrations", handlers.UpsertCelebrationRecord)
				r.Delete("/admin/celebrations/{id}", handlers.DeleteCelebrationRecord)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(database.RoleAdmin))

				r.Get("/admin/users", handlers.ListUsers)
				r.Post("/admin/users", handlers.CreateUser)
				r.Put("/admin/users/{userID}/role", handlers.UpdateUserRole)
				r.Post("/admin/users/{userID}/keys", handlers.CreateAPIKey)
			})
		})
	})

	return r
}
