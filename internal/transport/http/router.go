package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/training-mne-api/internal/config"
	"github.com/training-mne-api/internal/domain"
	"github.com/training-mne-api/internal/transport/http/handler"
	appmiddleware "github.com/training-mne-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to the on-demand scan endpoint.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	alertH := handler.NewAlertHandler(deps.AlertService)
	notifH := handler.NewNotificationHandler(deps.NotificationService)
	monitoringH := handler.NewMonitoringHandler(deps.Scanner, deps.Detectors)

	r.Get("/health", healthH.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			// Any authenticated user, scoped to their own partner
			r.Get("/alerts", alertH.List)
			r.Post("/alerts/{id}/resolve", alertH.Resolve)
			r.Get("/notifications", notifH.ListUnread)
			r.Post("/notifications/{id}/read", notifH.MarkAsRead)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.With(sensitiveRL.Limit).Post("/monitoring/scan", monitoringH.Scan)
			})
		})
	})

	return r
}
