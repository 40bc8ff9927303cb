package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/atelierbeauty/salon-platform/internal/appointments"
	"github.com/atelierbeauty/salon-platform/internal/catalog"
	httpmiddleware "github.com/atelierbeauty/salon-platform/internal/http/middleware"
	"github.com/atelierbeauty/salon-platform/internal/schedule"
	"github.com/atelierbeauty/salon-platform/internal/settings"
	"github.com/atelierbeauty/salon-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	ScheduleHandler     *schedule.Handler
	CatalogHandler      *catalog.Handler
	SettingsHandler     *settings.Handler
	MetricsHandler      http.Handler
	StaffAuthSecret     string
	CORSAllowedOrigins  []string

	// Rate limiting for the public booking endpoint. Zero disables it.
	BookingRateLimit float64
	BookingRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		if cfg.AppointmentsHandler != nil {
			submit := http.HandlerFunc(cfg.AppointmentsHandler.Submit)
			if cfg.BookingRateLimit > 0 {
				public.With(httpmiddleware.RateLimit(cfg.BookingRateLimit, cfg.BookingRateBurst)).
					Post("/appointments", submit)
			} else {
				public.Post("/appointments", submit)
			}
		}
		if cfg.ScheduleHandler != nil {
			public.Get("/slots", cfg.ScheduleHandler.ListSlots)
		}
		if cfg.CatalogHandler != nil {
			public.Get("/services", cfg.CatalogHandler.ListPublic)
		}
		if cfg.SettingsHandler != nil {
			public.Get("/settings/contact", cfg.SettingsHandler.GetContact)
		}
	})

	// Staff routes (protected by JWT)
	if cfg.StaffAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.StaffJWT(cfg.StaffAuthSecret))

			if cfg.AppointmentsHandler != nil {
				admin.Route("/appointments", func(r chi.Router) {
					r.Get("/", cfg.AppointmentsHandler.List)
					r.Patch("/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
					r.Delete("/{id}", cfg.AppointmentsHandler.Delete)
				})
			}
			if cfg.ScheduleHandler != nil {
				admin.Route("/working-hours", func(r chi.Router) {
					r.Get("/", cfg.ScheduleHandler.ListRules)
					r.Put("/{day}", cfg.ScheduleHandler.UpsertRule)
					r.Delete("/{day}", cfg.ScheduleHandler.DeleteRule)
				})
			}
			if cfg.CatalogHandler != nil {
				admin.Route("/services", func(r chi.Router) {
					r.Get("/", cfg.CatalogHandler.ListAll)
					r.Post("/", cfg.CatalogHandler.Create)
					r.Put("/{id}", cfg.CatalogHandler.Update)
					r.Delete("/{id}", cfg.CatalogHandler.Delete)
				})
			}
			if cfg.SettingsHandler != nil {
				admin.Put("/settings/contact", cfg.SettingsHandler.PutContact)
			}
		})
	}

	return r
}
