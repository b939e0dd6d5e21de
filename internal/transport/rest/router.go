package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/office-calendar/internal/auth"
	"github.com/frahmantamala/office-calendar/internal/booking"
	"github.com/frahmantamala/office-calendar/internal/employee"
	"github.com/frahmantamala/office-calendar/internal/event"
	"github.com/frahmantamala/office-calendar/internal/realtime"
	"github.com/frahmantamala/office-calendar/internal/room"
	"github.com/frahmantamala/office-calendar/internal/settings"
	"github.com/frahmantamala/office-calendar/internal/transport/middleware"
	"github.com/frahmantamala/office-calendar/internal/transport/swagger"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth     *auth.Handler
	Employee *employee.Handler
	Booking  *booking.Handler
	Event    *event.Handler
	Room     *room.Handler
	Settings *settings.Handler
	Realtime *realtime.Handler
}

// RegisterAllRoutes mounts the full API surface under /api/v1. Login,
// refresh and registration are public; everything else sits behind the
// bearer-token middleware, with role management additionally behind the
// admin check.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Registration is open: the first thing a new hire does is create an
		// account.
		r.Post("/employees", h.Employee.Register)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/employees", func(er chi.Router) {
				er.Get("/", h.Employee.List)
				er.Get("/{id}", h.Employee.Get)

				er.Group(func(ar chi.Router) {
					ar.Use(h.Auth.RequireAdmin)
					ar.Post("/{id}/role", h.Employee.PromoteDemote)
					ar.Delete("/{id}", h.Employee.Terminate)
				})
			})

			pr.Route("/rooms", func(rr chi.Router) {
				rr.Get("/", h.Room.List)
				rr.Get("/{id}", h.Room.Get)

				rr.Group(func(ar chi.Router) {
					ar.Use(h.Auth.RequireAdmin)
					ar.Post("/", h.Room.Create)
					ar.Put("/{id}", h.Room.Update)
					ar.Delete("/{id}", h.Room.Delete)
				})
			})

			pr.Route("/bookings", func(br chi.Router) {
				br.Post("/", h.Booking.Create)
				br.Get("/", h.Booking.List)
				br.Get("/{id}", h.Booking.Get)
				br.Put("/{id}", h.Booking.Update)
				br.Delete("/{id}", h.Booking.Delete)
			})

			pr.Route("/events", func(er chi.Router) {
				er.Post("/", h.Event.Create)
				er.Get("/", h.Event.List)
				er.Get("/{id}", h.Event.Get)
				er.Put("/{id}", h.Event.Update)
				er.Delete("/{id}", h.Event.Delete)

				er.Post("/{id}/attend", h.Event.Attend)
				er.Delete("/{id}/attend", h.Event.Unattend)
				er.Get("/{id}/attendance", h.Event.AttendanceStatus)
			})

			pr.Route("/settings", func(sr chi.Router) {
				sr.Get("/", h.Settings.Get)
				sr.Put("/", h.Settings.Update)
				sr.Delete("/", h.Settings.Reset)
			})

			pr.Get("/ws", h.Realtime.Serve)
		})
	})
}
