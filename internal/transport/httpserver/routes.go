package httpserver

import (
	"net/http"
	"time"

	"mess-app-go/internal/config"
	"mess-app-go/internal/metrics"
	"mess-app-go/internal/transport/httpserver/handler"
	authmw "mess-app-go/internal/transport/httpserver/middleware"
	"mess-app-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.Auth, m *metrics.Metrics, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(m.Middleware)
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		r.Post("/auth/signup", handlers.Common.SignUp)
		r.Post("/auth/login", handlers.Common.Login)

		// The operations gateway authenticates on its own and answers with
		// its own error shape.
		r.Post("/admin/operations", handlers.Admin.Operations)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)

			r.Get("/attendance/me", handlers.Attendance.GetMyAttendance)
			r.Post("/attendance/me", handlers.Attendance.SetMyAttendance)

			r.Get("/menu", handlers.Menu.ListMenu)

			r.Get("/reviews", handlers.Reviews.ListReviews)
			r.Post("/reviews", handlers.Reviews.SubmitReview)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)

				r.Put("/menu", handlers.Menu.UpdateMenu)

				r.Get("/admin/overview", handlers.Admin.Overview)
				r.Get("/admin/students", handlers.Admin.ListStudents)
				r.Get("/admin/students/lookup", handlers.Admin.LookupStudent)
				r.Get("/admin/stats", handlers.Admin.PeriodStats)
				r.Get("/admin/stats/daily", handlers.Admin.DailyStats)
			})
		})
	})

	log.Debug("http: routes registered")
	return r
}
