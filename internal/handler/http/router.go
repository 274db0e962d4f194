package http

import (
	"log/slog"

	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterConfig carries what the router needs from the application config.
type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	LogLevel       slog.Level
}

type Handlers struct {
	Auth         AuthHandler
	Attendance   AttendanceHandler
	Employee     EmployeeHandler
	Leave        LeaveHandler
	Settings     SettingsHandler
	Notification NotificationHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/settings", h.Settings.Public)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/identify", h.Auth.Identify)
			r.Post("/admin/login", h.Auth.AdminLogin)
		})

		// LIFF employee
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(JWTService.JWTAuth()))
			r.Use(middleware.RequireEmployee)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/", h.Attendance.Record)
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/history", h.Attendance.History)
				r.Get("/summary", h.Attendance.MonthlySummary)
			})

			r.Route("/employees/me", func(r chi.Router) {
				r.Get("/", h.Employee.Me)
				r.Get("/benefits", h.Employee.MyBenefits)
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.Post("/", h.Leave.CreateRequest)
				r.Get("/my", h.Leave.GetMyRequests)
			})
		})

		// HR admin
		r.Route("/admin", func(r chi.Router) {
			// EventSource cannot send headers, the stream checks its own token
			r.Get("/events/stream", h.Notification.Stream)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(JWTService.JWTAuth()))
				r.Use(middleware.RequireAdmin)

				r.Get("/events/token", h.Notification.GetSSEToken)
				r.Get("/events", h.Notification.Recent)
				r.Post("/settings/refresh", h.Settings.Refresh)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.Employee.List)
					r.Get("/pending", h.Employee.ListPending)
					r.Get("/{id}", h.Employee.Get)
					r.Put("/{id}", h.Employee.Update)
					r.Post("/{id}/approve", h.Employee.Approve)
					r.Post("/{id}/reject", h.Employee.Reject)
				})

				r.Route("/leave-requests", func(r chi.Router) {
					r.Get("/", h.Leave.ListRequests)
					r.Post("/{id}/approve", h.Leave.ApproveRequest)
					r.Post("/{id}/reject", h.Leave.RejectRequest)
				})

				r.Route("/reports/attendance", func(r chi.Router) {
					r.Get("/", h.Attendance.PeriodReport)
					r.Get("/export", h.Attendance.ExportPeriodReport)
				})
			})
		})
	})
	return r
}
