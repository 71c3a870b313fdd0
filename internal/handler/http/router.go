package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Attendance        AttendanceHandler
	Settings          SettingsHandler
	Dashboard         DashboardHandler
	EmployeeDashboard EmployeeDashboardHandler
	Report            ReportHandler
	Employee          EmployeeHandler
	Leave             LeaveHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(logger *slog.Logger, opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/my", h.Attendance.GetMyAttendance)
				r.Get("/my/summary", h.EmployeeDashboard.GetMonthlySummary)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", h.Attendance.List)
					r.Put("/status", h.Attendance.OverrideStatus)
					r.Post("/reconcile-absences", h.Attendance.ReconcileAbsences)
					r.Get("/{id}", h.Attendance.Get)
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", h.Settings.Get)
				r.With(middleware.RequireAdmin).Put("/", h.Settings.Update)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", h.Employee.GetProfile)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", h.Employee.ListActive)
					r.Post("/", h.Employee.Create)
					r.Put("/{id}", h.Employee.Update)
					r.Put("/{id}/deactivate", h.Employee.Deactivate)
				})
			})

			r.Get("/leave/quota/me", h.Leave.GetMyQuota)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/dashboard", h.Dashboard.GetDashboard)
				r.Route("/reports", func(r chi.Router) {
					r.Get("/attendance", h.Report.GetAttendanceReport)
					r.Get("/attendance/export", h.Report.ExportAttendanceReport)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
