package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/presenza-hq/presenza-backend-go/internal/handler/http/middleware"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/jwt"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Tracking   TrackingHandler
	Report     ReportHandler
	Request    RequestHandler
	Settings   SettingsHandler
	Employee   EmployeeHandler
	Stream     StreamHandler
}

func NewRouter(jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "presenza"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/durations", h.Attendance.Durations)
				r.Get("/sessions", h.Attendance.Sessions)
			})

			r.Route("/tracking", func(r chi.Router) {
				r.Post("/ping", h.Tracking.Ping)
				r.Get("/status", h.Tracking.LiveStatus)
				r.Post("/geofence/check", h.Tracking.CheckGeofence)
				r.Get("/stream", h.Stream.TrackingEvents)
			})

			r.Route("/fences", func(r chi.Router) {
				r.Get("/", h.Tracking.ListFences)
				r.Post("/", h.Tracking.CreateFence)
				r.Put("/{fenceID}", h.Tracking.UpdateFence)
				r.Delete("/{fenceID}", h.Tracking.DeleteFence)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/daily", h.Report.Daily)
				r.Get("/range", h.Report.Range)
			})

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", h.Request.Create)
				r.Get("/", h.Request.List)
				r.Post("/{requestID}/approve", h.Request.Approve)
				r.Post("/{requestID}/reject", h.Request.Reject)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/attendance-policy", h.Settings.GetPolicy)
				r.Put("/attendance-policy", h.Settings.UpdatePolicy)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Get("/{employeeID}", h.Employee.Get)
				r.Post("/{employeeID}/face", h.Employee.EnrollFace)
			})
		})
	})
	return r
}
