package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// NewLogger builds the JSON logger shared by request logging and the services.
func NewLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.SlogLevel()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
}

// NewRouter mounts the API under /api. uploadsDir, when set, is served
// read-only under /uploads for the local photo storage.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	JWTService jwt.Service,
	authHandler AuthHandler,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	reportHandler ReportHandler,
	uploadsDir string,
) *chi.Mux {
	r := chi.NewRouter()
	level, _ := cfg.SlogLevel()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  level,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	if cfg.App.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.App.RequestTimeout))
	}

	if uploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
	}

	r.Route("/api", func(r chi.Router) {
		// Photos are multipart; everything else is JSON.
		r.Use(chiMiddleware.AllowContentType("application/json", "multipart/form-data"))

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", authHandler.LoginBranch)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)
				r.Use(middleware.RequireBranch)

				r.Post("/register-branch", authHandler.RegisterBranch)
				r.Post("/create-employee", employeeHandler.Create)
				r.Get("/employees/{branch}", employeeHandler.ListByBranch)

				r.Route("/attendance", func(r chi.Router) {
					r.Patch("/records/{recordId}", attendanceHandler.UpdateStatus)
					r.Get("/{employeeId}", attendanceHandler.ListByEmployee)
					r.Get("/{employeeId}/export", reportHandler.ExportEmployeeAttendance)
				})

				r.Route("/branches/{branch}/attendance", func(r chi.Router) {
					r.Get("/", attendanceHandler.ListByBranch)
					r.Get("/export", reportHandler.ExportBranchAttendance)
				})
			})
		})

		r.Route("/employee", func(r chi.Router) {
			r.Post("/login", authHandler.LoginEmployee)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)
				r.Use(middleware.RequireEmployee)

				r.Get("/attendance", attendanceHandler.ListMine)
				r.Get("/attendance/today", attendanceHandler.GetToday)
				r.Post("/checkin", attendanceHandler.CheckIn)
				r.Post("/checkout", attendanceHandler.CheckOut)
				r.Post("/photos", attendanceHandler.UploadPhoto)
			})
		})
	})
	return r
}
