package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	photoService "github.com/cmlabs-hris/attendance-backend-go/internal/service/photo"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := appHTTP.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Error opening record store: ", err)
	}
	defer func() {
		if err := repos.Close(context.Background()); err != nil {
			slog.Error("failed to close record store", "error", err)
		}
	}()

	fileStorage, uploadsDir, err := newFileStorage(cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize photo storage: ", err)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	defaultLoc := cfg.DefaultLocation()
	uploader := photoService.NewPhotoService(fileStorage)
	authService := serviceAuth.NewAuthService(repos.Branches, repos.Employees, JWTService, cfg.Attendance.DefaultTimezone)
	employeeService := employeeService.NewEmployeeService(repos.Employees)
	attendanceService := attendanceService.NewAttendanceService(repos.Attendances, repos.Employees, repos.Branches, uploader, defaultLoc)
	reportService := reportService.NewReportService(repos.Attendances, repos.Employees, repos.Branches, defaultLoc)

	if cfg.Bootstrap.BranchName != "" {
		_, err := serviceAuth.EnsureBranch(ctx, authService, branch.RegisterBranchRequest{
			Name:     cfg.Bootstrap.BranchName,
			Password: cfg.Bootstrap.BranchPassword,
			Timezone: cfg.Bootstrap.BranchTimezone,
		})
		if err != nil {
			log.Fatal("Failed to bootstrap branch: ", err)
		}
	}

	router := appHTTP.NewRouter(
		cfg,
		logger,
		JWTService,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewEmployeeHandler(employeeService),
		appHTTP.NewAttendanceHandler(attendanceService),
		appHTTP.NewReportHandler(reportService),
		uploadsDir,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("server running", "addr", server.Addr, "store", cfg.Store.Driver, "storage", cfg.Storage.Type)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
	}
}

// newFileStorage picks the photo backend. uploadsDir is non-empty only for
// local storage, whose files the API serves itself.
func newFileStorage(cfg config.StorageConfig) (storage.FileStorage, string, error) {
	switch cfg.Type {
	case config.StorageLocal:
		local, err := storage.NewLocalStorage(cfg.BasePath, cfg.BaseURL)
		if err != nil {
			return nil, "", err
		}
		return local, local.BasePath(), nil
	case config.StorageOSS:
		oss, err := storage.NewOSSStorage(storage.OSSConfig{
			Endpoint:        cfg.OSSEndpoint,
			AccessKeyID:     cfg.OSSAccessKeyID,
			AccessKeySecret: cfg.OSSAccessKeySecret,
			Bucket:          cfg.OSSBucket,
			PublicBaseURL:   cfg.OSSPublicBaseURL,
		})
		return oss, "", err
	case config.StorageCloudinary:
		cloudinary, err := storage.NewCloudinaryStorage(storage.CloudinaryConfig{
			CloudName:    cfg.CloudinaryCloudName,
			APIKey:       cfg.CloudinaryAPIKey,
			APISecret:    cfg.CloudinaryAPISecret,
			UploadPreset: cfg.CloudinaryUploadPreset,
			UploadPrefix: cfg.CloudinaryUploadPrefix,
		})
		return cloudinary, "", err
	default:
		return nil, "", fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
