package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"

	StorageLocal      = "local"
	StorageOSS        = "oss"
	StorageCloudinary = "cloudinary"
)

type Config struct {
	App        AppConfig
	Store      StoreConfig
	Database   DatabaseConfig
	Mongo      MongoConfig
	JWT        JWTConfig
	Storage    StorageConfig
	Attendance AttendanceConfig
	Bootstrap  BootstrapConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// StoreConfig selects the record store backing every repository.
type StoreConfig struct {
	Driver      string
	AutoMigrate bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MongoConfig struct {
	URI  string
	Name string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string

	OSSEndpoint        string
	OSSAccessKeyID     string
	OSSAccessKeySecret string
	OSSBucket          string
	OSSPublicBaseURL   string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadPreset string
	CloudinaryUploadPrefix string
}

type AttendanceConfig struct {
	DefaultTimezone string
}

// BootstrapConfig describes the branch created at startup when none with
// that name exists yet. Empty name disables it.
type BootstrapConfig struct {
	BranchName     string
	BranchPassword string
	BranchTimezone string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	requestTimeout, err := time.ParseDuration(getEnv("APP_REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_REQUEST_TIMEOUT: %w", err)
	}

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")
	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "attendance-tracker"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    frontendURL,
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{frontendURL}),
		RequestTimeout: requestTimeout,
	}

	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}
	config.Store = StoreConfig{
		Driver:      strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		AutoMigrate: autoMigrate,
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Mongo = MongoConfig{
		URI:  getEnv("MONGO_URI", ""),
		Name: getEnv("MONGO_DB", "attendance"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	config.Storage = StorageConfig{
		Type:     strings.ToLower(getEnv("STORAGE_TYPE", StorageLocal)),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%d/uploads", appPort)),

		OSSEndpoint:        getEnv("OSS_ENDPOINT", ""),
		OSSAccessKeyID:     getEnv("OSS_ACCESS_KEY_ID", ""),
		OSSAccessKeySecret: getEnv("OSS_ACCESS_KEY_SECRET", ""),
		OSSBucket:          getEnv("OSS_BUCKET", ""),
		OSSPublicBaseURL:   getEnv("OSS_PUBLIC_BASE_URL", ""),

		CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryUploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		CloudinaryUploadPrefix: getEnv("CLOUDINARY_UPLOAD_PREFIX", ""),
	}

	config.Attendance = AttendanceConfig{
		DefaultTimezone: getEnv("ATTENDANCE_DEFAULT_TIMEZONE", "UTC"),
	}

	config.Bootstrap = BootstrapConfig{
		BranchName:     getEnv("BOOTSTRAP_BRANCH_NAME", ""),
		BranchPassword: getEnv("BOOTSTRAP_BRANCH_PASSWORD", ""),
		BranchTimezone: getEnv("BOOTSTRAP_BRANCH_TIMEZONE", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.Storage.Type {
	case StorageLocal:
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_BASE_PATH is required")
		}
	case StorageOSS:
		if c.Storage.OSSEndpoint == "" || c.Storage.OSSBucket == "" {
			return fmt.Errorf("OSS_ENDPOINT and OSS_BUCKET are required")
		}
		if c.Storage.OSSAccessKeyID == "" || c.Storage.OSSAccessKeySecret == "" {
			return fmt.Errorf("OSS_ACCESS_KEY_ID and OSS_ACCESS_KEY_SECRET are required")
		}
	case StorageCloudinary:
		if c.Storage.CloudinaryCloudName == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME is required")
		}
		signed := c.Storage.CloudinaryAPIKey != "" && c.Storage.CloudinaryAPISecret != ""
		if !signed && c.Storage.CloudinaryUploadPreset == "" {
			return fmt.Errorf("CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET, or CLOUDINARY_UPLOAD_PRESET, are required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.Storage.Type)
	}

	if !validator.IsValidTimezone(c.Attendance.DefaultTimezone) {
		return fmt.Errorf("invalid ATTENDANCE_DEFAULT_TIMEZONE %q", c.Attendance.DefaultTimezone)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.Bootstrap.BranchName != "" && c.Bootstrap.BranchPassword == "" {
		return fmt.Errorf("BOOTSTRAP_BRANCH_PASSWORD is required when BOOTSTRAP_BRANCH_NAME is set")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// DefaultLocation is the timezone used for branches without one.
func (c *Config) DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(c.Attendance.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", c.App.LogLevel)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
