package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Pagination PaginationConfig
	RateLimit  RateLimitConfig
	Storage    StorageConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
	MigrationsPath  string        `env:"MIGRATIONS_PATH" env-default:"./migrations"`
	CORSOrigin      string        `env:"CORS_ORIGIN" env-default:"*"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string        `env:"DB_HOST" env-default:"localhost"`
	Port         string        `env:"DB_PORT" env-default:"5432"`
	User         string        `env:"DB_USER" env-default:"postgres"`
	Password     string        `env:"DB_PASSWORD" env-default:"postgres"`
	Name         string        `env:"DB_NAME" env-default:"news_portal"`
	SSLMode      string        `env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxLifetime  time.Duration `env:"DB_MAX_LIFETIME" env-default:"5m"`
}

// AuthConfig holds token and password hashing settings
type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	RefreshSecret   string        `env:"JWT_REFRESH_SECRET"`
	Issuer          string        `env:"JWT_ISSUER" env-default:"news-portal-api"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TTL" env-default:"168h"`
	BcryptCost      int           `env:"BCRYPT_COST" env-default:"10"`
}

// PaginationConfig holds list paging bounds
type PaginationConfig struct {
	DefaultLimit int `env:"PAGINATION_DEFAULT_LIMIT" env-default:"10"`
	MaxLimit     int `env:"PAGINATION_MAX_LIMIT" env-default:"100"`
}

// RateLimitConfig holds the fixed-window limiter settings. An empty
// RedisAddr disables rate limiting.
type RateLimitConfig struct {
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" env-default:"0"`
	Requests      int           `env:"RATE_LIMIT_REQUESTS" env-default:"1000"`
	Window        time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"5m"`
}

// Enabled reports whether a limiter backend is configured.
func (c RateLimitConfig) Enabled() bool {
	return c.RedisAddr != ""
}

// StorageConfig holds the media object store settings. An empty Endpoint
// disables object storage and media records keep caller-supplied URLs.
type StorageConfig struct {
	Endpoint      string `env:"S3_ENDPOINT"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	Bucket        string `env:"S3_BUCKET" env-default:"media"`
	UseSSL        bool   `env:"S3_USE_SSL" env-default:"false"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" env-default:"10485760"`
}

// Enabled reports whether an object store is configured.
func (c StorageConfig) Enabled() bool {
	return c.Endpoint != ""
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"` // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.RefreshSecret == "" {
		c.Auth.RefreshSecret = c.Auth.JWTSecret
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.Pagination.DefaultLimit <= 0 || c.Pagination.MaxLimit <= 0 {
		return fmt.Errorf("pagination limits must be positive")
	}
	if c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		return fmt.Errorf("PAGINATION_DEFAULT_LIMIT must not exceed PAGINATION_MAX_LIMIT")
	}
	if c.RateLimit.Enabled() && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit requests and window must be positive")
	}
	if c.Storage.Enabled() && c.Storage.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when S3_ENDPOINT is set")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
