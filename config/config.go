package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"devevents/internal/adapters/assets"
	"devevents/internal/adapters/email"
	"devevents/internal/storage"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Environment    string
	Port           string
	LogLevel       string
	StoreDriver    string
	MongoURI       string
	MongoDatabase  string
	DBUrl          string
	Pool           storage.PoolConfig
	RequestTimeout time.Duration
	AllowedOrigins []string
	Assets         assets.Config
	Mailer         email.MailerConfig
	RabbitMQURL    string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production there is usually no .env; system environment variables are used.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:   env,
		Port:          getenv("PORT", "8080"),
		StoreDriver:   strings.ToLower(getenv("STORE_DRIVER", StoreMongo)),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getenv("MONGODB_DATABASE", "devevents"),
		DBUrl:         os.Getenv("DATABASE_URL"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		Assets: assets.Config{
			Provider:      strings.ToLower(os.Getenv("ASSET_PROVIDER")),
			CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
			S3: assets.S3Config{
				Bucket:          os.Getenv("S3_BUCKET"),
				Region:          getenv("S3_REGION", "us-east-1"),
				AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
				Endpoint:        os.Getenv("S3_ENDPOINT"),
				PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),
			},
		},
		Mailer: email.MailerConfig{
			Provider:    strings.ToLower(os.Getenv("EMAIL_PROVIDER")),
			FromAddress: os.Getenv("EMAIL_FROM_ADDRESS"),
			FromName:    getenv("EMAIL_FROM_NAME", "DevEvents"),
			SES: email.SESConfig{
				Region:          getenv("SES_REGION", "us-east-1"),
				AccessKeyID:     os.Getenv("SES_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("SES_SECRET_ACCESS_KEY"),
			},
		},
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
	}

	var errs []error
	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required when STORE_DRIVER is mongo"))
		}
	case StorePostgres:
		if cfg.DBUrl == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StorePostgres, cfg.StoreDriver))
	}

	pool := storage.DefaultPoolConfig()
	pool.MinSize = getUint(&errs, "DB_MIN_POOL_SIZE", pool.MinSize)
	pool.MaxSize = getUint(&errs, "DB_MAX_POOL_SIZE", pool.MaxSize)
	pool.SocketTimeout = getDuration(&errs, "DB_SOCKET_TIMEOUT", pool.SocketTimeout)
	pool.ServerSelectionTimeout = getDuration(&errs, "DB_SERVER_SELECTION_TIMEOUT", pool.ServerSelectionTimeout)
	if pool.MinSize > pool.MaxSize {
		errs = append(errs, fmt.Errorf("DB_MIN_POOL_SIZE (%d) exceeds DB_MAX_POOL_SIZE (%d)", pool.MinSize, pool.MaxSize))
	}
	cfg.Pool = pool
	cfg.AllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))
	cfg.RequestTimeout = getDuration(&errs, "REQUEST_TIMEOUT", 30*time.Second)
	cfg.Mailer.SES.InsecureSkipVerify = getBool(&errs, "SES_INSECURE_SKIP_VERIFY", false)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether GO_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getUint(errs *[]error, key string, fallback uint64) uint64 {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

// getDuration accepts Go duration strings ("45s") or a bare number of milliseconds.
func getDuration(errs *[]error, key string, fallback time.Duration) time.Duration {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms <= 0 {
			*errs = append(*errs, fmt.Errorf("%s: duration must be positive, got %q", key, s))
			return fallback
		}
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, s))
		return fallback
	}
	return d
}

func getBool(errs *[]error, key string, fallback bool) bool {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
