package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultBackendURL is the API Gateway endpoint the site was first deployed against.
const DefaultBackendURL = "https://b0c1xjduv3.execute-api.us-east-1.amazonaws.com"

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	SiteName string `env:"SITE_NAME" envDefault:"MyWebsite"`

	// Contact backend
	BackendURL             string        `env:"BACKEND_API_URL"` // DefaultBackendURL when unset
	BackendSubmissionsPath string        `env:"BACKEND_SUBMISSIONS_PATH" envDefault:"/submissions"`
	BackendAPIKey          string        `env:"BACKEND_API_KEY"`
	BackendJWTSecret       string        `env:"BACKEND_JWT_SECRET"`
	BackendJWTIssuer       string        `env:"BACKEND_JWT_ISSUER" envDefault:"marketing-site"`
	BackendTimeout         time.Duration `env:"BACKEND_TIMEOUT" envDefault:"0s"` // 0 keeps the transport default

	// SMTP notification of new submissions, disabled unless configured
	SMTPHost       string `env:"SMTP_HOST"`
	SMTPPort       string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername   string `env:"SMTP_USERNAME"`
	SMTPPassword   string `env:"SMTP_PASSWORD"`
	SMTPFromEmail  string `env:"SMTP_FROM_EMAIL"` // verified sender; defaults to the login
	ContactEmailTo string `env:"CONTACT_EMAIL_TO"`

	// Redis/Upstash Configuration
	UpstashRedisURL      string `env:"UPSTASH_REDIS_URL"`
	UpstashRedisPassword string `env:"UPSTASH_REDIS_PASSWORD"`

	// Rate Limiting Configuration
	RateLimitWindowSeconds   int `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
	RateLimitSubmitThreshold int `env:"RATE_LIMIT_SUBMIT_THRESHOLD" envDefault:"5"`

	SessionTTLMinutes int `env:"SESSION_TTL_MINUTES" envDefault:"60"`

	// Origins of separately hosted frontends calling /v1
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

func LoadConfig() (*Config, error) {
	// Only effective locally; a missing .env is fine in production
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.BackendURL == "" {
		cfg.BackendURL = DefaultBackendURL
	}
	// Avoid double slashes when joining endpoint paths
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	if !strings.HasPrefix(cfg.BackendSubmissionsPath, "/") {
		cfg.BackendSubmissionsPath = "/" + cfg.BackendSubmissionsPath
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_API_URL must not be empty")
	}
	if cfg.RateLimitWindowSeconds <= 0 || cfg.RateLimitSubmitThreshold <= 0 {
		return nil, fmt.Errorf("rate limit window and threshold must be positive")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// RateLimitWindow returns the rate limit window as a duration
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

// SessionTTL returns how long an idle page session is kept
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// IsProduction reports whether gin runs in release mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
