package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Addr                    string        `yaml:"addr" env:"APP_ADDR" env-default:":8080"`
	Environment             string        `yaml:"env" env:"APP_ENV" env-default:"development"`
	UpstreamBaseURL         string        `yaml:"upstream_base_url" env:"UPSTREAM_BASE_URL"`
	UpstreamTimeout         time.Duration `yaml:"upstream_timeout" env:"UPSTREAM_TIMEOUT" env-default:"15s"`
	JWTSecret               string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	SessionCookie           string        `yaml:"session_cookie" env:"SESSION_COOKIE" env-default:"session"`
	DatabaseURL             string        `yaml:"database_url" env:"DATABASE_URL"`
	RunMigrations           bool          `yaml:"run_migrations" env:"RUN_MIGRATIONS" env-default:"true"`
	MigrationsDir           string        `yaml:"migrations_dir" env:"MIGRATIONS_DIR" env-default:"migrations"`
	CORSOrigins             []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	MaxBodyBytes            int64         `yaml:"max_body_bytes" env:"MAX_BODY_BYTES" env-default:"1048576"`
	RateLimitPerMinute      int           `yaml:"rate_limit_per_minute" env:"RATE_LIMIT_PER_MINUTE" env-default:"120"`
	PaymentFetchConcurrency int           `yaml:"payment_fetch_concurrency" env:"PAYMENT_FETCH_CONCURRENCY" env-default:"8"`
	Timezone                string        `yaml:"timezone" env:"TIMEZONE" env-default:"Local"`
	ErrorLogPath            string        `yaml:"error_log_path" env:"ERROR_LOG_PATH"`
	MetricsEnabled          bool          `yaml:"metrics_enabled" env:"METRICS_ENABLED" env-default:"true"`
}

// Load reads CONFIG_PATH (YAML) when set, then overlays the environment.
// An unreadable file or an env value that does not parse is an error.
func Load() (Config, error) {
	var cfg Config
	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if cfg.UpstreamBaseURL == "" {
		cfg.UpstreamBaseURL = os.Getenv("VITE_URL_BASE")
	}
	cfg.UpstreamBaseURL = strings.TrimRight(strings.TrimSpace(cfg.UpstreamBaseURL), "/")
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location resolves TIMEZONE; unknown names fall back to time.Local.
func (c Config) Location() *time.Location {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.UpstreamBaseURL) == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if !strings.HasPrefix(c.UpstreamBaseURL, "http://") && !strings.HasPrefix(c.UpstreamBaseURL, "https://") {
		return fmt.Errorf("UPSTREAM_BASE_URL must be an http(s) URL")
	}
	if c.IsProduction() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.PaymentFetchConcurrency <= 0 {
		return fmt.Errorf("PAYMENT_FETCH_CONCURRENCY must be positive")
	}
	if strings.TrimSpace(c.SessionCookie) == "" {
		return fmt.Errorf("SESSION_COOKIE must not be empty")
	}
	return nil
}
