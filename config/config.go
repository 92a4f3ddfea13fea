package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreDriverREST     = "rest"
	StoreDriverPostgres = "postgres"
)

// AppConfig holds the API process configuration.
type AppConfig struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	Port      string `envconfig:"APP_PORT" default:"8000"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	StoreConfig

	TokenSymmetricKey string `envconfig:"TOKEN_SYMMETRIC_KEY" required:"true"`
	TokenExpireHours  int    `envconfig:"TOKEN_EXPIRE_HOURS" default:"8"`

	RedisAddress string `envconfig:"REDIS_URL" required:"true"`

	RequireAuthOnRecords bool     `envconfig:"REQUIRE_AUTH_ON_RECORDS" default:"true"`
	CorsAllowedOrigins   []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:8501"`

	RateLimitRPS   float64       `envconfig:"RATE_LIMIT_RPS" default:"15"`
	RateLimitBurst int           `envconfig:"RATE_LIMIT_BURST" default:"30"`
	LoginAttempts  int           `envconfig:"LOGIN_MAX_ATTEMPTS" default:"10"`
	LoginWindow    time.Duration `envconfig:"LOGIN_WINDOW" default:"15m"`

	SMTP SMTPConfig
}

// StoreConfig selects the data store. The rest driver talks to the hosted
// PostgREST API; the postgres driver connects directly with gorm.
type StoreConfig struct {
	StoreDriver  string        `envconfig:"STORE_DRIVER" default:"rest"`
	SupabaseURL  string        `envconfig:"SUPABASE_URL"`
	SupabaseKey  string        `envconfig:"SUPABASE_KEY"`
	DBURL        string        `envconfig:"DB_URL"`
	AutoMigrate  bool          `envconfig:"DB_AUTO_MIGRATE" default:"false"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
}

// SMTPConfig is optional; password reset routes are only mounted when Host is set.
type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	User     string `envconfig:"SMTP_USER"`
	Password string `envconfig:"SMTP_PASS"`
	From     string `envconfig:"SMTP_FROM"`
}

func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

// DashboardConfig holds the dashboard process configuration.
type DashboardConfig struct {
	Env       string        `envconfig:"APP_ENV" default:"development"`
	Port      string        `envconfig:"DASHBOARD_PORT" default:"8501"`
	APIURL    string        `envconfig:"API_URL" default:"http://localhost:8000"`
	Timeout   time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string        `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads the API configuration from the environment, after loading a .env
// file when one is present.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDashboard reads the dashboard configuration.
func LoadDashboard() (*DashboardConfig, error) {
	_ = godotenv.Load()

	var cfg DashboardConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing dashboard config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &cfg, nil
}

// LoadStore reads only the store settings, for tools that do not serve HTTP.
func LoadStore() (*StoreConfig, error) {
	_ = godotenv.Load()

	var cfg StoreConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing store config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *AppConfig) Validate() error {
	if len(c.TokenSymmetricKey) != 32 {
		return fmt.Errorf("TOKEN_SYMMETRIC_KEY must be 32 bytes long, got %d", len(c.TokenSymmetricKey))
	}
	if c.TokenExpireHours <= 0 {
		return fmt.Errorf("TOKEN_EXPIRE_HOURS must be positive")
	}
	return c.StoreConfig.Validate()
}

func (c *StoreConfig) Validate() error {
	switch c.StoreDriver {
	case StoreDriverREST:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the rest store driver")
		}
	case StoreDriverPostgres:
		if c.DBURL == "" {
			return fmt.Errorf("DB_URL is required for the postgres store driver")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	return nil
}

func (c *AppConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpireHours) * time.Hour
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, "development")
}
