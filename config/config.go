package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Email     EmailConfig     `yaml:"email"`
	Push      PushConfig      `yaml:"push"`
	Storage   StorageConfig   `yaml:"storage"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port                   int           `yaml:"port"`
	RateLimitPerSec        float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst         int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds        int           `yaml:"cache_ttl_seconds"`
	CacheTTL               time.Duration `yaml:"-"`
	ShutdownTimeoutSeconds int           `yaml:"shutdown_timeout_seconds"`
	ShutdownTimeout        time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	Seed                   bool   `yaml:"seed"`
}

// AuthConfig holds the JWT settings.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTLMinutes int           `yaml:"token_ttl_minutes"`
	TokenTTL        time.Duration `yaml:"-"`
}

// LoggingConfig holds the logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// SchedulerConfig holds the release notification scheduler settings.
type SchedulerConfig struct {
	Enabled            bool          `yaml:"enabled"`
	IntervalSeconds    int           `yaml:"interval_seconds"`
	Interval           time.Duration `yaml:"-"`
	SendTimeoutSeconds int           `yaml:"send_timeout_seconds"`
	SendTimeout        time.Duration `yaml:"-"`
	Concurrency        int           `yaml:"concurrency"`
	WatchURLBase       string        `yaml:"watch_url_base"`
}

// EmailConfig selects and configures the outbound email transport.
type EmailConfig struct {
	Provider     string     `yaml:"provider"` // resend or smtp
	From         string     `yaml:"from"`
	ResendAPIKey string     `yaml:"resend_api_key"`
	SMTP         SMTPConfig `yaml:"smtp"`
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	Enabled    bool   `yaml:"enabled"`
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// StorageConfig holds the upload storage settings.
type StorageConfig struct {
	UploadDir   string `yaml:"upload_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// Load reads the configuration from the given path. Values from a .env file
// or the process environment override the secrets found in the YAML file.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.Database.DSN, "DATABASE_DSN")
	override(&cfg.Auth.JWTSecret, "JWT_SECRET")
	override(&cfg.Email.ResendAPIKey, "RESEND_API_KEY")
	override(&cfg.Email.SMTP.Password, "SMTP_PASSWORD")
	override(&cfg.Push.PublicKey, "VAPID_PUBLIC_KEY")
	override(&cfg.Push.PrivateKey, "VAPID_PRIVATE_KEY")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 3333
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		cfg.Server.ShutdownTimeoutSeconds = 5
	}
	cfg.Server.ShutdownTimeout = time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Auth.TokenTTLMinutes <= 0 {
		cfg.Auth.TokenTTLMinutes = 24 * 60
	}
	cfg.Auth.TokenTTL = time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Scheduler.IntervalSeconds <= 0 {
		cfg.Scheduler.IntervalSeconds = 60
	}
	cfg.Scheduler.Interval = time.Duration(cfg.Scheduler.IntervalSeconds) * time.Second
	if cfg.Scheduler.SendTimeoutSeconds <= 0 {
		cfg.Scheduler.SendTimeoutSeconds = 15
	}
	cfg.Scheduler.SendTimeout = time.Duration(cfg.Scheduler.SendTimeoutSeconds) * time.Second
	if cfg.Scheduler.Concurrency <= 0 {
		cfg.Scheduler.Concurrency = 1
	}
	if cfg.Scheduler.WatchURLBase == "" {
		cfg.Scheduler.WatchURLBase = "http://localhost:3001"
	}

	if cfg.Email.Provider == "" {
		cfg.Email.Provider = "resend"
	}
	if cfg.Email.From == "" {
		cfg.Email.From = "onboarding@resend.dev"
	}
	if cfg.Email.SMTP.Port <= 0 {
		cfg.Email.SMTP.Port = 587
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = "./uploads"
	}
	if cfg.Storage.MaxUploadMB <= 0 {
		cfg.Storage.MaxUploadMB = 5
	}
}

// Validate reports configuration that would prevent the service from starting.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret (or JWT_SECRET) is required")
	}
	switch c.Email.Provider {
	case "resend", "smtp":
	default:
		return fmt.Errorf("email.provider must be resend or smtp, got %q", c.Email.Provider)
	}
	if c.Push.Enabled && (c.Push.PublicKey == "" || c.Push.PrivateKey == "") {
		return fmt.Errorf("push.enabled requires VAPID keys")
	}
	return nil
}
