// Package config carga la configuración del servicio: defaults, archivo
// opcional (CONFIG_FILE) y variables de entorno, en ese orden de precedencia.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"daily-medicine-reminder/internal/platform/clock"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Storage   StorageConfig
	Log       LogConfig
	Clock     ClockConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StorageConfig struct {
	// Driver: memory | sqlite | postgres. Vacío elige postgres si hay DSN.
	Driver      string
	DSN         string
	SQLitePath  string
	MaxConns    int32
	AutoMigrate bool
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type ClockConfig struct {
	// Timezone IANA con la que se calcula "hoy".
	Timezone string
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	Insecure   bool
	SampleRate float64
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load lee la configuración. path tiene prioridad sobre CONFIG_FILE;
// ambos pueden estar vacíos.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// nombres heredados
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("storage.dsn", "STORAGE_DSN", "DB_DSN")
	_ = v.BindEnv("storage.sqlite_path", "STORAGE_SQLITE_PATH", "SQLITE_PATH")
	_ = v.BindEnv("clock.timezone", "CLOCK_TIMEZONE", "APP_TIMEZONE")
	_ = v.BindEnv("app.environment", "APP_ENVIRONMENT", "APP_ENV")

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Environment: v.GetString("app.environment"),
			Version:     v.GetString("app.version"),
		},
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			IdleTimeout:     v.GetDuration("server.idle_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			MaxBodyBytes:    v.GetInt64("server.max_body_bytes"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
			DSN:         v.GetString("storage.dsn"),
			SQLitePath:  v.GetString("storage.sqlite_path"),
			MaxConns:    v.GetInt32("storage.max_conns"),
			AutoMigrate: v.GetBool("storage.auto_migrate"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			OutputPath: v.GetString("log.output"),
		},
		Clock: ClockConfig{
			Timezone: v.GetString("clock.timezone"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("rate_limit.enabled"),
			Requests: v.GetInt("rate_limit.requests"),
			Window:   v.GetDuration("rate_limit.window"),
		},
		Tracing: TracingConfig{
			Enabled:    v.GetBool("tracing.enabled"),
			Endpoint:   v.GetString("tracing.endpoint"),
			Insecure:   v.GetBool("tracing.insecure"),
			SampleRate: v.GetFloat64("tracing.sample_rate"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "memory"
		if cfg.Storage.DSN != "" {
			cfg.Storage.Driver = "postgres"
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "daily-medicine-reminder")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "0.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.max_body_bytes", 10<<10)

	v.SetDefault("storage.driver", "")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.sqlite_path", "data/medicine_reminder.db")
	v.SetDefault("storage.max_conns", 10)
	v.SetDefault("storage.auto_migrate", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("clock.timezone", "UTC")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", 15*time.Minute)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_rate", 0.1)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// validate junta todos los problemas en un solo error.
func validate(cfg *Config) error {
	var errs []string

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server port %d out of range", cfg.Server.Port))
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		errs = append(errs, "server max_body_bytes must be positive")
	}

	switch cfg.Storage.Driver {
	case "memory":
		if cfg.App.Environment == "production" {
			errs = append(errs, "memory storage is not allowed in production")
		}
	case "sqlite":
		if strings.TrimSpace(cfg.Storage.SQLitePath) == "" {
			errs = append(errs, "SQLITE_PATH is required for the sqlite driver")
		}
	case "postgres":
		if cfg.Storage.DSN == "" {
			errs = append(errs, "DB_DSN is required for the postgres driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown storage driver %q", cfg.Storage.Driver))
	}

	if _, err := clock.FromName(cfg.Clock.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("APP_TIMEZONE %q is not a valid IANA zone", cfg.Clock.Timezone))
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0) {
		errs = append(errs, "rate limit requests and window must be positive")
	}

	if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1 {
		errs = append(errs, "tracing sample_rate must be between 0 and 1")
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, "metrics path must start with /")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
