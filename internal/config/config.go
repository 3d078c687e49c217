package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of cadence.
type Config struct {
	DBPath string       `yaml:"db_path" validate:"required"`
	HTTP   HTTPConfig   `yaml:"http"`
	Recalc RecalcConfig `yaml:"recalc"`
	Log    LogConfig    `yaml:"log"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
	// AdminToken guards the admin endpoints. Empty rejects every request.
	AdminToken      string        `yaml:"admin_token"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

type RecalcConfig struct {
	BatchSize int `yaml:"batch_size" validate:"gte=1,lte=100000"`
	// Workers bounds parallel aggregation per batch; 0 means GOMAXPROCS.
	Workers int `yaml:"workers" validate:"gte=0,lte=256"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		DBPath: defaultDBPath(),
		HTTP: HTTPConfig{
			Addr:            "127.0.0.1:8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Recalc: RecalcConfig{
			BatchSize: 2000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cadence.db"
	}
	return filepath.Join(home, ".cadence", "cadence.db")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds the configuration from defaults, then the YAML file at path
// (or $CADENCE_CONFIG when path is empty), then CADENCE_* environment
// variables, and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("CADENCE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("CADENCE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CADENCE_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("CADENCE_ADMIN_TOKEN"); v != "" {
		cfg.HTTP.AdminToken = v
	}
	if v := os.Getenv("CADENCE_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CADENCE_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.HTTP.ShutdownTimeout = d
	}
	if v := os.Getenv("CADENCE_RECALC_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CADENCE_RECALC_BATCH_SIZE: %w", err)
		}
		cfg.Recalc.BatchSize = n
	}
	if v := os.Getenv("CADENCE_RECALC_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CADENCE_RECALC_WORKERS: %w", err)
		}
		cfg.Recalc.Workers = n
	}
	if v := os.Getenv("CADENCE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("CADENCE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// SlogLevel maps Log.Level to a slog level.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
