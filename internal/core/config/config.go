package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version       int           `toml:"version"`
	Server        Server        `toml:"server"`
	Limits        Limits        `toml:"limits"`
	Seed          Seed          `toml:"seed"`
	Changelog     Changelog     `toml:"changelog"`
	Observability Observability `toml:"observability"`
	Logging       Logging       `toml:"logging"`
}

type Server struct {
	Transport       string        `toml:"transport"`
	Address         string        `toml:"address"`
	RequestTimeout  time.Duration `toml:"request_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type Limits struct {
	RateRPS          float64 `toml:"rate_rps"`
	RateBurst        int     `toml:"rate_burst"`
	MaxPageSize      int     `toml:"max_page_size"`
	DefaultPageSize  int     `toml:"default_page_size"`
	TopNMax          int     `toml:"top_n_max"`
	SearchMaxResults int     `toml:"search_max_results"`
	CacheSize        int     `toml:"cache_size"`
}

type Seed struct {
	Path     string        `toml:"path"`
	Watch    bool          `toml:"watch"`
	Debounce time.Duration `toml:"debounce"`
}

type Changelog struct {
	Enabled       bool          `toml:"enabled"`
	Path          string        `toml:"path"`
	QueueSize     int           `toml:"queue_size"`
	BatchSize     int           `toml:"batch_size"`
	FlushInterval time.Duration `toml:"flush_interval"`
	BusyTimeout   time.Duration `toml:"busy_timeout"`
}

type Observability struct {
	MetricsAddress string  `toml:"metrics_address"`
	OTLPEndpoint   string  `toml:"otlp_endpoint"`
	SampleRatio    float64 `toml:"sample_ratio"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateServer(&cfg); err != nil {
		return nil, err
	}
	if err := validateLimits(&cfg); err != nil {
		return nil, err
	}
	if err := validateChangelog(&cfg); err != nil {
		return nil, err
	}
	if err := validateObservability(&cfg); err != nil {
		return nil, err
	}
	if err := validateLogging(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads the file when it exists and falls back to defaults when
// it does not. Any other read or validation failure is still an error.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Server.Transport) == "" {
		cfg.Server.Transport = "stdio"
	}
	if strings.TrimSpace(cfg.Server.Address) == "" {
		cfg.Server.Address = "127.0.0.1:8790"
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 10 * time.Second
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 5 * time.Second
	}

	if cfg.Limits.RateRPS <= 0 {
		cfg.Limits.RateRPS = 20
	}
	if cfg.Limits.RateBurst <= 0 {
		cfg.Limits.RateBurst = 40
	}
	if cfg.Limits.MaxPageSize <= 0 {
		cfg.Limits.MaxPageSize = 100
	}
	if cfg.Limits.DefaultPageSize <= 0 {
		cfg.Limits.DefaultPageSize = 20
	}
	if cfg.Limits.TopNMax <= 0 {
		cfg.Limits.TopNMax = 100
	}
	if cfg.Limits.SearchMaxResults <= 0 {
		cfg.Limits.SearchMaxResults = 50
	}
	if cfg.Limits.CacheSize < 0 {
		cfg.Limits.CacheSize = 0
	}
	if cfg.Limits.CacheSize == 0 {
		cfg.Limits.CacheSize = 256
	}

	if cfg.Seed.Debounce <= 0 {
		cfg.Seed.Debounce = 500 * time.Millisecond
	}

	if strings.TrimSpace(cfg.Changelog.Path) == "" {
		cfg.Changelog.Path = "changelog.db"
	}
	if cfg.Changelog.QueueSize <= 0 {
		cfg.Changelog.QueueSize = 1024
	}
	if cfg.Changelog.BatchSize <= 0 {
		cfg.Changelog.BatchSize = 50
	}
	if cfg.Changelog.FlushInterval <= 0 {
		cfg.Changelog.FlushInterval = time.Second
	}
	if cfg.Changelog.BusyTimeout <= 0 {
		cfg.Changelog.BusyTimeout = 5 * time.Second
	}

	if strings.TrimSpace(cfg.Observability.MetricsAddress) == "" {
		cfg.Observability.MetricsAddress = "127.0.0.1:9109"
	}
	if cfg.Observability.SampleRatio <= 0 || cfg.Observability.SampleRatio > 1 {
		cfg.Observability.SampleRatio = 1
	}

	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = "info"
	}
	if strings.TrimSpace(cfg.Logging.Format) == "" {
		cfg.Logging.Format = "text"
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; only version 1 is supported", cfg.Version)
	}
	return nil
}

func validateServer(cfg *Config) error {
	transport := strings.ToLower(strings.TrimSpace(cfg.Server.Transport))
	switch transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("server.transport must be one of: stdio, sse")
	}
	if transport == "sse" && strings.TrimSpace(cfg.Server.Address) == "" {
		return fmt.Errorf("server.address must not be empty when server.transport=sse")
	}
	return nil
}

func validateLimits(cfg *Config) error {
	l := cfg.Limits
	if l.DefaultPageSize > l.MaxPageSize {
		return fmt.Errorf("limits.default_page_size %d exceeds limits.max_page_size %d", l.DefaultPageSize, l.MaxPageSize)
	}
	if l.RateBurst < 1 {
		return fmt.Errorf("limits.rate_burst must be >= 1, got %d", l.RateBurst)
	}
	return nil
}

func validateChangelog(cfg *Config) error {
	if !cfg.Changelog.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.Changelog.Path) == "" {
		return fmt.Errorf("changelog.path must not be empty when changelog.enabled=true")
	}
	if cfg.Changelog.BatchSize > cfg.Changelog.QueueSize {
		return fmt.Errorf("changelog.batch_size %d exceeds changelog.queue_size %d", cfg.Changelog.BatchSize, cfg.Changelog.QueueSize)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if strings.TrimSpace(cfg.Observability.MetricsAddress) == "" {
		return fmt.Errorf("observability.metrics_address must not be empty")
	}
	return nil
}

func validateLogging(cfg *Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be one of: text, json")
	}
	return nil
}

// SlogLevel maps the configured level string onto a slog level.
func (l Logging) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
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
