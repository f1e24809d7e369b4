package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: CINEGRAPH_[SECTION]_[KEY] (e.g., CINEGRAPH_SERVER_ADDRESS).
func ApplyEnvOverrides(cfg *Config) {
	// Server
	setEnvString(&cfg.Server.Transport, "CINEGRAPH_SERVER_TRANSPORT")
	setEnvString(&cfg.Server.Address, "CINEGRAPH_SERVER_ADDRESS")
	setEnvDuration(&cfg.Server.ShutdownTimeout, "CINEGRAPH_SERVER_SHUTDOWN_TIMEOUT")

	// Limits
	setEnvFloat64(&cfg.Limits.RateRPS, "CINEGRAPH_LIMITS_RATE_RPS")
	setEnvInt(&cfg.Limits.RateBurst, "CINEGRAPH_LIMITS_RATE_BURST")
	setEnvInt(&cfg.Limits.MaxPageSize, "CINEGRAPH_LIMITS_MAX_PAGE_SIZE")
	setEnvInt(&cfg.Limits.DefaultPageSize, "CINEGRAPH_LIMITS_DEFAULT_PAGE_SIZE")
	setEnvInt(&cfg.Limits.TopNMax, "CINEGRAPH_LIMITS_TOP_N_MAX")
	setEnvInt(&cfg.Limits.CacheSize, "CINEGRAPH_LIMITS_CACHE_SIZE")

	// Seed
	setEnvString(&cfg.Seed.Path, "CINEGRAPH_SEED_PATH")
	setEnvBool(&cfg.Seed.Watch, "CINEGRAPH_SEED_WATCH")

	// Changelog
	setEnvBool(&cfg.Changelog.Enabled, "CINEGRAPH_CHANGELOG_ENABLED")
	setEnvString(&cfg.Changelog.Path, "CINEGRAPH_CHANGELOG_PATH")
	setEnvDuration(&cfg.Changelog.FlushInterval, "CINEGRAPH_CHANGELOG_FLUSH_INTERVAL")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddress, "CINEGRAPH_OBSERVABILITY_METRICS_ADDRESS")
	setEnvString(&cfg.Observability.OTLPEndpoint, "CINEGRAPH_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvFloat64(&cfg.Observability.SampleRatio, "CINEGRAPH_OBSERVABILITY_SAMPLE_RATIO")

	// Logging
	setEnvString(&cfg.Logging.Level, "CINEGRAPH_LOGGING_LEVEL")
	setEnvString(&cfg.Logging.Format, "CINEGRAPH_LOGGING_FORMAT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Info("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Info("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Info("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Info("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Info("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
