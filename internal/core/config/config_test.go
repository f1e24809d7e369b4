package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoad(t *testing.T) {
	content := `
[server]
transport = "sse"
address = "127.0.0.1:9000"
shutdown_timeout = "3s"

[limits]
rate_rps = 5.0
rate_burst = 10
max_page_size = 50
default_page_size = 25
top_n_max = 20
search_max_results = 30
cache_size = 64

[seed]
path = "movies.json"
watch = true
debounce = "1s"

[changelog]
enabled = true
path = "audit.db"
queue_size = 100
batch_size = 10
flush_interval = "2s"

[observability]
metrics_address = "127.0.0.1:9109"
otlp_endpoint = "127.0.0.1:4317"
sample_ratio = 0.5

[logging]
level = "debug"
format = "json"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Transport != "sse" {
		t.Errorf("Expected transport sse, got %s", cfg.Server.Transport)
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("Expected shutdown timeout 3s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Limits.RateRPS != 5.0 || cfg.Limits.RateBurst != 10 {
		t.Errorf("Unexpected rate limits: %v / %d", cfg.Limits.RateRPS, cfg.Limits.RateBurst)
	}
	if cfg.Limits.DefaultPageSize != 25 {
		t.Errorf("Expected default page size 25, got %d", cfg.Limits.DefaultPageSize)
	}
	if cfg.Seed.Path != "movies.json" || !cfg.Seed.Watch {
		t.Errorf("Unexpected seed section: %+v", cfg.Seed)
	}
	if cfg.Seed.Debounce != time.Second {
		t.Errorf("Expected seed debounce 1s, got %v", cfg.Seed.Debounce)
	}
	if !cfg.Changelog.Enabled || cfg.Changelog.Path != "audit.db" {
		t.Errorf("Unexpected changelog section: %+v", cfg.Changelog)
	}
	if cfg.Changelog.FlushInterval != 2*time.Second {
		t.Errorf("Expected flush interval 2s, got %v", cfg.Changelog.FlushInterval)
	}
	if cfg.Observability.OTLPEndpoint != "127.0.0.1:4317" {
		t.Errorf("Unexpected otlp endpoint: %s", cfg.Observability.OTLPEndpoint)
	}
	if cfg.Observability.SampleRatio != 0.5 {
		t.Errorf("Expected sample ratio 0.5, got %v", cfg.Observability.SampleRatio)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging section: %+v", cfg.Logging)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `version = 1`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Transport != "stdio" {
		t.Errorf("Expected default transport stdio, got %s", cfg.Server.Transport)
	}
	if cfg.Limits.MaxPageSize != 100 {
		t.Errorf("Expected default max page size 100, got %d", cfg.Limits.MaxPageSize)
	}
	if cfg.Limits.DefaultPageSize != 20 {
		t.Errorf("Expected default page size 20, got %d", cfg.Limits.DefaultPageSize)
	}
	if cfg.Limits.CacheSize != 256 {
		t.Errorf("Expected default cache size 256, got %d", cfg.Limits.CacheSize)
	}
	if cfg.Changelog.QueueSize != 1024 {
		t.Errorf("Expected default queue size 1024, got %d", cfg.Changelog.QueueSize)
	}
	if cfg.Changelog.FlushInterval != time.Second {
		t.Errorf("Expected default flush interval 1s, got %v", cfg.Changelog.FlushInterval)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load("nonexistent.toml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}

	_, err = Load(writeConfig(t, "bad = toml = format"))
	if err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("nonexistent.toml")
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Server.Transport != "stdio" {
		t.Errorf("Expected defaults for missing file, got %+v", cfg.Server)
	}

	_, err = LoadOrDefault(writeConfig(t, "bad = toml = format"))
	if err == nil {
		t.Error("Expected malformed TOML to stay an error")
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{name: "BadTransport", content: "[server]\ntransport = \"grpc\"\n"},
		{name: "DefaultPageExceedsMax", content: "[limits]\nmax_page_size = 10\ndefault_page_size = 20\n"},
		{name: "BatchExceedsQueue", content: "[changelog]\nenabled = true\nqueue_size = 5\nbatch_size = 10\n"},
		{name: "BadLogLevel", content: "[logging]\nlevel = \"verbose\"\n"},
		{name: "BadLogFormat", content: "[logging]\nformat = \"xml\"\n"},
		{name: "BadVersion", content: "version = 2\n"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cases := []struct {
		level    string
		expected slog.Level
	}{
		{level: "debug", expected: slog.LevelDebug},
		{level: "info", expected: slog.LevelInfo},
		{level: "warn", expected: slog.LevelWarn},
		{level: "error", expected: slog.LevelError},
		{level: "", expected: slog.LevelInfo},
	}

	for _, tc := range cases {
		if got := (Logging{Level: tc.level}).SlogLevel(); got != tc.expected {
			t.Errorf("level %q: expected %v, got %v", tc.level, tc.expected, got)
		}
	}
}
