package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	coreapp "cinegraph/internal/core/app"
	"cinegraph/internal/core/config"
	"cinegraph/internal/engine/graph"
	mcpruntime "cinegraph/internal/mcp/runtime"
	"cinegraph/internal/shared/observability"
	"cinegraph/internal/shared/util"
)

const checkTimeout = 5 * time.Second

func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("cinegraph v%s\n", versionString)
		return 0
	}

	if err := validateOptions(opts); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 2
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", opts.configPath, err)
		return 1
	}
	config.ApplyEnvOverrides(cfg)
	applyFlagOverrides(opts, cfg)

	cleanupLogs := configureLogging(cfg, opts.mode)
	defer cleanupLogs()

	shutdownTracing, err := observability.InitTracing(
		context.Background(),
		cfg.Observability.OTLPEndpoint,
		cfg.Observability.SampleRatio,
	)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Warn("tracing shutdown incomplete", "error", err)
		}
	}()

	a, err := initializeApp(cfg, slog.Default(), coreAppFactory{})
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			slog.Warn("shutdown incomplete", "error", err)
		}
	}()

	stats, err := a.LoadSeed(context.Background())
	if err != nil {
		slog.Error("seed load failed", "error", err, "path", cfg.Seed.Path)
		return 1
	}
	if stats.Total() > 0 {
		slog.Info("seed dataset loaded",
			"movies", stats.Movies,
			"people", stats.People,
			"genres", stats.Genres,
			"studios", stats.Studios,
			"edges", stats.Edges,
			"skipped", len(stats.Skipped),
		)
	}

	switch opts.mode {
	case modeCheck:
		return runCheck(a)
	case modeTUI:
		if err := a.StartSeedWatcher(); err != nil {
			slog.Error("failed to start seed watcher", "error", err)
			return 1
		}
		if err := runUI(a.GraphService()); err != nil {
			slog.Error("terminal ui failed", "error", err)
			return 1
		}
		return 0
	default:
		return runServe(a, cfg, opts.configPath)
	}
}

func runServe(a *coreapp.App, cfg *config.Config, cfgPath string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.StartSeedWatcher(); err != nil {
		slog.Error("failed to start seed watcher", "error", err)
		return 1
	}

	obs := NewObservabilityServer(cfg.Observability.MetricsAddress, coreapp.NewHealthService(a))
	if err := obs.Start(ctx); err != nil {
		slog.Error("failed to start observability server", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := obs.Stop(shutdownCtx); err != nil {
			slog.Warn("observability server shutdown incomplete", "error", err)
		}
	}()

	watcher := config.NewWatcher(cfgPath, slog.Default(), func(next *config.Config) {
		config.ApplyEnvOverrides(next)
		a.ApplyConfig(next)
	})
	if err := watcher.Start(ctx); err != nil {
		slog.Warn("config watcher unavailable", "error", err, "path", cfgPath)
	} else {
		defer watcher.Stop()
	}

	server, err := mcpruntime.Build(cfg, mcpruntime.Dependencies{
		Service:  a.GraphService(),
		Logger:   slog.Default(),
		Limiters: a.Limiters,
	})
	if err != nil {
		slog.Error("failed to build server", "error", err)
		return 1
	}

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server exited", "error", err)
		return 1
	}
	return 0
}

func runCheck(a *coreapp.App) int {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	health := coreapp.NewHealthService(a).Check(ctx)
	stats := a.Graph.Stats()

	edges := 0
	for _, count := range stats.Edges {
		edges += count
	}

	fmt.Printf("cinegraph v%s\n", versionString)
	fmt.Printf("Status: %s\n", health.Status)
	for _, name := range util.SortedStringKeys(health.Components) {
		fmt.Printf("  %s: %s\n", name, health.Components[name])
	}
	fmt.Printf("Nodes: movies=%d people=%d genres=%d studios=%d\n",
		stats.Nodes[graph.KindMovie],
		stats.Nodes[graph.KindPerson],
		stats.Nodes[graph.KindGenre],
		stats.Nodes[graph.KindStudio],
	)
	fmt.Printf("Edges: %d (generation %d)\n", edges, stats.Generation)

	if health.Status != "up" {
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	// An explicitly requested file must exist; only the default path may
	// fall back to built-in defaults.
	if path != defaultConfigPath {
		return config.Load(path)
	}
	return config.LoadOrDefault(path)
}

func applyFlagOverrides(opts cliOptions, cfg *config.Config) {
	if t := strings.TrimSpace(opts.transport); t != "" {
		cfg.Server.Transport = strings.ToLower(t)
	}
	if p := strings.TrimSpace(opts.seedPath); p != "" {
		cfg.Seed.Path = p
	}
	if l := strings.TrimSpace(opts.logLevel); l != "" {
		cfg.Logging.Level = strings.ToLower(l)
	}
}

func validateOptions(opts cliOptions) error {
	switch opts.mode {
	case modeServe, modeTUI, modeCheck:
	default:
		return fmt.Errorf("-mode must be one of: serve, tui, check; got %q", opts.mode)
	}

	if opts.transport != "" {
		if opts.mode != modeServe {
			return fmt.Errorf("-transport only applies to -mode serve")
		}
		switch strings.ToLower(opts.transport) {
		case "stdio", "sse", "http":
		default:
			return fmt.Errorf("-transport must be one of: stdio, sse, http; got %q", opts.transport)
		}
	}

	if opts.logLevel != "" {
		switch strings.ToLower(opts.logLevel) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("-log-level must be one of: debug, info, warn, error; got %q", opts.logLevel)
		}
	}

	if len(opts.args) > 0 {
		return fmt.Errorf("unexpected positional arguments: %v", opts.args)
	}
	return nil
}

// The stdio transport owns stdout, so logs always go to stderr. TUI mode
// writes them to a state file instead to keep the alternate screen clean.
func configureLogging(cfg *config.Config, mode string) func() {
	handlerOpts := &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()}

	var output *os.File = os.Stderr
	closeFn := func() {}
	if mode == modeTUI {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
			fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err == nil {
				output = f
				closeFn = func() { _ = f.Close() }
			} else {
				fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(cfg.Logging.Format), "json") {
		handler = slog.NewJSONHandler(output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(output, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cinegraph", "cinegraph.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "cinegraph", "cinegraph.log")
	}

	return "cinegraph.log"
}
