package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/basket/searchgate/internal/audit"
	"github.com/basket/searchgate/internal/cache"
	"github.com/basket/searchgate/internal/config"
	"github.com/basket/searchgate/internal/gateway"
	otelPkg "github.com/basket/searchgate/internal/otel"
	"github.com/basket/searchgate/internal/safety"
	"github.com/basket/searchgate/internal/search"
	"github.com/basket/searchgate/internal/telemetry"
)

// Version is set via ldflags at build time: -ldflags "-X main.Version=..."
var Version = "v0.2-dev"

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage of %s:

DAEMON MODE (default):
  %s                          Start the HTTP gateway on bind_addr

SUBCOMMANDS:
  %s query [flags] <terms>    Run one search and print the payload
                              Flags: -provider, -count, -country,
                              -search-lang, -ui-lang, -freshness,
                              -site, -summary
  %s doctor [-json]           Run diagnostic checks
  %s status                   Show gateway health (/healthz)
  %s set-key <provider> <key> Store a provider API key in config.yaml

ENVIRONMENT VARIABLES:
  SEARCHGATE_HOME         Data directory (default: ~/.searchgate)
  SEARCHGATE_BIND_ADDR    Gateway listen address
  SEARCHGATE_LOG_LEVEL    Log level (debug, info, warn, error)
  BRAVE_API_KEY           Brave Search credential
  PERPLEXITY_API_KEY      Perplexity credential (direct)
  OPENROUTER_API_KEY      Perplexity credential (proxy fallback)
  BOCHA_API_KEY           Bocha credential

EXAMPLES:
  Start the gateway:      %s
  One-shot search:        %s query -provider brave golang generics
  Run diagnostics:        %s doctor
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	loadDotEnv(".env")

	flag.Usage = printUsage
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if args := flag.Args(); len(args) > 0 {
		switch strings.ToLower(strings.TrimSpace(args[0])) {
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		case "query":
			os.Exit(runQueryCommand(ctx, args[1:]))
		case "doctor":
			os.Exit(runDoctorCommand(ctx, args[1:]))
		case "status":
			os.Exit(runStatusCommand(ctx, args[1:]))
		case "set-key":
			os.Exit(runSetKeyCommand(args[1:]))
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
			printUsage()
			os.Exit(2)
		}
	}

	os.Exit(runDaemon(ctx, stop))
}

func runDaemon(ctx context.Context, stop context.CancelFunc) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	logger, logCloser, err := telemetry.NewLogger(cfg.HomeDir, cfg.LogLevel, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		return 1
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	if err := audit.Init(cfg.HomeDir); err != nil {
		logger.Error("audit log unavailable", "error", err)
	}
	defer audit.Close()

	otelProvider, err := otelPkg.Init(ctx, otelPkg.Config{
		Enabled:     cfg.OTel.Enabled,
		Exporter:    cfg.OTel.Exporter,
		Endpoint:    cfg.OTel.Endpoint,
		ServiceName: cfg.OTel.ServiceName,
		SampleRate:  cfg.OTel.SampleRate,
	})
	if err != nil {
		logger.Error("otel init failed", "error", err)
		return 1
	}
	defer otelProvider.Shutdown(context.Background())

	metrics, err := otelPkg.NewMetrics(otelProvider.Meter)
	if err != nil {
		logger.Error("metric instruments failed", "error", err)
		return 1
	}

	store, err := openCacheStore(cfg)
	if err != nil {
		logger.Error("cache backend failed", "error", err)
		return 1
	}
	defer store.Close()
	logger.Info("cache ready", "backend", cfg.Cache.Backend, "ttl_minutes", cfg.Cache.TTLMinutes)

	if cfg.Cache.SweepSchedule != "" {
		sweeper, err := cache.NewSweeper(store, cfg.Cache.SweepSchedule, logger)
		if err != nil {
			logger.Error("invalid sweep schedule", "schedule", cfg.Cache.SweepSchedule, "error", err)
			return 1
		}
		sweeper.Start(ctx)
		defer sweeper.Stop()
	}

	core := buildSearchGateway(cfg, store, logger, metrics)
	srv, err := gateway.New(gateway.Config{
		Gateway: core,
		Logger:  logger,
		Version: Version,
		CacheProbe: func(ctx context.Context) error {
			_, _, err := store.Get(ctx, "healthz-probe")
			return err
		},
	})
	if err != nil {
		logger.Error("gateway init failed", "error", err)
		return 1
	}

	// Config reloads swap the search core in place; the cache and the
	// HTTP listener stay up.
	watcher := config.NewWatcher(cfg.HomeDir, logger)
	if err := watcher.Start(ctx); err != nil {
		logger.Warn("config watcher unavailable", "error", err)
	} else {
		go func() {
			for range watcher.Events() {
				reloaded, err := config.LoadFrom(cfg.HomeDir)
				if err != nil {
					logger.Error("config reload failed, keeping previous", "error", err)
					continue
				}
				srv.SetGateway(buildSearchGateway(reloaded, store, logger, metrics))
				logger.Info("config reloaded",
					"default_provider", reloaded.Search.DefaultProvider)
			}
		}()
	}

	server := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: srv.Handler(),
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", "addr", cfg.BindAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("gateway server error", "error", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("shutdown complete")
	return 0
}

// buildSearchGateway assembles the search core from configuration.
func buildSearchGateway(cfg config.Config, store cache.Store, logger *slog.Logger, metrics *otelPkg.Metrics) *search.Gateway {
	apiKeys := make(map[search.Provider]string, len(cfg.APIKeys))
	for provider, key := range cfg.APIKeys {
		apiKeys[search.Provider(provider)] = key
	}
	return search.New(search.Options{
		APIKeys:           apiKeys,
		DefaultProvider:   search.Provider(cfg.Search.DefaultProvider),
		PerplexityBaseURL: cfg.Perplexity.BaseURL,
		PerplexityModel:   cfg.Perplexity.Model,
		Timeout:           time.Duration(cfg.Search.TimeoutSeconds) * time.Second,
		Cache:             store,
		Sanitize:          safety.NewSanitizer().WrapFunc(),
		Logger:            logger,
		Metrics:           metrics,
	})
}

func openCacheStore(cfg config.Config) (cache.Store, error) {
	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	if cfg.Cache.Backend == "sqlite" {
		return cache.OpenSQLite(config.CachePath(cfg.HomeDir), ttl)
	}
	return cache.NewMemoryStore(ttl), nil
}

// loadDotEnv reads KEY=VALUE lines from path into the environment,
// never overriding variables that are already set.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if key == "" || os.Getenv(key) != "" {
			continue
		}
		_ = os.Setenv(key, val)
	}
}
