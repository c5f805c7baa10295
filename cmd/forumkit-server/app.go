package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	mem "forumkit/adapters/memory"
	mongoAdapter "forumkit/adapters/mongo"
	redisAdapter "forumkit/adapters/redis"
	sqlxAdapter "forumkit/adapters/sqlx"
	"forumkit/analytics"
	"forumkit/api/httpapi"
	"forumkit/config"
	"forumkit/engine"
	"forumkit/forum"
	"forumkit/integrations/webhook"
	"forumkit/realtime"
	"forumkit/scheduler"
)

// App aggregates the assembled server components.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Hub     *realtime.Hub
	Service *forum.Service
	Janitor *scheduler.StreakJanitor
	Handler http.Handler
	Server  *http.Server
}

func provideConfig(ctx context.Context) (*config.Config, error) {
	return config.Load()
}

func provideLogger(cfg *config.Config) *slog.Logger {
	return setupLogging(cfg)
}

func provideHub() *realtime.Hub {
	return realtime.NewHub()
}

func provideStorage(ctx context.Context, cfg *config.Config) (engine.UserStore, error) {
	return setupStorage(ctx, cfg)
}

func provideSink(cfg *config.Config) *webhook.Sink {
	if cfg.Security.WebhookURL == "" {
		return nil
	}
	return webhook.New([]string{cfg.Security.WebhookURL},
		webhook.WithSigningSecret(cfg.Security.WebhookSecret))
}

func provideService(hub *realtime.Hub, sink *webhook.Sink, storage engine.UserStore, logger *slog.Logger) *forum.Service {
	opts := []forum.Option{
		forum.WithRealtime(hub),
		forum.WithUserStore(storage),
		forum.WithDispatchMode(engine.DispatchAsync),
		forum.WithLogger(logger),
	}
	if sink != nil {
		opts = append(opts, forum.WithWebhook(sink))
	}
	return forum.New(opts...)
}

func provideJanitor(svc *forum.Service, cfg *config.Config, logger *slog.Logger) *scheduler.StreakJanitor {
	return scheduler.NewStreakJanitor(svc.Engine, nil,
		scheduler.WithInterval(cfg.Janitor.Interval),
		scheduler.WithLogger(logger))
}

func provideHandler(svc *forum.Service, storage engine.UserStore, hub *realtime.Hub, cfg *config.Config) http.Handler {
	return httpapi.NewMux(svc.Engine, svc.Board, analytics.NewReporter(storage), hub, httpapi.Options{
		PathPrefix:       cfg.Server.PathPrefix,
		AllowCORSOrigin:  cfg.Server.CORSOrigin,
		APIKeys:          cfg.Security.APIKeys,
		RateLimitEnabled: cfg.Security.EnableRateLimit,
		RateLimitRPM:     cfg.Security.RateLimit.RequestsPerMinute,
		RateLimitBurst:   cfg.Security.RateLimit.BurstSize,
	})
}

func provideServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// setupLogging configures the logger based on configuration.
func setupLogging(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	out := os.Stdout
	if cfg.Logging.Output == "stderr" {
		out = os.Stderr
	}

	switch cfg.Logging.Format {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	if len(cfg.Logging.Attributes) > 0 {
		handler = handler.WithAttrs(convertAttributes(cfg.Logging.Attributes))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// convertAttributes converts map[string]string to []slog.Attr.
func convertAttributes(attrs map[string]string) []slog.Attr {
	var result []slog.Attr
	for k, v := range attrs {
		result = append(result, slog.String(k, v))
	}
	return result
}

// setupStorage creates the appropriate storage adapter based on configuration.
func setupStorage(ctx context.Context, cfg *config.Config) (engine.UserStore, error) {
	switch cfg.Storage.Adapter {
	case "memory":
		return mem.New(), nil
	case "redis":
		return redisAdapter.New(cfg.Storage.Redis)
	case "mongo":
		return mongoAdapter.New(ctx, cfg.Storage.Mongo)
	case "sql":
		store, err := sqlxAdapter.New(cfg.Storage.SQL)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare sql schema: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage adapter: %s", cfg.Storage.Adapter)
	}
}
