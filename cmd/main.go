package main

import (
	"context"
	"direct-chat/auth"
	"direct-chat/infrastructure/grpc/server"
	"direct-chat/infrastructure/rest"
	"direct-chat/internal"
	"direct-chat/moderation"
	"direct-chat/observability"
	"direct-chat/repositories"
	"direct-chat/runtime"
	"direct-chat/runtime/workers"
	"direct-chat/services"
	"direct-chat/sink"
	"direct-chat/storage"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"golang.org/x/sync/errgroup"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Deferred cleanups (database, index) run before main exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB, Bluge, images)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	images, err := storage.NewDiskImageStore(config.ImageDir, config.MaxImageBytes, log)
	if err != nil {
		return exitRuntime, err
	}

	userRepository := repositories.NewUserRepository(db, log)
	messageRepository := repositories.NewMessageRepository(db, log)
	messageIndex := repositories.NewMessageIndex(blugeWriter, log, config.SearchLimit)

	// 3. Delivery pipeline
	supervisor := workers.NewSupervisor(log).WithRestartInterval(config.RestartInterval)
	registry := runtime.NewRegistry()
	dispatcher := runtime.NewDispatcher(log, supervisor, registry,
		config.NumberOfWorkers, config.BufferSize, config.SinkTimeout)

	metrics := observability.NewMetrics()
	dispatcher.Add(sink.NewMetricsSink(metrics))
	registerDeliveryMetrics(metrics, registry, dispatcher)

	stats := dispatcher.Stats()
	monitoring := observability.NewMonitoringManager(log, observability.DeliveryCounters{
		OnlineUsers: registry.Count,
		Delivered:   stats.Delivered.Load,
		Failed:      stats.Failed.Load,
		Offline:     stats.Offline.Load,
		Dropped:     stats.Dropped.Load,
	})
	supervisor.Add(
		workers.NewHealthMonitoringWorker(log, monitoring, config.MetricInterval),
		workers.NewChannelCapacityWorker(log, dispatcher.Queues(), metrics,
			config.MetricInterval, config.LowCapacityThreshold),
	)

	// 4. Services & HTTP
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(userRepository, images, tokens, log)
	socialService := services.NewSocialGraphService(userRepository, log)
	messageService := services.NewMessageService(userRepository, messageRepository, messageIndex,
		images, dispatcher, log, config.MaxTextLength)

	if config.ModerationEnabled {
		moderator, err := buildModerator(charReplacement, log)
		if err != nil {
			return exitConfig, err
		}
		messageService.WithModerator(moderator)
	}

	router := rest.NewRouter(rest.Dependencies{
		Auth:                 authService,
		Social:               socialService,
		Messages:             messageService,
		Presence:             registry,
		Tokens:               tokens,
		Metrics:              metrics,
		Monitoring:           monitoring,
		ImageDir:             images.Dir(),
		AllowedOrigins:       config.Origins(),
		ConnectionBufferSize: config.ConnectionBufferSize,
		SecureCookie:         config.SecureCookie,
		MaxBodyBytes:         int64(config.MaxImageBytes) * 2,
	}, log)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	healthServer := server.NewHealthServer(log)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting delivery dispatcher", "workers", config.NumberOfWorkers)
		dispatcher.Start(gctx)
		return nil
	})

	g.Go(func() error {
		return healthServer.Run(gctx, config.HealthPort)
	})

	g.Go(func() error {
		log.Info("Starting HTTP server", "address", httpServer.Addr, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if config.DebugPort != nil {
		debugServer := internal.NewDebugServer(db, func() map[string]any {
			latest := monitoring.GetLatest()
			return map[string]any{
				"online_users":     latest.OnlineUsers,
				"pushes_delivered": latest.Delivered,
				"events_dropped":   latest.Dropped,
				"num_goroutines":   latest.NumGoroutines,
			}
		}, log)
		g.Go(func() error {
			return debugServer.Run(gctx, *config.DebugPort)
		})
	}

	if err := g.Wait(); err != nil {
		return exitRuntime, err
	}
	log.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildModerator(charReplacement rune, log *slog.Logger) (*moderation.Moderator, error) {
	data, err := moderation.NewCensoredLoader(moderation.CensoredFolder).LoadAll("censored")
	if err != nil {
		return nil, fmt.Errorf("censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(data.Words, charReplacement, log)
	if err != nil {
		return nil, err
	}
	log.Info("Moderation enabled", "languages", data.Languages, "words", len(data.Words))
	return moderator, nil
}

func registerDeliveryMetrics(metrics *observability.Metrics, registry *runtime.Registry, dispatcher *runtime.Dispatcher) {
	stats := dispatcher.Stats()
	metrics.RegisterGaugeFunc("online_users", "Users with a live connection",
		func() float64 { return float64(registry.Count()) })
	metrics.RegisterCounterFunc("pushes_delivered_total", "Events pushed over a live connection", stats.Delivered.Load)
	metrics.RegisterCounterFunc("pushes_failed_total", "Pushes that failed or timed out", stats.Failed.Load)
	metrics.RegisterCounterFunc("pushes_offline_total", "Events whose receiver was offline", stats.Offline.Load)
	metrics.RegisterCounterFunc("events_dropped_total", "Events dropped because a delivery buffer was full", stats.Dropped.Load)
}
