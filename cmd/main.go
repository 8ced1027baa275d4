package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/cardramp/ramp_sdk/internal/adapters/rampapi"
	"github.com/cardramp/ramp_sdk/internal/adapters/walletd"
	"github.com/cardramp/ramp_sdk/internal/api/handlers"
	"github.com/cardramp/ramp_sdk/internal/api/routes"
	"github.com/cardramp/ramp_sdk/internal/domain/entities"
	"github.com/cardramp/ramp_sdk/internal/domain/services/audit"
	"github.com/cardramp/ramp_sdk/internal/domain/services/onchain"
	"github.com/cardramp/ramp_sdk/internal/domain/services/ramp"
	"github.com/cardramp/ramp_sdk/internal/infrastructure/cache"
	"github.com/cardramp/ramp_sdk/internal/infrastructure/config"
	"github.com/cardramp/ramp_sdk/pkg/graceful"
	"github.com/cardramp/ramp_sdk/pkg/logger"
	"github.com/cardramp/ramp_sdk/pkg/metrics"
	"github.com/cardramp/ramp_sdk/pkg/ratelimit"
	"github.com/cardramp/ramp_sdk/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)
	defer log.Sync()

	ctx := context.Background()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		CollectorURL: cfg.Tracing.CollectorURL,
		Environment:  cfg.Environment,
		SampleRate:   cfg.Tracing.SampleRate,
		Insecure:     cfg.Tracing.Insecure,
	}, log.Zap())
	if err != nil {
		log.Fatal("Failed to initialize tracing", "error", err)
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis, log.Zap())
	if err != nil {
		log.Fatal("Failed to connect to Redis", "error", err)
	}

	apiClient := rampapi.NewClient(rampapi.Config{
		CoreBaseURL:   cfg.RampAPI.CoreBaseURL,
		AssetsBaseURL: cfg.RampAPI.AssetsBaseURL,
		APIKey:        cfg.RampAPI.APIKey,
		Timeout:       time.Duration(cfg.RampAPI.Timeout) * time.Second,
		MaxRetries:    cfg.RampAPI.MaxRetries,
	}, log)

	walletClient := walletd.NewClient(walletd.Config{
		BaseURL: cfg.Walletd.BaseURL,
		Timeout: time.Duration(cfg.Walletd.Timeout) * time.Second,
	}, log)

	auditSink := audit.NewService(apiClient, cfg.Audit.QueueSize,
		time.Duration(cfg.Audit.DrainTimeout)*time.Second, log)

	// One wallet daemon serves both families; it inspects the request's
	// network and signs with the matching keyset.
	dispatcher := onchain.NewDispatcher(map[entities.NetworkKind]onchain.Executor{
		entities.NetworkKindEVM:    walletClient,
		entities.NetworkKindSolana: walletClient,
	})

	sdk := ramp.New(ramp.Deps{
		API:           apiClient,
		Audit:         auditSink,
		Executors:     dispatcher,
		Registry:      cfg.BuildRegistry(),
		WatchInterval: cfg.WatchInterval(),
		Logger:        log,
	})

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := sdk.Init(initCtx); err != nil {
		cancel()
		log.Fatal("Failed to initialize ramp SDK", "error", err)
	}
	cancel()

	// Refresh the availability gauges every minute so dashboards track the
	// server-side feature switches.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 1m", func() {
		refreshAvailability(ctx, sdk, log)
	}); err != nil {
		log.Fatal("Failed to schedule availability refresh", "error", err)
	}
	scheduler.Start()
	refreshAvailability(ctx, sdk, log)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	limiter := ratelimit.NewLimiter(redisClient.Client(), ratelimit.Config{
		Limit:  int64(cfg.Server.RateLimitPerMin),
		Window: time.Minute,
	}, log.Zap())

	routes.Register(router,
		handlers.NewRampHandlers(sdk, log),
		handlers.NewHealthHandler(redisClient),
		limiter,
		log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	sm := graceful.NewShutdownManager(server, log)
	sm.RegisterFunc("cron", func() error { scheduler.Stop(); return nil })
	sm.RegisterFunc("audit", func() error { auditSink.Close(); return nil })
	sm.RegisterFunc("redis", redisClient.Close)
	sm.RegisterFunc("tracer", func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdownTracer(shutdownCtx)
	})

	go func() {
		log.Info("Starting ramp service", "addr", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", "error", err)
		}
	}()

	sm.WaitForShutdown()
}

func refreshAvailability(ctx context.Context, sdk *ramp.SDK, log *logger.Logger) {
	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	settings, err := sdk.GetServerSettings(fetchCtx)
	if err != nil {
		log.Warn("Availability refresh failed", "error", err)
		return
	}
	metrics.RampAvailability.WithLabelValues("topup").Set(boolGauge(settings.IsTopupEnabled))
	metrics.RampAvailability.WithLabelValues("onramp").Set(boolGauge(settings.IsOnRampEnabled))
}

func boolGauge(enabled bool) float64 {
	if enabled {
		return 1
	}
	return 0
}
