package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/rutamapa/rutamapa/internal/adapters/geocoder"
	"github.com/rutamapa/rutamapa/internal/adapters/http"
	natsadapter "github.com/rutamapa/rutamapa/internal/adapters/nats"
	"github.com/rutamapa/rutamapa/internal/adapters/postgres"
	"github.com/rutamapa/rutamapa/internal/adapters/valkey"
	"github.com/rutamapa/rutamapa/internal/core/domain"
	"github.com/rutamapa/rutamapa/internal/core/ports"
	"github.com/rutamapa/rutamapa/internal/core/usecases"
	"github.com/rutamapa/rutamapa/internal/pkg/config"
	"github.com/rutamapa/rutamapa/internal/pkg/logging"
	"github.com/rutamapa/rutamapa/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("rutamapa-mapd")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS
	var publisher ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, session events disabled", "error", err)
	} else {
		publisher = nc
		defer nc.Close()
	}

	// Services
	planRepo := postgres.NewPlanRepo(db)
	historySvc := usecases.NewHistoryService(planRepo, slog.Default())

	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	nominatim := geocoder.New(cfg.Geocoder.BaseURL, time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second)
	geocodeSvc := usecases.NewGeocodeService(nominatim, cacheSvc,
		time.Duration(cfg.Geocoder.CacheTTLSec)*time.Second, slog.Default())

	sessions := usecases.NewSessionManager(
		viewportConfig(cfg.Map), cfg.Map.SessionTTL(), nil, publisher, historySvc)

	deps := &http.Dependencies{
		Sessions: sessions,
		Geocode:  geocodeSvc,
		History:  historySvc,
		DB:       db,
		Cache:    cache,
	}
	if nc != nil {
		deps.NATS = nc.Conn()
	}

	// Background maintenance: reap idle sessions, refresh pool gauges
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := sessions.SweepIdle(ctx); n > 0 {
					slog.Info("reaped idle sessions", "count", n)
				}
				db.ReportPoolMetrics()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    4 * 1024 * 1024, // route geometries can be large
		AppName:      "RutaMapa mapd",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.rutamapa.ar",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("map coordination server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	// Archive whatever the live sessions still hold
	sessions.CloseAll(shutdownCtx)

	slog.Info("server stopped")
}

func viewportConfig(m config.MapConfig) usecases.ViewportConfig {
	return usecases.ViewportConfig{
		MinZoom:       m.MinZoom,
		MaxZoom:       m.MaxZoom,
		FitPaddingPx:  m.FitPaddingPx,
		FitMaxZoom:    m.FitMaxZoom,
		FlyDuration:   time.Duration(m.FlyDurationMs) * time.Millisecond,
		FitDuration:   time.Duration(m.FitDurationMs) * time.Millisecond,
		DebounceDelay: m.Debounce(),
		DefaultRegion: domain.BoundingBox{
			SW: domain.Coordinate{Lon: m.DefaultRegion.SWLon, Lat: m.DefaultRegion.SWLat},
			NE: domain.Coordinate{Lon: m.DefaultRegion.NELon, Lat: m.DefaultRegion.NELat},
		},
	}
}
