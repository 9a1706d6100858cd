package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	httpapi "github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/api/http"
	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/cache"
	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/config"
	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/notify"
	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/scheduler"
	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/store"
	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/weather"
	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/weather/providers"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)

	// Durable store: Postgres when a DSN is configured, in-memory otherwise.
	var obsStore weather.Store
	if cfg.DatabaseDSN != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pg.Close()
		obsStore = pg
	} else {
		log.Warn("no DATABASE_DSN configured; observations will not survive restarts")
		obsStore = store.NewMemoryStore(0, 48*time.Hour)
	}

	// Cache store: Redis when configured, otherwise in-process.
	var obsCache weather.Cache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer rc.Close()
		obsCache = rc
	} else {
		obsCache = cache.NewMemoryCache()
	}

	service := weather.NewService(provider, obsStore, obsCache, weather.ServiceConfig{
		Locations:   cfg.Locations,
		CurrentTTL:  cfg.CurrentCacheTTL,
		ForecastTTL: cfg.ForecastCacheTTL,
	})

	tracker := weather.NewAlertTracker(cfg.AlertThreshold, cfg.AlertConsecutive)

	var notifier weather.Notifier
	if cfg.SMTPServer != "" {
		notifier = notify.NewEmailNotifier(notify.EmailConfig{
			Server:   cfg.SMTPServer,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			To:       cfg.AlertEmailTo,
		})
	} else {
		log.Warn("no SMTP_SERVER configured; alerts go to the log only")
		notifier = &notify.LogNotifier{Logf: log.Warnf}
	}

	sched := scheduler.New(cfg.Locations, cfg.PollInterval, cfg.PollTimeout, service, tracker, notifier, log)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-monitoring",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-monitoring",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal.
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
}
