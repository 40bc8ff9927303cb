package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/atelierbeauty/salon-platform/internal/api/router"
	"github.com/atelierbeauty/salon-platform/internal/appointments"
	"github.com/atelierbeauty/salon-platform/internal/catalog"
	appconfig "github.com/atelierbeauty/salon-platform/internal/config"
	"github.com/atelierbeauty/salon-platform/internal/notify"
	"github.com/atelierbeauty/salon-platform/internal/observability/metrics"
	"github.com/atelierbeauty/salon-platform/internal/reminders"
	"github.com/atelierbeauty/salon-platform/internal/schedule"
	"github.com/atelierbeauty/salon-platform/internal/settings"
	"github.com/atelierbeauty/salon-platform/pkg/logging"
)

func main() {
	// Load .env in development; ignored when the file is absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting salon-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	// Storage: Postgres when DATABASE_URL is set, in-memory otherwise.
	var (
		ruleRepo    schedule.RuleRepository
		apptRepo    appointments.Repository
		catalogRepo catalog.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping postgres", "error", err)
			os.Exit(1)
		}
		ruleRepo = schedule.NewPostgresRuleRepository(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
		catalogRepo = catalog.NewPostgresRepository(pool)
		logger.Info("using postgres storage")
	} else {
		rules := schedule.NewInMemoryRuleRepository()
		ruleRepo = rules
		apptRepo = appointments.NewInMemoryRepository(rules)
		catalogRepo = catalog.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// Contact settings live in Redis when configured.
	var settingsHandler *settings.Handler
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()
		settingsHandler = settings.NewHandler(settings.NewStore(redisClient), logger)
		logger.Info("contact settings store enabled", "addr", cfg.RedisAddr)
	}

	emailSender := buildEmailSender(ctx, cfg, logger)
	notifier := notify.NewAppointmentNotifier(emailSender, cfg.StaffNotifyEmail, cfg.NotifyFromName, logger)

	service := appointments.NewService(apptRepo, notifier, bookingMetrics, logger)
	calendar := schedule.NewCalendar(ruleRepo, apptRepo, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(service, logger),
		ScheduleHandler:     schedule.NewHandler(ruleRepo, calendar, logger).WithMetrics(bookingMetrics),
		CatalogHandler:      catalog.NewHandler(catalogRepo, logger),
		SettingsHandler:     settingsHandler,
		MetricsHandler:      promhttp.Handler(),
		StaffAuthSecret:     cfg.StaffJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		BookingRateLimit:    cfg.BookingRateLimit,
		BookingRateBurst:    cfg.BookingRateBurst,
	}
	r := router.New(routerCfg)

	if cfg.RemindersEnabled {
		worker := reminders.NewWorker(apptRepo, notifier, bookingMetrics, logger).
			WithInterval(cfg.ReminderInterval).
			WithWindow(cfg.ReminderWindow)
		go worker.Run(ctx)
		logger.Info("reminder worker started",
			"interval", cfg.ReminderInterval,
			"window", cfg.ReminderWindow,
		)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			logger.Warn("SENDGRID_API_KEY not set, falling back to stub sender")
			return notify.NewStubEmailSender(logger)
		}
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger)
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config, falling back to stub sender", "error", err)
			return notify.NewStubEmailSender(logger)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger)
	default:
		return notify.NewStubEmailSender(logger)
	}
}
