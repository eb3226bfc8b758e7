// Package main provides the entrypoint for the exportdesk API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/exportdesk/exportdesk/internal/api"
	"github.com/exportdesk/exportdesk/internal/api/middleware"
	"github.com/exportdesk/exportdesk/internal/backup"
	"github.com/exportdesk/exportdesk/internal/database"
	"github.com/exportdesk/exportdesk/internal/mail"
	"github.com/exportdesk/exportdesk/internal/notiz"
	"github.com/exportdesk/exportdesk/internal/protokoll"
	"github.com/exportdesk/exportdesk/internal/resilience"
	"github.com/exportdesk/exportdesk/internal/storage"
	"github.com/exportdesk/exportdesk/internal/telemetry"
	"github.com/exportdesk/exportdesk/internal/vorgang"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "exportdesk-api"

	// Local development reads its configuration from a .env file.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting exportdesk API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure database schema")
	}

	// Initialize document storage (local disk or S3)
	storageConfig := storage.ConfigFromEnv()
	store, err := storage.New(storageConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	log.Info().
		Str("mode", string(storageConfig.Mode)).
		Msg("storage initialized")

	// Initialize case service
	agvRetention := time.Duration(0)
	if v := os.Getenv("AGV_RETENTION_DAYS"); v != "" {
		days, convErr := strconv.Atoi(v)
		if convErr != nil || days < 0 {
			log.Fatal().Str("value", v).Msg("invalid AGV_RETENTION_DAYS")
		}
		agvRetention = time.Duration(days) * 24 * time.Hour
	}

	vorgangService := vorgang.NewService(vorgang.ServiceConfig{
		Repository:   vorgang.NewPostgresRepository(pool),
		Store:        store,
		AGVRetention: agvRetention,
	})
	log.Info().Msg("vorgang service initialized")

	notizService := notiz.NewService(notiz.NewPostgresRepository(pool))
	protokollService := protokoll.NewService(protokoll.NewPostgresRepository(pool))

	// Initialize SMTP relay (may be absent if not configured)
	var mailSender *mail.Sender
	var mailFetcher *mail.Fetcher
	var providerMetrics *middleware.ProviderMetrics
	if os.Getenv("SMTP_HOST") != "" {
		mailSender, err = mail.NewSender(mail.ConfigFromEnv())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize SMTP sender")
		}
		mailFetcher = mail.NewFetcher(
			resilience.NewClient(resilience.DefaultClientConfig("attachments")),
			log,
		)
		providerMetrics, err = middleware.NewProviderMetrics()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize provider metrics")
		}
		log.Info().Msg("SMTP relay initialized")
	} else {
		log.Warn().Msg("SMTP not configured - mail relay disabled, drafts still available")
	}

	// Initialize pg_dump backup (requires pg_dump on PATH)
	var dumper *backup.Dumper
	if os.Getenv("BACKUP_ENABLED") != "false" {
		dumper = backup.NewDumper(dbConfig)
	}

	var allowedOrigins []string
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		allowedOrigins = strings.Split(v, ",")
	}

	localUploadDir := ""
	if storageConfig.Mode == storage.ModeLocal {
		localUploadDir = storageConfig.LocalDir
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		VorgangService:   vorgangService,
		NotizService:     notizService,
		ProtokollService: protokollService,
		MailSender:       mailSender,
		MailFetcher:      mailFetcher,
		ProviderMetrics:  providerMetrics,
		Dumper:           dumper,
		PingDB:           pool.Ping,
		AllowedOrigins:   allowedOrigins,
		LocalUploadDir:   localUploadDir,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
