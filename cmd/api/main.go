package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicware/reengage/internal/channels"
	appconfig "github.com/clinicware/reengage/internal/config"
	"github.com/clinicware/reengage/internal/engagement"
	"github.com/clinicware/reengage/internal/http/handlers"
	"github.com/clinicware/reengage/internal/http/router"
	"github.com/clinicware/reengage/internal/msglog"
	"github.com/clinicware/reengage/internal/observability/metrics"
	"github.com/clinicware/reengage/internal/outreach"
	"github.com/clinicware/reengage/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting reengage API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Patient activity repository (pgx pool)
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	repo := engagement.NewPostgresActivityRepository(pool)

	// Message log (database/sql connection to the same database)
	var recorder msglog.Recorder = msglog.Nop{}
	logDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Warn("message log disabled: cannot open database", "error", err)
	} else {
		defer logDB.Close()
		recorder = msglog.NewSQLStore(logDB)
	}

	// Channel adapters
	var sesClient *sesv2.Client
	if cfg.EmailProvider == channels.EmailProviderSES || cfg.EmailProvider == channels.EmailProviderAuto {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Warn("failed to load AWS config, SES unavailable", "error", err)
		} else {
			sesClient = sesv2.NewFromConfig(awsCfg)
		}
	}

	registry := channels.NewRegistry()
	emailSender, provider, reason := channels.BuildEmailSender(channels.EmailProviderConfig{
		Preference:        cfg.EmailProvider,
		SendGridAPIKey:    cfg.SendGridAPIKey,
		SendGridFromEmail: cfg.SendGridFromEmail,
		SendGridFromName:  cfg.SendGridFromName,
		SESFromEmail:      cfg.SESFromEmail,
		SESFromName:       cfg.SESFromName,
	}, sesClient, logger)
	if emailSender != nil {
		logger.Info("email sender configured", "provider", provider)
		registry.Register(channels.ChannelEmail, emailSender)
	} else {
		logger.Warn("email channel disabled", "reason", reason)
	}

	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		if cfg.TwilioFromNumber != "" {
			registry.Register(channels.ChannelSMS,
				channels.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger))
		}
		if cfg.TwilioWhatsAppFrom != "" {
			registry.Register(channels.ChannelWhatsApp,
				channels.NewTwilioWhatsAppSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, logger))
		}
	}
	if cfg.Env == "development" {
		for _, ch := range []channels.Channel{channels.ChannelEmail, channels.ChannelSMS, channels.ChannelWhatsApp} {
			if _, ok := registry.Sender(ch); !ok {
				registry.Register(ch, channels.NewStubSender(ch, logger))
			}
		}
	}
	logger.Info("channels configured", "channels", registry.Channels())

	// Engagement engine
	campaignMetrics := metrics.NewCampaignMetrics(prometheus.DefaultRegisterer)
	executor := outreach.NewExecutor(registry, recorder, logger)
	service := engagement.NewService(repo, outreach.NewLibrary(), executor, registry,
		recorder, engagement.StaticClinicDirectory(cfg.DefaultClinic), campaignMetrics, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:            logger,
		EngagementHandler: handlers.NewEngagementHandler(service, logger),
		MetricsHandler:    promhttp.Handler(),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
