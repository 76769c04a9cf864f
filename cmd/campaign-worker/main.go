package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/clinicware/reengage/internal/channels"
	appconfig "github.com/clinicware/reengage/internal/config"
	"github.com/clinicware/reengage/internal/engagement"
	"github.com/clinicware/reengage/internal/msglog"
	"github.com/clinicware/reengage/internal/outreach"
	campaignworker "github.com/clinicware/reengage/internal/worker/campaign"
	"github.com/clinicware/reengage/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DatabaseURL == "" {
		logger.Error("campaign worker requires DATABASE_URL")
		os.Exit(1)
	}
	if len(cfg.CampaignClinics) == 0 {
		logger.Error("campaign worker requires CAMPAIGN_CLINIC_IDS")
		os.Exit(1)
	}

	clinics := make([]uuid.UUID, 0, len(cfg.CampaignClinics))
	for _, raw := range cfg.CampaignClinics {
		id, err := uuid.Parse(raw)
		if err != nil {
			logger.Error("invalid clinic id in CAMPAIGN_CLINIC_IDS", "value", raw)
			os.Exit(1)
		}
		clinics = append(clinics, id)
	}

	statuses := []engagement.ActivityStatus{engagement.StatusInactive, engagement.StatusDormant}
	if len(cfg.CampaignStatuses) > 0 {
		statuses = statuses[:0]
		for _, raw := range cfg.CampaignStatuses {
			status := engagement.ActivityStatus(raw)
			if !status.Valid() {
				logger.Error("invalid status in CAMPAIGN_TARGET_STATUSES", "value", raw)
				os.Exit(1)
			}
			statuses = append(statuses, status)
		}
	}

	channel, err := channels.ParseChannel(cfg.CampaignChannel)
	if err != nil {
		logger.Error("invalid CAMPAIGN_CHANNEL", "value", cfg.CampaignChannel)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	repo := engagement.NewPostgresActivityRepository(pool)

	var recorder msglog.Recorder = msglog.Nop{}
	if logDB, err := sql.Open("postgres", cfg.DatabaseURL); err == nil {
		defer logDB.Close()
		recorder = msglog.NewSQLStore(logDB)
	} else {
		logger.Warn("message log disabled: cannot open database", "error", err)
	}

	var sesClient *sesv2.Client
	if cfg.EmailProvider == channels.EmailProviderSES || cfg.EmailProvider == channels.EmailProviderAuto {
		if awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion)); err == nil {
			sesClient = sesv2.NewFromConfig(awsCfg)
		} else {
			logger.Warn("failed to load AWS config, SES unavailable", "error", err)
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
	if _, ok := registry.Sender(channel); !ok {
		logger.Error("no sender configured for campaign channel", "channel", channel)
		os.Exit(1)
	}

	executor := outreach.NewExecutor(registry, recorder, logger)
	service := engagement.NewService(repo, outreach.NewLibrary(), executor, registry,
		recorder, engagement.StaticClinicDirectory(cfg.DefaultClinic), nil, logger)

	runner := campaignworker.NewRunner(service, clinics, statuses, channel, logger).
		WithInterval(cfg.CampaignInterval)
	go runner.Run(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("campaign worker shutting down")
	cancel()
	time.Sleep(2 * time.Second)
}
