package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.EmailProvider)
	assert.Equal(t, 24*time.Hour, cfg.CampaignInterval)
	assert.Equal(t, "email", cfg.CampaignChannel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")
	t.Setenv("CAMPAIGN_INTERVAL", "6h")
	t.Setenv("CAMPAIGN_TARGET_STATUSES", "inactive, dormant ,")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sendgrid", cfg.EmailProvider)
	assert.Equal(t, 6*time.Hour, cfg.CampaignInterval)
	assert.Equal(t, []string{"inactive", "dormant"}, cfg.CampaignStatuses)
}

func TestGetEnvAsListEmpty(t *testing.T) {
	t.Setenv("CAMPAIGN_CLINIC_IDS", "")
	cfg := Load()
	assert.Nil(t, cfg.CampaignClinics)
}
