package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCampaignTemplatesVariants(t *testing.T) {
	templates := DefaultCampaignTemplates()

	assert.Equal(t, 0, templates.For(StatusAtRisk).OfferPct)
	assert.Equal(t, 20, templates.For(StatusInactive).OfferPct)
	assert.Equal(t, 30, templates.For(StatusDormant).OfferPct)
	assert.Equal(t, 0, templates.For(StatusLost).OfferPct)

	// Statuses without their own variant use the generic message.
	assert.Equal(t, templates[StatusLost], templates.For(StatusActive))
}

func TestDefaultCampaignTemplatesTokens(t *testing.T) {
	for status, msg := range DefaultCampaignTemplates() {
		assert.Contains(t, msg.Body, "{nome}", "status %s", status)
		assert.Contains(t, msg.Body, "{clinica}", "status %s", status)
		assert.NotEmpty(t, msg.Subject, "status %s", status)
	}
}
