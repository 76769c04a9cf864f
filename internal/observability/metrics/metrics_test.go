package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCampaignMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCampaignMetrics(reg)

	m.ObserveDispatch("sms", true)
	m.ObserveDispatch("sms", false)
	m.ObserveSequenceRun("reactivation", true)
	m.ObserveCampaignDuration(1.5)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["reengage_campaign_dispatch_total"])
	assert.True(t, names["reengage_sequence_runs_total"])
	assert.True(t, names["reengage_campaign_duration_seconds"])
}

func TestNilMetricsSafe(t *testing.T) {
	var m *CampaignMetrics
	m.ObserveDispatch("email", true)
	m.ObserveSequenceRun("loyalty", false)
	m.ObserveCampaignDuration(0.1)
}
