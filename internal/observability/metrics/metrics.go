package metrics

import "github.com/prometheus/client_golang/prometheus"

// CampaignMetrics exposes counters/histograms for outreach flows. A nil
// receiver is safe so callers can run without metrics wired.
type CampaignMetrics struct {
	dispatchTotal    *prometheus.CounterVec
	sequenceRuns     *prometheus.CounterVec
	campaignDuration prometheus.Histogram
}

func NewCampaignMetrics(reg prometheus.Registerer) *CampaignMetrics {
	m := &CampaignMetrics{
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reengage",
			Subsystem: "campaign",
			Name:      "dispatch_total",
			Help:      "Total outbound campaign dispatches",
		}, []string{"channel", "status"}),
		sequenceRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reengage",
			Subsystem: "sequence",
			Name:      "runs_total",
			Help:      "Total sequence executions",
		}, []string{"trigger", "status"}),
		campaignDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reengage",
			Subsystem: "campaign",
			Name:      "duration_seconds",
			Help:      "Duration of batch campaign runs",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.dispatchTotal, m.sequenceRuns, m.campaignDuration)
	return m
}

func (m *CampaignMetrics) ObserveDispatch(channel string, success bool) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(channel, outcomeLabel(success)).Inc()
}

func (m *CampaignMetrics) ObserveSequenceRun(trigger string, success bool) {
	if m == nil {
		return
	}
	m.sequenceRuns.WithLabelValues(trigger, outcomeLabel(success)).Inc()
}

func (m *CampaignMetrics) ObserveCampaignDuration(seconds float64) {
	if m == nil {
		return
	}
	m.campaignDuration.Observe(seconds)
}

func outcomeLabel(success bool) string {
	if success {
		return "sent"
	}
	return "failed"
}
