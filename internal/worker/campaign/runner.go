// Package campaignworker runs scheduled reactivation campaigns for a fixed
// set of clinics.
package campaignworker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicware/reengage/internal/channels"
	"github.com/clinicware/reengage/internal/engagement"
	"github.com/clinicware/reengage/internal/outreach"
	"github.com/clinicware/reengage/pkg/logging"
)

const defaultInterval = 24 * time.Hour

// Engine runs one batch campaign. Satisfied by engagement.Service.
type Engine interface {
	RunReactivationCampaign(ctx context.Context, clinicID uuid.UUID, targetStatuses []engagement.ActivityStatus, channel channels.Channel) (*outreach.CampaignResult, error)
}

// Runner executes the configured campaign for every clinic on a fixed
// interval. One clinic's failure never stops the others.
type Runner struct {
	engine   Engine
	clinics  []uuid.UUID
	statuses []engagement.ActivityStatus
	channel  channels.Channel
	interval time.Duration
	logger   *logging.Logger
}

// NewRunner creates a campaign runner.
func NewRunner(engine Engine, clinics []uuid.UUID, statuses []engagement.ActivityStatus, channel channels.Channel, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{
		engine:   engine,
		clinics:  clinics,
		statuses: statuses,
		channel:  channel,
		interval: defaultInterval,
		logger:   logger,
	}
}

// WithInterval overrides the run interval.
func (r *Runner) WithInterval(d time.Duration) *Runner {
	if d > 0 {
		r.interval = d
	}
	return r
}

// Run executes one campaign pass immediately, then on every tick until the
// context is cancelled.
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("campaign worker started",
		"clinics", len(r.clinics), "channel", r.channel, "interval", r.interval)

	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("campaign worker stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	for _, clinicID := range r.clinics {
		if ctx.Err() != nil {
			return
		}
		result, err := r.engine.RunReactivationCampaign(ctx, clinicID, r.statuses, r.channel)
		if err != nil {
			r.logger.Error("campaign run failed", "clinic_id", clinicID, "error", err)
			continue
		}
		r.logger.Info("campaign run finished",
			"clinic_id", clinicID, "total", result.Total, "sent", result.Sent, "failed", result.Failed)
	}
}
