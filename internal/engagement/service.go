package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicware/reengage/internal/channels"
	"github.com/clinicware/reengage/internal/msglog"
	"github.com/clinicware/reengage/internal/observability/metrics"
	"github.com/clinicware/reengage/internal/outreach"
	"github.com/clinicware/reengage/pkg/logging"
)

// EligibilityThreshold is the minimum propensity score a patient needs to be
// included in a batch reactivation campaign.
const EligibilityThreshold = 50

// ClinicDirectory resolves clinic display data for outbound messaging.
type ClinicDirectory interface {
	ClinicName(ctx context.Context, clinicID uuid.UUID) (string, error)
}

// StaticClinicDirectory returns the same clinic name for every clinic. Used
// for single-tenant deployments and tests.
type StaticClinicDirectory string

// ClinicName returns the configured name.
func (d StaticClinicDirectory) ClinicName(ctx context.Context, clinicID uuid.UUID) (string, error) {
	return string(d), nil
}

// Service is the stateless re-engagement engine. All collaborators are
// injected; the service holds no mutable state between calls.
type Service struct {
	repo      ActivityRepository
	library   *outreach.Library
	executor  *outreach.Executor
	registry  *channels.Registry
	log       msglog.Recorder
	clinics   ClinicDirectory
	metrics   *metrics.CampaignMetrics
	logger    *logging.Logger
	weights   ScoreWeights
	templates CampaignTemplates
	now       func() time.Time
}

// NewService creates the engine with its injected collaborators.
func NewService(
	repo ActivityRepository,
	library *outreach.Library,
	executor *outreach.Executor,
	registry *channels.Registry,
	log msglog.Recorder,
	clinics ClinicDirectory,
	m *metrics.CampaignMetrics,
	logger *logging.Logger,
) *Service {
	if library == nil {
		library = outreach.NewLibrary()
	}
	if log == nil {
		log = msglog.Nop{}
	}
	if clinics == nil {
		clinics = StaticClinicDirectory("our clinic")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:      repo,
		library:   library,
		executor:  executor,
		registry:  registry,
		log:       log,
		clinics:   clinics,
		metrics:   m,
		logger:    logger,
		weights:   DefaultScoreWeights(),
		templates: DefaultCampaignTemplates(),
		now:       time.Now,
	}
}

// WithClock overrides the clock used to derive recency (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithWeights overrides the propensity score weights.
func (s *Service) WithWeights(w ScoreWeights) *Service {
	s.weights = w
	return s
}

// WithTemplates overrides the campaign message variants.
func (s *Service) WithTemplates(t CampaignTemplates) *Service {
	s.templates = t
	return s
}

// IdentifyInactivePatients builds fresh activity snapshots for a clinic,
// optionally restricted to the given statuses. Snapshots are derived from
// live facts on every call and never cached.
func (s *Service) IdentifyInactivePatients(ctx context.Context, clinicID uuid.UUID, statuses []ActivityStatus) ([]PatientActivitySnapshot, error) {
	facts, err := s.repo.FetchActivityFacts(ctx, clinicID, statuses)
	if err != nil {
		return nil, err
	}

	wanted := make(map[ActivityStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}

	now := s.now().UTC()
	snapshots := make([]PatientActivitySnapshot, 0, len(facts))
	for _, f := range facts {
		snap, err := s.buildSnapshot(clinicID, f, now)
		if err != nil {
			return nil, err
		}
		// Filtering honors the computed status even if the repository
		// returned extra rows.
		if len(wanted) > 0 && !wanted[snap.Status] {
			continue
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

func (s *Service) buildSnapshot(clinicID uuid.UUID, f ActivityFacts, now time.Time) (PatientActivitySnapshot, error) {
	days := DaysSince(f.LastVisitDate, now)

	status, err := ClassifyActivity(days)
	if err != nil {
		return PatientActivitySnapshot{}, fmt.Errorf("engagement: classify patient %s: %w", f.PatientID, err)
	}
	score, err := PropensityScoreWithWeights(s.weights, days, f.VisitCount, f.LifetimeValue, f.OpenInvoicesCount)
	if err != nil {
		return PatientActivitySnapshot{}, fmt.Errorf("engagement: score patient %s: %w", f.PatientID, err)
	}

	return PatientActivitySnapshot{
		PatientID:          f.PatientID,
		ClinicID:           clinicID,
		PatientName:        f.Name,
		Email:              f.Email,
		Phone:              f.Phone,
		LastVisitDate:      f.LastVisitDate,
		DaysSinceLastVisit: days,
		Status:             status,
		VisitCount:         f.VisitCount,
		LifetimeValue:      f.LifetimeValue,
		OpenInvoicesCount:  f.OpenInvoicesCount,
		PropensityScore:    score,
		Recommendation:     Recommend(status, score, f.VisitCount, f.OpenInvoicesCount),
	}, nil
}

// RunSequenceForPatient executes the sequence bound to a trigger for one
// patient. An unknown trigger fails before any dispatch attempt.
func (s *Service) RunSequenceForPatient(ctx context.Context, clinicID, patientID uuid.UUID, trigger outreach.TriggerType) (*outreach.CampaignResult, error) {
	seq, err := s.library.Get(trigger)
	if err != nil {
		return nil, err
	}

	facts, err := s.repo.FetchActivityFacts(ctx, clinicID, nil)
	if err != nil {
		return nil, err
	}
	var patient *ActivityFacts
	for i := range facts {
		if facts[i].PatientID == patientID {
			patient = &facts[i]
			break
		}
	}
	if patient == nil {
		return nil, fmt.Errorf("%w: patient %s in clinic %s", ErrPatientNotFound, patientID, clinicID)
	}

	clinicName := s.clinicName(ctx, clinicID)
	rcpt := outreach.Recipient{
		PatientID:  patient.PatientID,
		Name:       patient.Name,
		Email:      patient.Email,
		Phone:      patient.Phone,
		ClinicName: clinicName,
	}

	result := s.executor.Run(ctx, clinicID, seq, rcpt)
	s.metrics.ObserveSequenceRun(string(trigger), result.Failed == 0)
	s.logger.Info("engagement: sequence executed",
		"clinic_id", clinicID, "patient_id", patientID, "trigger", trigger,
		"sent", result.Sent, "failed", result.Failed)
	return result, nil
}

// RunReactivationCampaign dispatches a status-tailored message to every
// eligible patient in the target statuses over one channel. One patient's
// failure never stops the rest of the batch; callers always receive a
// complete result, even when every dispatch failed.
//
// Patients without contact data for the channel are excluded from the batch
// entirely: no attempt is made and no detail entry is produced. This differs
// deliberately from sequence execution, which records a failed attempt.
func (s *Service) RunReactivationCampaign(ctx context.Context, clinicID uuid.UUID, targetStatuses []ActivityStatus, channel channels.Channel) (*outreach.CampaignResult, error) {
	started := s.now()

	sender, ok := s.registry.Sender(channel)
	if !ok {
		return nil, fmt.Errorf("engagement: no sender configured for channel %s", channel)
	}

	snapshots, err := s.IdentifyInactivePatients(ctx, clinicID, targetStatuses)
	if err != nil {
		return nil, err
	}

	clinicName := s.clinicName(ctx, clinicID)

	result := &outreach.CampaignResult{}
	for _, snap := range snapshots {
		if snap.PropensityScore < EligibilityThreshold {
			s.logger.Debug("engagement: patient below eligibility threshold",
				"patient_id", snap.PatientID, "score", snap.PropensityScore)
			continue
		}

		rcpt := outreach.Recipient{
			PatientID:  snap.PatientID,
			Name:       snap.PatientName,
			Email:      snap.Email,
			Phone:      snap.Phone,
			ClinicName: clinicName,
		}
		contact, hasContact := rcpt.ContactFor(channel)
		if !hasContact {
			// Batch semantics: no contact means no attempt at all.
			s.logger.Debug("engagement: skipping patient without contact data",
				"patient_id", snap.PatientID, "channel", channel)
			continue
		}

		variant := s.templates.For(snap.Status)
		msg := channels.Message{
			Subject: outreach.Personalize(variant.Subject, rcpt.Fields()),
			Body:    outreach.Personalize(variant.Body, rcpt.Fields()),
		}

		detail := outreach.DispatchDetail{
			PatientID:   snap.PatientID,
			PatientName: snap.PatientName,
			Channel:     channel,
		}
		if err := sender.Send(ctx, contact, msg); err != nil {
			detail.Error = err.Error()
			s.logger.Error("engagement: campaign dispatch failed",
				"patient_id", snap.PatientID, "channel", channel, "error", err)
		} else {
			detail.Success = true
		}
		result.Attempt(detail)
		s.metrics.ObserveDispatch(string(channel), detail.Success)
		s.recordOutcome(ctx, clinicID, snap.PatientID, channel, msg.Body, detail)
	}

	s.metrics.ObserveCampaignDuration(s.now().Sub(started).Seconds())
	s.logger.Info("engagement: reactivation campaign finished",
		"clinic_id", clinicID, "channel", channel,
		"total", result.Total, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

func (s *Service) recordOutcome(ctx context.Context, clinicID, patientID uuid.UUID, channel channels.Channel, content string, detail outreach.DispatchDetail) {
	outcome := msglog.OutcomeSent
	if !detail.Success {
		outcome = msglog.OutcomeFailed
	}
	err := s.log.Record(ctx, msglog.Entry{
		ClinicID:  clinicID,
		PatientID: patientID,
		Channel:   string(channel),
		Content:   content,
		Outcome:   outcome,
		Error:     detail.Error,
	})
	if err != nil {
		s.logger.Warn("engagement: failed to record message log entry", "error", err)
	}
}

func (s *Service) clinicName(ctx context.Context, clinicID uuid.UUID) string {
	name, err := s.clinics.ClinicName(ctx, clinicID)
	if err != nil || name == "" {
		s.logger.Warn("engagement: clinic name lookup failed", "clinic_id", clinicID, "error", err)
		return "our clinic"
	}
	return name
}
