// Package msglog records outbound message outcomes for delivery history.
// Recording is fire-and-forget: callers log and swallow failures so a broken
// log never blocks a dispatch.
package msglog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcome is the delivery result recorded for a message.
type Outcome string

const (
	OutcomeSent   Outcome = "sent"
	OutcomeFailed Outcome = "failed"
)

// Entry is one recorded outbound message.
type Entry struct {
	ClinicID  uuid.UUID
	PatientID uuid.UUID
	Channel   string
	Content   string
	Outcome   Outcome
	Error     string
	SentAt    time.Time
}

// Recorder persists message log entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// SQLStore writes message log entries to the relational database.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a message log store.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

var _ Recorder = (*SQLStore)(nil)

// Record inserts one message log row.
func (s *SQLStore) Record(ctx context.Context, e Entry) error {
	if e.SentAt.IsZero() {
		e.SentAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO message_log (id, clinic_id, patient_id, channel, content, outcome, error, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), e.ClinicID, e.PatientID, e.Channel, e.Content, string(e.Outcome), e.Error, e.SentAt,
	)
	if err != nil {
		return fmt.Errorf("msglog: record: %w", err)
	}
	return nil
}

// CountByOutcome returns how many entries a clinic has per outcome.
func (s *SQLStore) CountByOutcome(ctx context.Context, clinicID uuid.UUID) (map[Outcome]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*)
		FROM message_log
		WHERE clinic_id = $1
		GROUP BY outcome`, clinicID)
	if err != nil {
		return nil, fmt.Errorf("msglog: count by outcome: %w", err)
	}
	defer rows.Close()

	out := make(map[Outcome]int64)
	for rows.Next() {
		var outcome string
		var count int64
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("msglog: scan count: %w", err)
		}
		out[Outcome(outcome)] = count
	}
	return out, rows.Err()
}

// Nop discards all entries. Used when no message log database is configured.
type Nop struct{}

var _ Recorder = Nop{}

// Record does nothing.
func (Nop) Record(ctx context.Context, e Entry) error { return nil }
