package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresActivityRepository aggregates visit and invoice history into
// activity facts. All query construction lives here; the engine only sees
// the typed ActivityRepository contract.
type PostgresActivityRepository struct {
	db  DB
	now func() time.Time
}

// NewPostgresActivityRepository creates a repository backed by pgx.
func NewPostgresActivityRepository(db DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db, now: time.Now}
}

// WithClock overrides the clock used to derive days since last visit (tests).
func (r *PostgresActivityRepository) WithClock(now func() time.Time) *PostgresActivityRepository {
	r.now = now
	return r
}

var _ ActivityRepository = (*PostgresActivityRepository)(nil)

// FetchActivityFacts returns one row per patient with at least one
// non-cancelled visit, ordered by last visit date so downstream detail lists
// stay deterministic. The status filter is applied with the same classifier
// the engine uses, so filtering always honors the computed status.
func (r *PostgresActivityRepository) FetchActivityFacts(ctx context.Context, clinicID uuid.UUID, statuses []ActivityStatus) ([]ActivityFacts, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name, COALESCE(p.email, ''), COALESCE(p.phone, ''),
		       v.last_visit, v.visit_count,
		       COALESCE(b.lifetime_value, 0),
		       COALESCE(o.open_invoices, 0)
		FROM patients p
		JOIN (
			SELECT patient_id, MAX(visit_date) AS last_visit, COUNT(*) AS visit_count
			FROM visits
			WHERE clinic_id = $1 AND status <> 'cancelled'
			GROUP BY patient_id
		) v ON v.patient_id = p.id
		LEFT JOIN (
			SELECT patient_id, SUM(total_amount) AS lifetime_value
			FROM invoices
			WHERE clinic_id = $1
			GROUP BY patient_id
		) b ON b.patient_id = p.id
		LEFT JOIN (
			SELECT patient_id, COUNT(*) AS open_invoices
			FROM invoices
			WHERE clinic_id = $1 AND paid_at IS NULL
			GROUP BY patient_id
		) o ON o.patient_id = p.id
		WHERE p.clinic_id = $1
		ORDER BY v.last_visit ASC, p.id ASC`, clinicID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch activity facts: %v", ErrRepositoryUnavailable, err)
	}
	defer rows.Close()

	facts, err := scanActivityFacts(rows)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return facts, nil
	}

	wanted := make(map[ActivityStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}

	now := r.now().UTC()
	filtered := make([]ActivityFacts, 0, len(facts))
	for _, f := range facts {
		status, err := ClassifyActivity(DaysSince(f.LastVisitDate, now))
		if err != nil {
			return nil, err
		}
		if wanted[status] {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

func scanActivityFacts(rows pgx.Rows) ([]ActivityFacts, error) {
	var result []ActivityFacts
	for rows.Next() {
		var f ActivityFacts
		err := rows.Scan(
			&f.PatientID, &f.Name, &f.Email, &f.Phone,
			&f.LastVisitDate, &f.VisitCount,
			&f.LifetimeValue, &f.OpenInvoicesCount,
		)
		if err != nil {
			return nil, fmt.Errorf("engagement: scan activity facts: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read activity facts: %v", ErrRepositoryUnavailable, err)
	}
	return result, nil
}
