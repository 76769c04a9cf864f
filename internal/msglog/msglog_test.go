package msglog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLStoreRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	clinicID := uuid.New()
	patientID := uuid.New()
	sentAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO message_log").
		WithArgs(sqlmock.AnyArg(), clinicID, patientID, "sms", "hello", "sent", "", sentAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewSQLStore(db)
	err = store.Record(context.Background(), Entry{
		ClinicID:  clinicID,
		PatientID: patientID,
		Channel:   "sms",
		Content:   "hello",
		Outcome:   OutcomeSent,
		SentAt:    sentAt,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreRecordFillsSentAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO message_log").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "email", "msg", "failed", "smtp timeout", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewSQLStore(db)
	err = store.Record(context.Background(), Entry{
		ClinicID:  uuid.New(),
		PatientID: uuid.New(),
		Channel:   "email",
		Content:   "msg",
		Outcome:   OutcomeFailed,
		Error:     "smtp timeout",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreCountByOutcome(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	clinicID := uuid.New()
	mock.ExpectQuery("SELECT outcome, COUNT").
		WithArgs(clinicID).
		WillReturnRows(sqlmock.NewRows([]string{"outcome", "count"}).
			AddRow("sent", 12).
			AddRow("failed", 3))

	store := NewSQLStore(db)
	counts, err := store.CountByOutcome(context.Background(), clinicID)

	require.NoError(t, err)
	assert.Equal(t, int64(12), counts[OutcomeSent])
	assert.Equal(t, int64(3), counts[OutcomeFailed])
}

func TestNopRecorder(t *testing.T) {
	var rec Recorder = Nop{}
	assert.NoError(t, rec.Record(context.Background(), Entry{}))
}
