package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestLedgerRepo_Append(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepo(db)
	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_ledger")).
		WithArgs("ev-1", model.EventBookingConfirmed, "bk-1", "st1", "u1", "A1,C3", int64(149500), at).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Append(context.Background(), model.LedgerEntry{
		EventID:     "ev-1",
		EventType:   model.EventBookingConfirmed,
		BookingID:   "bk-1",
		ShowtimeID:  "st1",
		UserID:      "u1",
		Seats:       []string{"A1", "C3"},
		TotalAmount: 149500,
		OccurredAt:  at,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_AppendDuplicateIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_ledger")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := repo.Append(context.Background(), model.LedgerEntry{EventID: "ev-1"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLedgerRepo_ListByShowtime(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepo(db)
	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "event_id", "event_type", "booking_id", "showtime_id", "user_id", "seats", "total_amount", "occurred_at", "created_at"}).
		AddRow(1, "ev-1", model.EventBookingConfirmed, "bk-1", "st1", "u1", "A1,C3", 149500, at, at).
		AddRow(2, "ev-2", model.EventBookingCancelled, "bk-1", "st1", "u1", "", 0, at, at)
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_ledger WHERE showtime_id = ?")).
		WithArgs("st1").
		WillReturnRows(rows)

	got, err := repo.ListByShowtime(context.Background(), "st1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"A1", "C3"}, got[0].Seats)
	assert.Equal(t, int64(149500), got[0].TotalAmount)
	assert.Equal(t, []string{}, got[1].Seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_ValidateRefresh(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	cols := []string{"user_id", "expires_at", "revoked_at"}
	q := regexp.QuoteMeta("SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=?")

	cases := []struct {
		name    string
		rows    *sqlmock.Rows
		wantID  string
		wantErr error
	}{
		{"active", sqlmock.NewRows(cols).AddRow("u1", now.Add(time.Hour), nil), "u1", nil},
		{"expired", sqlmock.NewRows(cols).AddRow("u1", now.Add(-time.Hour), nil), "", ErrInvalidToken},
		{"revoked", sqlmock.NewRows(cols).AddRow("u1", now.Add(time.Hour), now), "", ErrInvalidToken},
		{"unknown", sqlmock.NewRows(cols), "", ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewTokenRepo(db)
			repo.now = func() time.Time { return now }
			mock.ExpectQuery(q).WithArgs("h").WillReturnRows(tc.rows)

			id, err := repo.ValidateRefresh(context.Background(), "h")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestTokenRepo_Rotate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)
	exp := time.Date(2026, 11, 14, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at")).
		WithArgs("old", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
		WithArgs("u1", "new", exp).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Rotate(context.Background(), "u1", "old", "new", exp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_RotateReusedTokenRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at")).
		WithArgs("old", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Rotate(context.Background(), "u1", "old", "new", time.Now())
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
