package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// LedgerRepo provides access to the booking_ledger table, an append-only
// record of the booking events seen by the queue consumer.
type LedgerRepo struct {
	db *sql.DB
}

// NewLedgerRepo returns a new LedgerRepo bound to db.
func NewLedgerRepo(db *sql.DB) *LedgerRepo { return &LedgerRepo{db: db} }

// Append inserts e.  Events are unique by EventID; a redelivered event
// yields ErrConflict and leaves the table unchanged.
func (r *LedgerRepo) Append(ctx context.Context, e model.LedgerEntry) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO booking_ledger
		    (event_id, event_type, booking_id, showtime_id, user_id, seats, total_amount, occurred_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		e.EventID, e.EventType, e.BookingID, e.ShowtimeID, e.UserID,
		strings.Join(e.Seats, ","), e.TotalAmount, e.OccurredAt.UTC(),
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByShowtime returns the ledger rows of a showtime, oldest first.
func (r *LedgerRepo) ListByShowtime(ctx context.Context, showtimeID string) ([]model.LedgerEntry, error) {
	return r.list(ctx,
		`SELECT id, event_id, event_type, booking_id, showtime_id, user_id, seats, total_amount, occurred_at, created_at
		   FROM booking_ledger WHERE showtime_id = ? ORDER BY occurred_at, id`, showtimeID)
}

// ListByBooking returns the ledger rows of one booking, oldest first.
func (r *LedgerRepo) ListByBooking(ctx context.Context, bookingID string) ([]model.LedgerEntry, error) {
	return r.list(ctx,
		`SELECT id, event_id, event_type, booking_id, showtime_id, user_id, seats, total_amount, occurred_at, created_at
		   FROM booking_ledger WHERE booking_id = ? ORDER BY occurred_at, id`, bookingID)
}

func (r *LedgerRepo) list(ctx context.Context, q string, arg any) ([]model.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.LedgerEntry{}
	for rows.Next() {
		var (
			e     model.LedgerEntry
			seats string
		)
		if err := rows.Scan(&e.ID, &e.EventID, &e.EventType, &e.BookingID, &e.ShowtimeID,
			&e.UserID, &seats, &e.TotalAmount, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Seats = splitSeats(seats)
		out = append(out, e)
	}
	return out, rows.Err()
}

func splitSeats(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
