package model

import "time"

// Booking event types published on the broker and recorded in the ledger.
const (
    EventBookingConfirmed = "booking.confirmed"
    EventBookingCancelled = "booking.cancelled"
)

// LedgerEntry models one row of the `booking_ledger` table.  Each consumed
// booking event is recorded once, keyed by its EventID.
//
// Fields:
//  ID          – booking_ledger.id (auto increment).
//  EventID     – message id of the event (unique).
//  EventType   – booking.confirmed or booking.cancelled.
//  BookingID   – store identifier of the booking.
//  ShowtimeID  – showtime the booking belongs to.
//  UserID      – owner of the booking; empty for guests.
//  Seats       – seat identifiers, stored comma separated.
//  TotalAmount – booking total in VND.
//  OccurredAt  – when the event happened.
//  CreatedAt   – when the row was written.
type LedgerEntry struct {
    ID          uint64    `json:"id"`
    EventID     string    `json:"event_id"`
    EventType   string    `json:"event_type"`
    BookingID   string    `json:"booking_id"`
    ShowtimeID  string    `json:"showtime_id"`
    UserID      string    `json:"user_id,omitempty"`
    Seats       []string  `json:"seats"`
    TotalAmount int64     `json:"total_amount"`
    OccurredAt  time.Time `json:"occurred_at"`
    CreatedAt   time.Time `json:"created_at"`
}
