// Package queue defines the booking events exchanged over the message
// broker and the background consumer that records them.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// Queues carrying booking events.  Each event type has a durable queue of
// the same name, reached through the default exchange.
var Queues = []string{model.EventBookingConfirmed, model.EventBookingCancelled}

// BookingEvent is published when a booking is confirmed in the store or
// cancelled by its owner.  It carries enough of the booking for consumers
// to log, notify or reconcile without querying the store.
type BookingEvent struct {
    EventID     string    `json:"event_id"`
    Type        string    `json:"type"`
    BookingID   string    `json:"booking_id"`
    ShowtimeID  string    `json:"showtime_id"`
    FilmID      string    `json:"film_id"`
    FilmName    string    `json:"film_name"`
    CinemaID    string    `json:"cinema_id,omitempty"`
    RoomID      string    `json:"room_id,omitempty"`
    UserID      string    `json:"user_id,omitempty"`
    Seats       []string  `json:"seats"`
    TotalAmount int64     `json:"total_amount"`
    StartsAt    time.Time `json:"starts_at"`
    OccurredAt  time.Time `json:"occurred_at"`
}

// NewBookingEvent builds an event of type typ for b.
func NewBookingEvent(typ string, b model.Booking, at time.Time) BookingEvent {
    seats := make([]string, len(b.Seats))
    copy(seats, b.Seats)
    return BookingEvent{
        EventID:     uuid.NewString(),
        Type:        typ,
        BookingID:   b.ID,
        ShowtimeID:  b.ShowtimeID,
        FilmID:      b.FilmID,
        FilmName:    b.FilmName,
        CinemaID:    b.CinemaID,
        RoomID:      b.RoomID,
        UserID:      b.UserID,
        Seats:       seats,
        TotalAmount: b.TotalAmount,
        StartsAt:    b.Datetime,
        OccurredAt:  at.UTC(),
    }
}

// LedgerEntry converts the event into its ledger row.
func (e BookingEvent) LedgerEntry() model.LedgerEntry {
    return model.LedgerEntry{
        EventID:     e.EventID,
        EventType:   e.Type,
        BookingID:   e.BookingID,
        ShowtimeID:  e.ShowtimeID,
        UserID:      e.UserID,
        Seats:       e.Seats,
        TotalAmount: e.TotalAmount,
        OccurredAt:  e.OccurredAt,
    }
}
