package booking

import "github.com/iliyamo/cinema-ticket-booking/internal/model"

// ApplyBooked returns a copy of layout in which every seat whose ID appears
// in booked is marked as booked.  Booked IDs that match no seat are
// ignored.  The input slice is not modified.
func ApplyBooked(layout []model.Seat, booked []string) []model.Seat {
    taken := make(map[string]struct{}, len(booked))
    for _, id := range booked {
        taken[id] = struct{}{}
    }
    out := make([]model.Seat, len(layout))
    for i, s := range layout {
        _, s.IsBooked = taken[s.ID]
        out[i] = s
    }
    return out
}

// BookedSeatIDs aggregates the seats held by bookings of one showtime.
// Cancelled bookings release their seats and are skipped.  Duplicates are
// removed; first-seen order is kept.
func BookedSeatIDs(bookings []model.Booking) []string {
    seen := make(map[string]struct{})
    ids := make([]string, 0)
    for _, b := range bookings {
        if b.Status == model.BookingCancelled {
            continue
        }
        for _, id := range b.Seats {
            if _, ok := seen[id]; ok {
                continue
            }
            seen[id] = struct{}{}
            ids = append(ids, id)
        }
    }
    return ids
}

// Snapshot is an availability snapshot: a layout merged with booked-seat
// data, valid as of the time it was fetched.
type Snapshot struct {
    Showtime model.Showtime
    Seats    []model.Seat
    index    map[string]int
}

// NewSnapshot builds the availability snapshot for showtime from its
// bookings.
func NewSnapshot(showtime model.Showtime, bookings []model.Booking) *Snapshot {
    seats := ApplyBooked(DefaultSeatMap(showtime.Price), BookedSeatIDs(bookings))
    return newSnapshot(showtime, seats)
}

func newSnapshot(showtime model.Showtime, seats []model.Seat) *Snapshot {
    idx := make(map[string]int, len(seats))
    for i, s := range seats {
        idx[s.ID] = i
    }
    return &Snapshot{Showtime: showtime, Seats: seats, index: idx}
}

// Seat looks up a seat by ID.
func (s *Snapshot) Seat(id string) (model.Seat, bool) {
    i, ok := s.index[id]
    if !ok {
        return model.Seat{}, false
    }
    return s.Seats[i], true
}

// Available counts the seats that are not booked.
func (s *Snapshot) Available() int {
    n := 0
    for _, seat := range s.Seats {
        if !seat.IsBooked {
            n++
        }
    }
    return n
}
