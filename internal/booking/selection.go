package booking

import "github.com/iliyamo/cinema-ticket-booking/internal/model"

// MaxSelection is the largest number of seats a user may hold in one
// selection.
const MaxSelection = 8

// ToggleResult reports what a Toggle did.
type ToggleResult int

const (
    // ToggleIgnored means the seat was booked and nothing changed.
    ToggleIgnored ToggleResult = iota
    // ToggleAdded means the seat joined the selection.
    ToggleAdded
    // ToggleRemoved means the seat left the selection.
    ToggleRemoved
    // ToggleLimitReached means the selection was full and nothing changed.
    ToggleLimitReached
)

func (r ToggleResult) String() string {
    switch r {
    case ToggleAdded:
        return "added"
    case ToggleRemoved:
        return "removed"
    case ToggleLimitReached:
        return "limit_reached"
    default:
        return "ignored"
    }
}

// Err maps ToggleLimitReached to ErrSelectionLimitExceeded and every other
// result to nil.
func (r ToggleResult) Err() error {
    if r == ToggleLimitReached {
        return ErrSelectionLimitExceeded
    }
    return nil
}

// Selection is the ordered set of seats a user has chosen for one
// showtime.  It never holds a booked seat, a duplicate or more than
// MaxSelection seats.  The zero value is an empty selection.
type Selection struct {
    seats []model.Seat
}

// NewSelection returns an empty selection.
func NewSelection() *Selection { return &Selection{} }

// RestoreSelection rebuilds a selection from persisted seat IDs against
// the current snapshot.  IDs that are unknown, duplicated or now booked
// are dropped, as is anything beyond MaxSelection.
func RestoreSelection(ids []string, snap *Snapshot) *Selection {
    sel := NewSelection()
    for _, id := range ids {
        seat, ok := snap.Seat(id)
        if !ok || sel.Contains(id) {
            continue
        }
        if r := sel.Toggle(seat); r == ToggleLimitReached {
            break
        }
    }
    return sel
}

// Toggle adds seat when absent and removes it when present.  Booked seats
// are ignored; adding to a full selection reports ToggleLimitReached and
// leaves the selection unchanged.
func (s *Selection) Toggle(seat model.Seat) ToggleResult {
    if seat.IsBooked {
        return ToggleIgnored
    }
    for i, cur := range s.seats {
        if cur.ID == seat.ID {
            s.seats = append(s.seats[:i:i], s.seats[i+1:]...)
            return ToggleRemoved
        }
    }
    if len(s.seats) >= MaxSelection {
        return ToggleLimitReached
    }
    s.seats = append(s.seats, seat)
    return ToggleAdded
}

// Clear empties the selection.
func (s *Selection) Clear() { s.seats = nil }

// Len returns the number of selected seats.
func (s *Selection) Len() int { return len(s.seats) }

// Contains reports whether the seat with id is selected.
func (s *Selection) Contains(id string) bool {
    for _, cur := range s.seats {
        if cur.ID == id {
            return true
        }
    }
    return false
}

// Seats returns a copy of the selected seats in selection order.
func (s *Selection) Seats() []model.Seat {
    out := make([]model.Seat, len(s.seats))
    copy(out, s.seats)
    return out
}

// IDs returns the selected seat IDs in selection order.
func (s *Selection) IDs() []string {
    ids := make([]string, len(s.seats))
    for i, seat := range s.seats {
        ids[i] = seat.ID
    }
    return ids
}

// UnavailableSeats returns, in order, the ids that are unknown to snap or
// booked in it.
func UnavailableSeats(ids []string, snap *Snapshot) []string {
    var out []string
    for _, id := range ids {
        if seat, ok := snap.Seat(id); !ok || seat.IsBooked {
            out = append(out, id)
        }
    }
    return out
}
