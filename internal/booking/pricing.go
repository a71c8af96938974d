package booking

import "github.com/iliyamo/cinema-ticket-booking/internal/model"

// Total returns the sum of the seat prices.  An empty set costs 0.
func Total(seats []model.Seat) int64 {
    var total int64
    for _, s := range seats {
        total += s.Price
    }
    return total
}

// CountsByType counts the seats of each type.  Every known type is present
// in the result, zero when absent.
func CountsByType(seats []model.Seat) map[model.SeatType]int {
    counts := make(map[model.SeatType]int, len(model.SeatTypes))
    for _, t := range model.SeatTypes {
        counts[t] = 0
    }
    for _, s := range seats {
        counts[s.Type]++
    }
    return counts
}

// TypeLine is one row of a price breakdown.
type TypeLine struct {
    Type     model.SeatType `json:"type"`
    Label    string         `json:"label"`
    Count    int            `json:"count"`
    Subtotal int64          `json:"subtotal"`
}

// Summary is the price breakdown shown alongside a selection.
type Summary struct {
    Seats     []string               `json:"seats"`
    Count     int                    `json:"count"`
    Counts    map[model.SeatType]int `json:"counts"`
    Breakdown []TypeLine             `json:"breakdown"`
    Total     int64                  `json:"total"`
}

// Summarize computes the breakdown of seats.  Subtotals are derived from
// the seats' own prices, so the breakdown always adds up to Total.
func Summarize(seats []model.Seat) Summary {
    counts := CountsByType(seats)
    subtotals := make(map[model.SeatType]int64, len(model.SeatTypes))
    ids := make([]string, len(seats))
    for i, s := range seats {
        ids[i] = s.ID
        subtotals[s.Type] += s.Price
    }
    lines := make([]TypeLine, 0, len(model.SeatTypes))
    for _, t := range model.SeatTypes {
        lines = append(lines, TypeLine{Type: t, Label: t.Label(), Count: counts[t], Subtotal: subtotals[t]})
    }
    return Summary{
        Seats:     ids,
        Count:     len(seats),
        Counts:    counts,
        Breakdown: lines,
        Total:     Total(seats),
    }
}
