// Package booking implements the seat-selection workflow of a showtime:
// layout generation, availability, the per-user selection, pricing and the
// construction and submission of booking records.  Everything except
// Submitter is pure and free of I/O.
package booking

import (
    "strconv"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// The fixed hall template shared by every showtime.
const SeatsPerRow = 12

// Rows lists the row letters front to back.
var Rows = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

var (
    vipMultiplier    = decimal.RequireFromString("1.3")
    coupleMultiplier = decimal.RequireFromString("1.8")
)

// DefaultSeatMap generates the 8×12 layout for a showtime priced at
// basePrice.
func DefaultSeatMap(basePrice int64) []model.Seat {
    return GenerateSeatMap(Rows, SeatsPerRow, basePrice)
}

// GenerateSeatMap produces every (row, number) seat in row-major order.
// The first two rows are vip, the last two are couple and the rest are
// standard.  Layouts with fewer than five rows give vip precedence over
// couple where the two bands overlap.
func GenerateSeatMap(rows []string, seatsPerRow int, basePrice int64) []model.Seat {
    if seatsPerRow < 0 {
        seatsPerRow = 0
    }
    vipPrice := SeatPrice(model.SeatVIP, basePrice)
    couplePrice := SeatPrice(model.SeatCouple, basePrice)

    seats := make([]model.Seat, 0, len(rows)*seatsPerRow)
    for i, row := range rows {
        typ, price := model.SeatStandard, basePrice
        switch {
        case i < 2:
            typ, price = model.SeatVIP, vipPrice
        case i >= len(rows)-2:
            typ, price = model.SeatCouple, couplePrice
        }
        for n := 1; n <= seatsPerRow; n++ {
            seats = append(seats, model.Seat{
                ID:     SeatID(row, n),
                Row:    row,
                Number: n,
                Type:   typ,
                Price:  price,
            })
        }
    }
    return seats
}

// SeatPrice applies the multiplier of t to basePrice and rounds to the
// nearest whole currency unit (half away from zero).
func SeatPrice(t model.SeatType, basePrice int64) int64 {
    base := decimal.NewFromInt(basePrice)
    switch t {
    case model.SeatVIP:
        return base.Mul(vipMultiplier).Round(0).IntPart()
    case model.SeatCouple:
        return base.Mul(coupleMultiplier).Round(0).IntPart()
    default:
        return basePrice
    }
}

// SeatID builds the seat identity for row and number, e.g. ("A", 1) → "A1".
func SeatID(row string, number int) string {
    return row + strconv.Itoa(number)
}
