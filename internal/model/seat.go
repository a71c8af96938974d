package model

// SeatType classifies a seat for pricing.  The type of a seat is a pure
// function of its row in the generated layout.
type SeatType string

const (
    SeatStandard SeatType = "standard"
    SeatVIP      SeatType = "vip"
    SeatCouple   SeatType = "couple"
)

// SeatTypes lists every seat type in display order.
var SeatTypes = []SeatType{SeatStandard, SeatVIP, SeatCouple}

// Valid reports whether t is one of the known seat types.
func (t SeatType) Valid() bool {
    switch t {
    case SeatStandard, SeatVIP, SeatCouple:
        return true
    }
    return false
}

// Label returns the human readable name used in summaries.
func (t SeatType) Label() string {
    switch t {
    case SeatVIP:
        return "VIP"
    case SeatCouple:
        return "Couple"
    default:
        return "Standard"
    }
}

// Seat describes one seat of a showtime's layout.  Seats are identified by
// their row letter followed by the seat number (e.g. "A1"), which is unique
// within a layout.
//
// Fields:
//  ID       – row + number, e.g. "C7".
//  Row      – row letter.
//  Number   – 1-based seat number within the row.
//  Type     – standard, vip or couple.
//  Price    – price in the smallest currency unit.
//  IsBooked – whether the seat is taken by an existing booking.
type Seat struct {
    ID       string   `json:"id"`
    Row      string   `json:"row"`
    Number   int      `json:"number"`
    Type     SeatType `json:"type"`
    Price    int64    `json:"price"`
    IsBooked bool     `json:"isBooked"`
}
