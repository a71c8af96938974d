package model

import (
    "errors"
    "time"
)

// PaymentMethod identifies how the customer paid.
type PaymentMethod string

const (
    PaymentMomo    PaymentMethod = "momo"
    PaymentZaloPay PaymentMethod = "zalopay"
    PaymentBanking PaymentMethod = "banking"
    PaymentCash    PaymentMethod = "cash"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
    switch m {
    case PaymentMomo, PaymentZaloPay, PaymentBanking, PaymentCash:
        return true
    }
    return false
}

// Booking statuses as stored in the `bookings` resource.
const (
    BookingPending   = "pending"
    BookingConfirmed = "confirmed"
    BookingCompleted = "completed"
    BookingCancelled = "cancelled"

    PaymentStatusPaid = "paid"
)

// CustomerInfo is the contact block attached to a booking.  FullName, Email
// and Phone are required.
type CustomerInfo struct {
    FullName      string        `json:"fullName"`
    Email         string        `json:"email"`
    Phone         string        `json:"phone"`
    PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
    UserID        string        `json:"userId,omitempty"`
}

// BookingRequest is the record submitted to the store's create-booking
// operation.  TotalAmount always equals the sum of the prices of Seats at
// the time the request was built.
type BookingRequest struct {
    ShowtimeID    string        `json:"showtimeId"`
    FilmID        string        `json:"filmId"`
    FilmName      string        `json:"filmName"`
    CinemaID      string        `json:"cinemaId,omitempty"`
    RoomID        string        `json:"roomId,omitempty"`
    Datetime      time.Time     `json:"datetime"`
    Seats         []string      `json:"seats"`
    TotalAmount   int64         `json:"totalAmount"`
    Status        string        `json:"status"`
    CustomerInfo  CustomerInfo  `json:"customerInfo"`
    UserID        string        `json:"userId,omitempty"`
    PaymentMethod PaymentMethod `json:"paymentMethod"`
    PaymentStatus string        `json:"paymentStatus"`
    CreatedAt     time.Time     `json:"createdAt"`
}

// Booking is a stored booking record: the submitted request plus the
// identifier assigned by the store.
type Booking struct {
    ID string `json:"id"`
    BookingRequest
}

// Validate checks the shape of a booking decoded from the store.
func (b Booking) Validate() error {
    if b.ID == "" {
        return errors.New("booking: missing id")
    }
    for _, s := range b.Seats {
        if s == "" {
            return errors.New("booking: empty seat id")
        }
    }
    return nil
}

// Cancellable reports whether the booking is in a state that may still be
// cancelled by its owner.
func (b Booking) Cancellable() bool {
    return b.Status == BookingConfirmed || b.Status == BookingPending
}
