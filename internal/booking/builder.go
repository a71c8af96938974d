package booking

import (
    "strings"
    "time"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// BuildInput gathers everything needed to assemble a booking request.
// Snapshot is the availability snapshot the selection was made against;
// Now defaults to the current UTC time when zero.
type BuildInput struct {
    Film          model.Film
    Snapshot      *Snapshot
    Selection     *Selection
    Customer      model.CustomerInfo
    PaymentMethod model.PaymentMethod
    UserID        string
    Now           time.Time
}

// Build validates in and assembles the booking request.  The total is
// recomputed from the selected seats and never taken from the caller.
func Build(in BuildInput) (model.BookingRequest, error) {
    if in.Snapshot == nil {
        return model.BookingRequest{}, &ValidationError{Field: "showtime", Reason: "no seat layout loaded"}
    }
    if in.Selection == nil || in.Selection.Len() == 0 {
        return model.BookingRequest{}, &ValidationError{Field: "seats", Reason: "no seats selected"}
    }

    cust := model.CustomerInfo{
        FullName: strings.TrimSpace(in.Customer.FullName),
        Email:    strings.ToLower(strings.TrimSpace(in.Customer.Email)),
        Phone:    strings.TrimSpace(in.Customer.Phone),
    }
    switch {
    case cust.FullName == "":
        return model.BookingRequest{}, &ValidationError{Field: "fullName", Reason: "required"}
    case cust.Email == "":
        return model.BookingRequest{}, &ValidationError{Field: "email", Reason: "required"}
    case cust.Phone == "":
        return model.BookingRequest{}, &ValidationError{Field: "phone", Reason: "required"}
    }
    if !in.PaymentMethod.Valid() {
        return model.BookingRequest{}, &ValidationError{Field: "paymentMethod", Reason: "unsupported payment method"}
    }

    // Re-read each seat from the snapshot so stale selections cannot carry
    // outdated prices or seats that have since been booked.
    selected := in.Selection.Seats()
    seats := make([]model.Seat, 0, len(selected))
    for _, s := range selected {
        cur, ok := in.Snapshot.Seat(s.ID)
        if !ok {
            return model.BookingRequest{}, &ValidationError{Field: "seats", Reason: "unknown seat " + s.ID}
        }
        if cur.IsBooked {
            return model.BookingRequest{}, &ValidationError{Field: "seats", Reason: "seat " + s.ID + " is already booked"}
        }
        seats = append(seats, cur)
    }

    now := in.Now
    if now.IsZero() {
        now = time.Now()
    }
    cust.PaymentMethod = in.PaymentMethod
    cust.UserID = in.UserID

    st := in.Snapshot.Showtime
    filmID := in.Film.ID
    if filmID == "" {
        filmID = st.FilmID
    }
    ids := make([]string, len(seats))
    for i, s := range seats {
        ids[i] = s.ID
    }
    return model.BookingRequest{
        ShowtimeID:    st.ID,
        FilmID:        filmID,
        FilmName:      in.Film.NameFilm,
        CinemaID:      st.CinemaID,
        RoomID:        st.RoomID,
        Datetime:      st.Datetime,
        Seats:         ids,
        TotalAmount:   Total(seats),
        Status:        model.BookingConfirmed,
        CustomerInfo:  cust,
        UserID:        in.UserID,
        PaymentMethod: in.PaymentMethod,
        PaymentStatus: model.PaymentStatusPaid,
        CreatedAt:     now.UTC(),
    }, nil
}
