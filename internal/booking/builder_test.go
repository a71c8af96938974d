package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

var (
    testFilm     = model.Film{ID: "f1", NameFilm: "Mai"}
    testShowtime = model.Showtime{
        ID:       "st1",
        FilmID:   "f1",
        CinemaID: "cgv",
        RoomID:   "room_3",
        Datetime: time.Date(2026, 10, 20, 19, 30, 0, 0, time.UTC),
        Price:    65000,
    }
    testCustomer = model.CustomerInfo{FullName: "Nguyen Van A", Email: "A@Example.com ", Phone: "0900000000"}
)

func buildInput(t *testing.T, snap *Snapshot, ids ...string) BuildInput {
    t.Helper()
    sel := NewSelection()
    for _, id := range ids {
        require.Equal(t, ToggleAdded, sel.Toggle(seat(t, snap, id)))
    }
    return BuildInput{
        Film:          testFilm,
        Snapshot:      snap,
        Selection:     sel,
        Customer:      testCustomer,
        PaymentMethod: model.PaymentMomo,
        UserID:        "u1",
        Now:           time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC),
    }
}

func TestBuild_Success(t *testing.T) {
    snap := NewSnapshot(testShowtime, nil)
    in := buildInput(t, snap, "A1", "C3", "H5")

    req, err := Build(in)
    require.NoError(t, err)

    assert.Equal(t, Total(in.Selection.Seats()), req.TotalAmount)
    assert.Equal(t, int64(266500), req.TotalAmount)
    assert.Equal(t, []string{"A1", "C3", "H5"}, req.Seats)
    assert.Equal(t, "st1", req.ShowtimeID)
    assert.Equal(t, "f1", req.FilmID)
    assert.Equal(t, "Mai", req.FilmName)
    assert.Equal(t, "cgv", req.CinemaID)
    assert.Equal(t, "room_3", req.RoomID)
    assert.Equal(t, testShowtime.Datetime, req.Datetime)
    assert.Equal(t, model.BookingConfirmed, req.Status)
    assert.Equal(t, model.PaymentStatusPaid, req.PaymentStatus)
    assert.Equal(t, model.PaymentMomo, req.PaymentMethod)
    assert.Equal(t, "u1", req.UserID)
    assert.Equal(t, in.Now, req.CreatedAt)
    assert.Equal(t, model.CustomerInfo{
        FullName:      "Nguyen Van A",
        Email:         "a@example.com",
        Phone:         "0900000000",
        PaymentMethod: model.PaymentMomo,
        UserID:        "u1",
    }, req.CustomerInfo)
}

func TestBuild_ValidationErrors(t *testing.T) {
    snap := NewSnapshot(testShowtime, nil)

    tests := []struct {
        name   string
        mutate func(in *BuildInput)
        field  string
    }{
        {name: "empty selection", mutate: func(in *BuildInput) { in.Selection.Clear() }, field: "seats"},
        {name: "nil selection", mutate: func(in *BuildInput) { in.Selection = nil }, field: "seats"},
        {name: "no layout", mutate: func(in *BuildInput) { in.Snapshot = nil }, field: "showtime"},
        {name: "missing name", mutate: func(in *BuildInput) { in.Customer.FullName = "  " }, field: "fullName"},
        {name: "missing email", mutate: func(in *BuildInput) { in.Customer.Email = "" }, field: "email"},
        {name: "missing phone", mutate: func(in *BuildInput) { in.Customer.Phone = "" }, field: "phone"},
        {name: "unknown payment", mutate: func(in *BuildInput) { in.PaymentMethod = "paypal" }, field: "paymentMethod"},
        {
            name: "seat not in layout",
            mutate: func(in *BuildInput) {
                in.Selection.Toggle(model.Seat{ID: "Z1", Row: "Z", Number: 1, Type: model.SeatStandard, Price: 1})
            },
            field: "seats",
        },
        {
            name: "seat booked since selection",
            mutate: func(in *BuildInput) {
                in.Snapshot = NewSnapshot(testShowtime, []model.Booking{
                    {ID: "b", BookingRequest: model.BookingRequest{Seats: []string{"A1"}, Status: model.BookingConfirmed}},
                })
            },
            field: "seats",
        },
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            in := buildInput(t, snap, "A1")
            tt.mutate(&in)

            _, err := Build(in)
            require.Error(t, err)
            var ve *ValidationError
            require.ErrorAs(t, err, &ve)
            assert.Equal(t, tt.field, ve.Field)
            assert.True(t, IsValidation(err))
            assert.False(t, IsSubmission(err))
        })
    }
}

func TestBuild_UsesSnapshotPrices(t *testing.T) {
    snap := NewSnapshot(testShowtime, nil)
    in := buildInput(t, snap, "A1")

    // A selection restored from an older layout carries an outdated price.
    stale := NewSelection()
    a1 := seat(t, snap, "A1")
    a1.Price = 1
    stale.Toggle(a1)
    in.Selection = stale

    req, err := Build(in)
    require.NoError(t, err)
    assert.Equal(t, int64(84500), req.TotalAmount)
}

func TestBuild_FallsBackToShowtimeFilm(t *testing.T) {
    snap := NewSnapshot(testShowtime, nil)
    in := buildInput(t, snap, "D4")
    in.Film = model.Film{}
    in.Now = time.Time{}

    req, err := Build(in)
    require.NoError(t, err)
    assert.Equal(t, "f1", req.FilmID)
    assert.False(t, req.CreatedAt.IsZero())
}
