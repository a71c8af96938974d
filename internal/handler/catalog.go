package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
    "github.com/iliyamo/cinema-ticket-booking/internal/service"
)

// BookingHandler serves the public catalogue and the authenticated
// selection and booking endpoints.
type BookingHandler struct {
    Svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
    return &BookingHandler{Svc: svc}
}

// ListFilms returns {"items": [...]} with every film.
func (h *BookingHandler) ListFilms(c echo.Context) error {
    films, err := h.Svc.Films(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    if films == nil {
        films = []model.Film{}
    }
    return c.JSON(http.StatusOK, echo.Map{"items": films})
}

// GetFilm returns one film.
func (h *BookingHandler) GetFilm(c echo.Context) error {
    f, err := h.Svc.Film(c.Request().Context(), c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, f)
}

// FilmShowtimes returns the film's showtimes grouped by day, then cinema.
func (h *BookingHandler) FilmShowtimes(c echo.Context) error {
    days, err := h.Svc.Schedule(c.Request().Context(), c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"film_id": c.Param("id"), "days": days})
}

// seatRow is one row of the seat map as shown to clients.
type seatRow struct {
    Row   string       `json:"row"`
    Seats []model.Seat `json:"seats"`
}

func groupRows(seats []model.Seat) []seatRow {
    var rows []seatRow
    for _, s := range seats {
        if n := len(rows); n == 0 || rows[n-1].Row != s.Row {
            rows = append(rows, seatRow{Row: s.Row})
        }
        rows[len(rows)-1].Seats = append(rows[len(rows)-1].Seats, s)
    }
    return rows
}

// ShowtimeSeats returns the availability snapshot of a showtime with the
// price of each seat type.
func (h *BookingHandler) ShowtimeSeats(c echo.Context) error {
    snap, err := h.Svc.Snapshot(c.Request().Context(), c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    prices := make(map[model.SeatType]int64, len(model.SeatTypes))
    for _, t := range model.SeatTypes {
        prices[t] = booking.SeatPrice(t, snap.Showtime.Price)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "showtime":  snap.Showtime,
        "rows":      groupRows(snap.Seats),
        "total":     len(snap.Seats),
        "available": snap.Available(),
        "prices":    prices,
    })
}
