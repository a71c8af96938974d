package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// LedgerReader lists booking ledger rows.
type LedgerReader interface {
    ListByShowtime(ctx context.Context, showtimeID string) ([]model.LedgerEntry, error)
    ListByBooking(ctx context.Context, bookingID string) ([]model.LedgerEntry, error)
}

// AdminHandler serves ADMIN-only views of the booking ledger.
type AdminHandler struct {
    Ledger LedgerReader
}

func NewAdminHandler(l LedgerReader) *AdminHandler { return &AdminHandler{Ledger: l} }

// ShowtimeLedger lists the booking events recorded for a showtime.
func (h *AdminHandler) ShowtimeLedger(c echo.Context) error {
    items, err := h.Ledger.ListByShowtime(c.Request().Context(), c.Param("id"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// BookingLedger lists the events recorded for one booking.
func (h *AdminHandler) BookingLedger(c echo.Context) error {
    items, err := h.Ledger.ListByBooking(c.Request().Context(), c.Param("id"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if len(items) == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
