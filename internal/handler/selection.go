package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/service"
)

type toggleReq struct {
    SeatID string `json:"seatId"`
}

type selectionResp struct {
    ShowtimeID   string          `json:"showtime_id"`
    Result       string          `json:"result,omitempty"`
    LimitReached bool            `json:"limit_reached"`
    Max          int             `json:"max"`
    Summary      booking.Summary `json:"summary"`
}

func newSelectionResp(showtimeID string, state service.SelectionState) selectionResp {
    return selectionResp{ShowtimeID: showtimeID, Max: booking.MaxSelection, Summary: state.Summary}
}

// GetSelection returns the user's current selection for a showtime.
func (h *BookingHandler) GetSelection(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return writeError(c, err)
    }
    showtimeID := c.Param("id")
    state, err := h.Svc.Selection(c.Request().Context(), uid, showtimeID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, newSelectionResp(showtimeID, state))
}

// ToggleSeat adds or removes one seat.  Reaching the selection limit is
// reported with limit_reached=true and a 200 status.
func (h *BookingHandler) ToggleSeat(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return writeError(c, err)
    }
    var req toggleReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.SeatID) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatId required"})
    }
    showtimeID := c.Param("id")
    state, res, err := h.Svc.Toggle(c.Request().Context(), uid, showtimeID, req.SeatID)
    if err != nil {
        return writeError(c, err)
    }
    resp := newSelectionResp(showtimeID, state)
    resp.Result = res.String()
    resp.LimitReached = res == booking.ToggleLimitReached
    return c.JSON(http.StatusOK, resp)
}

// ClearSelection discards the user's selection.
func (h *BookingHandler) ClearSelection(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return writeError(c, err)
    }
    if err := h.Svc.ClearSelection(c.Request().Context(), uid, c.Param("id")); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
