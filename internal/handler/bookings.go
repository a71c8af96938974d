package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
    "github.com/iliyamo/cinema-ticket-booking/internal/service"
)

type checkoutReq struct {
    CustomerInfo struct {
        FullName string `json:"fullName"`
        Email    string `json:"email"`
        Phone    string `json:"phone"`
    } `json:"customerInfo"`
    PaymentMethod string `json:"paymentMethod"`
}

// CreateBooking books the user's current selection.  Validation problems
// return 422 with the offending field; a store failure returns 502 and
// keeps the selection.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return writeError(c, err)
    }
    var req checkoutReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    b, err := h.Svc.Checkout(c.Request().Context(), service.CheckoutInput{
        UserID:     uid,
        ShowtimeID: c.Param("id"),
        Customer: model.CustomerInfo{
            FullName: req.CustomerInfo.FullName,
            Email:    req.CustomerInfo.Email,
            Phone:    req.CustomerInfo.Phone,
        },
        PaymentMethod: model.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
    })
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, b)
}

// ListMyBookings returns {"items": [...]} with the user's bookings.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return writeError(c, err)
    }
    bs, err := h.Svc.MyBookings(c.Request().Context(), uid)
    if err != nil {
        return writeError(c, err)
    }
    if bs == nil {
        bs = []model.Booking{}
    }
    return c.JSON(http.StatusOK, echo.Map{"items": bs})
}

// CancelBooking cancels one of the user's bookings before its showtime.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return writeError(c, err)
    }
    b, err := h.Svc.Cancel(c.Request().Context(), uid, c.Param("id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}
