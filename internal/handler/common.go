// Package handler exposes the HTTP handlers of the booking API.  Handlers
// bind and validate input, call the booking service or repositories and
// translate domain errors into JSON error bodies.
package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/middleware"
    "github.com/iliyamo/cinema-ticket-booking/internal/repository"
    "github.com/iliyamo/cinema-ticket-booking/internal/service"
    "github.com/iliyamo/cinema-ticket-booking/internal/store"
)

var errUnauthorized = errors.New("unauthorized")

// getUserID returns the authenticated user's id set by JWTAuth.
func getUserID(c echo.Context) (string, error) {
    id := middleware.UserID(c)
    if id == "" {
        return "", errUnauthorized
    }
    return id, nil
}

// writeError maps err onto a status code and an {"error": ...} body.
func writeError(c echo.Context, err error) error {
    var (
        ve  *booking.ValidationError
        se  *booking.SubmissionError
        api *store.APIError
    )
    switch {
    case errors.As(err, &ve):
        body := echo.Map{"error": ve.Error()}
        if ve.Field != "" {
            body["field"] = ve.Field
        }
        return c.JSON(http.StatusUnprocessableEntity, body)
    case errors.As(err, &se):
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "booking failed", "detail": se.Detail})
    case errors.Is(err, booking.ErrSubmissionInProgress), errors.Is(err, repository.ErrSelectionContended):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrNotFound), store.IsNotFound(err):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    case errors.Is(err, service.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, service.ErrNotCancellable):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, errUnauthorized):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    case errors.As(err, &api):
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "store unavailable"})
    default:
        c.Logger().Error(err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}
