package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// Pinger is a dependency that can report its health.
type Pinger func(ctx context.Context) error

// HealthHandler reports whether the service and its dependencies respond.
type HealthHandler struct {
    checks map[string]Pinger
}

// NewHealthHandler returns a handler running checks on every request.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
    return &HealthHandler{checks: checks}
}

// Health returns 200 with {"status":"ok"} when every check passes and 503
// with the failing checks otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    failed := echo.Map{}
    for name, ping := range h.checks {
        if err := ping(ctx); err != nil {
            failed[name] = err.Error()
        }
    }
    if len(failed) > 0 {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "checks": failed})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
