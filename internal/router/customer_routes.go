package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// RegisterCustomer registers the selection and booking endpoints under
// /v1.  All routes require a valid JWT with the CUSTOMER or ADMIN role;
// limiter throttles them per user.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
		limiter,
	)
	g.GET("/showtimes/:id/selection", h.GetSelection)
	g.POST("/showtimes/:id/selection/toggle", h.ToggleSeat)
	g.DELETE("/showtimes/:id/selection", h.ClearSelection)
	g.POST("/showtimes/:id/bookings", h.CreateBooking)

	g.GET("/my-bookings", h.ListMyBookings)
	g.DELETE("/bookings/:id", h.CancelBooking)
}
