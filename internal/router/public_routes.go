package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
)

// RegisterPublic registers the unauthenticated catalogue.  cache wraps the
// film listings only; seat maps always reflect current bookings.
func RegisterPublic(e *echo.Echo, h *handler.BookingHandler, cache echo.MiddlewareFunc) {
	films := e.Group("/v1/films", cache)
	films.GET("", h.ListFilms)
	films.GET("/:id", h.GetFilm)
	films.GET("/:id/showtimes", h.FilmShowtimes)

	e.GET("/v1/showtimes/:id/seats", h.ShowtimeSeats)
}
