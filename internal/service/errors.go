// Package service orchestrates the booking workflow: it loads showtimes
// and bookings from the store, keeps seat selections, builds and submits
// booking requests and publishes booking events.
package service

import "errors"

var (
    // ErrNotFound is returned when a film, showtime or booking does not
    // exist in the store.
    ErrNotFound = errors.New("not found")

    // ErrForbidden is returned when a user acts on another user's booking.
    ErrForbidden = errors.New("forbidden")

    // ErrNotCancellable is returned for bookings that are no longer
    // confirmed or pending, or whose showtime has already started.
    ErrNotCancellable = errors.New("booking can no longer be cancelled")
)
