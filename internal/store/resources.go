package store

import (
    "context"
    "fmt"
    "net/http"
    "net/url"
    "strings"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// ListFilms returns every film.
func (c *Client) ListFilms(ctx context.Context) ([]model.Film, error) {
    var films []model.Film
    if err := c.getJSON(ctx, c.endpoint("films", nil), &films); err != nil {
        return nil, err
    }
    return films, nil
}

// GetFilm returns the film with id.
func (c *Client) GetFilm(ctx context.Context, id string) (model.Film, error) {
    var f model.Film
    if err := c.getJSON(ctx, c.endpoint("films/"+url.PathEscape(id), nil), &f); err != nil {
        return model.Film{}, err
    }
    return f, nil
}

// ListShowtimes returns every showtime.
func (c *Client) ListShowtimes(ctx context.Context) ([]model.Showtime, error) {
    return c.listShowtimes(ctx, nil)
}

// ListShowtimesByFilm returns the showtimes of one film.
func (c *Client) ListShowtimesByFilm(ctx context.Context, filmID string) ([]model.Showtime, error) {
    return c.listShowtimes(ctx, url.Values{"filmId": {filmID}})
}

func (c *Client) listShowtimes(ctx context.Context, q url.Values) ([]model.Showtime, error) {
    var out []model.Showtime
    if err := c.getJSON(ctx, c.endpoint("showtimes", q), &out); err != nil {
        return nil, err
    }
    for _, st := range out {
        if err := st.Validate(); err != nil {
            return nil, fmt.Errorf("list showtimes: %w", err)
        }
    }
    return out, nil
}

// GetShowtime returns the showtime with id.
func (c *Client) GetShowtime(ctx context.Context, id string) (model.Showtime, error) {
    var st model.Showtime
    if err := c.getJSON(ctx, c.endpoint("showtimes/"+url.PathEscape(id), nil), &st); err != nil {
        return model.Showtime{}, err
    }
    if err := st.Validate(); err != nil {
        return model.Showtime{}, fmt.Errorf("get showtime %s: %w", id, err)
    }
    return st, nil
}

// ListBookingsByShowtime returns every booking recorded for a showtime.
func (c *Client) ListBookingsByShowtime(ctx context.Context, showtimeID string) ([]model.Booking, error) {
    return c.listBookings(ctx, url.Values{"showtimeId": {showtimeID}})
}

// ListBookingsByUser returns the bookings made by a user.
func (c *Client) ListBookingsByUser(ctx context.Context, userID string) ([]model.Booking, error) {
    return c.listBookings(ctx, url.Values{"userId": {userID}})
}

func (c *Client) listBookings(ctx context.Context, q url.Values) ([]model.Booking, error) {
    var out []model.Booking
    if err := c.getJSON(ctx, c.endpoint("bookings", q), &out); err != nil {
        return nil, err
    }
    for _, b := range out {
        if err := b.Validate(); err != nil {
            return nil, fmt.Errorf("list bookings: %w", err)
        }
    }
    return out, nil
}

// GetBooking returns the booking with id.
func (c *Client) GetBooking(ctx context.Context, id string) (model.Booking, error) {
    var b model.Booking
    if err := c.getJSON(ctx, c.endpoint("bookings/"+url.PathEscape(id), nil), &b); err != nil {
        return model.Booking{}, err
    }
    if err := b.Validate(); err != nil {
        return model.Booking{}, fmt.Errorf("get booking %s: %w", id, err)
    }
    return b, nil
}

// CreateBooking stores req and returns the stored record with its
// generated id.  It is never retried.
func (c *Client) CreateBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error) {
    var b model.Booking
    if err := c.sendJSON(ctx, http.MethodPost, c.endpoint("bookings", nil), req, &b); err != nil {
        return model.Booking{}, err
    }
    if err := b.Validate(); err != nil {
        return model.Booking{}, fmt.Errorf("create booking: %w", err)
    }
    return b, nil
}

// CancelBooking deletes the booking with id.
func (c *Client) CancelBooking(ctx context.Context, id string) error {
    return c.sendJSON(ctx, http.MethodDelete, c.endpoint("bookings/"+url.PathEscape(id), nil), nil, nil)
}

// GetUser returns the user with id.
func (c *Client) GetUser(ctx context.Context, id string) (model.User, error) {
    var u model.User
    if err := c.getJSON(ctx, c.endpoint("users/"+url.PathEscape(id), nil), &u); err != nil {
        return model.User{}, err
    }
    return u, nil
}

// FindUserByEmail looks up a user by email.  The comparison is case
// insensitive.  It returns ErrUserNotFound when no user matches.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    var users []model.User
    if err := c.getJSON(ctx, c.endpoint("users", url.Values{"email": {email}}), &users); err != nil {
        return model.User{}, err
    }
    for _, u := range users {
        if strings.EqualFold(u.Email, email) {
            return u, nil
        }
    }
    return model.User{}, ErrUserNotFound
}

// CreateUser stores u and returns the stored record.
func (c *Client) CreateUser(ctx context.Context, u model.User) (model.User, error) {
    var out model.User
    if err := c.sendJSON(ctx, http.MethodPost, c.endpoint("users", nil), u, &out); err != nil {
        return model.User{}, err
    }
    return out, nil
}

// UpdateUser applies patch to the user with id and returns the result.
func (c *Client) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
    var out model.User
    if err := c.sendJSON(ctx, http.MethodPatch, c.endpoint("users/"+url.PathEscape(id), nil), patch, &out); err != nil {
        return model.User{}, err
    }
    return out, nil
}
