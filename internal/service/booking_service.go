package service

import (
    "context"
    "errors"
    "fmt"
    "io"
    "sort"
    "strings"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/cinema-ticket-booking/internal/booking"
    "github.com/iliyamo/cinema-ticket-booking/internal/model"
    "github.com/iliyamo/cinema-ticket-booking/internal/queue"
    "github.com/iliyamo/cinema-ticket-booking/internal/store"
)

// Store is the subset of the REST store used by the booking workflow.
type Store interface {
    booking.BookingCreator
    ListFilms(ctx context.Context) ([]model.Film, error)
    GetFilm(ctx context.Context, id string) (model.Film, error)
    ListShowtimesByFilm(ctx context.Context, filmID string) ([]model.Showtime, error)
    GetShowtime(ctx context.Context, id string) (model.Showtime, error)
    ListBookingsByShowtime(ctx context.Context, showtimeID string) ([]model.Booking, error)
    ListBookingsByUser(ctx context.Context, userID string) ([]model.Booking, error)
    GetBooking(ctx context.Context, id string) (model.Booking, error)
    CancelBooking(ctx context.Context, id string) error
    GetUser(ctx context.Context, id string) (model.User, error)
}

// SelectionStore persists seat ids per user and showtime.
type SelectionStore interface {
    Load(ctx context.Context, userID, showtimeID string) ([]string, error)
    Save(ctx context.Context, userID, showtimeID string, ids []string) error
    Clear(ctx context.Context, userID, showtimeID string) error
    // Update runs fn on the stored ids and stores its result atomically.
    Update(ctx context.Context, userID, showtimeID string, fn func(ids []string) ([]string, error)) error
}

// BookingService runs seat selection and checkout for one user at a time.
// Every operation fetches a fresh availability snapshot; nothing about a
// showtime is cached between calls.
type BookingService struct {
    store      Store
    selections SelectionStore
    submitter  *booking.Submitter
    events     EventPublisher
    loc        *time.Location
    now        func() time.Time
    log        logrus.FieldLogger
}

// Options configures a BookingService.  Guard defaults to an in-process
// guard, Events may be nil to disable publishing and Location defaults to
// UTC.
type Options struct {
    Guard    booking.InFlightGuard
    Events   EventPublisher
    Location *time.Location
    Logger   logrus.FieldLogger
}

// NewBookingService wires a BookingService.
func NewBookingService(st Store, selections SelectionStore, opts Options) *BookingService {
    log := opts.Logger
    if log == nil {
        l := logrus.New()
        l.Out = io.Discard
        log = l
    }
    loc := opts.Location
    if loc == nil {
        loc = time.UTC
    }
    return &BookingService{
        store:      st,
        selections: selections,
        submitter:  booking.NewSubmitter(st, opts.Guard, log),
        events:     opts.Events,
        loc:        loc,
        now:        time.Now,
        log:        log,
    }
}

// notFound maps a store 404 onto ErrNotFound.
func notFound(err error, what string) error {
    if store.IsNotFound(err) {
        return fmt.Errorf("%s: %w", what, ErrNotFound)
    }
    return err
}

// Films lists every film.
func (s *BookingService) Films(ctx context.Context) ([]model.Film, error) {
    return s.store.ListFilms(ctx)
}

// Film returns one film.
func (s *BookingService) Film(ctx context.Context, id string) (model.Film, error) {
    f, err := s.store.GetFilm(ctx, id)
    if err != nil {
        return model.Film{}, notFound(err, "film "+id)
    }
    return f, nil
}

// Schedule returns the showtimes of a film grouped by day, then cinema.
func (s *BookingService) Schedule(ctx context.Context, filmID string) ([]booking.ScheduleDay, error) {
    if _, err := s.Film(ctx, filmID); err != nil {
        return nil, err
    }
    sts, err := s.store.ListShowtimesByFilm(ctx, filmID)
    if err != nil {
        return nil, err
    }
    return booking.GroupSchedule(sts, s.loc), nil
}

// Snapshot fetches the showtime and its bookings and resolves the seat map.
func (s *BookingService) Snapshot(ctx context.Context, showtimeID string) (*booking.Snapshot, error) {
    st, err := s.store.GetShowtime(ctx, showtimeID)
    if err != nil {
        return nil, notFound(err, "showtime "+showtimeID)
    }
    bookings, err := s.store.ListBookingsByShowtime(ctx, showtimeID)
    if err != nil {
        return nil, fmt.Errorf("load bookings for %s: %w", showtimeID, err)
    }
    return booking.NewSnapshot(st, bookings), nil
}

// SelectionState is a user's selection for one showtime and its price
// summary.
type SelectionState struct {
    Snapshot  *booking.Snapshot
    Selection *booking.Selection
    Summary   booking.Summary
}

// Selection restores the user's selection against a fresh snapshot.
// Seats booked by someone else in the meantime are dropped and the
// trimmed selection is saved back.
func (s *BookingService) Selection(ctx context.Context, userID, showtimeID string) (SelectionState, error) {
    snap, err := s.Snapshot(ctx, showtimeID)
    if err != nil {
        return SelectionState{}, err
    }
    sel, err := s.restore(ctx, userID, snap)
    if err != nil {
        return SelectionState{}, err
    }
    return SelectionState{Snapshot: snap, Selection: sel, Summary: booking.Summarize(sel.Seats())}, nil
}

func (s *BookingService) restore(ctx context.Context, userID string, snap *booking.Snapshot) (*booking.Selection, error) {
    showtimeID := snap.Showtime.ID
    ids, err := s.selections.Load(ctx, userID, showtimeID)
    if err != nil {
        return nil, fmt.Errorf("load selection: %w", err)
    }
    sel := booking.RestoreSelection(ids, snap)
    if sel.Len() != len(ids) {
        if err := s.selections.Save(ctx, userID, showtimeID, sel.IDs()); err != nil {
            return nil, fmt.Errorf("save selection: %w", err)
        }
    }
    return sel, nil
}

// Toggle adds or removes one seat.  Booked seats are ignored and a ninth
// seat is refused with ToggleLimitReached; in both cases the stored
// selection is unchanged.  An id that is not part of the seat map is a
// ValidationError.
func (s *BookingService) Toggle(ctx context.Context, userID, showtimeID, seatID string) (SelectionState, booking.ToggleResult, error) {
    seatID = strings.ToUpper(strings.TrimSpace(seatID))
    snap, err := s.Snapshot(ctx, showtimeID)
    if err != nil {
        return SelectionState{}, booking.ToggleIgnored, err
    }
    seat, ok := snap.Seat(seatID)
    if !ok {
        return SelectionState{}, booking.ToggleIgnored, &booking.ValidationError{Field: "seatId", Reason: "unknown seat " + seatID}
    }

    var (
        sel *booking.Selection
        res booking.ToggleResult
    )
    err = s.selections.Update(ctx, userID, showtimeID, func(ids []string) ([]string, error) {
        sel = booking.RestoreSelection(ids, snap)
        res = sel.Toggle(seat)
        return sel.IDs(), nil
    })
    if err != nil {
        return SelectionState{}, res, fmt.Errorf("update selection: %w", err)
    }
    return SelectionState{Snapshot: snap, Selection: sel, Summary: booking.Summarize(sel.Seats())}, res, nil
}

// ClearSelection discards the user's selection for a showtime.
func (s *BookingService) ClearSelection(ctx context.Context, userID, showtimeID string) error {
    return s.selections.Clear(ctx, userID, showtimeID)
}

// CheckoutInput is the customer's part of a booking.  Empty contact fields
// are filled from the user's profile.
type CheckoutInput struct {
    UserID        string
    ShowtimeID    string
    Customer      model.CustomerInfo
    PaymentMethod model.PaymentMethod
}

// Checkout builds a booking from the user's saved selection and submits
// it.  On success the selection is cleared and a booking.confirmed event
// is published; on failure the selection is kept so the user can retry.
func (s *BookingService) Checkout(ctx context.Context, in CheckoutInput) (model.Booking, error) {
    snap, err := s.Snapshot(ctx, in.ShowtimeID)
    if err != nil {
        return model.Booking{}, err
    }
    ids, err := s.selections.Load(ctx, in.UserID, in.ShowtimeID)
    if err != nil {
        return model.Booking{}, fmt.Errorf("load selection: %w", err)
    }
    // never book a subset of what the user chose
    if stale := booking.UnavailableSeats(ids, snap); len(stale) > 0 {
        kept := booking.RestoreSelection(ids, snap)
        if err := s.selections.Save(ctx, in.UserID, in.ShowtimeID, kept.IDs()); err != nil {
            s.log.WithError(err).WithField("user_id", in.UserID).Warn("trim stale selection failed")
        }
        return model.Booking{}, &booking.ValidationError{
            Field:  "seats",
            Reason: "seats no longer available: " + strings.Join(stale, ", "),
        }
    }
    state := SelectionState{Snapshot: snap, Selection: booking.RestoreSelection(ids, snap)}
    var film model.Film
    if id := state.Snapshot.Showtime.FilmID; id != "" {
        if film, err = s.Film(ctx, id); err != nil {
            return model.Booking{}, err
        }
    }
    customer := s.prefill(ctx, in.UserID, in.Customer)

    req, err := booking.Build(booking.BuildInput{
        Film:          film,
        Snapshot:      state.Snapshot,
        Selection:     state.Selection,
        Customer:      customer,
        PaymentMethod: in.PaymentMethod,
        UserID:        in.UserID,
        Now:           s.now(),
    })
    if err != nil {
        return model.Booking{}, err
    }

    created, err := s.submitter.Submit(ctx, in.UserID+":"+in.ShowtimeID, req)
    if err != nil {
        return model.Booking{}, err
    }

    entry := s.log.WithFields(logrus.Fields{"booking_id": created.ID, "user_id": in.UserID, "showtime_id": in.ShowtimeID})
    if err := s.selections.Clear(ctx, in.UserID, in.ShowtimeID); err != nil {
        entry.WithError(err).Warn("clear selection after booking failed")
    }
    s.publish(ctx, model.EventBookingConfirmed, created)
    return created, nil
}

func (s *BookingService) prefill(ctx context.Context, userID string, c model.CustomerInfo) model.CustomerInfo {
    if userID == "" || (strings.TrimSpace(c.FullName) != "" && strings.TrimSpace(c.Email) != "" && strings.TrimSpace(c.Phone) != "") {
        return c
    }
    u, err := s.store.GetUser(ctx, userID)
    if err != nil {
        s.log.WithError(err).WithField("user_id", userID).Debug("profile prefill skipped")
        return c
    }
    if strings.TrimSpace(c.FullName) == "" {
        c.FullName = u.FullName
    }
    if strings.TrimSpace(c.Email) == "" {
        c.Email = u.Email
    }
    if strings.TrimSpace(c.Phone) == "" {
        c.Phone = u.Phone
    }
    return c
}

// MyBookings lists a user's bookings, newest first.
func (s *BookingService) MyBookings(ctx context.Context, userID string) ([]model.Booking, error) {
    bs, err := s.store.ListBookingsByUser(ctx, userID)
    if err != nil {
        return nil, err
    }
    sort.SliceStable(bs, func(i, j int) bool { return bs[i].CreatedAt.After(bs[j].CreatedAt) })
    return bs, nil
}

// Cancel cancels one of the user's bookings.  Only confirmed or pending
// bookings whose showtime has not started can be cancelled.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID string) (model.Booking, error) {
    b, err := s.store.GetBooking(ctx, bookingID)
    if err != nil {
        return model.Booking{}, notFound(err, "booking "+bookingID)
    }
    if b.UserID != userID {
        return model.Booking{}, ErrForbidden
    }
    if !b.Cancellable() {
        return model.Booking{}, ErrNotCancellable
    }
    if !b.Datetime.IsZero() && !s.now().Before(b.Datetime) {
        return model.Booking{}, ErrNotCancellable
    }
    if err := s.store.CancelBooking(ctx, bookingID); err != nil {
        if store.IsNotFound(err) {
            return model.Booking{}, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
        }
        return model.Booking{}, err
    }
    b.Status = model.BookingCancelled
    s.log.WithFields(logrus.Fields{"booking_id": b.ID, "user_id": userID}).Info("booking cancelled")
    s.publish(ctx, model.EventBookingCancelled, b)
    return b, nil
}

// publish sends an event without failing the caller.
func (s *BookingService) publish(ctx context.Context, typ string, b model.Booking) {
    if s.events == nil {
        return
    }
    ev := queue.NewBookingEvent(typ, b, s.now())
    if err := s.events.Publish(ctx, ev); err != nil {
        s.log.WithError(err).WithFields(logrus.Fields{"booking_id": b.ID, "type": typ}).Warn("publish booking event failed")
    }
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
