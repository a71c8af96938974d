package booking

import (
    "context"
    "errors"
    "io"
    "sync"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// BookingCreator is the store's create-booking operation.
type BookingCreator interface {
    CreateBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error)
}

// InFlightGuard admits at most one holder per key.  Acquire returns
// ErrSubmissionInProgress when the key is already held; the returned
// release function must be called exactly once.
type InFlightGuard interface {
    Acquire(ctx context.Context, key string) (release func(), err error)
}

// detailer is implemented by errors that carry a store-provided message.
type detailer interface {
    Detail() string
}

// Submitter hands built booking requests to the store, one at a time per
// key.  Failed submissions are never retried.
type Submitter struct {
    store BookingCreator
    guard InFlightGuard
    log   logrus.FieldLogger
}

// NewSubmitter returns a Submitter.  A nil guard falls back to an
// in-process LocalGuard; a nil logger discards output.
func NewSubmitter(store BookingCreator, guard InFlightGuard, log logrus.FieldLogger) *Submitter {
    if store == nil {
        panic("nil store passed to NewSubmitter")
    }
    if guard == nil {
        guard = NewLocalGuard()
    }
    if log == nil {
        l := logrus.New()
        l.Out = io.Discard
        log = l
    }
    return &Submitter{store: store, guard: guard, log: log}
}

// Submit sends req to the store.  key scopes the in-flight guard, usually
// user and showtime.  A request with no seats is rejected before anything
// is sent.
func (s *Submitter) Submit(ctx context.Context, key string, req model.BookingRequest) (model.Booking, error) {
    if len(req.Seats) == 0 {
        return model.Booking{}, &ValidationError{Field: "seats", Reason: "no seats selected"}
    }
    release, err := s.guard.Acquire(ctx, key)
    if err != nil {
        return model.Booking{}, err
    }
    defer release()

    entry := s.log.WithFields(logrus.Fields{
        "showtime_id": req.ShowtimeID,
        "user_id":     req.UserID,
        "seats":       len(req.Seats),
        "total":       req.TotalAmount,
    })
    created, err := s.store.CreateBooking(ctx, req)
    if err != nil {
        entry.WithError(err).Warn("booking submission failed")
        detail := err.Error()
        var d detailer
        if errors.As(err, &d) && d.Detail() != "" {
            detail = d.Detail()
        }
        return model.Booking{}, &SubmissionError{Detail: detail, Err: err}
    }
    entry.WithField("booking_id", created.ID).Info("booking created")
    return created, nil
}

// LocalGuard is an in-process InFlightGuard.
type LocalGuard struct {
    mu   sync.Mutex
    held map[string]struct{}
}

// NewLocalGuard returns an empty LocalGuard.
func NewLocalGuard() *LocalGuard {
    return &LocalGuard{held: make(map[string]struct{})}
}

// Acquire claims key or fails with ErrSubmissionInProgress.
func (g *LocalGuard) Acquire(_ context.Context, key string) (func(), error) {
    g.mu.Lock()
    defer g.mu.Unlock()
    if _, busy := g.held[key]; busy {
        return nil, ErrSubmissionInProgress
    }
    g.held[key] = struct{}{}
    var once sync.Once
    return func() {
        once.Do(func() {
            g.mu.Lock()
            delete(g.held, key)
            g.mu.Unlock()
        })
    }, nil
}
