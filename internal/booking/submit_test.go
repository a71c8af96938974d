package booking

import (
    "context"
    "errors"
    "sync"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

type fakeCreator struct {
    mu      sync.Mutex
    calls   int
    err     error
    block   chan struct{}
    started chan struct{}
}

func (f *fakeCreator) CreateBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error) {
    f.mu.Lock()
    f.calls++
    f.mu.Unlock()
    if f.started != nil {
        close(f.started)
    }
    if f.block != nil {
        <-f.block
    }
    if f.err != nil {
        return model.Booking{}, f.err
    }
    return model.Booking{ID: "bk-1", BookingRequest: req}, nil
}

type detailErr struct{ msg string }

func (e detailErr) Error() string  { return "store said no" }
func (e detailErr) Detail() string { return e.msg }

func validRequest(t *testing.T) model.BookingRequest {
    t.Helper()
    req, err := Build(buildInput(t, NewSnapshot(testShowtime, nil), "A1", "B1"))
    require.NoError(t, err)
    return req
}

func TestSubmit_Success(t *testing.T) {
    store := &fakeCreator{}
    sub := NewSubmitter(store, nil, nil)
    req := validRequest(t)

    got, err := sub.Submit(context.Background(), "u1:st1", req)
    require.NoError(t, err)
    assert.Equal(t, "bk-1", got.ID)
    assert.Equal(t, req.TotalAmount, got.TotalAmount)
    assert.Equal(t, 1, store.calls)
}

func TestSubmit_StoreFailureIsSubmissionError(t *testing.T) {
    cause := detailErr{msg: "seat A1 taken"}
    store := &fakeCreator{err: cause}
    sub := NewSubmitter(store, nil, nil)

    _, err := sub.Submit(context.Background(), "k", validRequest(t))
    require.Error(t, err)

    var se *SubmissionError
    require.ErrorAs(t, err, &se)
    assert.Equal(t, "seat A1 taken", se.Detail)
    assert.ErrorIs(t, err, cause)
    assert.Equal(t, 1, store.calls, "no automatic retry")

    // The key is released after failure so the caller may resubmit.
    store.err = nil
    _, err = sub.Submit(context.Background(), "k", validRequest(t))
    assert.NoError(t, err)
}

func TestSubmit_PlainErrorDetail(t *testing.T) {
    sub := NewSubmitter(&fakeCreator{err: errors.New("connection refused")}, nil, nil)

    _, err := sub.Submit(context.Background(), "k", validRequest(t))
    var se *SubmissionError
    require.ErrorAs(t, err, &se)
    assert.Equal(t, "connection refused", se.Detail)
    assert.Contains(t, err.Error(), "connection refused")
}

func TestSubmit_EmptySeatsRejected(t *testing.T) {
    store := &fakeCreator{}
    sub := NewSubmitter(store, nil, nil)

    _, err := sub.Submit(context.Background(), "k", model.BookingRequest{})
    assert.True(t, IsValidation(err))
    assert.Equal(t, 0, store.calls)
}

func TestSubmit_SecondSubmissionWhilePending(t *testing.T) {
    store := &fakeCreator{block: make(chan struct{}), started: make(chan struct{})}
    sub := NewSubmitter(store, NewLocalGuard(), nil)
    req := validRequest(t)

    done := make(chan error, 1)
    go func() {
        _, err := sub.Submit(context.Background(), "u1:st1", req)
        done <- err
    }()
    <-store.started

    _, err := sub.Submit(context.Background(), "u1:st1", req)
    assert.ErrorIs(t, err, ErrSubmissionInProgress)

    close(store.block)
    require.NoError(t, <-done)
    assert.Equal(t, 1, store.calls)
}

func TestLocalGuard(t *testing.T) {
    g := NewLocalGuard()
    ctx := context.Background()

    release, err := g.Acquire(ctx, "a")
    require.NoError(t, err)

    _, err = g.Acquire(ctx, "a")
    assert.ErrorIs(t, err, ErrSubmissionInProgress)

    other, err := g.Acquire(ctx, "b")
    require.NoError(t, err)
    other()

    release()
    release() // second call is a no-op
    again, err := g.Acquire(ctx, "a")
    require.NoError(t, err)
    again()
}
