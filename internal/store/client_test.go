package store

import (
    "context"
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
    t.Helper()
    srv := httptest.NewServer(h)
    t.Cleanup(srv.Close)
    c := NewClient(srv.URL+"/", WithHTTPClient(srv.Client()), WithRetryBackoff(time.Millisecond, 2*time.Millisecond))
    return c, srv
}

func TestGetJSON_Non2xxReturnsAPIError(t *testing.T) {
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusNotFound)
        _, _ = w.Write([]byte(`{"error":"no such film"}`))
    })

    _, err := c.GetFilm(context.Background(), "nope")
    require.Error(t, err)
    assert.True(t, IsNotFound(err))

    var apiErr *APIError
    require.ErrorAs(t, err, &apiErr)
    assert.Equal(t, "no such film", apiErr.Detail())
    assert.Contains(t, apiErr.Endpoint, "/films/nope")
}

func TestGetJSON_RetriesTransientServerErrors(t *testing.T) {
    var attempts int32
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        if atomic.AddInt32(&attempts, 1) < 3 {
            w.WriteHeader(http.StatusServiceUnavailable)
            return
        }
        _, _ = w.Write([]byte(`[{"id":"f1","nameFilm":"Mai"}]`))
    })

    films, err := c.ListFilms(context.Background())
    require.NoError(t, err)
    assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
    assert.Equal(t, []model.Film{{ID: "f1", NameFilm: "Mai"}}, films)
}

func TestGetJSON_DoesNotRetryClientErrors(t *testing.T) {
    var attempts int32
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        atomic.AddInt32(&attempts, 1)
        w.WriteHeader(http.StatusBadRequest)
    })

    _, err := c.ListFilms(context.Background())
    require.Error(t, err)
    assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestCreateBooking_NeverRetried(t *testing.T) {
    var attempts int32
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        atomic.AddInt32(&attempts, 1)
        w.WriteHeader(http.StatusInternalServerError)
        _, _ = w.Write([]byte("boom"))
    })

    _, err := c.CreateBooking(context.Background(), model.BookingRequest{Seats: []string{"A1"}})
    require.Error(t, err)
    assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))

    var apiErr *APIError
    require.ErrorAs(t, err, &apiErr)
    assert.Equal(t, "boom", apiErr.Detail())
    assert.Contains(t, err.Error(), "500")
}

func TestCreateBooking_SendsRecord(t *testing.T) {
    var got map[string]any
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, http.MethodPost, r.Method)
        assert.Equal(t, "/bookings", r.URL.Path)
        assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
        assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
        body, _ := io.ReadAll(r.Body)
        require.NoError(t, json.Unmarshal(body, &got))

        var rec map[string]any
        _ = json.Unmarshal(body, &rec)
        rec["id"] = "bk-9"
        w.WriteHeader(http.StatusCreated)
        _ = json.NewEncoder(w).Encode(rec)
    })

    req := model.BookingRequest{
        ShowtimeID:    "st1",
        FilmID:        "f1",
        Seats:         []string{"A1", "C3"},
        TotalAmount:   149500,
        Status:        model.BookingConfirmed,
        PaymentMethod: model.PaymentCash,
        PaymentStatus: model.PaymentStatusPaid,
        CustomerInfo:  model.CustomerInfo{FullName: "A", Email: "a@b.c", Phone: "1"},
        CreatedAt:     time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
    }
    b, err := c.CreateBooking(context.Background(), req)
    require.NoError(t, err)
    assert.Equal(t, "bk-9", b.ID)
    assert.Equal(t, req.Seats, b.Seats)
    assert.Equal(t, int64(149500), b.TotalAmount)

    assert.Equal(t, "st1", got["showtimeId"])
    assert.Equal(t, float64(149500), got["totalAmount"])
    assert.Equal(t, "paid", got["paymentStatus"])
    assert.Equal(t, []any{"A1", "C3"}, got["seats"])
}

func TestListBookingsByShowtime_QueryAndValidation(t *testing.T) {
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/bookings", r.URL.Path)
        switch r.URL.Query().Get("showtimeId") {
        case "st1":
            _, _ = w.Write([]byte(`[{"id":"1","showtimeId":"st1","seats":["A1","A2"],"status":"confirmed"}]`))
        default:
            _, _ = w.Write([]byte(`[{"id":"","seats":["A1"]}]`))
        }
    })

    bookings, err := c.ListBookingsByShowtime(context.Background(), "st1")
    require.NoError(t, err)
    require.Len(t, bookings, 1)
    assert.Equal(t, []string{"A1", "A2"}, bookings[0].Seats)

    _, err = c.ListBookingsByShowtime(context.Background(), "broken")
    assert.Error(t, err)
}

func TestGetShowtime_Decodes(t *testing.T) {
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/showtimes/st1", r.URL.Path)
        _, _ = w.Write([]byte(`{"id":"st1","filmId":"f1","cinemaId":"cgv","roomId":"room_2","datetime":"2026-10-20T12:30:00Z","price":75000}`))
    })

    st, err := c.GetShowtime(context.Background(), "st1")
    require.NoError(t, err)
    assert.Equal(t, int64(75000), st.Price)
    assert.Equal(t, "room_2", st.RoomID)
    assert.Equal(t, time.Date(2026, 10, 20, 12, 30, 0, 0, time.UTC), st.Datetime.UTC())
}

func TestListShowtimesByFilm(t *testing.T) {
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "f1", r.URL.Query().Get("filmId"))
        _, _ = w.Write([]byte(`[{"id":"a","filmId":"f1","price":1,"datetime":"2026-10-20T12:30:00Z"}]`))
    })

    sts, err := c.ListShowtimesByFilm(context.Background(), "f1")
    require.NoError(t, err)
    require.Len(t, sts, 1)
    assert.Equal(t, "a", sts[0].ID)
}

func TestFindUserByEmail(t *testing.T) {
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Query().Get("email") == "a@example.com" {
            _, _ = w.Write([]byte(`[{"id":"u1","email":"A@example.com","fullName":"A"}]`))
            return
        }
        _, _ = w.Write([]byte(`[]`))
    })

    u, err := c.FindUserByEmail(context.Background(), " A@Example.com ")
    require.NoError(t, err)
    assert.Equal(t, "u1", u.ID)

    _, err = c.FindUserByEmail(context.Background(), "nobody@example.com")
    assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUserAndCancel(t *testing.T) {
    var methods []string
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        methods = append(methods, r.Method+" "+r.URL.Path)
        if r.Method == http.MethodPatch {
            var patch map[string]any
            require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
            assert.Equal(t, map[string]any{"phone": "0911"}, patch)
            _, _ = w.Write([]byte(`{"id":"u1","phone":"0911"}`))
            return
        }
        _, _ = w.Write([]byte(`{}`))
    })

    phone := "0911"
    u, err := c.UpdateUser(context.Background(), "u1", model.UserPatch{Phone: &phone})
    require.NoError(t, err)
    assert.Equal(t, "0911", u.Phone)

    require.NoError(t, c.CancelBooking(context.Background(), "bk1"))
    assert.Equal(t, []string{"PATCH /users/u1", "DELETE /bookings/bk1"}, methods)
}

func TestRetryDelay(t *testing.T) {
    c := NewClient("http://example", WithRetryBackoff(100*time.Millisecond, 500*time.Millisecond))
    assert.Equal(t, 100*time.Millisecond, c.retryDelay(1))
    assert.Equal(t, 200*time.Millisecond, c.retryDelay(2))
    assert.Equal(t, 400*time.Millisecond, c.retryDelay(3))
    assert.Equal(t, 500*time.Millisecond, c.retryDelay(4))
}

func TestGetJSON_ContextCancelledStopsRetrying(t *testing.T) {
    var attempts int32
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        atomic.AddInt32(&attempts, 1)
        w.WriteHeader(http.StatusBadGateway)
    })
    c.retryBase = time.Hour
    c.retryCap = time.Hour

    ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
    defer cancel()
    _, err := c.ListFilms(ctx)
    assert.ErrorIs(t, err, context.DeadlineExceeded)
    assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestGetFilm_DecodesNestedBlocks(t *testing.T) {
    c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/films/1", r.URL.Path)
        _, _ = w.Write([]byte(`{"id":"1","nameFilm":"Mai","status":"showing",
            "infoFilm":{"duration":120,"category":["Drama","Romance"],"story":"...","director":"Tran Thanh","language":"Vietnamese","cast":[{"name":"Phuong Anh Dao","role":"Mai"}]},
            "ratedView":{"imdb":7.5,"user":8}}`))
    })

    f, err := c.GetFilm(context.Background(), "1")
    require.NoError(t, err)
    assert.Equal(t, "Mai", f.NameFilm)
    assert.Equal(t, 120, f.InfoFilm.Duration)
    assert.Equal(t, []string{"Drama", "Romance"}, f.InfoFilm.Category)
    assert.Equal(t, "Tran Thanh", f.InfoFilm.Director)
    assert.Equal(t, []model.CastMember{{Name: "Phuong Anh Dao"}}, f.InfoFilm.Cast)
    assert.Equal(t, 7.5, f.RatedView.IMDb)
    assert.Equal(t, float64(8), f.RatedView.User)
}
