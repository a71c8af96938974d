// Package store is the HTTP client for the backing REST data store.  The
// store exposes json-server style resources (films, showtimes, bookings,
// users); this package maps them onto model types and validates what it
// decodes.
package store

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/sirupsen/logrus"
)

const (
    defaultTimeout     = 10 * time.Second
    defaultMaxAttempts = 3
    defaultRetryBase   = 200 * time.Millisecond
    defaultRetryCap    = 1200 * time.Millisecond
    maxErrorBody       = 8 << 10
)

// Client wraps HTTP access to the store.  Reads retry transient failures
// with capped exponential backoff; writes are sent exactly once.
type Client struct {
    httpClient  *http.Client
    baseURL     string
    maxAttempts int
    retryBase   time.Duration
    retryCap    time.Duration
    log         logrus.FieldLogger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
    return func(c *Client) {
        if hc != nil {
            c.httpClient = hc
        }
    }
}

// WithMaxAttempts bounds the attempts made for a read request.
func WithMaxAttempts(n int) Option {
    return func(c *Client) { c.maxAttempts = n }
}

// WithRetryBackoff sets the first retry delay and its cap.
func WithRetryBackoff(base, max time.Duration) Option {
    return func(c *Client) {
        c.retryBase = base
        c.retryCap = max
    }
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
    return func(c *Client) {
        if l != nil {
            c.log = l
        }
    }
}

// NewClient returns a client for the store rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
    c := &Client{
        httpClient:  &http.Client{Timeout: defaultTimeout},
        baseURL:     strings.TrimRight(baseURL, "/"),
        maxAttempts: defaultMaxAttempts,
        retryBase:   defaultRetryBase,
        retryCap:    defaultRetryCap,
        log:         logrus.StandardLogger(),
    }
    for _, o := range opts {
        o(c)
    }
    return c
}

// APIError is returned when the store responds with a non-2xx status.
type APIError struct {
    StatusCode int
    Status     string
    Endpoint   string
    Body       string
}

func (e *APIError) Error() string {
    if e == nil {
        return "store api error"
    }
    if e.Body == "" {
        return fmt.Sprintf("store api error: %s", e.Status)
    }
    return fmt.Sprintf("store api error: %s: %s", e.Status, e.Body)
}

// Detail returns the store's message: the "error" or "message" field of a
// JSON body when present, the raw body otherwise.
func (e *APIError) Detail() string {
    var body struct {
        Error   string `json:"error"`
        Message string `json:"message"`
    }
    if json.Unmarshal([]byte(e.Body), &body) == nil {
        if body.Error != "" {
            return body.Error
        }
        if body.Message != "" {
            return body.Message
        }
    }
    if e.Body != "" {
        return e.Body
    }
    return e.Status
}

// IsNotFound reports whether the error represents a 404 from the store.
func IsNotFound(err error) bool {
    var apiErr *APIError
    if errors.As(err, &apiErr) {
        return apiErr.StatusCode == http.StatusNotFound
    }
    return false
}

func (c *Client) endpoint(path string, query url.Values) string {
    u := c.baseURL + "/" + strings.TrimLeft(path, "/")
    if len(query) > 0 {
        u += "?" + query.Encode()
    }
    return u
}

// getJSON performs a GET with retries and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
    maxAttempts := c.maxAttempts
    if maxAttempts < 1 {
        maxAttempts = 1
    }

    for attempt := 1; attempt <= maxAttempts; attempt++ {
        err := c.do(ctx, http.MethodGet, endpoint, nil, out)
        if err == nil {
            return nil
        }
        if !c.shouldRetry(err) || attempt == maxAttempts {
            return err
        }
        c.log.WithFields(logrus.Fields{"endpoint": endpoint, "attempt": attempt}).WithError(err).Debug("store: retrying request")
        if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
            return waitErr
        }
    }
    return errors.New("request failed after retries")
}

// sendJSON performs a single non-idempotent request.
func (c *Client) sendJSON(ctx context.Context, method, endpoint string, in, out any) error {
    var body []byte
    if in != nil {
        b, err := json.Marshal(in)
        if err != nil {
            return fmt.Errorf("encode request: %w", err)
        }
        body = b
    }
    return c.do(ctx, method, endpoint, body, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
    var rd io.Reader
    if body != nil {
        rd = bytes.NewReader(body)
    }
    req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
    if err != nil {
        return fmt.Errorf("create request: %w", err)
    }
    req.Header.Set("Accept", "application/json")
    req.Header.Set("X-Request-ID", uuid.NewString())
    if body != nil {
        req.Header.Set("Content-Type", "application/json")
    }

    res, err := c.httpClient.Do(req)
    if err != nil {
        return fmt.Errorf("request failed: %w", err)
    }
    defer res.Body.Close()

    if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
        snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
        return &APIError{
            StatusCode: res.StatusCode,
            Status:     res.Status,
            Endpoint:   endpoint,
            Body:       strings.TrimSpace(string(snippet)),
        }
    }
    if out == nil {
        _, _ = io.Copy(io.Discard, res.Body)
        return nil
    }
    if err := json.NewDecoder(res.Body).Decode(out); err != nil {
        if errors.Is(err, io.EOF) {
            return nil
        }
        return fmt.Errorf("decode response from %s: %w", endpoint, err)
    }
    return nil
}

func (c *Client) shouldRetry(err error) bool {
    var apiErr *APIError
    if errors.As(err, &apiErr) {
        return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
    }
    if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
        return false
    }
    var netErr net.Error
    if errors.As(err, &netErr) {
        return true
    }
    return strings.HasPrefix(err.Error(), "request failed")
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
    timer := time.NewTimer(c.retryDelay(attempt))
    defer timer.Stop()
    select {
    case <-ctx.Done():
        return ctx.Err()
    case <-timer.C:
        return nil
    }
}

func (c *Client) retryDelay(attempt int) time.Duration {
    if attempt < 1 {
        attempt = 1
    }
    base := c.retryBase
    if base <= 0 {
        base = defaultRetryBase
    }
    limit := c.retryCap
    if limit <= 0 {
        limit = defaultRetryCap
    }

    delay := base
    for i := 1; i < attempt; i++ {
        if delay >= limit/2 {
            return limit
        }
        delay *= 2
    }
    if delay > limit {
        return limit
    }
    return delay
}
