package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/cinema-ticket-booking/internal/model"
    "github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

// LedgerWriter records consumed events.
type LedgerWriter interface {
    Append(ctx context.Context, e model.LedgerEntry) (uint64, error)
}

// Consumer reads booking events from the broker, appends them to the
// booking ledger and to a human readable log file.
type Consumer struct {
    url     string
    ledger  LedgerWriter
    logPath string
    log     logrus.FieldLogger

    mu sync.Mutex // serialises writes to logPath
}

// NewConsumer returns a consumer for the broker at url.  ledger may be nil,
// in which case events are only written to logDir/booking.log.
func NewConsumer(url string, ledger LedgerWriter, logDir string, log logrus.FieldLogger) *Consumer {
    if logDir == "" {
        logDir = "logs"
    }
    if log == nil {
        log = logrus.StandardLogger()
    }
    return &Consumer{
        url:     url,
        ledger:  ledger,
        logPath: filepath.Join(logDir, "booking.log"),
        log:     log.WithField("component", "booking-consumer"),
    }
}

// Run connects to RabbitMQ, declares the booking queues (durable) and
// consumes until ctx is cancelled.  Broker failures are retried with
// exponential backoff; a message that cannot be handled is rejected
// without requeue so a poison message cannot stall the queue.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.log.WithError(err).Warnf("failed to dial broker; retrying in %s", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.WithError(err).Warn("consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.log.WithError(err).Warn("set QoS failed")
    }

    merged := make(chan amqp.Delivery)
    done := make(chan struct{})
    defer close(done)
    var wg sync.WaitGroup
    for _, name := range Queues {
        if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
            return fmt.Errorf("queue declare %s: %w", name, err)
        }
        msgs, err := ch.Consume(name, "", false, false, false, false, nil)
        if err != nil {
            return fmt.Errorf("queue consume %s: %w", name, err)
        }
        wg.Add(1)
        go func(msgs <-chan amqp.Delivery) {
            defer wg.Done()
            for d := range msgs {
                select {
                case merged <- d:
                case <-done:
                    return
                }
            }
        }(msgs)
    }
    go func() { wg.Wait(); close(merged) }()

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-merged:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.Handle(ctx, d.Body); err != nil {
                c.log.WithError(err).WithField("routing_key", d.RoutingKey).Error("handle message failed")
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// Handle processes one encoded BookingEvent.  A redelivered event already
// present in the ledger is acknowledged without writing it again.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
    var ev BookingEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.EventID == "" || ev.BookingID == "" {
        return errors.New("event without id or booking id")
    }

    if c.ledger != nil {
        if _, err := c.ledger.Append(ctx, ev.LedgerEntry()); err != nil {
            if errors.Is(err, repository.ErrConflict) {
                c.log.WithField("event_id", ev.EventID).Debug("duplicate event skipped")
                return nil
            }
            return fmt.Errorf("ledger append: %w", err)
        }
    }
    return c.appendLine(ev)
}

func (c *Consumer) appendLine(ev BookingEvent) error {
    c.mu.Lock()
    defer c.mu.Unlock()

    if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders ev as one line of booking.log.
func FormatLine(ev BookingEvent) string {
    verb := "Booking confirmed"
    if ev.Type == model.EventBookingCancelled {
        verb = "Booking cancelled"
    }
    return fmt.Sprintf("[%s] %s | booking_id=%s | user_id=%s | showtime_id=%s | film=%q | cinema=%q | room=%q | starts_at=%s | total=%d VND | seats=[%s]\n",
        ev.OccurredAt.UTC().Format(time.RFC3339), verb, ev.BookingID, ev.UserID, ev.ShowtimeID,
        ev.FilmName, ev.CinemaID, ev.RoomID, ev.StartsAt.UTC().Format(time.RFC3339),
        ev.TotalAmount, strings.Join(ev.Seats, ","))
}
