package service

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/cinema-ticket-booking/internal/queue"
)

// EventPublisher sends booking events to the broker.
type EventPublisher interface {
    Publish(ctx context.Context, ev queue.BookingEvent) error
}

// Publisher publishes booking events to RabbitMQ.  Each call dials the
// broker, declares the event's durable queue and publishes a persistent
// message through the default exchange.  Errors are logged and returned so
// the caller can choose to ignore them.
type Publisher struct {
    url string
    log logrus.FieldLogger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
    if log == nil {
        log = logrus.StandardLogger()
    }
    return &Publisher{url: url, log: log.WithField("component", "publisher")}
}

// Publish sends ev to the queue named after its type.
func (p *Publisher) Publish(ctx context.Context, ev queue.BookingEvent) error {
    entry := p.log.WithFields(logrus.Fields{"event_id": ev.EventID, "type": ev.Type, "booking_id": ev.BookingID})

    conn, err := amqp.Dial(p.url)
    if err != nil {
        entry.WithError(err).Warn("rabbitmq: dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        entry.WithError(err).Warn("rabbitmq: channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(ev.Type, true, false, false, false, nil); err != nil {
        entry.WithError(err).Warn("rabbitmq: queue declare failed")
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        entry.WithError(err).Warn("rabbitmq: marshal event failed")
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        MessageId:    ev.EventID,
        Type:         ev.Type,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", ev.Type, false, false, pub); err != nil {
        entry.WithError(err).Warn("rabbitmq: publish failed")
        return err
    }
    entry.Debug("event published")
    return nil
}
