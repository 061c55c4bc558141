// Package queue_publisher publishes domain events to RabbitMQ.  It
// implements booking.Notifier; errors are logged and returned so
// callers can ignore failures without interrupting the main request
// flow.
package queue_publisher

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/show-booking/internal/model"
    q "github.com/iliyamo/show-booking/internal/queue"
)

// Publisher pushes events onto durable queues on the default
// exchange.  A fresh connection is dialed per publish; publishes are
// rare (one per reservation, one per reminder) and the approach never
// leaves a broken long-lived channel behind.
type Publisher struct {
    URL         string
    HoldTimeout time.Duration // used to stamp ExpiresAt on created events
}

// NewPublisher returns a Publisher for the given broker URL.
func NewPublisher(url string, holdTimeout time.Duration) *Publisher {
    return &Publisher{URL: url, HoldTimeout: holdTimeout}
}

// ReservationCreated publishes a ReservationCreatedEvent to the
// reservation.created queue.
func (p *Publisher) ReservationCreated(ctx context.Context, res *model.Reservation, checkoutURL string) error {
    ev := q.ReservationCreatedEvent{
        ReservationID: res.ID,
        UserID:        res.UserID,
        ShowID:        res.ShowID,
        SeatLabels:    res.SeatLabels,
        AmountCents:   res.AmountCents,
        CheckoutURL:   checkoutURL,
        ExpiresAt:     res.CreatedAt.Add(p.HoldTimeout).UTC().Format(time.RFC3339),
        CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
    }
    return p.publish(ctx, q.ReservationCreatedQueue, ev)
}

// ShowReminder publishes a ShowReminderEvent to the
// reservation.reminder queue.
func (p *Publisher) ShowReminder(ctx context.Context, userID uint64, show *model.Show) error {
    ev := q.ShowReminderEvent{
        UserID:    userID,
        ShowID:    show.ID,
        ShowTitle: show.Title,
        StartsAt:  show.StartsAt.UTC().Format(time.RFC3339),
        EmittedAt: time.Now().UTC().Format(time.RFC3339),
    }
    return p.publish(ctx, q.ShowReminderQueue, ev)
}

// publish declares the queue (idempotent, durable) and sends one
// persistent JSON message.  The function attempts to be robust and
// never panic; any error is logged and returned for the caller to
// decide.
func (p *Publisher) publish(ctx context.Context, queueName string, event interface{}) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(
        queueName, // name
        true,      // durable
        false,     // autoDelete
        false,     // exclusive
        false,     // noWait
        nil,       // args
    ); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",        // default exchange
        queueName, // routing key = queue name
        false,     // mandatory
        false,     // immediate
        pub,
    ); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
