// Package queue defines message payloads exchanged over the message
// broker and the background consumer for payment confirmations.
package queue

// Queue names used on the default exchange.
const (
    PaymentConfirmedQueue   = "payment.confirmed"
    ReservationCreatedQueue = "reservation.created"
    ShowReminderQueue       = "reservation.reminder"
)

// PaymentConfirmedEvent is delivered by the payment provider's
// integration when a checkout session completes.  Delivery is
// at-least-once with no ordering guarantee relative to the hold
// timeout; the consumer side is idempotent.
type PaymentConfirmedEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    SessionRef    string `json:"session_ref,omitempty"`
    ConfirmedAt   string `json:"confirmed_at,omitempty"`
}

// ReservationCreatedEvent is published after a reservation is created
// so downstream consumers can trigger the checkout email.  It is
// advisory; publish failures never fail the reservation.
type ReservationCreatedEvent struct {
    ReservationID uint64   `json:"reservation_id"`
    UserID        uint64   `json:"user_id"`
    ShowID        uint64   `json:"show_id"`
    SeatLabels    []string `json:"seats"`
    AmountCents   uint32   `json:"amount_cents"`
    CheckoutURL   string   `json:"checkout_url"`
    ExpiresAt     string   `json:"expires_at"`
    CreatedAt     string   `json:"created_at"`
}

// ShowReminderEvent asks the notification service to remind one user
// about an upcoming show.  One event per user per show per scan.
type ShowReminderEvent struct {
    UserID    uint64 `json:"user_id"`
    ShowID    uint64 `json:"show_id"`
    ShowTitle string `json:"show_title"`
    StartsAt  string `json:"starts_at"`
    EmittedAt string `json:"emitted_at"`
}
