// Package booking implements the reservation lifecycle: acquire a set
// of seats, hold them while payment is pending, confirm the hold when
// the payment provider signals success, or expire it and reclaim the
// seats when no confirmation arrives in time.
package booking

import (
    "context"
    "time"

    "github.com/iliyamo/show-booking/internal/model"
)

// ReservationStore persists reservations.  The MySQL implementation
// lives in internal/repository; tests use in-memory fakes.
type ReservationStore interface {
    // Create inserts a new reservation and populates its ID and
    // timestamps.
    Create(ctx context.Context, res *model.Reservation) error
    // GetByID returns ErrReservationNotFound when no such row exists.
    GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
    // MarkConfirmed flips the confirmed flag if it is still false.
    // It returns false when the reservation was already confirmed and
    // ErrReservationNotFound when the row no longer exists.
    MarkConfirmed(ctx context.Context, id uint64) (bool, error)
    // SetPaymentRef stores the external payment-session reference.
    SetPaymentRef(ctx context.Context, id uint64, ref string) error
    // Delete removes the reservation and its seat rows.  Deleting an
    // absent reservation is a no-op.
    Delete(ctx context.Context, id uint64) error
    // ListByUser returns the user's reservations, newest first.
    ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
    // ConfirmedUserIDs returns the distinct users holding confirmed
    // reservations for a show.
    ConfirmedUserIDs(ctx context.Context, showID uint64) ([]uint64, error)
}

// ShowStore reads show records.
type ShowStore interface {
    // GetByID returns ErrShowNotFound when no such show exists.
    GetByID(ctx context.Context, id uint64) (*model.Show, error)
    // StartingBetween returns shows whose start time falls in
    // [from, to), used by the reminder scanner.
    StartingBetween(ctx context.Context, from, to time.Time) ([]model.Show, error)
}

// PaymentClient creates checkout sessions with the external payment
// provider.  It returns the redirect URL the customer completes
// payment at.  A failure here rolls the reservation back.
type PaymentClient interface {
    CreateSession(ctx context.Context, amountCents uint32, reservationID uint64, successURL, cancelURL string) (string, error)
}

// Notifier delivers advisory notifications.  Failures are logged by
// callers and never affect the reservation lifecycle.
type Notifier interface {
    // ReservationCreated announces a freshly created reservation and
    // its checkout URL (confirmation-email trigger downstream).
    ReservationCreated(ctx context.Context, res *model.Reservation, checkoutURL string) error
    // ShowReminder asks for a reminder to be sent to one user about
    // an upcoming show.
    ShowReminder(ctx context.Context, userID uint64, show *model.Show) error
}
