package booking

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/iliyamo/show-booking/internal/ledger"
    "github.com/iliyamo/show-booking/internal/model"
)

// opTimeout bounds the store and ledger calls made from background
// timers, which have no request context to inherit deadlines from.
const opTimeout = 10 * time.Second

// Service coordinates the reservation lifecycle.  It is safe for
// concurrent use; all shared mutable seat state lives behind the
// ledger, and reservation rows are only ever written through the
// single-flag confirm transition or deleted by the expiry path.
type Service struct {
    ledger       ledger.SeatLedger
    reservations ReservationStore
    shows        ShowStore
    payments     PaymentClient
    notifier     Notifier
    expiry       *ExpiryRegistry

    holdTimeout   time.Duration // how long an unconfirmed hold survives
    notifyTimeout time.Duration // bounded wait for advisory notifications
    successURL    string        // payment redirect on success
    cancelURL     string        // payment redirect on cancel
}

// NewService wires a Service.  holdTimeout and notifyTimeout must be
// positive; the reference values are 10 minutes and 2 seconds.
func NewService(l ledger.SeatLedger, reservations ReservationStore, shows ShowStore, payments PaymentClient, notifier Notifier, expiry *ExpiryRegistry, holdTimeout, notifyTimeout time.Duration, successURL, cancelURL string) *Service {
    if l == nil || reservations == nil || shows == nil || payments == nil || expiry == nil {
        panic("nil dependency passed to booking.NewService")
    }
    if holdTimeout <= 0 {
        holdTimeout = 10 * time.Minute
    }
    if notifyTimeout <= 0 {
        notifyTimeout = 2 * time.Second
    }
    return &Service{
        ledger:        l,
        reservations:  reservations,
        shows:         shows,
        payments:      payments,
        notifier:      notifier,
        expiry:        expiry,
        holdTimeout:   holdTimeout,
        notifyTimeout: notifyTimeout,
        successURL:    successURL,
        cancelURL:     cancelURL,
    }
}

// CreateReservation validates the request, atomically acquires the
// seats, persists the reservation and opens a payment session.  On
// success it returns the reservation and the checkout URL the
// customer must complete payment at before the hold timeout elapses.
//
// Failure behaviour: a ledger conflict returns SeatsUnavailableError
// with no residual state; a payment failure releases the seats and
// deletes the reservation before returning ErrPaymentSession.  The
// created-event notification is advisory and never fails the call.
func (s *Service) CreateReservation(ctx context.Context, showID, userID uint64, seatLabels []string) (*model.Reservation, string, error) {
    // Duplicates collapse after normalization ("A1" and "a1" are the
    // same seat) so the amount always matches the seats actually held.
    labels := make([]string, 0, len(seatLabels))
    seen := make(map[string]struct{}, len(seatLabels))
    for _, raw := range seatLabels {
        l := model.NormalizeSeatLabel(raw)
        if l == "" {
            return nil, "", fmt.Errorf("%w: %q", ErrInvalidSeatLabel, raw)
        }
        if _, dup := seen[l]; dup {
            continue
        }
        seen[l] = struct{}{}
        labels = append(labels, l)
    }
    if len(labels) == 0 {
        return nil, "", ErrEmptySeatSelection
    }

    show, err := s.shows.GetByID(ctx, showID)
    if err != nil {
        return nil, "", err
    }
    for _, l := range labels {
        if !show.HasSeat(l) {
            return nil, "", fmt.Errorf("%w: %q does not exist in show %d", ErrInvalidSeatLabel, l, showID)
        }
    }

    // The reservation row is inserted first so the ledger can record
    // its generated id as the holder.  A conflict on acquire deletes
    // the row again, leaving nothing behind.
    res := &model.Reservation{
        UserID:      userID,
        ShowID:      showID,
        SeatLabels:  labels,
        AmountCents: show.BasePriceCents * uint32(len(labels)),
    }
    if err := s.reservations.Create(ctx, res); err != nil {
        return nil, "", fmt.Errorf("persist reservation: %w", err)
    }

    if err := s.ledger.Acquire(ctx, showID, res.ID, labels); err != nil {
        if delErr := s.reservations.Delete(ctx, res.ID); delErr != nil {
            log.Printf("booking: delete reservation %d after failed acquire: %v", res.ID, delErr)
        }
        var conflict *ledger.ConflictError
        if errors.As(err, &conflict) {
            return nil, "", &SeatsUnavailableError{Taken: conflict.Taken}
        }
        return nil, "", fmt.Errorf("acquire seats: %w", err)
    }

    checkoutURL, err := s.payments.CreateSession(ctx, res.AmountCents, res.ID, s.successURL, s.cancelURL)
    if err != nil {
        s.rollback(res)
        return nil, "", fmt.Errorf("%w: %v", ErrPaymentSession, err)
    }
    if err := s.reservations.SetPaymentRef(ctx, res.ID, checkoutURL); err != nil {
        // The session exists and the hold is valid; the missing ref
        // only degrades later reporting.
        log.Printf("booking: store payment ref for reservation %d: %v", res.ID, err)
    } else {
        res.PaymentRef = &checkoutURL
    }

    s.expiry.Schedule(res.ID, s.holdTimeout, s.expire)

    s.notifyCreated(res, checkoutURL)
    return res, checkoutURL, nil
}

// rollback compensates a reservation whose payment session could not
// be opened: the seats go back to the pool and the record is removed.
func (s *Service) rollback(res *model.Reservation) {
    ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
    defer cancel()
    if err := s.ledger.Release(ctx, res.ShowID, res.SeatLabels); err != nil {
        log.Printf("booking: rollback release for reservation %d: %v", res.ID, err)
    }
    if err := s.reservations.Delete(ctx, res.ID); err != nil {
        log.Printf("booking: rollback delete for reservation %d: %v", res.ID, err)
    }
}

// notifyCreated publishes the created event with a bounded wait.  A
// slow or failing notifier is logged and otherwise ignored; it must
// never delay or fail the reservation itself.
func (s *Service) notifyCreated(res *model.Reservation, checkoutURL string) {
    if s.notifier == nil {
        return
    }
    ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
    done := make(chan error, 1)
    go func() {
        defer cancel()
        done <- s.notifier.ReservationCreated(ctx, res, checkoutURL)
    }()
    select {
    case err := <-done:
        if err != nil {
            log.Printf("booking: created event for reservation %d: %v", res.ID, err)
        }
    case <-time.After(s.notifyTimeout):
        log.Printf("booking: created event for reservation %d timed out after %s", res.ID, s.notifyTimeout)
    }
}

// expire runs when a reservation's hold timer fires.  The release
// decision is gated on a fresh read of the confirmed flag, not on the
// absence of a cancellation: a confirmation that raced in after the
// timer elapsed still wins.
func (s *Service) expire(reservationID uint64) {
    ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
    defer cancel()

    res, err := s.reservations.GetByID(ctx, reservationID)
    if errors.Is(err, ErrReservationNotFound) {
        return // already cleaned up
    }
    if err != nil {
        log.Printf("booking: expiry re-check for reservation %d: %v; retrying", reservationID, err)
        s.expiry.Schedule(reservationID, opTimeout, s.expire)
        return
    }
    if res.Confirmed {
        return // never release a confirmed hold
    }

    if err := s.ledger.Release(ctx, res.ShowID, res.SeatLabels); err != nil {
        log.Printf("booking: expiry release for reservation %d: %v; retrying", reservationID, err)
        s.expiry.Schedule(reservationID, opTimeout, s.expire)
        return
    }
    if err := s.reservations.Delete(ctx, reservationID); err != nil {
        // Seats are free again; the orphaned row stays unconfirmed
        // and a later delete attempt is idempotent.
        log.Printf("booking: expiry delete for reservation %d: %v", reservationID, err)
        return
    }
    log.Printf("booking: reservation %d expired, released %d seat(s) of show %d", reservationID, len(res.SeatLabels), res.ShowID)
}

// OnConfirmed handles the external payment-confirmed signal for a
// reservation.  It is idempotent and tolerates late and duplicate
// delivery: a signal for an already expired reservation or a second
// signal for a confirmed one is a logged no-op.
func (s *Service) OnConfirmed(ctx context.Context, reservationID uint64) error {
    res, err := s.reservations.GetByID(ctx, reservationID)
    if errors.Is(err, ErrReservationNotFound) {
        log.Printf("booking: confirmation for unknown reservation %d (already expired?)", reservationID)
        return nil
    }
    if err != nil {
        return fmt.Errorf("load reservation %d: %w", reservationID, err)
    }
    if res.Confirmed {
        return nil // duplicate signal
    }

    ok, err := s.reservations.MarkConfirmed(ctx, reservationID)
    if errors.Is(err, ErrReservationNotFound) {
        // Expiry deleted the row between the read above and the
        // conditional update; the hold is gone and the late signal is
        // benign.
        log.Printf("booking: reservation %d expired before confirmation landed", reservationID)
        return nil
    }
    if err != nil {
        return fmt.Errorf("confirm reservation %d: %w", reservationID, err)
    }
    if ok {
        s.expiry.Cancel(reservationID)
        log.Printf("booking: reservation %d confirmed", reservationID)
    }
    return nil
}

// HoldTimeout exposes the configured hold duration for handlers that
// report it to clients.
func (s *Service) HoldTimeout() time.Duration { return s.holdTimeout }
