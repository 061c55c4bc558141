package booking

import (
    "errors"
    "fmt"
    "strings"
)

// Sentinel errors shared between the booking service, the repository
// layer and the HTTP handlers.  Handlers translate them into status
// codes; the expiry and confirmation paths treat the not-found
// sentinels as benign.
var (
    // ErrEmptySeatSelection is returned when a reservation request
    // names no seats.
    ErrEmptySeatSelection = errors.New("no seats selected")

    // ErrInvalidSeatLabel is returned when a seat label cannot be
    // parsed or does not exist in the show's hall.
    ErrInvalidSeatLabel = errors.New("invalid seat label")

    // ErrShowNotFound is returned when a show id does not resolve to
    // an existing show.
    ErrShowNotFound = errors.New("show not found")

    // ErrReservationNotFound is returned when a reservation id does
    // not resolve to an existing reservation.
    ErrReservationNotFound = errors.New("reservation not found")

    // ErrPaymentSession wraps a payment-provider failure.  The
    // reservation has already been rolled back when it is returned.
    ErrPaymentSession = errors.New("payment session failed")
)

// SeatsUnavailableError is returned when the ledger rejects an
// acquire because some of the requested seats are already held.
// Taken names exactly the contested seats so the caller can re-query
// availability and pick again.
type SeatsUnavailableError struct {
    Taken []string
}

func (e *SeatsUnavailableError) Error() string {
    return fmt.Sprintf("seats unavailable: %s", strings.Join(e.Taken, ","))
}
