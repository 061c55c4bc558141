package model

import "time"

// Reservation records a user's time-bounded claim on one or more
// seats of a show.  A reservation starts unconfirmed; the Confirmed
// flag is flipped exactly once when the payment provider signals
// success.  Unconfirmed reservations are deleted by the expiry worker
// once their hold timeout elapses; confirmed reservations persist.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who made the reservation.
//  ShowID      – show being reserved.
//  SeatLabels  – labels of the seats acquired (never empty).
//  AmountCents – total price in cents for all seats.
//  Confirmed   – whether payment has been confirmed.
//  PaymentRef  – external payment-session reference, if any.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Reservation struct {
    ID          uint64    // reservations.id
    UserID      uint64    // reservations.user_id
    ShowID      uint64    // reservations.show_id
    SeatLabels  []string  // reservation_seats.seat_label (one row per seat)
    AmountCents uint32    // reservations.amount_cents
    Confirmed   bool      // reservations.confirmed
    PaymentRef  *string   // reservations.payment_ref (nullable)
    CreatedAt   time.Time // reservations.created_at
    UpdatedAt   time.Time // reservations.updated_at
}
