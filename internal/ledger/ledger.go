// Package ledger owns the seat-to-reservation mapping for every show.
// All mutation of a show's seat map goes through Acquire and Release;
// no other component assigns seats.  Acquire is all-or-nothing: two
// concurrent acquires for overlapping seats can never both succeed.
package ledger

import (
    "context"
    "fmt"
    "strings"
)

// SeatLedger is the contract for the durable seat map of a show.
//
// Acquire atomically claims every seat in seatLabels for the given
// reservation.  When any seat is already held it returns a
// *ConflictError naming the taken seats and performs no mutation.
//
// Release frees the given seats if present.  Releasing a free seat is
// a no-op, never an error.
//
// Occupied returns a snapshot of the currently held seat labels for
// display.  It carries no atomicity guarantee relative to concurrent
// acquires; callers must tolerate staleness.
type SeatLedger interface {
    Acquire(ctx context.Context, showID, reservationID uint64, seatLabels []string) error
    Release(ctx context.Context, showID uint64, seatLabels []string) error
    Occupied(ctx context.Context, showID uint64) ([]string, error)
}

// ConflictError reports the seats that blocked an Acquire.  Taken
// lists exactly the requested seats that were already held, in the
// order they were requested.
type ConflictError struct {
    ShowID uint64
    Taken  []string
}

func (e *ConflictError) Error() string {
    return fmt.Sprintf("ledger: seats unavailable for show %d: %s", e.ShowID, strings.Join(e.Taken, ","))
}

// dedupe returns seatLabels with duplicates and empty entries removed,
// preserving first-seen order.  Both implementations apply it so a
// request naming the same seat twice does not conflict with itself.
func dedupe(seatLabels []string) []string {
    out := make([]string, 0, len(seatLabels))
    seen := make(map[string]struct{}, len(seatLabels))
    for _, l := range seatLabels {
        if l == "" {
            continue
        }
        if _, ok := seen[l]; ok {
            continue
        }
        seen[l] = struct{}{}
        out = append(out, l)
    }
    return out
}
