package booking

import (
    "sync"
    "time"
)

// ExpiryRegistry tracks at most one pending expiry timer per
// reservation.  Timers are process-local scheduling state, created
// when a reservation is made and destroyed on cancellation or firing.
//
// Cancel racing with a firing timer is tolerated: the fire callback
// re-checks the reservation's confirmed flag before releasing
// anything, so cancellation is an optimization, not the correctness
// mechanism.
type ExpiryRegistry struct {
    mu     sync.Mutex
    timers map[uint64]*time.Timer
}

// NewExpiryRegistry returns an empty registry.
func NewExpiryRegistry() *ExpiryRegistry {
    return &ExpiryRegistry{timers: make(map[uint64]*time.Timer)}
}

// Schedule arms a timer that calls fire(reservationID) after d.  Any
// previously scheduled timer for the same reservation is stopped
// first.  The registry entry is removed before fire runs, so a
// late Cancel during the callback is a clean no-op.
func (r *ExpiryRegistry) Schedule(reservationID uint64, d time.Duration, fire func(reservationID uint64)) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if t, ok := r.timers[reservationID]; ok {
        t.Stop()
    }
    r.timers[reservationID] = time.AfterFunc(d, func() {
        r.mu.Lock()
        delete(r.timers, reservationID)
        r.mu.Unlock()
        fire(reservationID)
    })
}

// Cancel stops the pending timer for a reservation.  It returns
// false when no timer exists or the timer already fired; both are
// fine for callers.
func (r *ExpiryRegistry) Cancel(reservationID uint64) bool {
    r.mu.Lock()
    defer r.mu.Unlock()
    t, ok := r.timers[reservationID]
    if !ok {
        return false
    }
    delete(r.timers, reservationID)
    return t.Stop()
}

// Pending reports whether a timer is currently scheduled for the
// reservation.
func (r *ExpiryRegistry) Pending(reservationID uint64) bool {
    r.mu.Lock()
    defer r.mu.Unlock()
    _, ok := r.timers[reservationID]
    return ok
}

// StopAll cancels every pending timer.  Used on shutdown.
func (r *ExpiryRegistry) StopAll() {
    r.mu.Lock()
    defer r.mu.Unlock()
    for id, t := range r.timers {
        t.Stop()
        delete(r.timers, id)
    }
}
