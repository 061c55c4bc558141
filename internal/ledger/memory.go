package ledger

import (
    "context"
    "sort"
    "sync"
)

// Memory is an in-process SeatLedger.  Each show's seat map is guarded
// by its own mutex, so acquires on the same show are serialized while
// acquires on different shows proceed in parallel.  It backs the test
// suite and single-process deployments; multi-process deployments use
// the SQL implementation instead.
type Memory struct {
    mu    sync.Mutex // guards the shows map itself
    shows map[uint64]*showSeats
}

// showSeats holds one show's seat assignments.  seats maps seat label
// to the reservation currently holding it.
type showSeats struct {
    mu    sync.Mutex
    seats map[string]uint64
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
    return &Memory{shows: make(map[uint64]*showSeats)}
}

// group returns the seat map for a show, creating it on first use.
func (m *Memory) group(showID uint64) *showSeats {
    m.mu.Lock()
    defer m.mu.Unlock()
    g, ok := m.shows[showID]
    if !ok {
        g = &showSeats{seats: make(map[string]uint64)}
        m.shows[showID] = g
    }
    return g
}

// Acquire claims all of seatLabels for reservationID or none of them.
// The per-show mutex makes the check-then-insert indivisible with
// respect to any other Acquire or Release on the same show.
func (m *Memory) Acquire(ctx context.Context, showID, reservationID uint64, seatLabels []string) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    labels := dedupe(seatLabels)
    g := m.group(showID)
    g.mu.Lock()
    defer g.mu.Unlock()

    var taken []string
    for _, l := range labels {
        if _, held := g.seats[l]; held {
            taken = append(taken, l)
        }
    }
    if len(taken) > 0 {
        return &ConflictError{ShowID: showID, Taken: taken}
    }
    for _, l := range labels {
        g.seats[l] = reservationID
    }
    return nil
}

// Release frees the given seats.  Seats not currently held are
// skipped silently.
func (m *Memory) Release(ctx context.Context, showID uint64, seatLabels []string) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    g := m.group(showID)
    g.mu.Lock()
    defer g.mu.Unlock()
    for _, l := range dedupe(seatLabels) {
        delete(g.seats, l)
    }
    return nil
}

// Occupied returns the sorted labels of all currently held seats.
func (m *Memory) Occupied(ctx context.Context, showID uint64) ([]string, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    g := m.group(showID)
    g.mu.Lock()
    defer g.mu.Unlock()
    out := make([]string, 0, len(g.seats))
    for l := range g.seats {
        out = append(out, l)
    }
    sort.Strings(out)
    return out, nil
}

// Holder reports which reservation currently holds a seat.  Used by
// tests to assert ledger state; not part of the SeatLedger contract.
func (m *Memory) Holder(showID uint64, seatLabel string) (uint64, bool) {
    g := m.group(showID)
    g.mu.Lock()
    defer g.mu.Unlock()
    id, ok := g.seats[seatLabel]
    return id, ok
}
