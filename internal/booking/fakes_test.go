package booking

// In-memory fakes for the store and collaborator interfaces.  They
// mirror the MySQL repositories closely enough to exercise the
// lifecycle races: copies in and out, distinct user queries, and the
// conditional confirm transition.

import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/iliyamo/show-booking/internal/model"
)

type memReservations struct {
    mu      sync.Mutex
    nextID  uint64
    rows    map[uint64]*model.Reservation
    deletes int
}

func newMemReservations() *memReservations {
    return &memReservations{rows: make(map[uint64]*model.Reservation)}
}

func copyRes(r *model.Reservation) *model.Reservation {
    c := *r
    c.SeatLabels = append([]string(nil), r.SeatLabels...)
    if r.PaymentRef != nil {
        ref := *r.PaymentRef
        c.PaymentRef = &ref
    }
    return &c
}

func (m *memReservations) Create(ctx context.Context, res *model.Reservation) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.nextID++
    res.ID = m.nextID
    res.CreatedAt = time.Now().UTC()
    res.UpdatedAt = res.CreatedAt
    m.rows[res.ID] = copyRes(res)
    return nil
}

func (m *memReservations) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    r, ok := m.rows[id]
    if !ok {
        return nil, ErrReservationNotFound
    }
    return copyRes(r), nil
}

func (m *memReservations) MarkConfirmed(ctx context.Context, id uint64) (bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    r, ok := m.rows[id]
    if !ok {
        return false, ErrReservationNotFound
    }
    if r.Confirmed {
        return false, nil
    }
    r.Confirmed = true
    r.UpdatedAt = time.Now().UTC()
    return true, nil
}

func (m *memReservations) SetPaymentRef(ctx context.Context, id uint64, ref string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    r, ok := m.rows[id]
    if !ok {
        return ErrReservationNotFound
    }
    r.PaymentRef = &ref
    return nil
}

func (m *memReservations) Delete(ctx context.Context, id uint64) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    if _, ok := m.rows[id]; ok {
        delete(m.rows, id)
        m.deletes++
    }
    return nil
}

func (m *memReservations) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    var out []model.Reservation
    for _, r := range m.rows {
        if r.UserID == userID {
            out = append(out, *copyRes(r))
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
    return out, nil
}

func (m *memReservations) ConfirmedUserIDs(ctx context.Context, showID uint64) ([]uint64, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    seen := make(map[uint64]struct{})
    var out []uint64
    for _, r := range m.rows {
        if r.ShowID != showID || !r.Confirmed {
            continue
        }
        if _, ok := seen[r.UserID]; ok {
            continue
        }
        seen[r.UserID] = struct{}{}
        out = append(out, r.UserID)
    }
    sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
    return out, nil
}

func (m *memReservations) count() int {
    m.mu.Lock()
    defer m.mu.Unlock()
    return len(m.rows)
}

func (m *memReservations) deleteCount() int {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.deletes
}

type memShows struct {
    mu   sync.Mutex
    rows map[uint64]*model.Show
}

func newMemShows(shows ...*model.Show) *memShows {
    m := &memShows{rows: make(map[uint64]*model.Show)}
    for _, s := range shows {
        m.rows[s.ID] = s
    }
    return m
}

func (m *memShows) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    s, ok := m.rows[id]
    if !ok {
        return nil, ErrShowNotFound
    }
    c := *s
    return &c, nil
}

func (m *memShows) StartingBetween(ctx context.Context, from, to time.Time) ([]model.Show, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    var out []model.Show
    for _, s := range m.rows {
        if !s.StartsAt.Before(from) && s.StartsAt.Before(to) {
            out = append(out, *s)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

type fakePayments struct {
    mu    sync.Mutex
    err   error
    calls int
}

func (f *fakePayments) CreateSession(ctx context.Context, amountCents uint32, reservationID uint64, successURL, cancelURL string) (string, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.calls++
    if f.err != nil {
        return "", f.err
    }
    return "https://pay.example/session/abc", nil
}

type fakeNotifier struct {
    mu           sync.Mutex
    createdDelay time.Duration
    createdErr   error
    created      []uint64
    reminderErr  map[uint64]error // per-user failure injection
    reminders    []uint64
}

func (f *fakeNotifier) ReservationCreated(ctx context.Context, res *model.Reservation, checkoutURL string) error {
    if f.createdDelay > 0 {
        select {
        case <-time.After(f.createdDelay):
        case <-ctx.Done():
            return ctx.Err()
        }
    }
    f.mu.Lock()
    defer f.mu.Unlock()
    f.created = append(f.created, res.ID)
    return f.createdErr
}

func (f *fakeNotifier) ShowReminder(ctx context.Context, userID uint64, show *model.Show) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    if err, ok := f.reminderErr[userID]; ok {
        return err
    }
    f.reminders = append(f.reminders, userID)
    return nil
}

func (f *fakeNotifier) remindedUsers() []uint64 {
    f.mu.Lock()
    defer f.mu.Unlock()
    return append([]uint64(nil), f.reminders...)
}
