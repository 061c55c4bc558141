package booking

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/show-booking/internal/ledger"
    "github.com/iliyamo/show-booking/internal/model"
)

func testShow() *model.Show {
    return &model.Show{
        ID:             1,
        OwnerID:        9,
        Title:          "Stalker",
        StartsAt:       time.Now().UTC().Add(24 * time.Hour),
        EndsAt:         time.Now().UTC().Add(27 * time.Hour),
        Rows:           5,
        SeatsPerRow:    10,
        BasePriceCents: 1000,
        Status:         "SCHEDULED",
    }
}

type fixture struct {
    svc          *Service
    ledger       *ledger.Memory
    reservations *memReservations
    payments     *fakePayments
    notifier     *fakeNotifier
    expiry       *ExpiryRegistry
}

func newFixture(t *testing.T, holdTimeout time.Duration) *fixture {
    t.Helper()
    f := &fixture{
        ledger:       ledger.NewMemory(),
        reservations: newMemReservations(),
        payments:     &fakePayments{},
        notifier:     &fakeNotifier{},
        expiry:       NewExpiryRegistry(),
    }
    f.svc = NewService(
        f.ledger, f.reservations, newMemShows(testShow()), f.payments, f.notifier, f.expiry,
        holdTimeout, 50*time.Millisecond,
        "https://app.example/paid", "https://app.example/cancelled",
    )
    t.Cleanup(f.expiry.StopAll)
    return f
}

func TestCreateReservationSuccess(t *testing.T) {
    f := newFixture(t, time.Minute)
    ctx := context.Background()

    res, url, err := f.svc.CreateReservation(ctx, 1, 42, []string{"A1", "a2"})
    require.NoError(t, err)
    assert.Equal(t, "https://pay.example/session/abc", url)
    assert.Equal(t, uint32(2000), res.AmountCents)
    assert.Equal(t, []string{"A1", "A2"}, res.SeatLabels)
    assert.False(t, res.Confirmed)

    occ, err := f.ledger.Occupied(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, []string{"A1", "A2"}, occ)

    holder, ok := f.ledger.Holder(1, "A1")
    require.True(t, ok)
    assert.Equal(t, res.ID, holder)

    assert.True(t, f.expiry.Pending(res.ID))

    stored, err := f.reservations.GetByID(ctx, res.ID)
    require.NoError(t, err)
    require.NotNil(t, stored.PaymentRef)
    assert.Equal(t, url, *stored.PaymentRef)
}

func TestCreateReservationCollapsesDuplicateSeats(t *testing.T) {
    f := newFixture(t, time.Minute)
    ctx := context.Background()

    // "A1", "a1" and "A1" are one seat; the charge must match the
    // single unit actually held.
    res, _, err := f.svc.CreateReservation(ctx, 1, 42, []string{"A1", "a1", "A1"})
    require.NoError(t, err)
    assert.Equal(t, []string{"A1"}, res.SeatLabels)
    assert.Equal(t, uint32(1000), res.AmountCents)

    occ, err := f.ledger.Occupied(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, []string{"A1"}, occ)

    stored, err := f.reservations.GetByID(ctx, res.ID)
    require.NoError(t, err)
    assert.Equal(t, []string{"A1"}, stored.SeatLabels)
}

func TestCreateReservationRejectsEmptySelection(t *testing.T) {
    f := newFixture(t, time.Minute)

    _, _, err := f.svc.CreateReservation(context.Background(), 1, 42, nil)
    assert.ErrorIs(t, err, ErrEmptySeatSelection)
    assert.Zero(t, f.reservations.count())
}

func TestCreateReservationRejectsUnknownShow(t *testing.T) {
    f := newFixture(t, time.Minute)

    _, _, err := f.svc.CreateReservation(context.Background(), 99, 42, []string{"A1"})
    assert.ErrorIs(t, err, ErrShowNotFound)
}

func TestCreateReservationRejectsBadSeatLabels(t *testing.T) {
    f := newFixture(t, time.Minute)

    for _, label := range []string{"", "nope!", "A0", "A11", "F1", "7"} {
        _, _, err := f.svc.CreateReservation(context.Background(), 1, 42, []string{label})
        assert.ErrorIs(t, err, ErrInvalidSeatLabel, "label %q", label)
    }
    assert.Zero(t, f.reservations.count())
}

func TestCreateReservationConflictLeavesNoState(t *testing.T) {
    f := newFixture(t, time.Minute)
    ctx := context.Background()

    _, _, err := f.svc.CreateReservation(ctx, 1, 1, []string{"A1"})
    require.NoError(t, err)

    _, _, err = f.svc.CreateReservation(ctx, 1, 2, []string{"A1", "A2"})
    var unavailable *SeatsUnavailableError
    require.ErrorAs(t, err, &unavailable)
    assert.Equal(t, []string{"A1"}, unavailable.Taken)

    // The losing call must not keep a row or a partial hold on A2.
    assert.Equal(t, 1, f.reservations.count())
    occ, err := f.ledger.Occupied(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, []string{"A1"}, occ)
}

func TestCreateReservationPaymentFailureRollsBack(t *testing.T) {
    f := newFixture(t, time.Minute)
    f.payments.err = errors.New("provider down")
    ctx := context.Background()

    _, _, err := f.svc.CreateReservation(ctx, 1, 42, []string{"A1"})
    assert.ErrorIs(t, err, ErrPaymentSession)

    occ, lerr := f.ledger.Occupied(ctx, 1)
    require.NoError(t, lerr)
    assert.Empty(t, occ, "seats must be released after payment failure")
    assert.Zero(t, f.reservations.count(), "reservation must be deleted after payment failure")
}

func TestConcurrentCreateSameSeatExactlyOneWins(t *testing.T) {
    f := newFixture(t, time.Minute)
    ctx := context.Background()

    var wg sync.WaitGroup
    errs := make([]error, 2)
    for i := 0; i < 2; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, _, errs[i] = f.svc.CreateReservation(ctx, 1, uint64(i+1), []string{"A1"})
        }(i)
    }
    wg.Wait()

    wins := 0
    for _, err := range errs {
        if err == nil {
            wins++
            continue
        }
        var unavailable *SeatsUnavailableError
        require.ErrorAs(t, err, &unavailable)
        assert.Equal(t, []string{"A1"}, unavailable.Taken)
    }
    assert.Equal(t, 1, wins)
    assert.Equal(t, 1, f.reservations.count())
}

func TestSlowNotifierDoesNotBlockReservation(t *testing.T) {
    f := newFixture(t, time.Minute)
    f.notifier.createdDelay = 2 * time.Second

    start := time.Now()
    _, _, err := f.svc.CreateReservation(context.Background(), 1, 42, []string{"A1"})
    require.NoError(t, err)
    assert.Less(t, time.Since(start), time.Second,
        "a slow created-event publish must not delay the reservation")
}
