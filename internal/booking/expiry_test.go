package booking

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestExpiryReleasesUnconfirmedReservation(t *testing.T) {
    f := newFixture(t, 40*time.Millisecond)
    ctx := context.Background()

    res, _, err := f.svc.CreateReservation(ctx, 1, 42, []string{"A1", "A2"})
    require.NoError(t, err)

    require.Eventually(t, func() bool {
        occ, err := f.ledger.Occupied(ctx, 1)
        return err == nil && len(occ) == 0
    }, time.Second, 5*time.Millisecond, "seats must be released after the hold timeout")

    _, err = f.reservations.GetByID(ctx, res.ID)
    assert.ErrorIs(t, err, ErrReservationNotFound)
    assert.Equal(t, 1, f.reservations.deleteCount(), "record removed exactly once")
    assert.False(t, f.expiry.Pending(res.ID))
}

func TestConfirmationBeforeTimeoutPreventsRelease(t *testing.T) {
    f := newFixture(t, 60*time.Millisecond)
    ctx := context.Background()

    res, _, err := f.svc.CreateReservation(ctx, 1, 42, []string{"A1"})
    require.NoError(t, err)

    require.NoError(t, f.svc.OnConfirmed(ctx, res.ID))
    assert.False(t, f.expiry.Pending(res.ID), "confirmation cancels the pending expiry")

    // Well past the hold timeout the seat must still be held and the
    // reservation must still exist, confirmed.
    time.Sleep(150 * time.Millisecond)
    occ, err := f.ledger.Occupied(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, []string{"A1"}, occ)

    stored, err := f.reservations.GetByID(ctx, res.ID)
    require.NoError(t, err)
    assert.True(t, stored.Confirmed)
}

func TestExpireRecheckSkipsConfirmedReservation(t *testing.T) {
    // Simulate the race where the timer fires after the confirmation
    // write landed but before the cancellation was processed: the
    // fire-time re-check must refuse to release the seats.
    f := newFixture(t, time.Minute)
    ctx := context.Background()

    res, _, err := f.svc.CreateReservation(ctx, 1, 42, []string{"A1"})
    require.NoError(t, err)

    ok, err := f.reservations.MarkConfirmed(ctx, res.ID)
    require.NoError(t, err)
    require.True(t, ok)

    f.svc.expire(res.ID) // fire despite the flag being set

    occ, err := f.ledger.Occupied(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, []string{"A1"}, occ, "confirmed hold must never be released")
    _, err = f.reservations.GetByID(ctx, res.ID)
    assert.NoError(t, err)
}

func TestExpireMissingReservationIsNoop(t *testing.T) {
    f := newFixture(t, time.Minute)
    f.svc.expire(12345) // nothing to do, nothing to panic about
    assert.Zero(t, f.reservations.deleteCount())
}

func TestDuplicateConfirmationIsIdempotent(t *testing.T) {
    f := newFixture(t, time.Minute)
    ctx := context.Background()

    res, _, err := f.svc.CreateReservation(ctx, 1, 42, []string{"A1"})
    require.NoError(t, err)

    require.NoError(t, f.svc.OnConfirmed(ctx, res.ID))
    require.NoError(t, f.svc.OnConfirmed(ctx, res.ID))

    stored, err := f.reservations.GetByID(ctx, res.ID)
    require.NoError(t, err)
    assert.True(t, stored.Confirmed)
}

func TestLateConfirmationAfterExpiryIsBenign(t *testing.T) {
    f := newFixture(t, 30*time.Millisecond)
    ctx := context.Background()

    res, _, err := f.svc.CreateReservation(ctx, 1, 42, []string{"A1"})
    require.NoError(t, err)

    require.Eventually(t, func() bool {
        return f.reservations.count() == 0
    }, time.Second, 5*time.Millisecond)

    // The at-least-once signal arrives after the hold expired.
    require.NoError(t, f.svc.OnConfirmed(ctx, res.ID))
    occ, err := f.ledger.Occupied(ctx, 1)
    require.NoError(t, err)
    assert.Empty(t, occ)
}

func TestExpiryRegistryCancelAndReschedule(t *testing.T) {
    r := NewExpiryRegistry()
    defer r.StopAll()

    fired := make(chan uint64, 2)
    r.Schedule(7, 30*time.Millisecond, func(id uint64) { fired <- id })
    require.True(t, r.Pending(7))
    require.True(t, r.Cancel(7))
    require.False(t, r.Pending(7))

    select {
    case <-fired:
        t.Fatal("cancelled timer must not fire")
    case <-time.After(80 * time.Millisecond):
    }

    // Scheduling twice keeps a single timer; only the second fires.
    r.Schedule(7, time.Hour, func(id uint64) { fired <- 100 })
    r.Schedule(7, 20*time.Millisecond, func(id uint64) { fired <- id })
    select {
    case id := <-fired:
        assert.Equal(t, uint64(7), id)
    case <-time.After(time.Second):
        t.Fatal("rescheduled timer did not fire")
    }
    assert.False(t, r.Pending(7))
    assert.False(t, r.Cancel(7), "cancel after fire reports false")
}
