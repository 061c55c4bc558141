package ledger

import (
    "context"
    "errors"
    "sync"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestMemoryAcquireAndOccupied(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()

    require.NoError(t, m.Acquire(ctx, 1, 100, []string{"A1", "A2"}))

    occ, err := m.Occupied(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, []string{"A1", "A2"}, occ)

    holder, ok := m.Holder(1, "A1")
    require.True(t, ok)
    assert.Equal(t, uint64(100), holder)
}

func TestMemoryAcquireConflictNamesTakenSeats(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()

    require.NoError(t, m.Acquire(ctx, 1, 100, []string{"A1", "A3"}))

    err := m.Acquire(ctx, 1, 200, []string{"A1", "A2", "A3"})
    var conflict *ConflictError
    require.ErrorAs(t, err, &conflict)
    assert.Equal(t, []string{"A1", "A3"}, conflict.Taken)

    // The losing acquire must not have claimed A2.
    occ, err := m.Occupied(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, []string{"A1", "A3"}, occ)
}

func TestMemoryAcquireIndependentShows(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()

    require.NoError(t, m.Acquire(ctx, 1, 100, []string{"A1"}))
    require.NoError(t, m.Acquire(ctx, 2, 200, []string{"A1"}))
}

func TestMemoryAcquireDedupesRequest(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()

    // A request naming the same seat twice must not conflict with itself.
    require.NoError(t, m.Acquire(ctx, 1, 100, []string{"A1", "A1"}))

    occ, err := m.Occupied(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, []string{"A1"}, occ)
}

func TestMemoryReleaseIdempotent(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()

    require.NoError(t, m.Acquire(ctx, 1, 100, []string{"A1"}))
    require.NoError(t, m.Release(ctx, 1, []string{"A1"}))
    // Second release of the same seat and release of a never-held seat
    // are both no-ops.
    require.NoError(t, m.Release(ctx, 1, []string{"A1"}))
    require.NoError(t, m.Release(ctx, 1, []string{"Z9"}))

    occ, err := m.Occupied(ctx, 1)
    require.NoError(t, err)
    assert.Empty(t, occ)
}

func TestMemoryConcurrentOverlappingAcquires(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()

    const attempts = 64
    var wg sync.WaitGroup
    errs := make([]error, attempts)
    for i := 0; i < attempts; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            errs[i] = m.Acquire(ctx, 1, uint64(i+1), []string{"A1", "B2"})
        }(i)
    }
    wg.Wait()

    wins := 0
    for _, err := range errs {
        if err == nil {
            wins++
            continue
        }
        var conflict *ConflictError
        require.True(t, errors.As(err, &conflict))
        assert.ElementsMatch(t, []string{"A1", "B2"}, conflict.Taken)
    }
    assert.Equal(t, 1, wins, "exactly one concurrent acquire may win")

    occ, err := m.Occupied(ctx, 1)
    require.NoError(t, err)
    assert.Equal(t, []string{"A1", "B2"}, occ)
}

func TestMemoryConcurrentPartialOverlap(t *testing.T) {
    m := NewMemory()
    ctx := context.Background()

    var wg sync.WaitGroup
    var errA, errB error
    wg.Add(2)
    go func() { defer wg.Done(); errA = m.Acquire(ctx, 1, 1, []string{"A1", "A2"}) }()
    go func() { defer wg.Done(); errB = m.Acquire(ctx, 1, 2, []string{"A2", "A3"}) }()
    wg.Wait()

    if errA == nil {
        var conflict *ConflictError
        require.ErrorAs(t, errB, &conflict)
        assert.Equal(t, []string{"A2"}, conflict.Taken)
    } else {
        require.NoError(t, errB)
        var conflict *ConflictError
        require.ErrorAs(t, errA, &conflict)
        assert.Equal(t, []string{"A2"}, conflict.Taken)
    }
}
