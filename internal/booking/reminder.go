package booking

import (
    "context"
    "log"
    "time"
)

// ReminderScanner periodically looks for shows starting a fixed lead
// time from now and asks the notifier to remind every user holding a
// confirmed reservation.  Users with several reservations for the
// same show get at most one reminder per scan.  Delivery failures are
// counted per recipient and never abort the rest of the sweep.
type ReminderScanner struct {
    shows        ShowStore
    reservations ReservationStore
    notifier     Notifier

    interval time.Duration // how often a sweep runs
    lead     time.Duration // how far ahead of the show start to remind
    window   time.Duration // width of the start-time window per sweep
}

// NewReminderScanner wires a scanner.  Reference configuration: scan
// every 8 hours for shows starting 8 hours ahead, 10-minute window.
func NewReminderScanner(shows ShowStore, reservations ReservationStore, notifier Notifier, interval, lead, window time.Duration) *ReminderScanner {
    if interval <= 0 {
        interval = 8 * time.Hour
    }
    if lead <= 0 {
        lead = 8 * time.Hour
    }
    if window <= 0 {
        window = 10 * time.Minute
    }
    return &ReminderScanner{
        shows:        shows,
        reservations: reservations,
        notifier:     notifier,
        interval:     interval,
        lead:         lead,
        window:       window,
    }
}

// Run sweeps on a fixed interval until ctx is cancelled.  Intended to
// be started as a goroutine from main.
func (w *ReminderScanner) Run(ctx context.Context) {
    log.Printf("reminder: scanner starting (interval=%s lead=%s window=%s)", w.interval, w.lead, w.window)
    ticker := time.NewTicker(w.interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            log.Printf("reminder: scanner shutting down")
            return
        case <-ticker.C:
            sent, failed := w.Scan(ctx)
            if sent > 0 || failed > 0 {
                log.Printf("reminder: scan done, sent=%d failed=%d", sent, failed)
            }
        }
    }
}

// Scan performs one sweep and returns the per-recipient sent/failed
// counts.
func (w *ReminderScanner) Scan(ctx context.Context) (sent, failed int) {
    from := time.Now().UTC().Add(w.lead)
    to := from.Add(w.window)
    shows, err := w.shows.StartingBetween(ctx, from, to)
    if err != nil {
        log.Printf("reminder: list upcoming shows: %v", err)
        return 0, 0
    }
    for i := range shows {
        show := &shows[i]
        userIDs, err := w.reservations.ConfirmedUserIDs(ctx, show.ID)
        if err != nil {
            log.Printf("reminder: confirmed users for show %d: %v", show.ID, err)
            continue
        }
        // ConfirmedUserIDs is distinct per show, but guard against a
        // store that is not.
        seen := make(map[uint64]struct{}, len(userIDs))
        for _, uid := range userIDs {
            if _, dup := seen[uid]; dup {
                continue
            }
            seen[uid] = struct{}{}
            if err := w.notifier.ShowReminder(ctx, uid, show); err != nil {
                log.Printf("reminder: notify user %d about show %d: %v", uid, show.ID, err)
                failed++
                continue
            }
            sent++
        }
    }
    return sent, failed
}
