package ledger

import (
    "context"
    "database/sql"
    "sort"
    "strings"
)

// SQL is the MySQL-backed SeatLedger.  Seat assignments live in the
// seat_assignments table with a unique key on (show_id, seat_label).
// Acquire runs a SELECT ... FOR UPDATE over the requested labels
// inside a transaction before inserting, so two concurrent acquires
// for overlapping seats serialize on the row locks and the loser sees
// the winner's rows.  The unique key is the backstop should the
// isolation level ever be weakened.
type SQL struct {
    db *sql.DB
}

// NewSQL returns a SeatLedger bound to the given database.
func NewSQL(db *sql.DB) *SQL { return &SQL{db: db} }

// Acquire claims all of seatLabels for reservationID in a single
// transaction, or none of them.
func (l *SQL) Acquire(ctx context.Context, showID, reservationID uint64, seatLabels []string) error {
    labels := dedupe(seatLabels)
    if len(labels) == 0 {
        return nil
    }
    tx, err := l.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Lock any existing rows for the requested seats.  Gap locks on
    // the unique index also block a concurrent insert of the same
    // labels until this transaction finishes.
    placeholders := make([]string, 0, len(labels))
    args := make([]interface{}, 0, len(labels)+1)
    args = append(args, showID)
    for _, lbl := range labels {
        placeholders = append(placeholders, "?")
        args = append(args, lbl)
    }
    q := `SELECT seat_label FROM seat_assignments
          WHERE show_id = ? AND seat_label IN (` + strings.Join(placeholders, ",") + `) FOR UPDATE`
    rows, err := tx.QueryContext(ctx, q, args...)
    if err != nil {
        return err
    }
    held := make(map[string]struct{})
    for rows.Next() {
        var lbl string
        if scanErr := rows.Scan(&lbl); scanErr != nil {
            rows.Close()
            return scanErr
        }
        held[lbl] = struct{}{}
    }
    // A mid-iteration failure would truncate held and turn a real
    // conflict into a unique-key insert error downstream.
    if err = rows.Err(); err != nil {
        rows.Close()
        return err
    }
    if err = rows.Close(); err != nil {
        return err
    }
    if len(held) > 0 {
        taken := make([]string, 0, len(held))
        for _, lbl := range labels {
            if _, ok := held[lbl]; ok {
                taken = append(taken, lbl)
            }
        }
        return &ConflictError{ShowID: showID, Taken: taken}
    }

    ins := `INSERT INTO seat_assignments (show_id, seat_label, reservation_id) VALUES `
    insArgs := make([]interface{}, 0, len(labels)*3)
    for i, lbl := range labels {
        if i > 0 {
            ins += ","
        }
        ins += "(?, ?, ?)"
        insArgs = append(insArgs, showID, lbl, reservationID)
    }
    if _, err := tx.ExecContext(ctx, ins, insArgs...); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Release deletes the assignment rows for the given seats.  Rows that
// do not exist are simply not matched, keeping Release idempotent.
func (l *SQL) Release(ctx context.Context, showID uint64, seatLabels []string) error {
    labels := dedupe(seatLabels)
    if len(labels) == 0 {
        return nil
    }
    placeholders := make([]string, 0, len(labels))
    args := make([]interface{}, 0, len(labels)+1)
    args = append(args, showID)
    for _, lbl := range labels {
        placeholders = append(placeholders, "?")
        args = append(args, lbl)
    }
    q := `DELETE FROM seat_assignments
          WHERE show_id = ? AND seat_label IN (` + strings.Join(placeholders, ",") + `)`
    _, err := l.db.ExecContext(ctx, q, args...)
    return err
}

// Occupied returns the labels of all assigned seats for a show,
// sorted for deterministic output.
func (l *SQL) Occupied(ctx context.Context, showID uint64) ([]string, error) {
    rows, err := l.db.QueryContext(ctx,
        `SELECT seat_label FROM seat_assignments WHERE show_id = ?`, showID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]string, 0)
    for rows.Next() {
        var lbl string
        if err := rows.Scan(&lbl); err != nil {
            return nil, err
        }
        out = append(out, lbl)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    sort.Strings(out)
    return out, nil
}
