package repository

import (
    "context"
    "database/sql"
    "errors"
    "sort"

    "github.com/iliyamo/show-booking/internal/booking"
    "github.com/iliyamo/show-booking/internal/model"
)

// ReservationRepo persists reservations and their seats.  A
// reservation row carries the confirmation flag; its seats live in
// reservation_seats with one row per label, deleted by cascade.
// It implements booking.ReservationStore.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given
// database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts the reservation and its seat rows in one
// transaction and populates the generated ID and timestamps.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    result, err := tx.ExecContext(ctx,
        `INSERT INTO reservations (user_id, show_id, amount_cents, confirmed) VALUES (?, ?, ?, 0)`,
        res.UserID, res.ShowID, res.AmountCents,
    )
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)

    if len(res.SeatLabels) > 0 {
        q := `INSERT INTO reservation_seats (reservation_id, show_id, seat_label) VALUES `
        args := make([]interface{}, 0, len(res.SeatLabels)*3)
        for i, lbl := range res.SeatLabels {
            if i > 0 {
                q += ","
            }
            q += "(?, ?, ?)"
            args = append(args, res.ID, res.ShowID, lbl)
        }
        if _, err := tx.ExecContext(ctx, q, args...); err != nil {
            return err
        }
    }

    if err := tx.QueryRowContext(ctx,
        `SELECT created_at, updated_at FROM reservations WHERE id = ?`, res.ID,
    ).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID loads a reservation with its seat labels, or
// booking.ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    var res model.Reservation
    var payRef sql.NullString
    err := r.db.QueryRowContext(ctx,
        `SELECT id, user_id, show_id, amount_cents, confirmed, payment_ref, created_at, updated_at
         FROM reservations WHERE id = ?`, id,
    ).Scan(&res.ID, &res.UserID, &res.ShowID, &res.AmountCents, &res.Confirmed,
        &payRef, &res.CreatedAt, &res.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrReservationNotFound
    }
    if err != nil {
        return nil, err
    }
    if payRef.Valid {
        ref := payRef.String
        res.PaymentRef = &ref
    }
    labels, err := r.seatLabels(ctx, id)
    if err != nil {
        return nil, err
    }
    res.SeatLabels = labels
    return &res, nil
}

func (r *ReservationRepo) seatLabels(ctx context.Context, reservationID uint64) ([]string, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT seat_label FROM reservation_seats WHERE reservation_id = ?`, reservationID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var labels []string
    for rows.Next() {
        var lbl string
        if err := rows.Scan(&lbl); err != nil {
            return nil, err
        }
        labels = append(labels, lbl)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    sort.Strings(labels)
    return labels, nil
}

// MarkConfirmed flips the confirmed flag with a conditional update so
// the transition happens at most once even under duplicate signals.
// It returns false when the flag was already set and
// booking.ErrReservationNotFound when the row is gone.
func (r *ReservationRepo) MarkConfirmed(ctx context.Context, id uint64) (bool, error) {
    result, err := r.db.ExecContext(ctx,
        `UPDATE reservations SET confirmed = 1 WHERE id = ? AND confirmed = 0`, id)
    if err != nil {
        return false, err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return false, err
    }
    if n > 0 {
        return true, nil
    }
    // Nothing updated: either already confirmed or deleted meanwhile.
    var exists int
    err = r.db.QueryRowContext(ctx,
        `SELECT 1 FROM reservations WHERE id = ?`, id).Scan(&exists)
    if errors.Is(err, sql.ErrNoRows) {
        return false, booking.ErrReservationNotFound
    }
    return false, err
}

// SetPaymentRef stores the external payment-session reference.
func (r *ReservationRepo) SetPaymentRef(ctx context.Context, id uint64, ref string) error {
    result, err := r.db.ExecContext(ctx,
        `UPDATE reservations SET payment_ref = ? WHERE id = ?`, ref, id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return booking.ErrReservationNotFound
    }
    return nil
}

// Delete removes the reservation; reservation_seats rows cascade.
// Deleting an absent reservation is a no-op.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
    return err
}

// ListByUser returns the user's reservations, newest first, each
// populated with its seat labels.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, user_id, show_id, amount_cents, confirmed, payment_ref, created_at, updated_at
         FROM reservations WHERE user_id = ? ORDER BY created_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    index := make(map[uint64]int)
    for rows.Next() {
        var res model.Reservation
        var payRef sql.NullString
        if err := rows.Scan(&res.ID, &res.UserID, &res.ShowID, &res.AmountCents, &res.Confirmed,
            &payRef, &res.CreatedAt, &res.UpdatedAt); err != nil {
            return nil, err
        }
        if payRef.Valid {
            ref := payRef.String
            res.PaymentRef = &ref
        }
        index[res.ID] = len(out)
        out = append(out, res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(out) == 0 {
        return out, nil
    }
    // Populate seats for all reservations in a single query.
    ids := make([]interface{}, 0, len(out))
    q := `SELECT reservation_id, seat_label FROM reservation_seats WHERE reservation_id IN (`
    for i, res := range out {
        if i > 0 {
            q += ","
        }
        q += "?"
        ids = append(ids, res.ID)
    }
    q += `) ORDER BY reservation_id, seat_label`
    srows, err := r.db.QueryContext(ctx, q, ids...)
    if err != nil {
        return nil, err
    }
    defer srows.Close()
    for srows.Next() {
        var rid uint64
        var lbl string
        if err := srows.Scan(&rid, &lbl); err != nil {
            return nil, err
        }
        if idx, ok := index[rid]; ok {
            out[idx].SeatLabels = append(out[idx].SeatLabels, lbl)
        }
    }
    return out, srows.Err()
}

// ConfirmedUserIDs returns the distinct users holding a confirmed
// reservation for the show.  Feeds the reminder scanner's dedup.
func (r *ReservationRepo) ConfirmedUserIDs(ctx context.Context, showID uint64) ([]uint64, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT DISTINCT user_id FROM reservations WHERE show_id = ? AND confirmed = 1`, showID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []uint64
    for rows.Next() {
        var uid uint64
        if err := rows.Scan(&uid); err != nil {
            return nil, err
        }
        out = append(out, uid)
    }
    return out, rows.Err()
}
