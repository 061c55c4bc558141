package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/show-booking/internal/booking"
    "github.com/iliyamo/show-booking/internal/model"
)

// ShowRepo provides CRUD access to the shows table.  It implements
// booking.ShowStore; timestamps are stored and compared in UTC.
type ShowRepo struct {
    db *sql.DB
}

// NewShowRepo returns a ShowRepo bound to the given database.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

const showColumns = `id, owner_id, title, starts_at, ends_at, seat_rows, seats_per_row,
                     base_price_cents, status, created_at, updated_at`

func scanShow(row interface{ Scan(...interface{}) error }) (*model.Show, error) {
    var s model.Show
    err := row.Scan(
        &s.ID, &s.OwnerID, &s.Title, &s.StartsAt, &s.EndsAt, &s.Rows, &s.SeatsPerRow,
        &s.BasePriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// Create inserts a new show and populates its generated ID and
// timestamps on the passed struct.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
    const q = `INSERT INTO shows (owner_id, title, starts_at, ends_at, seat_rows, seats_per_row, base_price_cents, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        s.OwnerID, s.Title, s.StartsAt.UTC(), s.EndsAt.UTC(), s.Rows, s.SeatsPerRow,
        s.BasePriceCents, s.Status,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    // Query back to populate DB-side defaults.
    created, err := r.GetByID(ctx, s.ID)
    if err != nil {
        return err
    }
    *s = *created
    return nil
}

// GetByID returns the show, or booking.ErrShowNotFound when absent.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
    row := r.db.QueryRowContext(ctx, `SELECT `+showColumns+` FROM shows WHERE id = ?`, id)
    s, err := scanShow(row)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrShowNotFound
    }
    return s, err
}

// StartingBetween returns scheduled shows whose start time falls in
// [from, to), ordered by start time.  Used by the reminder scanner.
func (r *ShowRepo) StartingBetween(ctx context.Context, from, to time.Time) ([]model.Show, error) {
    const q = `SELECT ` + showColumns + ` FROM shows
               WHERE status = 'SCHEDULED' AND starts_at >= ? AND starts_at < ?
               ORDER BY starts_at`
    rows, err := r.db.QueryContext(ctx, q, from.UTC(), to.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Show
    for rows.Next() {
        s, err := scanShow(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *s)
    }
    return out, rows.Err()
}

// ListUpcoming returns scheduled shows that have not started yet,
// soonest first.  Serves the public browse endpoint.
func (r *ShowRepo) ListUpcoming(ctx context.Context, limit int) ([]model.Show, error) {
    if limit <= 0 || limit > 200 {
        limit = 50
    }
    const q = `SELECT ` + showColumns + ` FROM shows
               WHERE status = 'SCHEDULED' AND starts_at > UTC_TIMESTAMP()
               ORDER BY starts_at LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Show, 0, limit)
    for rows.Next() {
        s, err := scanShow(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *s)
    }
    return out, rows.Err()
}
