package ledger

import (
    "context"
    "errors"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestSQLAcquireConflictNamesTakenSeats(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT seat_label FROM seat_assignments").
        WithArgs(uint64(1), "A1", "A2").
        WillReturnRows(sqlmock.NewRows([]string{"seat_label"}).AddRow("A2"))
    mock.ExpectRollback()

    err = NewSQL(db).Acquire(context.Background(), 1, 7, []string{"A1", "A2"})
    var conflict *ConflictError
    require.ErrorAs(t, err, &conflict)
    assert.Equal(t, []string{"A2"}, conflict.Taken)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLAcquireInsertsAllSeats(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT seat_label FROM seat_assignments").
        WithArgs(uint64(1), "A1", "A2").
        WillReturnRows(sqlmock.NewRows([]string{"seat_label"}))
    mock.ExpectExec("INSERT INTO seat_assignments").
        WithArgs(uint64(1), "A1", uint64(7), uint64(1), "A2", uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 2))
    mock.ExpectCommit()

    require.NoError(t, NewSQL(db).Acquire(context.Background(), 1, 7, []string{"A1", "A2"}))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLAcquireSurfacesRowIterationError(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    // The driver fails mid-scan.  The acquire must report that
    // failure, not a truncated conflict set and not a bare insert
    // error from the unique-key backstop.
    rows := sqlmock.NewRows([]string{"seat_label"}).
        AddRow("A1").
        RowError(0, errors.New("driver: bad connection"))
    mock.ExpectBegin()
    mock.ExpectQuery("SELECT seat_label FROM seat_assignments").
        WithArgs(uint64(1), "A1", "A2").
        WillReturnRows(rows)
    mock.ExpectRollback()

    err = NewSQL(db).Acquire(context.Background(), 1, 7, []string{"A1", "A2"})
    require.Error(t, err)
    assert.ErrorContains(t, err, "bad connection")
    var conflict *ConflictError
    assert.False(t, errors.As(err, &conflict))
}

func TestSQLReleaseIsIdempotent(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    // Deleting seats that are already free matches zero rows and
    // still succeeds.
    mock.ExpectExec("DELETE FROM seat_assignments").
        WithArgs(uint64(1), "A1").
        WillReturnResult(sqlmock.NewResult(0, 0))

    require.NoError(t, NewSQL(db).Release(context.Background(), 1, []string{"A1"}))
    assert.NoError(t, mock.ExpectationsWereMet())
}
