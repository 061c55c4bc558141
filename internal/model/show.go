package model

import (
    "fmt"
    "time"
)

// Show represents a scheduled screening whose seats can be reserved.
// Seats are addressed by label ("A1", "B12") derived from the hall
// geometry stored on the show itself: Rows rows of SeatsPerRow seats
// each.  The seat-to-reservation map for a show is owned by the
// ledger package and is never mutated through this struct.
//
// Fields:
//  ID             – primary key identifier.
//  OwnerID        – user who created the show.
//  Title          – movie title or an external reference.
//  StartsAt       – when the show begins.
//  EndsAt         – when the show ends (must be after StartsAt).
//  Rows           – number of seat rows in the hall.
//  SeatsPerRow    – seats per row.
//  BasePriceCents – price in cents charged per seat.
//  Status         – current state of the show (SCHEDULED, CANCELLED,
//                   FINISHED).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Show struct {
    ID             uint64    // shows.id
    OwnerID        uint64    // shows.owner_id
    Title          string    // shows.title
    StartsAt       time.Time // shows.starts_at
    EndsAt         time.Time // shows.ends_at
    Rows           uint32    // shows.seat_rows
    SeatsPerRow    uint32    // shows.seats_per_row
    BasePriceCents uint32    // shows.base_price_cents
    Status         string    // shows.status
    CreatedAt      time.Time // shows.created_at
    UpdatedAt      time.Time // shows.updated_at
}

// HasSeat reports whether label addresses a seat that exists in this
// show's hall.  Labels are a row letter sequence followed by a
// 1-based seat number, e.g. "A1" or "AB14".
func (s *Show) HasSeat(label string) bool {
    row, num, ok := SplitSeatLabel(label)
    if !ok {
        return false
    }
    idx, ok := rowLabelToIndex(row)
    if !ok {
        return false
    }
    return idx < int(s.Rows) && num >= 1 && num <= s.SeatsPerRow
}

// SeatCount returns the total number of seats in the show's hall.
func (s *Show) SeatCount() uint32 { return s.Rows * s.SeatsPerRow }

// SeatLabel builds the canonical label for the seat at the given
// zero-based row index and 1-based seat number.
func SeatLabel(rowIdx int, seatNum uint32) string {
    return fmt.Sprintf("%s%d", indexToRowLabel(rowIdx), seatNum)
}

// SplitSeatLabel separates a seat label into its row letters and seat
// number.  Lower-case row letters are accepted and upper-cased.  It
// returns false when the label is malformed (missing row, missing
// number, or stray characters).
func SplitSeatLabel(label string) (row string, num uint32, ok bool) {
    i := 0
    for i < len(label) {
        ch := label[i]
        if ch >= 'a' && ch <= 'z' {
            ch -= 32
        }
        if ch < 'A' || ch > 'Z' {
            break
        }
        row += string(ch)
        i++
    }
    if row == "" || i == len(label) {
        return "", 0, false
    }
    n := uint32(0)
    digits := 0
    for ; i < len(label); i++ {
        ch := label[i]
        if ch < '0' || ch > '9' {
            return "", 0, false
        }
        // Nine digits keep the accumulator below uint32 wraparound, so
        // an absurd run like "A4294967297" cannot alias a real seat.
        digits++
        if digits > 9 {
            return "", 0, false
        }
        n = n*10 + uint32(ch-'0')
    }
    if n == 0 {
        return "", 0, false
    }
    return row, n, true
}

// NormalizeSeatLabel returns the canonical form of a seat label
// (upper-case row letters, no leading zeros on the number) or an
// empty string when the label is malformed.
func NormalizeSeatLabel(raw string) string {
    row, num, ok := SplitSeatLabel(raw)
    if !ok {
        return ""
    }
    return fmt.Sprintf("%s%d", row, num)
}

// indexToRowLabel converts a zero-based index to an alphabetical row
// label like A, B, AA.
func indexToRowLabel(i int) string {
    if i < 0 {
        return ""
    }
    res := []rune{}
    for {
        rem := i % 26
        res = append(res, rune('A'+rem))
        i = i/26 - 1
        if i < 0 {
            break
        }
    }
    for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
        res[j], res[k] = res[k], res[j]
    }
    return string(res)
}

// rowLabelToIndex converts a row label like A or AA into its
// zero-based index.  The label must already be upper case.
func rowLabelToIndex(label string) (int, bool) {
    if label == "" {
        return -1, false
    }
    n := 0
    for i := 0; i < len(label); i++ {
        ch := label[i]
        if ch < 'A' || ch > 'Z' {
            return -1, false
        }
        n = n*26 + int(ch-'A'+1)
    }
    return n - 1, true
}
