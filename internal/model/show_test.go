package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatLabelRoundTrip(t *testing.T) {
	cases := []struct {
		rowIdx  int
		seatNum uint32
		label   string
	}{
		{0, 1, "A1"},
		{1, 12, "B12"},
		{25, 4, "Z4"},
		{26, 1, "AA1"},
		{27, 30, "AB30"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.label, SeatLabel(tc.rowIdx, tc.seatNum))

		row, num, ok := SplitSeatLabel(tc.label)
		assert.True(t, ok, tc.label)
		assert.Equal(t, tc.seatNum, num)
		idx, ok := rowLabelToIndex(row)
		assert.True(t, ok)
		assert.Equal(t, tc.rowIdx, idx)
	}
}

func TestNormalizeSeatLabel(t *testing.T) {
	assert.Equal(t, "A1", NormalizeSeatLabel("a1"))
	assert.Equal(t, "AB14", NormalizeSeatLabel("ab14"))
	assert.Equal(t, "B7", NormalizeSeatLabel("B07"))

	for _, bad := range []string{"", "A", "7", "A0", "1A", "A-1", "A1x"} {
		assert.Empty(t, NormalizeSeatLabel(bad), bad)
	}
}

func TestSplitSeatLabelRejectsOverlongNumbers(t *testing.T) {
	// A digit run past nine characters would wrap the uint32
	// accumulator; "A4294967297" must not alias "A1".
	for _, bad := range []string{"A4294967297", "A1000000000", "B99999999999"} {
		_, _, ok := SplitSeatLabel(bad)
		assert.False(t, ok, bad)
		assert.Empty(t, NormalizeSeatLabel(bad), bad)
	}

	row, num, ok := SplitSeatLabel("A999999999")
	assert.True(t, ok)
	assert.Equal(t, "A", row)
	assert.Equal(t, uint32(999999999), num)
}

func TestShowHasSeat(t *testing.T) {
	s := &Show{Rows: 2, SeatsPerRow: 10}

	assert.True(t, s.HasSeat("A1"))
	assert.True(t, s.HasSeat("b10"))

	assert.False(t, s.HasSeat("C1"), "row beyond hall")
	assert.False(t, s.HasSeat("A11"), "seat beyond row")
	assert.False(t, s.HasSeat("A0"))
	assert.False(t, s.HasSeat("nope"))

	assert.Equal(t, uint32(20), s.SeatCount())
}
