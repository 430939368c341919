package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/shift"
)

func st(name, start, end string) shift.ShiftTime {
	return shift.ShiftTime{ID: name, Name: name, StartTime: start, EndTime: end}
}

func TestDoShiftsOverlap_Basic(t *testing.T) {
	morning := st("morning", "08:00", "12:00")
	midday := st("midday", "11:00", "15:00")
	afternoon := st("afternoon", "13:00", "17:00")

	assert.True(t, DoShiftsOverlap(morning, midday))
	assert.False(t, DoShiftsOverlap(morning, afternoon))
}

func TestDoShiftsOverlap_AdjacencyIsNotOverlap(t *testing.T) {
	a := st("a", "08:00", "12:00")
	b := st("b", "12:00", "16:00")

	assert.False(t, DoShiftsOverlap(a, b))
	assert.False(t, DoShiftsOverlap(b, a))
}

func TestDoShiftsOverlap_Symmetry(t *testing.T) {
	cases := [][2]shift.ShiftTime{
		{st("a", "08:00", "12:00"), st("b", "11:00", "15:00")},
		{st("a", "08:00", "12:00"), st("b", "13:00", "17:00")},
		{st("night", "22:00", "06:00"), st("early", "05:00", "09:00")},
		{st("night", "22:00", "06:00"), st("day", "09:00", "17:00")},
		{st("n1", "22:00", "06:00"), st("n2", "23:00", "07:00")},
		{st("a", "08:00", "08:00"), st("b", "08:00", "12:00")},
	}
	for _, c := range cases {
		assert.Equal(t, DoShiftsOverlap(c[0], c[1]), DoShiftsOverlap(c[1], c[0]),
			"overlap must be symmetric for %s vs %s", c[0].Name, c[1].Name)
	}
}

func TestDoShiftsOverlap_Overnight(t *testing.T) {
	night := st("night", "22:00", "06:00")

	// Both reference the 05:00-06:00 window.
	assert.True(t, DoShiftsOverlap(night, st("early", "05:00", "09:00")))
	// Today's tail.
	assert.True(t, DoShiftsOverlap(night, st("evening", "21:00", "23:00")))
	// Fully inside the gap.
	assert.False(t, DoShiftsOverlap(night, st("day", "09:00", "17:00")))
	// Back-to-back with the overnight end.
	assert.False(t, DoShiftsOverlap(night, st("morning", "06:00", "14:00")))

	// Two overnight shifts always share a window around midnight.
	assert.True(t, DoShiftsOverlap(night, st("other", "23:00", "07:00")))
}

func TestDoShiftsOverlap_MalformedTimes(t *testing.T) {
	bad := st("bad", "9am", "5pm")
	good := st("good", "08:00", "17:00")

	assert.False(t, DoShiftsOverlap(bad, good))
	assert.False(t, DoShiftsOverlap(good, bad))
	assert.Nil(t, GetOverlapRange(bad, good))
}

func TestGetOverlapRange(t *testing.T) {
	rng := GetOverlapRange(st("a", "08:00", "12:00"), st("b", "11:00", "15:00"))
	require.NotNil(t, rng)
	assert.Equal(t, "11:00", rng.Start)
	assert.Equal(t, "12:00", rng.End)

	assert.Nil(t, GetOverlapRange(st("a", "08:00", "12:00"), st("b", "13:00", "17:00")))
}

func TestGetOverlapRange_OvernightFirstSubrange(t *testing.T) {
	// Overlaps both around midnight (23:00-24:00) and in the morning head
	// (00:00-06:00); the earliest window by clock start wins.
	rng := GetOverlapRange(st("n1", "22:00", "06:00"), st("n2", "23:00", "07:00"))
	require.NotNil(t, rng)
	assert.Equal(t, "00:00", rng.Start)
	assert.Equal(t, "06:00", rng.End)

	// Overnight vs plain morning shift: the only window is 05:00-06:00.
	rng = GetOverlapRange(st("night", "22:00", "06:00"), st("early", "05:00", "09:00"))
	require.NotNil(t, rng)
	assert.Equal(t, "05:00", rng.Start)
	assert.Equal(t, "06:00", rng.End)
}

func TestGetOverlappingShiftIDs(t *testing.T) {
	target := st("target", "08:00", "12:00")
	others := []shift.ShiftTime{
		st("hit", "11:00", "15:00"),
		st("miss", "13:00", "17:00"),
		{Name: "no-id", StartTime: "09:00", EndTime: "10:00"}, // overlaps but has no ID
	}

	ids := GetOverlappingShiftIDs(target, others)
	assert.Equal(t, []string{"hit"}, ids)
}

func TestFindOverlapConflicts(t *testing.T) {
	result := FindOverlapConflicts([]shift.ShiftTime{
		st("a", "08:00", "12:00"),
		st("b", "11:00", "15:00"),
		st("c", "15:00", "19:00"),
	})

	require.True(t, result.HasConflicts)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "a", result.Conflicts[0].Shift1.Name)
	assert.Equal(t, "b", result.Conflicts[0].Shift2.Name)
	require.NotNil(t, result.Conflicts[0].OverlapRange)
	assert.Equal(t, "11:00", result.Conflicts[0].OverlapRange.Start)

	clean := FindOverlapConflicts([]shift.ShiftTime{
		st("a", "08:00", "12:00"),
		st("c", "15:00", "19:00"),
	})
	assert.False(t, clean.HasConflicts)
	assert.Empty(t, clean.Conflicts)
}

func TestValidateShiftsByDate(t *testing.T) {
	entries := []shift.DateShiftEntry{
		{Date: "2025-03-10", Shift: st("morning", "08:00", "12:00")},
		{Date: "2025-03-10", Shift: st("midday", "11:00", "15:00")},
		{Date: "2025-03-11", Shift: st("morning", "08:00", "12:00")},
		{Date: "2025-03-11", Shift: st("afternoon", "13:00", "17:00")},
	}

	result := ValidateShiftsByDate(entries)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "2025-03-10", result.Errors[0].Date)
	assert.Equal(t, "morning", result.Errors[0].Shift1Name)
	assert.Equal(t, "midday", result.Errors[0].Shift2Name)
	assert.Contains(t, result.Errors[0].Message, "overlaps")

	// The same shifts on different dates never conflict with each other.
	spread := ValidateShiftsByDate([]shift.DateShiftEntry{
		{Date: "2025-03-10", Shift: st("morning", "08:00", "12:00")},
		{Date: "2025-03-11", Shift: st("midday", "11:00", "15:00")},
	})
	assert.True(t, spread.IsValid)
	assert.Empty(t, spread.Errors)
}

func TestFormatOverlapError(t *testing.T) {
	msg := FormatOverlapError("morning", "midday", &shift.OverlapRange{Start: "11:00", End: "12:00"})
	assert.Equal(t, `shift "morning" overlaps with shift "midday" between 11:00 and 12:00`, msg)

	msg = FormatOverlapError("morning", "midday", nil)
	assert.Equal(t, `shift "morning" overlaps with shift "midday"`, msg)
}
