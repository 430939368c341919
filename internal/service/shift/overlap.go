package shift

import (
	"fmt"

	"github.com/workpay-hq/payroll-engine-go/internal/domain/shift"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/timeutil"
)

// The overlap detector is state-free. A shift whose times cannot be parsed is
// treated as overlapping nothing; format validation belongs to the data-access
// boundary, not here.

// span is a half-open minute interval [start, end) on a 24h clock.
type span struct {
	start int
	end   int
}

func (a span) overlaps(b span) bool {
	// Half-open rule: equal boundaries are adjacency, not overlap.
	return a.start < b.end && a.end > b.start
}

// subRanges decomposes a shift into its same-day sub-ranges. An overnight
// shift contributes today's tail [start, 1440) and tomorrow's head [0, end);
// any other shift is a single range.
func subRanges(startMin, endMin int) []span {
	if timeutil.IsOvernight(startMin, endMin) {
		return []span{
			{start: startMin, end: timeutil.MinutesPerDay},
			{start: 0, end: endMin},
		}
	}
	return []span{{start: startMin, end: endMin}}
}

// classifyPair returns the overnight combination formed by two shifts.
func classifyPair(aStart, aEnd, bStart, bEnd int) shift.PairKind {
	aOvernight := timeutil.IsOvernight(aStart, aEnd)
	bOvernight := timeutil.IsOvernight(bStart, bEnd)
	switch {
	case aOvernight && bOvernight:
		return shift.PairBothOvernight
	case aOvernight || bOvernight:
		return shift.PairOneOvernight
	default:
		return shift.PairNonOvernight
	}
}

func parsePair(a, b shift.ShiftTime) (aStart, aEnd, bStart, bEnd int, ok bool) {
	var err error
	if aStart, err = timeutil.ParseTimeToMinutes(a.StartTime); err != nil {
		return 0, 0, 0, 0, false
	}
	if aEnd, err = timeutil.ParseTimeToMinutes(a.EndTime); err != nil {
		return 0, 0, 0, 0, false
	}
	if bStart, err = timeutil.ParseTimeToMinutes(b.StartTime); err != nil {
		return 0, 0, 0, 0, false
	}
	if bEnd, err = timeutil.ParseTimeToMinutes(b.EndTime); err != nil {
		return 0, 0, 0, 0, false
	}
	return aStart, aEnd, bStart, bEnd, true
}

// DoShiftsOverlap reports whether two shifts intersect on the clock. Overnight
// shifts are checked against both today's tail and tomorrow's head without
// assuming a fixed reference day.
func DoShiftsOverlap(a, b shift.ShiftTime) bool {
	aStart, aEnd, bStart, bEnd, ok := parsePair(a, b)
	if !ok {
		return false
	}

	switch classifyPair(aStart, aEnd, bStart, bEnd) {
	case shift.PairNonOvernight:
		return span{aStart, aEnd}.overlaps(span{bStart, bEnd})
	default:
		// One or both overnight: test every sub-range combination.
		for _, sa := range subRanges(aStart, aEnd) {
			for _, sb := range subRanges(bStart, bEnd) {
				if sa.overlaps(sb) {
					return true
				}
			}
		}
		return false
	}
}

// GetOverlapRange returns the intersection of two shifts, or nil when they do
// not overlap. When overnight shifts are involved the pair may intersect in
// more than one clock window; this returns the earliest overlapping sub-range
// by clock start.
func GetOverlapRange(a, b shift.ShiftTime) *shift.OverlapRange {
	aStart, aEnd, bStart, bEnd, ok := parsePair(a, b)
	if !ok {
		return nil
	}

	var best *span
	for _, sa := range subRanges(aStart, aEnd) {
		for _, sb := range subRanges(bStart, bEnd) {
			if !sa.overlaps(sb) {
				continue
			}
			inter := span{start: max(sa.start, sb.start), end: min(sa.end, sb.end)}
			if best == nil || inter.start < best.start {
				best = &inter
			}
		}
	}
	if best == nil {
		return nil
	}

	return &shift.OverlapRange{
		Start: timeutil.FormatMinutes(best.start),
		End:   timeutil.FormatMinutes(best.end),
	}
}

// GetOverlappingShiftIDs filters others down to the IDs of shifts that
// overlap the target. Shifts without an ID are skipped.
func GetOverlappingShiftIDs(target shift.ShiftTime, others []shift.ShiftTime) []string {
	var ids []string
	for _, other := range others {
		if other.ID == "" {
			continue
		}
		if DoShiftsOverlap(target, other) {
			ids = append(ids, other.ID)
		}
	}
	return ids
}

// FindOverlapConflicts runs an all-pairs scan (i<j) over the list and collects
// every overlapping pair. Intended for small per-day shift counts.
func FindOverlapConflicts(shifts []shift.ShiftTime) shift.ConflictResult {
	var conflicts []shift.Conflict
	for i := 0; i < len(shifts); i++ {
		for j := i + 1; j < len(shifts); j++ {
			if !DoShiftsOverlap(shifts[i], shifts[j]) {
				continue
			}
			conflicts = append(conflicts, shift.Conflict{
				Shift1:       shifts[i],
				Shift2:       shifts[j],
				OverlapRange: GetOverlapRange(shifts[i], shifts[j]),
			})
		}
	}
	return shift.ConflictResult{
		HasConflicts: len(conflicts) > 0,
		Conflicts:    conflicts,
	}
}

// ValidateShiftsByDate groups entries by date preserving first-seen order,
// scans each group for conflicts and flattens them into display-ready errors.
func ValidateShiftsByDate(entries []shift.DateShiftEntry) shift.ValidationResult {
	var dates []string
	grouped := make(map[string][]shift.ShiftTime)
	for _, e := range entries {
		if _, seen := grouped[e.Date]; !seen {
			dates = append(dates, e.Date)
		}
		grouped[e.Date] = append(grouped[e.Date], e.Shift)
	}

	var errs []shift.DateConflictError
	for _, date := range dates {
		result := FindOverlapConflicts(grouped[date])
		for _, c := range result.Conflicts {
			errs = append(errs, shift.DateConflictError{
				Date:         date,
				Shift1Name:   c.Shift1.Name,
				Shift2Name:   c.Shift2.Name,
				OverlapRange: c.OverlapRange,
				Message:      FormatOverlapError(c.Shift1.Name, c.Shift2.Name, c.OverlapRange),
			})
		}
	}

	return shift.ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// FormatOverlapError renders a human-readable conflict message. The range is
// optional decoration.
func FormatOverlapError(name1, name2 string, rng *shift.OverlapRange) string {
	if rng == nil {
		return fmt.Sprintf("shift %q overlaps with shift %q", name1, name2)
	}
	return fmt.Sprintf("shift %q overlaps with shift %q between %s and %s", name1, name2, rng.Start, rng.End)
}
