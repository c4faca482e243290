// Package schedule implements the shift-block engine: day partitioning from
// staff shifts, room-assignment editing, and event-ownership resolution.
// Everything here is pure in-memory computation; persistence lives in
// pkg/database and the HTTP surface in pkg/handlers.
package schedule

import (
	"fmt"
	"sort"

	"github.com/avops/roomops-api-go/pkg/models"
)

// RecalculateBlocks derives the shift blocks for one date from the full set
// of shifts on that date. Block boundaries are exactly the sorted distinct
// start/end times of all shifts; each resulting interval carries every staff
// member whose shift fully covers it. Room sets are carried forward from
// prior blocks where the same staff member overlaps the new interval, and
// start empty for newly appearing staff. Staff with no covering shift in an
// interval simply vanish from it, their rooms becoming unassigned.
//
// All shifts must be for the same date with Start < End; violations reject
// the whole recalculation before anything is produced.
func RecalculateBlocks(shifts []models.Shift, prior []models.ShiftBlock) ([]models.ShiftBlock, error) {
	if len(shifts) == 0 {
		return nil, nil
	}
	date := shifts[0].Date
	for _, s := range shifts {
		if s.Date != date {
			return nil, fmt.Errorf("shift for %s mixed into recalculation for %s", s.Date, date)
		}
		if s.Start >= s.End {
			return nil, fmt.Errorf("shift for %s on %s has start %s >= end %s", s.StaffID, s.Date, s.Start, s.End)
		}
	}

	boundaries := collectBoundaries(shifts)

	var blocks []models.ShiftBlock
	for i := 0; i+1 < len(boundaries); i++ {
		lo, hi := boundaries[i], boundaries[i+1]
		if lo >= hi {
			// Boundaries are distinct so this cannot happen; a zero-duration
			// block reaching persistence is a logic error, not bad input.
			return nil, fmt.Errorf("zero-duration block %s-%s produced for %s", lo, hi, date)
		}

		var asgns []models.Assignment
		for _, s := range coveringStaff(shifts, lo, hi) {
			asgns = append(asgns, models.Assignment{
				StaffID: s,
				Rooms:   carryForwardRooms(prior, s, lo, hi),
			})
		}
		if len(asgns) == 0 {
			continue
		}
		enforceDisjoint(asgns)
		blocks = append(blocks, models.ShiftBlock{
			Date:        date,
			Start:       lo,
			End:         hi,
			Assignments: asgns,
		})
	}
	return blocks, nil
}

func collectBoundaries(shifts []models.Shift) []models.ClockTime {
	seen := make(map[models.ClockTime]bool, len(shifts)*2)
	var out []models.ClockTime
	for _, s := range shifts {
		for _, t := range [2]models.ClockTime{s.Start, s.End} {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// coveringStaff returns, in deterministic (sorted) order, the staff whose
// shift fully contains [lo, hi).
func coveringStaff(shifts []models.Shift, lo, hi models.ClockTime) []string {
	var staff []string
	for _, s := range shifts {
		if s.Start <= lo && s.End >= hi {
			staff = append(staff, s.StaffID)
		}
	}
	sort.Strings(staff)
	return staff
}

// carryForwardRooms finds the staff member's room set in the prior block most
// relevant to the new interval: the one overlapping [lo, hi) the most, later
// start winning ties. No overlapping prior assignment means an empty set.
func carryForwardRooms(prior []models.ShiftBlock, staff string, lo, hi models.ClockTime) []string {
	var best []string
	bestOverlap := models.ClockTime(-1)
	bestStart := models.ClockTime(-1)
	for _, b := range prior {
		if b.End <= lo || b.Start >= hi {
			continue
		}
		a, ok := b.AssignmentForStaff(staff)
		if !ok {
			continue
		}
		overlap := min(b.End, hi) - max(b.Start, lo)
		if overlap > bestOverlap || (overlap == bestOverlap && b.Start > bestStart) {
			bestOverlap = overlap
			bestStart = b.Start
			best = append([]string(nil), a.Rooms...)
		}
	}
	if best == nil {
		return []string{}
	}
	return models.SortRooms(best)
}

// enforceDisjoint strips duplicate room claims across assignments in one
// block. Carried-forward sets from different prior blocks can collide; the
// first assignment in staff order keeps the room.
func enforceDisjoint(asgns []models.Assignment) {
	claimed := make(map[string]bool)
	for i := range asgns {
		kept := asgns[i].Rooms[:0]
		for _, r := range asgns[i].Rooms {
			if claimed[r] {
				continue
			}
			claimed[r] = true
			kept = append(kept, r)
		}
		asgns[i].Rooms = kept
	}
}
