package schedule

import "github.com/avops/roomops-api-go/pkg/models"

// MoveRooms reassigns a selection of rooms within one block's assignment
// list. Every selected room is first removed from every assignment; when
// target is non-nil the selection is then unioned into that staff member's
// room set (an entry is created if the staff member has none yet). A nil
// target means "move to unassigned". Rooms outside the selection are never
// touched, and staff entries stay in place even when their room set empties,
// since an entry also marks the staff member as on duty for the block.
//
// The input slice is not mutated; callers keep it as the rollback snapshot
// for a failed commit.
func MoveRooms(assignments []models.Assignment, selection []string, target *string) []models.Assignment {
	selected := make(map[string]bool, len(selection))
	for _, r := range selection {
		selected[r] = true
	}

	out := make([]models.Assignment, 0, len(assignments)+1)
	targetSeen := false
	for _, a := range assignments {
		kept := make([]string, 0, len(a.Rooms))
		for _, r := range a.Rooms {
			if !selected[r] {
				kept = append(kept, r)
			}
		}
		if target != nil && a.StaffID == *target {
			targetSeen = true
			kept = append(kept, selection...)
			kept = models.SortRooms(kept)
		}
		out = append(out, models.Assignment{StaffID: a.StaffID, Rooms: kept})
	}

	if target != nil && !targetSeen {
		out = append(out, models.Assignment{
			StaffID: *target,
			Rooms:   models.SortRooms(append([]string(nil), selection...)),
		})
	}
	return out
}
