package models

import "sort"

// Shift is one staff member's on-duty time range for a single date. At most
// one shift exists per (staff, date); edits are upserts, not appends.
type Shift struct {
	StaffID string    `json:"staff_id"`
	Date    string    `json:"date"`
	Start   ClockTime `json:"start"`
	End     ClockTime `json:"end"`
}

// Assignment pairs a staff member with the set of rooms they own inside one
// shift block. Rooms is kept sorted and deduplicated; within a block the room
// sets of distinct assignments are disjoint.
type Assignment struct {
	StaffID string   `json:"user"`
	Rooms   []string `json:"rooms"`
}

// HasRoom reports whether the assignment's room set contains name.
func (a Assignment) HasRoom(name string) bool {
	for _, r := range a.Rooms {
		if r == name {
			return true
		}
	}
	return false
}

// ShiftBlock is a time-bounded partition of a date carrying room ownership.
// Blocks for one date are non-overlapping and ordered by start time; a block
// with Start >= End is invalid and must never be persisted.
type ShiftBlock struct {
	ID          string       `json:"id,omitempty"`
	Date        string       `json:"date"`
	Start       ClockTime    `json:"start"`
	End         ClockTime    `json:"end"`
	Assignments []Assignment `json:"assignments"`
}

// AssignmentFor returns the assignment owning room, if any. Disjointness
// means at most one can match.
func (b ShiftBlock) AssignmentFor(room string) (Assignment, bool) {
	for _, a := range b.Assignments {
		if a.HasRoom(room) {
			return a, true
		}
	}
	return Assignment{}, false
}

// AssignmentForStaff returns the assignment belonging to staff, if any.
func (b ShiftBlock) AssignmentForStaff(staff string) (Assignment, bool) {
	for _, a := range b.Assignments {
		if a.StaffID == staff {
			return a, true
		}
	}
	return Assignment{}, false
}

// Event is a calendar entry in one room. ManualOwner, when set, overrides
// all derived ownership for the event.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	RoomName    string    `json:"room_name"`
	Date        string    `json:"date"`
	Start       ClockTime `json:"start"`
	End         ClockTime `json:"end"`
	ManualOwner *string   `json:"man_owner,omitempty"`
}

// OwnershipEntry is one segment of an ownership timeline. Transition is the
// wall-clock time at which ownership hands off to the next entry; it is nil
// on the final entry (and on a manual-override timeline, which is always a
// single entry).
type OwnershipEntry struct {
	Owner      string     `json:"owner"`
	Transition *ClockTime `json:"transition,omitempty"`
}

// SortRooms sorts and deduplicates a room list in place, returning the
// compacted slice. Assignment room sets go through this before persistence.
func SortRooms(rooms []string) []string {
	sort.Strings(rooms)
	out := rooms[:0]
	for i, r := range rooms {
		if i > 0 && rooms[i-1] == r {
			continue
		}
		out = append(out, r)
	}
	return out
}
