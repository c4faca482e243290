package schedule

import "sort"

// SelectionState classifies the current selection size.
type SelectionState string

const (
	SelectionEmpty  SelectionState = "empty"
	SelectionSingle SelectionState = "single-selected"
	SelectionMulti  SelectionState = "multi-selected"
)

// Selection tracks which rooms an operator has picked inside one shift block.
// It is a plain value-ish state machine: click, ctrl-click, shift-click and
// drag all mutate it, and MoveRooms consumes its contents. The zero value is
// an empty selection.
type Selection struct {
	rooms map[string]bool
	last  string // anchor for shift-click ranges
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{rooms: make(map[string]bool)}
}

// State returns empty, single-selected or multi-selected.
func (s *Selection) State() SelectionState {
	switch len(s.rooms) {
	case 0:
		return SelectionEmpty
	case 1:
		return SelectionSingle
	default:
		return SelectionMulti
	}
}

// Rooms returns the selected room names in sorted order.
func (s *Selection) Rooms() []string {
	out := make([]string, 0, len(s.rooms))
	for r := range s.rooms {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether room is selected.
func (s *Selection) Contains(room string) bool {
	return s.rooms[room]
}

// Click replaces the selection with just room and records it as the
// shift-click anchor.
func (s *Selection) Click(room string) {
	s.rooms = map[string]bool{room: true}
	s.last = room
}

// CtrlClick toggles room's membership without touching the rest of the
// selection. The toggled room becomes the new anchor.
func (s *Selection) CtrlClick(room string) {
	if s.rooms == nil {
		s.rooms = make(map[string]bool)
	}
	if s.rooms[room] {
		delete(s.rooms, room)
	} else {
		s.rooms[room] = true
	}
	s.last = room
}

// ShiftClick adds the contiguous range between the anchor and room to the
// selection, using ordering as the fixed room order for the block. The range
// is a union with the existing selection, not a replacement. Without a prior
// anchor, or when either endpoint is missing from ordering, it behaves like
// a plain click.
func (s *Selection) ShiftClick(room string, ordering []string) {
	li, ri := indexOf(ordering, s.last), indexOf(ordering, room)
	if s.last == "" || li < 0 || ri < 0 {
		s.Click(room)
		return
	}
	if li > ri {
		li, ri = ri, li
	}
	if s.rooms == nil {
		s.rooms = make(map[string]bool)
	}
	for _, r := range ordering[li : ri+1] {
		s.rooms[r] = true
	}
	s.last = room
}

// Clear empties the selection. Used for clicks landing outside any room
// badge.
func (s *Selection) Clear() {
	s.rooms = make(map[string]bool)
	s.last = ""
}

func indexOf(ordering []string, room string) int {
	for i, r := range ordering {
		if r == room {
			return i
		}
	}
	return -1
}

// Rect is an axis-aligned rectangle in screen coordinates. The rendering
// layer supplies badge bounding boxes; the engine never touches the DOM.
type Rect struct {
	X1, Y1 float64 // top-left
	X2, Y2 float64 // bottom-right
}

// Intersects reports whether two rectangles overlap. Touching edges count.
func (r Rect) Intersects(o Rect) bool {
	return r.X1 <= o.X2 && o.X1 <= r.X2 && r.Y1 <= o.Y2 && o.Y1 <= r.Y2
}

// DragUpdate recomputes the selection from a drag rectangle: the new
// selection is exactly the rooms whose bounding box intersects drag. Unlike
// shift-click this replaces the selection on every call, so shrinking the
// rectangle deselects rooms again mid-drag.
func (s *Selection) DragUpdate(boxes map[string]Rect, drag Rect) {
	s.rooms = make(map[string]bool)
	for room, box := range boxes {
		if box.Intersects(drag) {
			s.rooms[room] = true
		}
	}
}
