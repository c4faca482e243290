package schedule

import (
	"testing"

	"github.com/avops/roomops-api-go/pkg/models"
)

func block(t *testing.T, date, start, end string, assignments ...models.Assignment) models.ShiftBlock {
	t.Helper()
	return models.ShiftBlock{
		Date:        date,
		Start:       mustClock(t, start),
		End:         mustClock(t, end),
		Assignments: assignments,
	}
}

func TestResolveOwnership_Handoff(t *testing.T) {
	ev := models.Event{
		ID:       "e1",
		RoomName: "GH 101",
		Date:     "2024-01-01",
		Start:    mustClock(t, "10:30"),
		End:      mustClock(t, "11:30"),
	}
	blocks := []models.ShiftBlock{
		block(t, "2024-01-01", "09:00", "11:00", models.Assignment{StaffID: "alice", Rooms: []string{"GH 101"}}),
		block(t, "2024-01-01", "11:00", "12:00", models.Assignment{StaffID: "bob", Rooms: []string{"GH 101"}}),
	}

	timeline := ResolveOwnership(ev, blocks)
	if len(timeline) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(timeline), timeline)
	}
	if timeline[0].Owner != "alice" || timeline[0].Transition == nil || timeline[0].Transition.String() != "11:00" {
		t.Errorf("expected (alice, 11:00), got %+v", timeline[0])
	}
	if timeline[1].Owner != "bob" || timeline[1].Transition != nil {
		t.Errorf("expected (bob, nil), got %+v", timeline[1])
	}
}

func TestResolveOwnership_ManualOverrideWins(t *testing.T) {
	override := "carol"
	ev := models.Event{
		ID:          "e1",
		RoomName:    "GH 101",
		Date:        "2024-01-01",
		Start:       mustClock(t, "10:00"),
		End:         mustClock(t, "12:00"),
		ManualOwner: &override,
	}
	blocks := []models.ShiftBlock{
		block(t, "2024-01-01", "09:00", "11:00", models.Assignment{StaffID: "alice", Rooms: []string{"GH 101"}}),
		block(t, "2024-01-01", "11:00", "12:00", models.Assignment{StaffID: "bob", Rooms: []string{"GH 101"}}),
	}

	timeline := ResolveOwnership(ev, blocks)
	if len(timeline) != 1 {
		t.Fatalf("override must collapse the timeline, got %d entries", len(timeline))
	}
	if timeline[0].Owner != "carol" || timeline[0].Transition != nil {
		t.Errorf("expected single (carol, nil) entry, got %+v", timeline[0])
	}
}

func TestResolveOwnership_NoCoverage(t *testing.T) {
	ev := models.Event{
		ID:       "e1",
		RoomName: "GH 101",
		Date:     "2024-01-01",
		Start:    mustClock(t, "18:00"),
		End:      mustClock(t, "19:00"),
	}
	blocks := []models.ShiftBlock{
		block(t, "2024-01-01", "09:00", "11:00", models.Assignment{StaffID: "alice", Rooms: []string{"GH 101"}}),
	}

	if timeline := ResolveOwnership(ev, blocks); len(timeline) != 0 {
		t.Errorf("expected empty timeline, got %v", timeline)
	}
}

func TestResolveOwnership_RoomNotAssigned(t *testing.T) {
	ev := models.Event{
		ID:       "e1",
		RoomName: "GH 999",
		Date:     "2024-01-01",
		Start:    mustClock(t, "10:00"),
		End:      mustClock(t, "11:00"),
	}
	blocks := []models.ShiftBlock{
		block(t, "2024-01-01", "09:00", "12:00", models.Assignment{StaffID: "alice", Rooms: []string{"GH 101"}}),
	}

	if timeline := ResolveOwnership(ev, blocks); len(timeline) != 0 {
		t.Errorf("no placeholder owner may be synthesized, got %v", timeline)
	}
}

func TestResolveOwnership_CollapsesSameOwner(t *testing.T) {
	ev := models.Event{
		ID:       "e1",
		RoomName: "GH 101",
		Date:     "2024-01-01",
		Start:    mustClock(t, "09:30"),
		End:      mustClock(t, "12:30"),
	}
	blocks := []models.ShiftBlock{
		block(t, "2024-01-01", "09:00", "11:00", models.Assignment{StaffID: "alice", Rooms: []string{"GH 101"}}),
		block(t, "2024-01-01", "11:00", "13:00", models.Assignment{StaffID: "alice", Rooms: []string{"GH 101"}}),
	}

	timeline := ResolveOwnership(ev, blocks)
	if len(timeline) != 1 {
		t.Fatalf("consecutive same-owner intervals must merge, got %v", timeline)
	}
	if timeline[0].Owner != "alice" || timeline[0].Transition != nil {
		t.Errorf("expected single (alice, nil), got %+v", timeline[0])
	}
}

func TestResolveOwnership_DuplicateBlockLaterRowWins(t *testing.T) {
	// Two blocks with identical ranges both claiming the room is a data
	// anomaly; the row later in store order takes precedence.
	ev := models.Event{
		ID:       "e1",
		RoomName: "GH 101",
		Date:     "2024-01-01",
		Start:    mustClock(t, "09:00"),
		End:      mustClock(t, "11:00"),
	}
	blocks := []models.ShiftBlock{
		block(t, "2024-01-01", "09:00", "11:00", models.Assignment{StaffID: "alice", Rooms: []string{"GH 101"}}),
		block(t, "2024-01-01", "09:00", "11:00", models.Assignment{StaffID: "bob", Rooms: []string{"GH 101"}}),
	}

	timeline := ResolveOwnership(ev, blocks)
	if len(timeline) != 1 || timeline[0].Owner != "bob" {
		t.Errorf("expected later row (bob) to win, got %v", timeline)
	}
}

func TestOwnerAt(t *testing.T) {
	ev := models.Event{
		ID:       "e1",
		RoomName: "GH 101",
		Date:     "2024-01-01",
		Start:    mustClock(t, "10:30"),
		End:      mustClock(t, "11:30"),
	}
	blocks := []models.ShiftBlock{
		block(t, "2024-01-01", "09:00", "11:00", models.Assignment{StaffID: "alice", Rooms: []string{"GH 101"}}),
		block(t, "2024-01-01", "11:00", "12:00", models.Assignment{StaffID: "bob", Rooms: []string{"GH 101"}}),
	}

	if got := OwnerAt(ev, blocks, mustClock(t, "10:45")); got != "alice" {
		t.Errorf("expected alice at 10:45, got %q", got)
	}
	if got := OwnerAt(ev, blocks, mustClock(t, "11:00")); got != "bob" {
		t.Errorf("block end is exclusive; expected bob at 11:00, got %q", got)
	}
	if got := OwnerAt(ev, blocks, mustClock(t, "15:00")); got != "" {
		t.Errorf("expected nobody at 15:00, got %q", got)
	}
}
