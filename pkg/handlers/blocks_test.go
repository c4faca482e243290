package handlers

import (
	"testing"
	"time"

	"github.com/avops/roomops-api-go/pkg/models"
)

func clock(t *testing.T, s string) models.ClockTime {
	t.Helper()
	c, err := models.ParseClock(s)
	if err != nil {
		t.Fatalf("bad clock %q: %v", s, err)
	}
	return c
}

func TestValidateBlockList(t *testing.T) {
	good := []models.ShiftBlock{
		{Start: clock(t, "09:00"), End: clock(t, "11:00"), Assignments: []models.Assignment{
			{StaffID: "alice", Rooms: []string{"GH 101"}},
			{StaffID: "bob", Rooms: []string{"GH 102"}},
		}},
		{Start: clock(t, "11:00"), End: clock(t, "12:00")},
	}
	if err := validateBlockList(good); err != nil {
		t.Errorf("valid list rejected: %v", err)
	}

	zeroDuration := []models.ShiftBlock{
		{Start: clock(t, "09:00"), End: clock(t, "09:00")},
	}
	if err := validateBlockList(zeroDuration); err == nil {
		t.Error("zero-duration block accepted")
	}

	overlapping := []models.ShiftBlock{
		{Start: clock(t, "09:00"), End: clock(t, "11:00")},
		{Start: clock(t, "10:00"), End: clock(t, "12:00")},
	}
	if err := validateBlockList(overlapping); err == nil {
		t.Error("overlapping blocks accepted")
	}

	doubleAssigned := []models.ShiftBlock{
		{Start: clock(t, "09:00"), End: clock(t, "11:00"), Assignments: []models.Assignment{
			{StaffID: "alice", Rooms: []string{"GH 101"}},
			{StaffID: "bob", Rooms: []string{"GH 101"}},
		}},
	}
	if err := validateBlockList(doubleAssigned); err == nil {
		t.Error("double-assigned room accepted")
	}
}

func TestHandoffDiff(t *testing.T) {
	before := []models.ShiftBlock{
		{Date: "2024-01-01", Start: clock(t, "09:00"), End: clock(t, "12:00"), Assignments: []models.Assignment{
			{StaffID: "alice", Rooms: []string{"GH 101", "GH 102"}},
		}},
	}
	after := []models.ShiftBlock{
		{Date: "2024-01-01", Start: clock(t, "09:00"), End: clock(t, "12:00"), Assignments: []models.Assignment{
			{StaffID: "alice", Rooms: []string{"GH 101"}},
			{StaffID: "bob", Rooms: []string{"GH 102"}},
		}},
	}

	committedAt := time.Date(2024, 1, 1, 13, 30, 0, 0, time.UTC)
	events := handoffDiff("2024-01-01", before, after, committedAt)
	if len(events) != 1 {
		t.Fatalf("expected 1 hand-off event, got %d", len(events))
	}
	ev := events[0]
	if ev.FromStaffID != "alice" || ev.ToStaffID != "bob" {
		t.Errorf("expected alice -> bob, got %s -> %s", ev.FromStaffID, ev.ToStaffID)
	}
	if len(ev.Rooms) != 1 || ev.Rooms[0] != "GH 102" {
		t.Errorf("expected [GH 102], got %v", ev.Rooms)
	}
	if ev.CommittedAt != "2024-01-01T13:30:00Z" {
		t.Errorf("expected injected commit time, got %s", ev.CommittedAt)
	}

	if extra := handoffDiff("2024-01-01", after, after, committedAt); len(extra) != 0 {
		t.Errorf("no-op commit should produce no hand-offs, got %v", extra)
	}
}
