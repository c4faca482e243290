package database

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avops/roomops-api-go/pkg/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := db.AutoMigrate(&Room{}, &Shift{}, &ShiftBlock{}, &Event{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return NewStore(db)
}

func clock(t *testing.T, s string) models.ClockTime {
	t.Helper()
	c, err := models.ParseClock(s)
	if err != nil {
		t.Fatalf("bad clock %q: %v", s, err)
	}
	return c
}

func TestUpsertShift_ReplacesExisting(t *testing.T) {
	s := testStore(t)

	first := models.Shift{StaffID: "alice", Date: "2024-01-01", Start: clock(t, "09:00"), End: clock(t, "12:00")}
	if err := s.UpsertShift(first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := models.Shift{StaffID: "alice", Date: "2024-01-01", Start: clock(t, "10:00"), End: clock(t, "14:00")}
	if err := s.UpsertShift(second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	shifts, err := s.ShiftsForDate("2024-01-01")
	if err != nil {
		t.Fatalf("reading shifts: %v", err)
	}
	if len(shifts) != 1 {
		t.Fatalf("expected 1 shift after upsert, got %d", len(shifts))
	}
	if shifts[0].Start.String() != "10:00" || shifts[0].End.String() != "14:00" {
		t.Errorf("expected replaced times, got %s-%s", shifts[0].Start, shifts[0].End)
	}
}

func TestUpsertShift_RejectsInvertedRange(t *testing.T) {
	s := testStore(t)
	sh := models.Shift{StaffID: "alice", Date: "2024-01-01", Start: clock(t, "12:00"), End: clock(t, "09:00")}
	if err := s.UpsertShift(sh); err == nil {
		t.Error("expected error for start >= end")
	}
}

func TestReplaceBlocksForDate(t *testing.T) {
	s := testStore(t)
	date := "2024-01-01"

	old := []models.ShiftBlock{
		{Date: date, Start: clock(t, "09:00"), End: clock(t, "12:00"), Assignments: []models.Assignment{
			{StaffID: "alice", Rooms: []string{"GH 101"}},
		}},
	}
	if err := s.ReplaceBlocksForDate(date, old); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	replacement := []models.ShiftBlock{
		{Date: date, Start: clock(t, "09:00"), End: clock(t, "11:00"), Assignments: []models.Assignment{
			{StaffID: "alice", Rooms: []string{"GH 101"}},
		}},
		{Date: date, Start: clock(t, "11:00"), End: clock(t, "12:00"), Assignments: []models.Assignment{
			{StaffID: "bob", Rooms: []string{"GH 101"}},
		}},
		// Defensive filter: zero-duration blocks never reach the table.
		{Date: date, Start: clock(t, "12:00"), End: clock(t, "12:00")},
	}
	if err := s.ReplaceBlocksForDate(date, replacement); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	blocks, err := s.BlocksForDate(date)
	if err != nil {
		t.Fatalf("reading blocks: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks after replace, got %d", len(blocks))
	}
	if blocks[0].Start >= blocks[0].End || blocks[1].Start >= blocks[1].End {
		t.Error("zero-duration block leaked into the store")
	}
	if blocks[0].Start > blocks[1].Start {
		t.Error("blocks not ordered by start time")
	}
}

func TestCopyForwardDate(t *testing.T) {
	s := testStore(t)
	src, dst := "2024-01-01", "2024-01-08"

	for _, staff := range []string{"alice", "bob"} {
		sh := models.Shift{StaffID: staff, Date: src, Start: clock(t, "09:00"), End: clock(t, "17:00")}
		if err := s.UpsertShift(sh); err != nil {
			t.Fatalf("seeding shift: %v", err)
		}
	}
	blocks := []models.ShiftBlock{
		{Date: src, Start: clock(t, "09:00"), End: clock(t, "12:00"), Assignments: []models.Assignment{{StaffID: "alice", Rooms: []string{"GH 101"}}}},
		{Date: src, Start: clock(t, "12:00"), End: clock(t, "15:00"), Assignments: []models.Assignment{{StaffID: "bob", Rooms: []string{"GH 101"}}}},
		{Date: src, Start: clock(t, "15:00"), End: clock(t, "17:00"), Assignments: []models.Assignment{{StaffID: "alice", Rooms: []string{"GH 102"}}}},
	}
	if err := s.ReplaceBlocksForDate(src, blocks); err != nil {
		t.Fatalf("seeding blocks: %v", err)
	}

	// Pre-existing target rows must vanish entirely.
	stale := models.Shift{StaffID: "carol", Date: dst, Start: clock(t, "08:00"), End: clock(t, "10:00")}
	if err := s.UpsertShift(stale); err != nil {
		t.Fatalf("seeding stale shift: %v", err)
	}

	if err := s.CopyForwardDate(src, dst); err != nil {
		t.Fatalf("copy forward: %v", err)
	}

	gotShifts, err := s.ShiftsForDate(dst)
	if err != nil {
		t.Fatalf("reading target shifts: %v", err)
	}
	if len(gotShifts) != 2 {
		t.Fatalf("expected 2 copied shifts, got %d", len(gotShifts))
	}
	for _, sh := range gotShifts {
		if sh.StaffID == "carol" {
			t.Error("stale target shift survived the copy")
		}
	}

	gotBlocks, err := s.BlocksForDate(dst)
	if err != nil {
		t.Fatalf("reading target blocks: %v", err)
	}
	if len(gotBlocks) != 3 {
		t.Fatalf("expected 3 copied blocks, got %d", len(gotBlocks))
	}

	srcBlocks, _ := s.BlocksForDate(src)
	srcIDs := make(map[string]bool)
	for _, b := range srcBlocks {
		srcIDs[b.ID] = true
	}
	for i, b := range gotBlocks {
		if srcIDs[b.ID] {
			t.Errorf("copied block %d reused a source identifier", i)
		}
		if b.Date != dst {
			t.Errorf("copied block %d kept date %s", i, b.Date)
		}
		if b.Start != srcBlocks[i].Start || b.End != srcBlocks[i].End {
			t.Errorf("copied block %d changed times", i)
		}
		if len(b.Assignments) != len(srcBlocks[i].Assignments) {
			t.Errorf("copied block %d changed assignments", i)
		}
	}
}

func TestAssignmentList_ScanRejectsDuplicateRooms(t *testing.T) {
	var a AssignmentList
	err := a.Scan(`[{"user":"alice","rooms":["GH 101"]},{"user":"bob","rooms":["GH 101"]}]`)
	if err == nil {
		t.Error("expected duplicate room claim to be rejected")
	}
}

func TestAssignmentList_ScanRejectsMalformedJSON(t *testing.T) {
	var a AssignmentList
	if err := a.Scan(`{"not":"a list"`); err == nil {
		t.Error("expected malformed JSON to be rejected")
	}
}
