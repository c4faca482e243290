package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avops/roomops-api-go/pkg/models"
)

// Store wraps the gorm handle with the domain-level operations the schedule
// engine and handlers need. All methods convert between row representations
// (HH:MM strings) and domain types (ClockTime minutes) at this boundary and
// reject malformed rows instead of passing them upward.
type Store struct {
	DB *gorm.DB
}

// ErrCopyIncomplete marks a copy-forward that cleared the target date but
// failed to insert the copies. The target is left empty; the caller must
// retry the whole copy.
var ErrCopyIncomplete = errors.New("copy-forward cleared target but insert failed; retry the copy")

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// --- shifts ---

func shiftToDomain(row Shift) (models.Shift, error) {
	start, err := models.ParseClock(row.StartTime)
	if err != nil {
		return models.Shift{}, fmt.Errorf("%w: shift %d: %v", ErrMalformedRow, row.ID, err)
	}
	end, err := models.ParseClock(row.EndTime)
	if err != nil {
		return models.Shift{}, fmt.Errorf("%w: shift %d: %v", ErrMalformedRow, row.ID, err)
	}
	return models.Shift{StaffID: row.StaffID, Date: row.Date, Start: start, End: end}, nil
}

// ShiftsForDate returns all shifts on date, ordered by start time.
func (s *Store) ShiftsForDate(date string) ([]models.Shift, error) {
	var rows []Shift
	if err := s.DB.Where("date = ?", date).Order("start_time asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Shift, 0, len(rows))
	for _, row := range rows {
		sh, err := shiftToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, nil
}

// UpsertShift writes a staff member's shift for one date, replacing any
// existing row for the same (staff, date) pair.
func (s *Store) UpsertShift(sh models.Shift) error {
	if sh.Start >= sh.End {
		return fmt.Errorf("shift start %s must be before end %s", sh.Start, sh.End)
	}
	row := Shift{
		StaffID:   sh.StaffID,
		Date:      sh.Date,
		StartTime: sh.Start.String(),
		EndTime:   sh.End.String(),
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "staff_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"start_time": row.StartTime,
			"end_time":   row.EndTime,
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
}

// DeleteShift removes one staff member's shift for a date.
func (s *Store) DeleteShift(staffID, date string) error {
	return s.DB.Where("staff_id = ? AND date = ?", staffID, date).Delete(&Shift{}).Error
}

// --- shift blocks ---

func blockToDomain(row ShiftBlock) (models.ShiftBlock, error) {
	start, err := models.ParseClock(row.StartTime)
	if err != nil {
		return models.ShiftBlock{}, fmt.Errorf("%w: block %s: %v", ErrMalformedRow, row.ID, err)
	}
	end, err := models.ParseClock(row.EndTime)
	if err != nil {
		return models.ShiftBlock{}, fmt.Errorf("%w: block %s: %v", ErrMalformedRow, row.ID, err)
	}
	return models.ShiftBlock{
		ID:          row.ID,
		Date:        row.Date,
		Start:       start,
		End:         end,
		Assignments: []models.Assignment(row.Assignments),
	}, nil
}

// BlocksForDate returns the blocks for one date in the store's default
// ordering: start time, then insertion order. Ownership resolution depends
// on this ordering for its duplicate-row tie-break.
func (s *Store) BlocksForDate(date string) ([]models.ShiftBlock, error) {
	var rows []ShiftBlock
	if err := s.DB.Where("date = ?", date).Order("start_time asc, created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.ShiftBlock, 0, len(rows))
	for _, row := range rows {
		b, err := blockToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// ReplaceBlocksForDate atomically swaps one date's block list: delete all
// rows for the date, insert the new list with fresh ids. Zero-duration
// blocks are filtered out before insert even though the recalculator never
// produces them.
func (s *Store) ReplaceBlocksForDate(date string, blocks []models.ShiftBlock) error {
	rows := make([]ShiftBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Start >= b.End {
			continue
		}
		asgns := make(AssignmentList, len(b.Assignments))
		for i, a := range b.Assignments {
			asgns[i] = models.Assignment{StaffID: a.StaffID, Rooms: models.SortRooms(append([]string(nil), a.Rooms...))}
		}
		rows = append(rows, ShiftBlock{
			ID:          uuid.NewString(),
			Date:        date,
			StartTime:   b.Start.String(),
			EndTime:     b.End.String(),
			Assignments: asgns,
		})
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", date).Delete(&ShiftBlock{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// --- copy-forward ---

// CopyForwardDate duplicates sourceDate's shifts and blocks onto targetDate.
// The target's existing rows are deleted first in their own transaction;
// inserts follow with fresh identifiers. A failure after the delete leaves
// the target cleared and surfaces ErrCopyIncomplete rather than restoring
// the old rows.
func (s *Store) CopyForwardDate(sourceDate, targetDate string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", targetDate).Delete(&Shift{}).Error; err != nil {
			return err
		}
		return tx.Where("date = ?", targetDate).Delete(&ShiftBlock{}).Error
	})
	if err != nil {
		return err
	}

	var shifts []Shift
	if err := s.DB.Where("date = ?", sourceDate).Find(&shifts).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrCopyIncomplete, err)
	}
	for _, row := range shifts {
		copied := Shift{
			StaffID:   row.StaffID,
			Date:      targetDate,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
		}
		if err := s.DB.Create(&copied).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCopyIncomplete, err)
		}
	}

	var blocks []ShiftBlock
	if err := s.DB.Where("date = ?", sourceDate).Order("start_time asc, created_at asc").Find(&blocks).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrCopyIncomplete, err)
	}
	for _, row := range blocks {
		copied := ShiftBlock{
			ID:          uuid.NewString(),
			Date:        targetDate,
			StartTime:   row.StartTime,
			EndTime:     row.EndTime,
			Assignments: row.Assignments,
		}
		if err := s.DB.Create(&copied).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCopyIncomplete, err)
		}
	}
	return nil
}

// CopyForwardWeek copies seven consecutive dates starting at sourceWeekStart
// onto the week starting at targetWeekStart, date by date. Each date is its
// own unit; a failure stops the loop and reports which date needs a retry.
func (s *Store) CopyForwardWeek(sourceWeekStart, targetWeekStart string) error {
	src, err := time.Parse("2006-01-02", sourceWeekStart)
	if err != nil {
		return fmt.Errorf("bad source week start: %v", err)
	}
	dst, err := time.Parse("2006-01-02", targetWeekStart)
	if err != nil {
		return fmt.Errorf("bad target week start: %v", err)
	}
	for i := 0; i < 7; i++ {
		from := src.AddDate(0, 0, i).Format("2006-01-02")
		to := dst.AddDate(0, 0, i).Format("2006-01-02")
		if err := s.CopyForwardDate(from, to); err != nil {
			return fmt.Errorf("copying %s to %s: %w", from, to, err)
		}
	}
	return nil
}

// --- events ---

func eventToDomain(row Event) (models.Event, error) {
	start, err := models.ParseClock(row.StartTime)
	if err != nil {
		return models.Event{}, fmt.Errorf("%w: event %s: %v", ErrMalformedRow, row.ID, err)
	}
	end, err := models.ParseClock(row.EndTime)
	if err != nil {
		return models.Event{}, fmt.Errorf("%w: event %s: %v", ErrMalformedRow, row.ID, err)
	}
	return models.Event{
		ID:          row.ID,
		Title:       row.Title,
		RoomName:    row.RoomName,
		Date:        row.Date,
		Start:       start,
		End:         end,
		ManualOwner: row.ManOwner,
	}, nil
}

// EventsForDate returns all events on date ordered by start time.
func (s *Store) EventsForDate(date string) ([]models.Event, error) {
	var rows []Event
	if err := s.DB.Where("date = ?", date).Order("start_time asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Event, 0, len(rows))
	for _, row := range rows {
		ev, err := eventToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// GetEvent loads one event by id.
func (s *Store) GetEvent(id string) (models.Event, error) {
	var row Event
	if err := s.DB.Where("id = ?", id).First(&row).Error; err != nil {
		return models.Event{}, err
	}
	return eventToDomain(row)
}

// CreateEvent inserts a new event and returns its generated id.
func (s *Store) CreateEvent(ev models.Event) (string, error) {
	if ev.Start >= ev.End {
		return "", fmt.Errorf("event start %s must be before end %s", ev.Start, ev.End)
	}
	row := Event{
		ID:        uuid.NewString(),
		Title:     ev.Title,
		RoomName:  ev.RoomName,
		Date:      ev.Date,
		StartTime: ev.Start.String(),
		EndTime:   ev.End.String(),
		ManOwner:  ev.ManualOwner,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return "", err
	}
	return row.ID, nil
}

// SetManualOwner sets or clears (owner == nil) the manual-owner override on
// an event.
func (s *Store) SetManualOwner(eventID string, owner *string) error {
	res := s.DB.Model(&Event{}).Where("id = ?", eventID).Update("man_owner", owner)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- rooms ---

// ListRooms returns all canonical room names, sorted.
func (s *Store) ListRooms() ([]string, error) {
	var rows []Room
	if err := s.DB.Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names, nil
}

// SeedRooms inserts any missing canonical room names. Merged display names
// are decomposed into constituents before insertion; merged names themselves
// are never stored.
func (s *Store) SeedRooms(names []string) error {
	for _, n := range names {
		for _, canonical := range models.SplitMergedRoom(n) {
			row := Room{Name: canonical}
			if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
