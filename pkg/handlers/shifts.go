package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avops/roomops-api-go/pkg/models"
	"github.com/avops/roomops-api-go/pkg/notify"
	"github.com/avops/roomops-api-go/pkg/schedule"
)

// ShiftRequest is the JSON body for creating or updating a shift. Times are
// strict "HH:MM" wall clock.
type ShiftRequest struct {
	StaffID string `json:"staff_id" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Start   string `json:"start" binding:"required"`
	End     string `json:"end" binding:"required"`
}

// UpsertShift creates or replaces one staff member's shift for a date, then
// recalculates and commits the date's shift blocks.
func (h *Handler) UpsertShift(c *gin.Context) {
	var req ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	start, err := models.ParseClock(req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := models.ParseClock(req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if start >= end {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shift start must be before end"})
		return
	}

	sh := models.Shift{StaffID: req.StaffID, Date: req.Date, Start: start, End: end}
	if err := h.Store.UpsertShift(sh); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save shift"})
		return
	}

	blocks, err := h.recalculateDate(c.Request.Context(), req.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shift": sh, "blocks": blocks})
}

// ListShifts returns all shifts for ?date=.
func (h *Handler) ListShifts(c *gin.Context) {
	date := c.Query("date")
	if !models.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	shifts, err := h.Store.ShiftsForDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch shifts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

// DeleteShift removes a staff member's shift for a date and recalculates the
// date's blocks; their rooms become unassigned, never auto-reassigned.
func (h *Handler) DeleteShift(c *gin.Context) {
	staffID := c.Param("staffId")
	date := c.Query("date")
	if !models.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if err := h.Store.DeleteShift(staffID, date); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete shift"})
		return
	}
	blocks, err := h.recalculateDate(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": blocks})
}

// recalculateDate rebuilds a date's shift blocks from its current shifts,
// carrying room assignments forward from the previously persisted blocks,
// and commits the result with a replace-by-date. Ownership caches for the
// date are purged and hand-offs published after the commit lands.
func (h *Handler) recalculateDate(ctx context.Context, date string) ([]models.ShiftBlock, error) {
	shifts, err := h.Store.ShiftsForDate(date)
	if err != nil {
		return nil, err
	}
	prior, err := h.Store.BlocksForDate(date)
	if err != nil {
		return nil, err
	}
	blocks, err := schedule.RecalculateBlocks(shifts, prior)
	if err != nil {
		return nil, err
	}
	if err := h.Store.ReplaceBlocksForDate(date, blocks); err != nil {
		return nil, err
	}
	h.afterCommit(ctx, date, prior, blocks)
	return blocks, nil
}

// afterCommit runs the post-commit side effects: cache invalidation first,
// so no reader can observe stale ownership, then best-effort hand-off
// notifications. Publish failures never fail the committed change.
func (h *Handler) afterCommit(ctx context.Context, date string, before, after []models.ShiftBlock) {
	h.Cache.InvalidateDate(ctx, date)
	for _, ev := range handoffDiff(date, before, after, h.now()) {
		_ = notify.PublishHandoff(ctx, ev)
	}
}

// handoffDiff compares room ownership before and after a commit and groups
// the changed rooms by (from, to) staff pair. Ownership is sampled at each
// new block's midpoint, which is stable against boundary shifts.
func handoffDiff(date string, before, after []models.ShiftBlock, committedAt time.Time) []notify.HandoffEvent {
	type pair struct{ from, to string }
	changed := make(map[pair]map[string]bool)

	for _, b := range after {
		mid := b.Start + (b.End-b.Start)/2
		for _, a := range b.Assignments {
			for _, room := range a.Rooms {
				prevOwner := schedule.RoomOwnerAt(before, room, mid)
				if prevOwner == a.StaffID {
					continue
				}
				p := pair{from: prevOwner, to: a.StaffID}
				if changed[p] == nil {
					changed[p] = make(map[string]bool)
				}
				changed[p][room] = true
			}
		}
	}

	stamp := committedAt.UTC().Format(time.RFC3339)
	var events []notify.HandoffEvent
	for p, rooms := range changed {
		names := make([]string, 0, len(rooms))
		for r := range rooms {
			names = append(names, r)
		}
		events = append(events, notify.HandoffEvent{
			Date:        date,
			Rooms:       models.SortRooms(names),
			FromStaffID: p.from,
			ToStaffID:   p.to,
			CommittedAt: stamp,
		})
	}
	return events
}
