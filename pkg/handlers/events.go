package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avops/roomops-api-go/pkg/models"
	"github.com/avops/roomops-api-go/pkg/schedule"
)

// EventRequest is the JSON body for creating a calendar event.
type EventRequest struct {
	Title    string  `json:"title"`
	RoomName string  `json:"room_name" binding:"required"`
	Date     string  `json:"date" binding:"required"`
	Start    string  `json:"start" binding:"required"`
	End      string  `json:"end" binding:"required"`
	ManOwner *string `json:"man_owner"`
}

// CreateEvent inserts a calendar event. Merged room display names are
// rejected; events are always booked against a canonical room.
func (h *Handler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if parts := models.SplitMergedRoom(req.RoomName); len(parts) != 1 || parts[0] != req.RoomName {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_name must be a canonical room, not a merged display name"})
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

	id, err := h.Store.CreateEvent(models.Event{
		Title:       req.Title,
		RoomName:    req.RoomName,
		Date:        req.Date,
		Start:       start,
		End:         end,
		ManualOwner: req.ManOwner,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// ListEvents returns events for ?date=. With ?mine=true the list is
// filtered to events the authenticated operator owns at any point in the
// event's span, manual overrides included.
func (h *Handler) ListEvents(c *gin.Context) {
	date := c.Query("date")
	if !models.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	events, err := h.Store.EventsForDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch events"})
		return
	}

	if c.Query("mine") != "true" {
		h.RecordUsage(c, 0, len(events))
		c.JSON(http.StatusOK, gin.H{"events": events})
		return
	}

	staffID := c.GetString("staffID")
	blocks, err := h.Store.BlocksForDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch blocks"})
		return
	}

	mine := make([]models.Event, 0, len(events))
	for _, ev := range events {
		for _, entry := range h.resolveTimeline(c.Request.Context(), ev, blocks) {
			if entry.Owner == staffID {
				mine = append(mine, ev)
				break
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"events": mine})
}

// SetEventOwner sets or clears the manual-owner override on an event. A
// null owner restores derived ownership.
func (h *Handler) SetEventOwner(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		Owner *string `json:"owner"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev, err := h.Store.GetEvent(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch event"})
		return
	}

	if err := h.Store.SetManualOwner(id, req.Owner); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update owner"})
		return
	}
	// The override changes this event's derived timeline immediately.
	h.Cache.InvalidateDate(c.Request.Context(), ev.Date)

	c.JSON(http.StatusOK, gin.H{"message": "Owner updated"})
}

// resolveTimeline resolves one event's ownership through the cache.
func (h *Handler) resolveTimeline(ctx context.Context, ev models.Event, blocks []models.ShiftBlock) []models.OwnershipEntry {
	if timeline, ok := h.Cache.Get(ctx, ev.ID); ok {
		return timeline
	}
	timeline := schedule.ResolveOwnership(ev, blocks)
	h.Cache.Put(ctx, ev.Date, ev.ID, timeline)
	return timeline
}
