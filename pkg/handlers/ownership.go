package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avops/roomops-api-go/pkg/models"
)

// GetOwnership returns the ownership timeline for one event: who holds the
// room across the event's span and when hand-offs occur. Served from the
// Redis cache when warm; every commit to the date purges it.
func (h *Handler) GetOwnership(c *gin.Context) {
	id := c.Param("id")
	ev, err := h.Store.GetEvent(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch event"})
		return
	}

	blocks, err := h.Store.BlocksForDate(ev.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch blocks"})
		return
	}

	timeline := h.resolveTimeline(c.Request.Context(), ev, blocks)
	if timeline == nil {
		timeline = []models.OwnershipEntry{}
	}
	h.RecordUsage(c, len(blocks), 1)
	c.JSON(http.StatusOK, gin.H{
		"event_id": ev.ID,
		"timeline": timeline,
	})
}

// Handoff is one upcoming ownership transition on a date, for the hand-off
// display on the dashboard.
type Handoff struct {
	EventID  string           `json:"event_id"`
	Title    string           `json:"title"`
	RoomName string           `json:"room_name"`
	At       models.ClockTime `json:"at"`
	From     string           `json:"from"`
	To       string           `json:"to"`
}

// ListHandoffs returns every mid-event ownership transition on ?date=,
// ordered by transition time. Events with manual overrides never hand off.
func (h *Handler) ListHandoffs(c *gin.Context) {
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
	blocks, err := h.Store.BlocksForDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch blocks"})
		return
	}

	handoffs := []Handoff{}
	for _, ev := range events {
		timeline := h.resolveTimeline(c.Request.Context(), ev, blocks)
		for i := 0; i+1 < len(timeline); i++ {
			if timeline[i].Transition == nil {
				continue
			}
			handoffs = append(handoffs, Handoff{
				EventID:  ev.ID,
				Title:    ev.Title,
				RoomName: ev.RoomName,
				At:       *timeline[i].Transition,
				From:     timeline[i].Owner,
				To:       timeline[i+1].Owner,
			})
		}
	}
	sort.SliceStable(handoffs, func(i, j int) bool { return handoffs[i].At < handoffs[j].At })
	h.RecordUsage(c, len(blocks), len(events))
	c.JSON(http.StatusOK, gin.H{"handoffs": handoffs})
}
