package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avops/roomops-api-go/pkg/database"
	"github.com/avops/roomops-api-go/pkg/models"
)

// CopyForwardRequest copies one date's shifts and blocks onto another date.
type CopyForwardRequest struct {
	SourceDate string `json:"source_date" binding:"required"`
	TargetDate string `json:"target_date" binding:"required"`
}

// CopyForward duplicates the source date's schedule onto the target date.
// The target's existing rows are cleared first; if the subsequent inserts
// fail the target stays cleared and the operator must retry the copy.
func (h *Handler) CopyForward(c *gin.Context) {
	var req CopyForwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidDate(req.SourceDate) || !models.ValidDate(req.TargetDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return
	}

	if err := h.Store.CopyForwardDate(req.SourceDate, req.TargetDate); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, database.ErrCopyIncomplete) {
			status = http.StatusConflict
		}
		h.Cache.InvalidateDate(c.Request.Context(), req.TargetDate)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.Cache.InvalidateDate(c.Request.Context(), req.TargetDate)
	c.JSON(http.StatusOK, gin.H{"message": "Schedule copied", "target_date": req.TargetDate})
}

// CopyForwardWeekRequest copies a whole week, date by date, from the week
// starting at source_week_start onto the week at target_week_start.
type CopyForwardWeekRequest struct {
	SourceWeekStart string `json:"source_week_start" binding:"required"`
	TargetWeekStart string `json:"target_week_start" binding:"required"`
}

// CopyForwardWeek is the "copy schedule from last week" operation: seven
// per-date copies with matching weekday offsets.
func (h *Handler) CopyForwardWeek(c *gin.Context) {
	var req CopyForwardWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidDate(req.SourceWeekStart) || !models.ValidDate(req.TargetWeekStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return
	}

	err := h.Store.CopyForwardWeek(req.SourceWeekStart, req.TargetWeekStart)

	// Every target date that may have been touched gets its cache purged,
	// even on failure, since a partial copy still cleared rows.
	if start, perr := time.Parse("2006-01-02", req.TargetWeekStart); perr == nil {
		for i := 0; i < 7; i++ {
			h.Cache.InvalidateDate(c.Request.Context(), start.AddDate(0, 0, i).Format("2006-01-02"))
		}
	}

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, database.ErrCopyIncomplete) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Week copied", "target_week_start": req.TargetWeekStart})
}
