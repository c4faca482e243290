package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avops/roomops-api-go/pkg/models"
)

// ValidateBlocks checks a proposed block-list commit without persisting it.
// Machine clients use this to pre-flight generated schedules.
func (h *Handler) ValidateBlocks(c *gin.Context) {
	var req CommitBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if !models.ValidDate(req.Date) {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "date must be YYYY-MM-DD",
		})
		return
	}

	blocks := normalizeBlocks(req.Date, req.Blocks)
	if err := validateBlockList(blocks); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	h.RecordUsage(c, len(blocks), 0)

	staffCount := make(map[string]bool)
	roomCount := 0
	for _, b := range blocks {
		for _, a := range b.Assignments {
			staffCount[a.StaffID] = true
			roomCount += len(a.Rooms)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"block_count": len(blocks),
			"staff_count": len(staffCount),
			"room_count":  roomCount,
		},
	})
}
