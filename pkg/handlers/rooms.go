package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avops/roomops-api-go/pkg/models"
)

// ListRooms returns every canonical room name.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.Store.ListRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch rooms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// SeedRooms inserts room names from the building catalog. Merged display
// names ("GH 1420&30") are split into constituents before insertion.
func (h *Handler) SeedRooms(c *gin.Context) {
	var req struct {
		Names []string `json:"names" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Store.SeedRooms(req.Names); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not seed rooms"})
		return
	}
	rooms, err := h.Store.ListRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch rooms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// SplitRoom decomposes a merged display name into canonical constituents.
// The calendar importer calls this when normalizing feed entries.
func (h *Handler) SplitRoom(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":  name,
		"rooms": models.SplitMergedRoom(name),
	})
}
