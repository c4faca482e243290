package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/avops/roomops-api-go/pkg/models"
	"github.com/avops/roomops-api-go/pkg/schedule"
)

// CommitBlocksRequest is the body for a full block-list commit: the
// assignment editor sends the final in-memory snapshot for one date.
// Block times unmarshal from the same "HH:MM" form the read endpoints
// serialize, so a fetched list commits back unmodified.
type CommitBlocksRequest struct {
	Date   string              `json:"date" binding:"required"`
	Blocks []models.ShiftBlock `json:"blocks"`
}

// normalizeBlocks stamps the request date onto every block and sorts the
// list by start time ahead of invariant validation.
func normalizeBlocks(date string, blocks []models.ShiftBlock) []models.ShiftBlock {
	for i := range blocks {
		blocks[i].Date = date
	}
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })
	return blocks
}

// validateBlockList enforces the block invariants on an incoming commit:
// strictly positive durations, non-overlapping sorted ranges, and disjoint
// room sets within each block.
func validateBlockList(blocks []models.ShiftBlock) error {
	for i, b := range blocks {
		if b.Start >= b.End {
			return fmt.Errorf("block %d has start %s >= end %s", i, b.Start, b.End)
		}
		if i > 0 && blocks[i-1].End > b.Start {
			return fmt.Errorf("block %d overlaps the previous block", i)
		}
		claimed := make(map[string]bool)
		for _, a := range b.Assignments {
			if a.StaffID == "" {
				return fmt.Errorf("block %d has an assignment with no staff id", i)
			}
			for _, r := range a.Rooms {
				if claimed[r] {
					return fmt.Errorf("block %d assigns room %s twice", i, r)
				}
				claimed[r] = true
			}
		}
	}
	return nil
}

// ListBlocks returns the persisted shift blocks for ?date=.
func (h *Handler) ListBlocks(c *gin.Context) {
	date := c.Query("date")
	if !models.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	blocks, err := h.Store.BlocksForDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch blocks"})
		return
	}
	h.RecordUsage(c, len(blocks), 0)
	c.JSON(http.StatusOK, gin.H{"blocks": blocks})
}

// CommitBlocks replaces one date's block list with the editor's final
// snapshot. The commit is all-or-nothing: on a store failure nothing is
// replaced and the previously persisted blocks are returned so the client
// can roll its view back to the last known-good state.
func (h *Handler) CommitBlocks(c *gin.Context) {
	var req CommitBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	blocks := normalizeBlocks(req.Date, req.Blocks)
	if err := validateBlockList(blocks); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prior, err := h.Store.BlocksForDate(req.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read current blocks"})
		return
	}
	if err := h.Store.ReplaceBlocksForDate(req.Date, blocks); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Commit failed; no changes were applied",
			"blocks": prior,
		})
		return
	}
	h.afterCommit(c.Request.Context(), req.Date, prior, blocks)

	saved, err := h.Store.BlocksForDate(req.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not re-read blocks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": saved})
}

// MoveRoomsRequest moves a selection of rooms within one block to a target
// staff member, or to unassigned when target is null.
type MoveRoomsRequest struct {
	Date      string   `json:"date" binding:"required"`
	BlockID   string   `json:"block_id" binding:"required"`
	Selection []string `json:"selection" binding:"required"`
	Target    *string  `json:"target"`
}

// MoveRooms applies one editor move server-side: load the date's blocks,
// rewrite the addressed block's assignments, and commit the whole list. A
// failed commit leaves the stored blocks untouched and returns them as the
// rollback state.
func (h *Handler) MoveRooms(c *gin.Context) {
	var req MoveRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prior, err := h.Store.BlocksForDate(req.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read blocks"})
		return
	}

	updated := make([]models.ShiftBlock, len(prior))
	copy(updated, prior)
	found := false
	for i, b := range updated {
		if b.ID == req.BlockID {
			updated[i].Assignments = schedule.MoveRooms(b.Assignments, req.Selection, req.Target)
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Block not found for date"})
		return
	}

	if err := h.Store.ReplaceBlocksForDate(req.Date, updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Move failed; no changes were applied",
			"blocks": prior,
		})
		return
	}
	h.afterCommit(c.Request.Context(), req.Date, prior, updated)

	saved, err := h.Store.BlocksForDate(req.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not re-read blocks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": saved})
}
