package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const conflictMessage = "This list was changed in another session."

// ReorderList replaces the order of a list. The request must carry the
// version the client last saw; a stale version is rejected with a
// conflict so the client can roll back.
// PUT /api/v1/lists/:id/reorder
func (h *Handlers) ReorderList(c *gin.Context) {
	user := currentUser(c)

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordReorder(outcomeInvalid)
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var version time.Time
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		list, err := findOwnedList(tx, c.Param("id"), user)
		if err != nil {
			return err
		}

		if !req.LastUpdated.Equal(list.UpdatedAt) {
			current := list.UpdatedAt
			return &apiError{
				Status:    http.StatusConflict,
				Code:      "conflict",
				Message:   conflictMessage,
				Conflict:  true,
				UpdatedAt: &current,
			}
		}

		var items []ListItem
		if err := tx.Where("list_id = ?", list.ID).Find(&items).Error; err != nil {
			return err
		}

		order, err := validateOrder(items, req.Items)
		if err != nil {
			return badRequest("invalid_order", err.Error())
		}

		for _, it := range items {
			pos := order[it.ID]
			if pos == it.Position {
				continue
			}
			if err := tx.Model(&ListItem{}).Where("id = ?", it.ID).Update("position", pos).Error; err != nil {
				return fmt.Errorf("update position of %s: %w", it.ID, err)
			}
		}

		version, err = bumpVersion(tx, list)
		return err
	})

	if err != nil {
		h.metrics.RecordReorder(reorderOutcome(err))
		h.log.Debug("Reorder rejected", zap.String("list_id", c.Param("id")), zap.Error(err))
		h.fail(c, err)
		return
	}

	h.metrics.RecordReorder(outcomeCommitted)
	h.metrics.ReorderItems.Observe(float64(len(req.Items)))
	h.log.Info("List reordered",
		zap.String("list_id", c.Param("id")),
		zap.Int("items", len(req.Items)),
		zap.Time("updated_at", version),
	)

	c.JSON(http.StatusOK, gin.H{
		"updated_at": version,
		"message":    "order saved",
	})
}

// validateOrder checks that positions is a permutation of items over
// the dense range 0..n-1 and returns the new position per item id.
func validateOrder(items []ListItem, positions []itemPosition) (map[string]int, error) {
	if len(positions) != len(items) {
		return nil, fmt.Errorf("order names %d items, list has %d", len(positions), len(items))
	}

	known := make(map[string]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}

	order := make(map[string]int, len(positions))
	taken := make([]bool, len(positions))
	for _, p := range positions {
		if !known[p.ItemID] {
			return nil, fmt.Errorf("item %s is not in this list", p.ItemID)
		}
		if _, dup := order[p.ItemID]; dup {
			return nil, fmt.Errorf("item %s appears twice", p.ItemID)
		}
		if p.Position < 0 || p.Position >= len(positions) {
			return nil, fmt.Errorf("position %d out of range", p.Position)
		}
		if taken[p.Position] {
			return nil, fmt.Errorf("position %d used twice", p.Position)
		}
		taken[p.Position] = true
		order[p.ItemID] = p.Position
	}
	return order, nil
}

func reorderOutcome(err error) string {
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		return outcomeError
	}
	if apiErr.Conflict {
		return outcomeConflict
	}
	return outcomeInvalid
}
