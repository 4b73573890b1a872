package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GetLists returns the caller's lists, newest first
// GET /api/v1/lists
func (h *Handlers) GetLists(c *gin.Context) {
	user := currentUser(c)
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	db := h.db.WithContext(c.Request.Context())

	var total int64
	if err := db.Model(&List{}).Where("owner_id = ?", user.ID).Count(&total).Error; err != nil {
		h.fail(c, err)
		return
	}

	var lists []List
	if err := db.Where("owner_id = ?", user.ID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&lists).Error; err != nil {
		h.fail(c, err)
		return
	}

	out := make([]listDTO, 0, len(lists))
	for i := range lists {
		dto, err := summarize(db, &lists[i], user.ID)
		if err != nil {
			h.fail(c, err)
			return
		}
		out = append(out, dto)
	}

	c.JSON(http.StatusOK, gin.H{
		"lists":       out,
		"total_count": total,
		"page":        page,
		"page_size":   pageSize,
	})
}

// GetList returns a list with its items in position order
// GET /api/v1/lists/:id
func (h *Handlers) GetList(c *gin.Context) {
	user := currentUser(c)
	db := h.db.WithContext(c.Request.Context())

	list, err := findList(db, c.Param("id"), user, false)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := db.Preload("Media").
		Where("list_id = ?", list.ID).
		Order("position ASC").
		Find(&list.Items).Error; err != nil {
		h.fail(c, err)
		return
	}

	dto, err := summarize(db, list, user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": dto})
}

// CreateList creates an empty list owned by the caller
// POST /api/v1/lists
func (h *Handlers) CreateList(c *gin.Context) {
	user := currentUser(c)

	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(c, http.StatusBadRequest, "invalid_request", "name cannot be blank")
		return
	}

	list := &List{
		OwnerID:     user.ID,
		Name:        name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}

	db := h.db.WithContext(c.Request.Context())
	if err := db.Create(list).Error; err != nil {
		h.fail(c, fmt.Errorf("create list: %w", err))
		return
	}

	h.log.Info("List created", zap.String("list_id", list.ID), zap.String("user_id", user.ID))

	dto, err := summarize(db, list, user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"list": dto})
}

// DeleteList deletes a list with its items and followers
// DELETE /api/v1/lists/:id
func (h *Handlers) DeleteList(c *gin.Context) {
	user := currentUser(c)

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		list, err := findOwnedList(tx, c.Param("id"), user)
		if err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", list.ID).Delete(&ListItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", list.ID).Delete(&Follow{}).Error; err != nil {
			return err
		}
		return tx.Delete(list).Error
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "list deleted"})
}

// AddListItem appends a catalog entry to a list
// POST /api/v1/lists/:id/items
func (h *Handlers) AddListItem(c *gin.Context) {
	user := currentUser(c)

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var item ListItem
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		list, err := findOwnedList(tx, c.Param("id"), user)
		if err != nil {
			return err
		}

		var media Media
		if err := tx.First(&media, "id = ?", req.MediaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("media")
			}
			return err
		}

		var existing int64
		if err := tx.Model(&ListItem{}).Where("list_id = ? AND media_id = ?", list.ID, media.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return &apiError{Status: http.StatusConflict, Code: "already_exists", Message: media.Title + " is already in this list"}
		}

		var count int64
		if err := tx.Model(&ListItem{}).Where("list_id = ?", list.ID).Count(&count).Error; err != nil {
			return err
		}

		item = ListItem{
			ListID:   list.ID,
			MediaID:  media.ID,
			Position: int(count),
			Notes:    req.Notes,
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		item.Media = media

		_, err = bumpVersion(tx, list)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": toItemDTO(item)})
}

// RemoveListItem removes an item and closes the gap it leaves
// DELETE /api/v1/lists/:id/items/:item_id
func (h *Handlers) RemoveListItem(c *gin.Context) {
	user := currentUser(c)

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		list, err := findOwnedList(tx, c.Param("id"), user)
		if err != nil {
			return err
		}

		var item ListItem
		if err := tx.First(&item, "id = ? AND list_id = ?", c.Param("item_id"), list.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("item")
			}
			return err
		}

		if err := tx.Delete(&item).Error; err != nil {
			return err
		}

		if err := tx.Model(&ListItem{}).
			Where("list_id = ? AND position > ?", list.ID, item.Position).
			Update("position", gorm.Expr("position - 1")).Error; err != nil {
			return err
		}

		_, err = bumpVersion(tx, list)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

// FollowList subscribes the caller to another user's list
// POST /api/v1/lists/:id/follow
func (h *Handlers) FollowList(c *gin.Context) {
	user := currentUser(c)

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		list, err := findList(tx, c.Param("id"), user, false)
		if err != nil {
			return err
		}
		if list.OwnerID == user.ID {
			return badRequest("invalid_request", "cannot follow your own list")
		}
		follow := Follow{ListID: list.ID, UserID: user.ID}
		return tx.Where(&follow).FirstOrCreate(&follow).Error
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "following list"})
}

// UnfollowList removes the caller's subscription
// DELETE /api/v1/lists/:id/follow
func (h *Handlers) UnfollowList(c *gin.Context) {
	user := currentUser(c)

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		list, err := findList(tx, c.Param("id"), user, false)
		if err != nil {
			return err
		}
		return tx.Where("list_id = ? AND user_id = ?", list.ID, user.ID).Delete(&Follow{}).Error
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "unfollowed list"})
}
