package devserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxSearchLimit = 50

// SearchMedia finds catalog entries whose title contains q
// GET /api/v1/media/search?q=&type=&limit=
func (h *Handlers) SearchMedia(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, http.StatusBadRequest, "invalid_request", "q is required")
		return
	}

	mediaType := strings.ToLower(c.Query("type"))
	if mediaType != "" && mediaType != "anime" && mediaType != "manga" {
		respondError(c, http.StatusBadRequest, "invalid_request", "type must be anime or manga")
		return
	}

	limit := queryInt(c, "limit", 20)
	if limit < 1 || limit > maxSearchLimit {
		limit = 20
	}

	q := h.db.WithContext(c.Request.Context()).
		Model(&Media{}).
		Where("LOWER(title) LIKE ?", "%"+strings.ToLower(query)+"%")
	if mediaType != "" {
		q = q.Where("type = ?", mediaType)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		h.fail(c, err)
		return
	}

	var found []Media
	if err := q.Order("title ASC, id ASC").Limit(limit).Find(&found).Error; err != nil {
		h.fail(c, err)
		return
	}

	results := make([]mediaDTO, 0, len(found))
	for _, m := range found {
		results = append(results, toMediaDTO(m))
	}

	c.JSON(http.StatusOK, gin.H{
		"results":     results,
		"total_count": total,
	})
}
