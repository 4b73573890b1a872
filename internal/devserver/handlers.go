package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Handlers serves the list API
type Handlers struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *Metrics
}

// NewHandlers creates the API handlers
func NewHandlers(db *gorm.DB, log *zap.Logger, metrics *Metrics) *Handlers {
	return &Handlers{db: db, log: log, metrics: metrics}
}

// apiError is returned from transactions to choose the response
type apiError struct {
	Status    int
	Code      string
	Message   string
	Conflict  bool
	UpdatedAt *time.Time
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func notFound(resource string) *apiError {
	return &apiError{Status: http.StatusNotFound, Code: "not_found", Message: resource + " not found"}
}

func forbidden(message string) *apiError {
	return &apiError{Status: http.StatusForbidden, Code: "forbidden", Message: message}
}

func badRequest(code, message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: code, Message: message}
}

// fail writes err as the response
func (h *Handlers) fail(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, errorResponse{
			Code:      apiErr.Code,
			Message:   apiErr.Message,
			Conflict:  apiErr.Conflict,
			UpdatedAt: apiErr.UpdatedAt,
		})
		return
	}

	h.log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	respondError(c, http.StatusInternalServerError, "internal_error", "internal server error")
}

// findList loads a list the user may see. Private lists of other users
// are reported as missing.
func findList(tx *gorm.DB, listID string, user *User, lock bool) (*List, error) {
	q := tx
	if lock && tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var list List
	if err := q.First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("list")
		}
		return nil, fmt.Errorf("load list %s: %w", listID, err)
	}

	if list.OwnerID != user.ID && !list.IsPublic {
		return nil, notFound("list")
	}
	return &list, nil
}

// findOwnedList loads a list the user may modify
func findOwnedList(tx *gorm.DB, listID string, user *User) (*List, error) {
	list, err := findList(tx, listID, user, true)
	if err != nil {
		return nil, err
	}
	if list.OwnerID != user.ID {
		return nil, forbidden("only the owner can change this list")
	}
	return list, nil
}

// bumpVersion advances the list version marker and returns it
func bumpVersion(tx *gorm.DB, list *List) (time.Time, error) {
	version := nextVersion(list.UpdatedAt)
	if err := tx.Model(&List{}).Where("id = ?", list.ID).Update("updated_at", version).Error; err != nil {
		return time.Time{}, fmt.Errorf("bump version of list %s: %w", list.ID, err)
	}
	list.UpdatedAt = version
	return version, nil
}

// summarize converts a list and fills in its counters
func summarize(tx *gorm.DB, list *List, userID string) (listDTO, error) {
	var items, followers, following int64
	if err := tx.Model(&ListItem{}).Where("list_id = ?", list.ID).Count(&items).Error; err != nil {
		return listDTO{}, err
	}
	if err := tx.Model(&Follow{}).Where("list_id = ?", list.ID).Count(&followers).Error; err != nil {
		return listDTO{}, err
	}
	if err := tx.Model(&Follow{}).Where("list_id = ? AND user_id = ?", list.ID, userID).Count(&following).Error; err != nil {
		return listDTO{}, err
	}

	dto := listDTO{
		ID:            list.ID,
		OwnerID:       list.OwnerID,
		Name:          list.Name,
		Description:   list.Description,
		IsPublic:      list.IsPublic,
		FollowerCount: int(followers),
		ItemCount:     int(items),
		IsFollowing:   following > 0,
		CreatedAt:     list.CreatedAt,
		UpdatedAt:     list.UpdatedAt,
	}
	for _, it := range list.Items {
		dto.Items = append(dto.Items, toItemDTO(it))
	}
	return dto, nil
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// Health reports database connectivity
// GET /health
func (h *Handlers) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "otakulist-devserver",
	})
}
