package devserver

import "time"

type itemDTO struct {
	ID        string    `json:"id"`
	Position  int       `json:"position"`
	MediaID   string    `json:"media_id"`
	MediaType string    `json:"media_type"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

type listDTO struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	IsPublic      bool      `json:"is_public"`
	FollowerCount int       `json:"follower_count"`
	ItemCount     int       `json:"item_count"`
	IsFollowing   bool      `json:"is_following,omitempty"`
	Items         []itemDTO `json:"items,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type mediaDTO struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Year     int    `json:"year,omitempty"`
	Episodes int    `json:"episodes,omitempty"`
	Chapters int    `json:"chapters,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type errorResponse struct {
	Code      string     `json:"code"`
	Message   string     `json:"message,omitempty"`
	Conflict  bool       `json:"conflict,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type createListRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	IsPublic    bool   `json:"is_public"`
}

type addItemRequest struct {
	MediaID string `json:"media_id" binding:"required"`
	Notes   string `json:"notes" binding:"max=500"`
}

type itemPosition struct {
	ItemID   string `json:"item_id" binding:"required"`
	Position int    `json:"position"`
}

type reorderRequest struct {
	Items       []itemPosition `json:"items" binding:"required,dive"`
	LastUpdated *time.Time     `json:"last_updated" binding:"required"`
}

func toItemDTO(it ListItem) itemDTO {
	return itemDTO{
		ID:        it.ID,
		Position:  it.Position,
		MediaID:   it.MediaID,
		MediaType: it.Media.Type,
		Title:     it.Media.Title,
		ImageURL:  it.Media.ImageURL,
		Notes:     it.Notes,
		AddedAt:   it.AddedAt,
	}
}

func toMediaDTO(m Media) mediaDTO {
	return mediaDTO{
		ID:       m.ID,
		Type:     m.Type,
		Title:    m.Title,
		Year:     m.Year,
		Episodes: m.Episodes,
		Chapters: m.Chapters,
		ImageURL: m.ImageURL,
	}
}
