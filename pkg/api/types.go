package api

import "time"

// Media types accepted by the catalog
const (
	MediaTypeAnime = "anime"
	MediaTypeManga = "manga"
)

// ListItem is one entry of a user's custom list. Position is zero-based
// and dense across the list.
type ListItem struct {
	ID        string    `json:"id"`
	Position  int       `json:"position"`
	MediaID   string    `json:"media_id"`
	MediaType string    `json:"media_type"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// CustomList is a user-owned ordered list of media
type CustomList struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	IsPublic      bool       `json:"is_public"`
	FollowerCount int        `json:"follower_count"`
	ItemCount     int        `json:"item_count"`
	IsFollowing   bool       `json:"is_following,omitempty"`
	Items         []ListItem `json:"items,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ListsResponse wraps a page of lists
type ListsResponse struct {
	Lists      []CustomList `json:"lists"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
}

// CreateListRequest is the request to create a list
type CreateListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// AddItemRequest adds a catalog entry to a list
type AddItemRequest struct {
	MediaID string `json:"media_id"`
	Notes   string `json:"notes,omitempty"`
}

// ItemPosition is one slot of a reorder payload
type ItemPosition struct {
	ItemID   string `json:"item_id"`
	Position int    `json:"position"`
}

// ReorderRequest carries the full new order and the list version the
// client based it on.
type ReorderRequest struct {
	Items       []ItemPosition `json:"items"`
	LastUpdated time.Time      `json:"last_updated"`
}

// ReorderResponse is returned when the server accepted an order
type ReorderResponse struct {
	UpdatedAt time.Time `json:"updated_at"`
	Message   string    `json:"message,omitempty"`
}

// Media is a catalog entry
type Media struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Year     int    `json:"year,omitempty"`
	Episodes int    `json:"episodes,omitempty"`
	Chapters int    `json:"chapters,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// MediaSearchResponse wraps catalog search results
type MediaSearchResponse struct {
	Results    []Media `json:"results"`
	TotalCount int     `json:"total_count"`
}

// ErrorResponse is the error body returned by the API
type ErrorResponse struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Conflict  bool                   `json:"conflict,omitempty"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// PositionsOf converts items into a reorder payload, numbering by index
func PositionsOf(items []ListItem) []ItemPosition {
	out := make([]ItemPosition, len(items))
	for i, it := range items {
		out[i] = ItemPosition{ItemID: it.ID, Position: i}
	}
	return out
}
