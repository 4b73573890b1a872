package api

import (
	"fmt"

	"github.com/zfogg/otakulist/pkg/client"
	"github.com/zfogg/otakulist/pkg/logger"
)

// SearchMedia searches the anime/manga catalog. mediaType may be empty.
func SearchMedia(query string, mediaType string, limit int) (*MediaSearchResponse, error) {
	logger.Debug("Searching catalog", "query", query, "type", mediaType, "limit", limit)

	var response MediaSearchResponse

	req := client.GetClient().
		R().
		SetQueryParam("q", query).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&response)
	if mediaType != "" {
		req.SetQueryParam("type", mediaType)
	}

	resp, err := req.Get("/api/v1/media/search")
	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}

	return &response, nil
}
