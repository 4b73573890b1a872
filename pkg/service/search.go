package service

import (
	"fmt"
	"strings"

	"github.com/zfogg/otakulist/pkg/api"
	clierrors "github.com/zfogg/otakulist/pkg/errors"
	"github.com/zfogg/otakulist/pkg/logger"
	"github.com/zfogg/otakulist/pkg/output"
)

const maxSearchLimit = 50

// SearchService provides catalog search
type SearchService struct{}

// NewSearchService creates a new search service
func NewSearchService() *SearchService {
	return &SearchService{}
}

// Search looks up anime or manga by title. mediaType may be empty to
// search both.
func (ss *SearchService) Search(query, mediaType string, limit int) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return clierrors.ValidationError("query", "cannot be empty")
	}

	mediaType = strings.ToLower(mediaType)
	switch mediaType {
	case "", api.MediaTypeAnime, api.MediaTypeManga:
	default:
		return clierrors.ValidationError("type", "must be anime or manga")
	}

	if limit < 1 || limit > maxSearchLimit {
		return clierrors.ValidationError("limit", fmt.Sprintf("must be between 1 and %d", maxSearchLimit))
	}

	resp, err := api.SearchMedia(query, mediaType, limit)
	if err != nil {
		logger.Error("Search failed", "error", err)
		return err
	}

	switch output.GetOutputFormat() {
	case output.FormatJSON:
		return output.PrintJSON(resp)
	case output.FormatTable:
		output.PrintTable([]string{"ID", "Type", "Title", "Year", "Length"}, mediaRows(resp.Results))
		return nil
	}

	if len(resp.Results) == 0 {
		output.Printf("No results for %q\n", query)
		return nil
	}

	output.Printf("\nSearch results for %q (%d found)\n\n", query, resp.TotalCount)
	for _, m := range resp.Results {
		output.Printf("  %-10s [%s] %s", m.ID, m.Type, truncate(m.Title, 50))
		if m.Year > 0 {
			output.Printf(" (%d)", m.Year)
		}
		output.Printf("\n")
	}
	output.Printf("\nAdd one with `list add <list-id> <media-id>`.\n")
	return nil
}

func mediaRows(results []api.Media) [][]string {
	rows := make([][]string, len(results))
	for i, m := range results {
		year := ""
		if m.Year > 0 {
			year = fmt.Sprintf("%d", m.Year)
		}
		rows[i] = []string{m.ID, m.Type, truncate(m.Title, 40), year, mediaLength(m)}
	}
	return rows
}

func mediaLength(m api.Media) string {
	switch {
	case m.Episodes > 0:
		return fmt.Sprintf("%d ep", m.Episodes)
	case m.Chapters > 0:
		return fmt.Sprintf("%d ch", m.Chapters)
	}
	return ""
}
