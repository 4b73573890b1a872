package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/otakulist/pkg/api"
	"github.com/zfogg/otakulist/pkg/config"
	clierrors "github.com/zfogg/otakulist/pkg/errors"
)

func TestSearch(t *testing.T) {
	e := newEnv(t, config.ConflictKeep)
	svc := NewSearchService()

	require.NoError(t, svc.Search("monster", "", 10))
	out := e.out.String()
	assert.Contains(t, out, "monster-anime")
	assert.Contains(t, out, "monster-manga")
	assert.Contains(t, out, "(2 found)")

	e.out.Reset()
	require.NoError(t, svc.Search("Monster", "MANGA", 10))
	assert.NotContains(t, e.out.String(), "monster-anime")

	e.out.Reset()
	require.NoError(t, svc.Search("no such title", "", 10))
	assert.Contains(t, e.out.String(), "No results")
}

func TestSearch_Validation(t *testing.T) {
	newEnv(t, config.ConflictKeep)
	svc := NewSearchService()

	tests := []struct {
		name      string
		query     string
		mediaType string
		limit     int
	}{
		{"empty query", "  ", "", 10},
		{"bad type", "bebop", "novel", 10},
		{"zero limit", "bebop", "", 0},
		{"limit too high", "bebop", "", 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Search(tt.query, tt.mediaType, tt.limit)
			require.Error(t, err)
			assert.Equal(t, clierrors.ErrorTypeValidation, clierrors.CategorizeError(err).Type)
		})
	}
}

func TestMediaLength(t *testing.T) {
	assert.Equal(t, "26 ep", mediaLength(api.Media{Episodes: 26}))
	assert.Equal(t, "374 ch", mediaLength(api.Media{Chapters: 374}))
	assert.Equal(t, "", mediaLength(api.Media{}))
}
