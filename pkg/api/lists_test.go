package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/otakulist/pkg/client"
	"github.com/zfogg/otakulist/pkg/config"
)

func newTestServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))
	config.Set("api.base_url", srv.URL)
	client.Init()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestReorderListItems_Success(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	var got ReorderRequest
	newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/lists/l1/reorder", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]interface{}{"updated_at": t1})
	})

	req := ReorderRequest{
		Items:       []ItemPosition{{ItemID: "b", Position: 0}, {ItemID: "a", Position: 1}},
		LastUpdated: t0,
	}
	resp, err := ReorderListItems(context.Background(), "l1", req)
	require.NoError(t, err)
	assert.True(t, resp.UpdatedAt.Equal(t1))
	assert.Equal(t, req.Items, got.Items)
	assert.True(t, got.LastUpdated.Equal(t0))
}

func TestReorderListItems_ConflictFlag(t *testing.T) {
	serverAt := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"code":       "conflict",
			"conflict":   true,
			"message":    "list was reordered elsewhere",
			"updated_at": serverAt,
		})
	})

	_, err := ReorderListItems(context.Background(), "l1", ReorderRequest{})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "l1", conflict.ListID)
	assert.Equal(t, "list was reordered elsewhere", conflict.Message)
	require.NotNil(t, conflict.ServerUpdatedAt)
	assert.True(t, conflict.ServerUpdatedAt.Equal(serverAt))
}

func TestReorderListItems_409WithoutFlagIsGenericFailure(t *testing.T) {
	newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{"code": "conflict", "message": "duplicate"})
	})

	_, err := ReorderListItems(context.Background(), "l1", ReorderRequest{})
	require.Error(t, err)
	assert.False(t, IsConflict(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestReorderListItems_ServerError(t *testing.T) {
	newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	_, err := ReorderListItems(context.Background(), "l1", ReorderRequest{})
	require.Error(t, err)
	assert.False(t, IsConflict(err))
	assert.True(t, IsServerError(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "unknown_error", apiErr.Code)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestReorderListItems_TransportError(t *testing.T) {
	newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	config.Set("api.base_url", "http://127.0.0.1:1")
	client.Init()

	_, err := ReorderListItems(context.Background(), "l1", ReorderRequest{})
	require.Error(t, err)
	assert.False(t, IsConflict(err))
}

func TestGetList_SortsItemsByPosition(t *testing.T) {
	newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/lists/l1", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"list": map[string]interface{}{
				"id": "l1",
				"items": []map[string]interface{}{
					{"id": "c", "position": 2},
					{"id": "a", "position": 0},
					{"id": "b", "position": 1},
				},
			},
		})
	})

	list, err := GetList("l1")
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{list.Items[0].ID, list.Items[1].ID, list.Items[2].ID})
}

func TestGetList_NotFound(t *testing.T) {
	newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"code": "not_found", "message": "list not found"})
	})

	_, err := GetList("missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSearchMedia_QueryParams(t *testing.T) {
	newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/media/search", r.URL.Path)
		assert.Equal(t, "frieren", r.URL.Query().Get("q"))
		assert.Equal(t, MediaTypeAnime, r.URL.Query().Get("type"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, MediaSearchResponse{
			Results:    []Media{{ID: "m1", Type: MediaTypeAnime, Title: "Frieren"}},
			TotalCount: 1,
		})
	})

	res, err := SearchMedia("frieren", MediaTypeAnime, 5)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "Frieren", res.Results[0].Title)
}

func TestPositionsOf(t *testing.T) {
	items := []ListItem{{ID: "x", Position: 7}, {ID: "y", Position: 3}}
	assert.Equal(t, []ItemPosition{{ItemID: "x", Position: 0}, {ItemID: "y", Position: 1}}, PositionsOf(items))
}
