package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/otakulist/internal/devserver"
	"github.com/zfogg/otakulist/pkg/api"
	"github.com/zfogg/otakulist/pkg/client"
	"github.com/zfogg/otakulist/pkg/config"
	"github.com/zfogg/otakulist/pkg/logger"
	"github.com/zfogg/otakulist/pkg/output"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testToken     = "svc-token"
	demoListName  = "All-time favourites"
	rivalListName = "Manga to read before you die"
)

// env runs the CLI services against an in-process devserver. Reorder
// requests pass through a proxy so tests can change the list behind the
// client's back first.
type env struct {
	t      *testing.T
	server *devserver.Server
	http   *httptest.Server
	out    *bytes.Buffer

	mu            sync.Mutex
	beforeReorder func()
	rejectStatus  int
	reorders      int
}

func newEnv(t *testing.T, policy string) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv, err := devserver.New(devserver.Config{
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		DevToken: testToken,
	}, zap.NewNop())
	require.NoError(t, err)

	e := &env{t: t, server: srv, out: &bytes.Buffer{}}
	e.http = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/reorder") {
			e.mu.Lock()
			e.reorders++
			hook := e.beforeReorder
			e.beforeReorder = nil
			reject := e.rejectStatus
			e.mu.Unlock()
			if hook != nil {
				hook()
			}
			if reject != 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(reject)
				_, _ = w.Write([]byte(`{"code":"unavailable","message":"try later"}`))
				return
			}
		}
		srv.Handler().ServeHTTP(w, r)
	}))
	t.Cleanup(func() {
		e.http.Close()
		_ = srv.Close()
	})

	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))
	config.Set("api.base_url", e.http.URL)
	config.Set("auth.token", testToken)
	config.Set("output.format", "text")
	config.Set("reorder.on_conflict", policy)
	client.Init()
	logger.SetOutput(io.Discard, log.ErrorLevel)

	prev := output.Out
	output.Out = e.out
	t.Cleanup(func() { output.Out = prev })

	return e
}

func (e *env) listID(name string) string {
	var list devserver.List
	require.NoError(e.t, e.server.DB().First(&list, "name = ?", name).Error)
	return list.ID
}

// rejectReorders answers every reorder with status
func (e *env) rejectReorders(status int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rejectStatus = status
}

func (e *env) reorderCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reorders
}

// competeOnNextReorder makes another session reverse the list just
// before the client's next reorder reaches the server.
func (e *env) competeOnNextReorder(listID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beforeReorder = func() {
		var list devserver.List
		err := e.server.DB().
			Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
			First(&list, "id = ?", listID).Error
		if !assert.NoError(e.t, err) {
			return
		}

		items := make([]map[string]interface{}, len(list.Items))
		for i, it := range list.Items {
			items[len(items)-1-i] = map[string]interface{}{"item_id": it.ID, "position": len(items) - 1 - i}
		}
		body, _ := json.Marshal(map[string]interface{}{"items": items, "last_updated": list.UpdatedAt})

		req := httptest.NewRequest(http.MethodPut, "/api/v1/lists/"+listID+"/reorder", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+testToken)
		w := httptest.NewRecorder()
		e.server.Handler().ServeHTTP(w, req)
		assert.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	}
}

func titles(t *testing.T, listID string) []string {
	t.Helper()
	list, err := api.GetList(listID)
	require.NoError(t, err)
	out := make([]string, len(list.Items))
	for i, it := range list.Items {
		out[i] = it.Title
	}
	return out
}

var seededTitles = []string{
	"Cowboy Bebop",
	"Fullmetal Alchemist: Brotherhood",
	"Steins;Gate",
	"Mushishi",
	"Frieren: Beyond Journey's End",
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}
