/* handlers_test.go
 * Contains unit tests for handlers.go functions
 */

package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	apiPkg "deckdump-bot/api/api"
	"deckdump-bot/api/cubes"
	"deckdump-bot/api/disambiguation"
	"deckdump-bot/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestServer creates a server over a one cube catalog with the given fetcher
func createTestServer(t *testing.T, fetcher cubes.CardFetcher, secret string) *Server {
	t.Helper()
	catalog, err := cubes.NewCatalog(cubes.NewCube("Arena Cube", []string{"Opt"}, shared.SubmissionInfo{}, "arena"))
	require.NoError(t, err)
	api, err := apiPkg.NewAPI(catalog, &apiPkg.MockSheetWriter{}, disambiguation.NewCoordinator(time.Hour, nil))
	require.NoError(t, err)

	return NewServer(Config{
		Addr:      ":0",
		Secret:    secret,
		CubesFile: filepath.Join(t.TempDir(), "cubes.json"),
		API:       api,
		Fetcher:   fetcher,
	})
}

func refreshRequest(t *testing.T, event RefreshEvent, secret string) *http.Request {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/refresh", bytes.NewReader(body))
	if secret != "" {
		req.Header.Set(secretHeader, secret)
	}
	return req
}

// region RefreshWebhookHandler tests

func TestRefreshWebhookHandler_WrongMethod(t *testing.T) {
	server := createTestServer(t, &apiPkg.MockFetcher{}, "")

	req := httptest.NewRequest(http.MethodGet, "/webhooks/refresh", nil)
	w := httptest.NewRecorder()

	server.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRefreshWebhookHandler_InvalidJSON(t *testing.T) {
	server := createTestServer(t, &apiPkg.MockFetcher{}, "")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/refresh", bytes.NewBufferString("invalid json"))
	w := httptest.NewRecorder()

	server.RefreshWebhookHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshWebhookHandler_Secret(t *testing.T) {
	server := createTestServer(t, &apiPkg.MockFetcher{}, "hunter2")

	w := httptest.NewRecorder()
	server.RefreshWebhookHandler(w, refreshRequest(t, RefreshEvent{}, "wrong"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	server.RefreshWebhookHandler(w, refreshRequest(t, RefreshEvent{}, ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshWebhookHandler_RefreshesCatalog(t *testing.T) {
	fetcher := &apiPkg.MockFetcher{Cards: map[string][]string{"arena": {"Shock", "Opt"}}}
	server := createTestServer(t, fetcher, "hunter2")

	w := httptest.NewRecorder()
	server.RefreshWebhookHandler(w, refreshRequest(t, RefreshEvent{Cubes: []string{"Arena Cube"}}, "hunter2"))
	server.refreshes.Wait()

	assert.Equal(t, http.StatusAccepted, w.Code)
	arena, ok := server.api.Catalog().Get("Arena Cube")
	require.True(t, ok)
	assert.True(t, arena.Has("Shock"))

	saved, err := cubes.Load(server.cubesFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arena Cube"}, saved.Names())
}

func TestRefreshWebhookHandler_FailedRefreshKeepsCatalog(t *testing.T) {
	server := createTestServer(t, &apiPkg.MockFetcher{Err: errors.New("offline")}, "")
	before := server.api.Catalog()

	w := httptest.NewRecorder()
	server.RefreshWebhookHandler(w, refreshRequest(t, RefreshEvent{}, ""))
	server.refreshes.Wait()

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Same(t, before, server.api.Catalog())
}

func TestRefreshWebhookHandler_NotConfigured(t *testing.T) {
	server := createTestServer(t, nil, "")
	server.fetcher = nil

	w := httptest.NewRecorder()
	server.RefreshWebhookHandler(w, refreshRequest(t, RefreshEvent{}, ""))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// endregion

// region HealthHandler tests

func TestHealthHandler(t *testing.T) {
	server := createTestServer(t, &apiPkg.MockFetcher{}, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	server.routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var status HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, HealthStatus{Status: "ok", Cubes: 1, OpenPrompts: 0}, status)
}

// endregion
