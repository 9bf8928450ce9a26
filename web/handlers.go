/* handlers.go
 * Contains the HTTP handlers. The refresh webhook lets a scheduler or CubeCobra integration kick off a catalog
 * refresh without going through Discord
 */

package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/google/logger"
)

const secretHeader = "X-Webhook-Secret"

// RefreshEvent is the body of a refresh webhook. No cube names means every cube
type RefreshEvent struct {
	Cubes []string `json:"cubes"`
}

// HealthStatus is the body returned by the health endpoint
type HealthStatus struct {
	Status      string `json:"status"`
	Cubes       int    `json:"cubes"`
	OpenPrompts int    `json:"open_prompts"`
}

// RefreshWebhookHandler HTTP endpoint that receives a webhook used to kick off refreshing cube card lists
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Responds 202 and refreshes the named cubes in the background, or responds with an error status if
// the request is not an authorised POST with a valid body
func (s *Server) RefreshWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.authorised(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	defer r.Body.Close()

	var event RefreshEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		logger.Warningf("Failed to decode refresh webhook: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if s.api == nil || s.fetcher == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	logger.Infof("Refresh webhook for cubes %v", event.Cubes)

	s.refreshes.Add(1)
	go func(e RefreshEvent) {
		defer s.refreshes.Done()
		catalog, err := s.api.RefreshCubes(context.Background(), s.fetcher, s.cubesFile, e.Cubes...)
		if err != nil {
			logger.Errorf("Webhook refresh failed: %v", err)
			return
		}
		logger.Infof("Webhook refresh finished, %d cubes in catalog", catalog.Len())
	}(event)

	w.WriteHeader(http.StatusAccepted)
}

// HealthHandler reports the size of the catalog and the number of open prompts
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	status := HealthStatus{Status: "ok"}
	if s.api != nil {
		status.Cubes = s.api.Catalog().Len()
		status.OpenPrompts = s.api.Prompts.Len()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		logger.Warningf("Failed to write health status: %v", err)
	}
}

// authorised checks the shared secret. An empty secret disables the check
func (s *Server) authorised(r *http.Request) bool {
	if s.secret == "" {
		return true
	}
	given := r.Header.Get(secretHeader)
	return subtle.ConstantTimeCompare([]byte(given), []byte(s.secret)) == 1
}

// routes registers the handlers on a new mux
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhooks/refresh", s.RefreshWebhookHandler)
	mux.HandleFunc("/healthz", s.HealthHandler)
	return mux
}
