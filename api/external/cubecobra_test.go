/* cubecobra_test.go
 * Contains unit tests for cubecobra.go
 */

package external

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// newTestClient creates a client pointed at server without rate limiting or long backoffs
func newTestClient(server *httptest.Server) *CubeCobraClient {
	client := NewCubeCobraClient(server.URL + "/")
	client.rateLimiter = rate.NewLimiter(rate.Inf, 1)
	client.backoff = time.Millisecond
	return client
}

func TestFetchCards_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cube/download/plaintext/abc123", r.URL.Path)
		assert.Equal(t, "DeckDumpBot/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("Shock\r\n  Opt  \n\nFire // Ice\n"))
	}))
	defer server.Close()

	cards, err := newTestClient(server).FetchCards(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, []string{"Shock", "Opt", "Fire // Ice"}, cards)
}

func TestFetchCards_Gzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("Black Lotus\nShock\n"))
		gz.Close()
	}))
	defer server.Close()

	cards, err := newTestClient(server).FetchCards(context.Background(), "vintage")

	require.NoError(t, err)
	assert.Equal(t, []string{"Black Lotus", "Shock"}, cards)
}

func TestFetchCards_NotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchCards(context.Background(), "missing")

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.CubeID)
	assert.Equal(t, int32(1), calls.Load(), "404 must not be retried")
}

func TestFetchCards_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.Write([]byte("Shock\n"))
		}
	}))
	defer server.Close()

	cards, err := newTestClient(server).FetchCards(context.Background(), "arena")

	require.NoError(t, err)
	assert.Equal(t, []string{"Shock"}, cards)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchCards_MaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchCards(context.Background(), "arena")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestFetchCards_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchCards(context.Background(), "arena")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchCards_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server).FetchCards(ctx, "arena")

	assert.ErrorIs(t, err, context.Canceled)
}
