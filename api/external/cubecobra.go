/* cubecobra.go
 * Contains the client used to fetch cube card lists from CubeCobra's plaintext export
 */

package external

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	CubeCobraBaseURL = "https://cubecobra.com"
	rateLimitDelay   = 500 * time.Millisecond
	requestTimeout   = 30 * time.Second
	maxRetries       = 3
	initialBackoff   = 1 * time.Second
	maxBackoff       = 16 * time.Second
)

// NotFoundError is returned when CubeCobra has no cube with the requested id
type NotFoundError struct {
	CubeID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cube %s not found on CubeCobra", e.CubeID)
}

// CubeCobraClient fetches card lists from CubeCobra with rate limiting and retries
type CubeCobraClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	backoff     time.Duration
}

// NewCubeCobraClient creates a client for the CubeCobra instance at baseURL. An empty baseURL uses cubecobra.com
func NewCubeCobraClient(baseURL string) *CubeCobraClient {
	if baseURL == "" {
		baseURL = CubeCobraBaseURL
	}
	return &CubeCobraClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "DeckDumpBot/1.0",
		backoff:     initialBackoff,
	}
}

// FetchCards returns the card names in a cube, one per non-empty line of the plaintext export
// Preconditions: Receives a context and the cube's CubeCobra id
// Postconditions: Returns the trimmed card names in export order, a *NotFoundError if the cube does not exist, or
// an error once the retries are used up
func (c *CubeCobraClient) FetchCards(ctx context.Context, cubeCobraID string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/cube/download/plaintext/%s", c.baseURL, url.PathEscape(cubeCobraID))

	body, err := c.doRequest(ctx, endpoint, cubeCobraID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cube %s: %w", cubeCobraID, err)
	}

	var cards []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			cards = append(cards, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cube %s: %w", cubeCobraID, err)
	}
	return cards, nil
}

// doRequest performs a GET with rate limiting, retrying network errors, 429 and 5xx responses
func (c *CubeCobraClient) doRequest(ctx context.Context, endpoint string, cubeID string) (string, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff); err != nil {
				return "", err
			}
			backoff = min(backoff*2, maxBackoff)
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		request.Header.Set("User-Agent", c.userAgent)
		request.Header.Set("Accept-Encoding", "gzip")

		response, err := c.httpClient.Do(request)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		body, retry, err := readResponse(response, cubeID)
		if err == nil {
			return body, nil
		}
		if !retry {
			return "", err
		}
		lastErr = err
		if wait := retryAfter(response); wait > backoff {
			backoff = min(wait, maxBackoff)
		}
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// readResponse reads the body of a response and reports whether a failed request is worth retrying
func readResponse(response *http.Response, cubeID string) (string, bool, error) {
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusOK:
	case response.StatusCode == http.StatusNotFound:
		return "", false, &NotFoundError{CubeID: cubeID}
	case response.StatusCode == http.StatusTooManyRequests:
		return "", true, fmt.Errorf("rate limited (HTTP 429)")
	case response.StatusCode >= http.StatusInternalServerError:
		return "", true, fmt.Errorf("server error (HTTP %d)", response.StatusCode)
	default:
		return "", false, fmt.Errorf("request failed with status %d", response.StatusCode)
	}

	var reader io.Reader = response.Body
	if response.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(response.Body)
		if err != nil {
			return "", false, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", true, fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), false, nil
}

// retryAfter returns the delay requested by a Retry-After header given in seconds
func retryAfter(response *http.Response) time.Duration {
	seconds, err := strconv.Atoi(response.Header.Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
