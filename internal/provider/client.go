// Package provider implements thin clients for the upstream market-data REST
// APIs (Finnhub, Polygon.io, CoinGecko).
//
// The failure contract for the whole system is established here: any network
// error, non-2xx status, or parse failure is logged and returned as an error
// that callers are expected to treat as "no data", not as an exceptional
// condition. The single distinct failure is ErrRateLimited (HTTP 429), which
// the search path surfaces to clients.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/asset-dashboard/internal/logging"
	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when an upstream provider answers HTTP 429.
var ErrRateLimited = errors.New("provider rate limit exceeded")

const requestTimeout = 30 * time.Second

// newHTTPClient returns the http.Client shared by the provider clients.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// getJSON performs a GET request, honoring the limiter, and decodes the JSON
// body into dest. Headers may be nil.
func getJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, url string, headers map[string]string, dest interface{}) error {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// logFetchError records a provider failure. Rate limits log at warn so they
// stand out from ordinary upstream noise.
func logFetchError(ctx context.Context, providerName, operation string, err error) {
	logger := logging.FromContext(ctx).WithFields(map[string]interface{}{
		"provider":  providerName,
		"operation": operation,
	})
	if errors.Is(err, ErrRateLimited) {
		logger.Warn("provider rate limited")
		return
	}
	logger.WithError(err).Warn("provider fetch failed")
}

// formatDate formats a time as the YYYY-MM-DD string the provider URLs expect.
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
