package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// PolygonClient fetches daily aggregate bars and ticker reference data from
// the Polygon.io REST API.
type PolygonClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewPolygonClient creates a new Polygon API client.
// Free tier allows 5 requests per minute, so the limiter is deliberately slow.
func NewPolygonClient(apiKey string) *PolygonClient {
	return &PolygonClient{
		apiKey:  apiKey,
		baseURL: "https://api.polygon.io",
		client:  newHTTPClient(),
		limiter: rate.NewLimiter(rate.Every(12*time.Second), 5),
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *PolygonClient) SetBaseURL(u string) {
	c.baseURL = u
}

// AggregateBar is one daily OHLCV bar.
type AggregateBar struct {
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
	Timestamp int64   `json:"t"` // unix milliseconds
}

// AggregatesResponse is the response for aggregate range queries.
type AggregatesResponse struct {
	Ticker       string         `json:"ticker"`
	ResultsCount int            `json:"resultsCount"`
	Results      []AggregateBar `json:"results"`
	Status       string         `json:"status"`
}

// TickerMatch is one entry from the ticker reference search.
type TickerMatch struct {
	Ticker          string `json:"ticker"`
	Name            string `json:"name"`
	Market          string `json:"market"`
	PrimaryExchange string `json:"primary_exchange"`
	Type            string `json:"type"`
}

// TickerSearchResponse is the response for ticker reference searches.
type TickerSearchResponse struct {
	Results []TickerMatch `json:"results"`
	Status  string        `json:"status"`
	Count   int           `json:"count"`
}

// GetDailyRange fetches daily bars for the trailing `days` days, chronological.
// Failure here degrades the caller's response to "no chart"; it never fails a request.
func (c *PolygonClient) GetDailyRange(ctx context.Context, symbol string, days int) ([]AggregateBar, error) {
	now := time.Now()
	from := formatDate(now.AddDate(0, 0, -days))
	to := formatDate(now)

	u := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&apiKey=%s",
		c.baseURL, url.PathEscape(symbol), from, to, c.apiKey)

	var resp AggregatesResponse
	if err := getJSON(ctx, c.client, c.limiter, u, nil, &resp); err != nil {
		logFetchError(ctx, "polygon", "daily-range", err)
		return nil, err
	}
	return resp.Results, nil
}

// GetPreviousDay fetches the previous trading day's bar for a symbol.
func (c *PolygonClient) GetPreviousDay(ctx context.Context, symbol string) (*AggregateBar, error) {
	u := fmt.Sprintf("%s/v2/aggs/ticker/%s/prev?adjusted=true&apiKey=%s",
		c.baseURL, url.PathEscape(symbol), c.apiKey)

	var resp AggregatesResponse
	if err := getJSON(ctx, c.client, c.limiter, u, nil, &resp); err != nil {
		logFetchError(ctx, "polygon", "previous-day", err)
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}

// SearchTickers searches active tickers by free-text query.
// ErrRateLimited propagates so the search endpoint can answer 429.
func (c *PolygonClient) SearchTickers(ctx context.Context, query string, limit int) ([]TickerMatch, error) {
	u := fmt.Sprintf("%s/v3/reference/tickers?search=%s&active=true&limit=%d&apiKey=%s",
		c.baseURL, url.QueryEscape(query), limit, c.apiKey)

	var resp TickerSearchResponse
	if err := getJSON(ctx, c.client, c.limiter, u, nil, &resp); err != nil {
		logFetchError(ctx, "polygon", "ticker-search", err)
		return nil, err
	}
	return resp.Results, nil
}
