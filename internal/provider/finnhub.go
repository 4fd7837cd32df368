package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// FinnhubClient fetches quotes, company profiles, fundamentals and news from
// the Finnhub REST API.
type FinnhubClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewFinnhubClient creates a new Finnhub API client.
// Free tier allows 60 requests per minute.
func NewFinnhubClient(apiKey string) *FinnhubClient {
	return &FinnhubClient{
		apiKey:  apiKey,
		baseURL: "https://finnhub.io/api/v1",
		client:  newHTTPClient(),
		limiter: rate.NewLimiter(rate.Every(time.Second), 10),
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *FinnhubClient) SetBaseURL(u string) {
	c.baseURL = u
}

// Quote is the live quote response for a symbol.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"` // unix seconds of the last update
	Volume        int64   `json:"v"` // not populated on all plans
}

// CompanyProfile is the company profile response for a symbol.
type CompanyProfile struct {
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
	MarketCapitalization float64 `json:"marketCapitalization"` // millions
	Industry             string  `json:"finnhubIndustry"`
	Currency             string  `json:"currency"`
}

// BasicFinancials is the metric endpoint response for a symbol.
type BasicFinancials struct {
	Metric struct {
		FiftyTwoWeekHigh *float64 `json:"52WeekHigh"`
		FiftyTwoWeekLow  *float64 `json:"52WeekLow"`
		PERatio          *float64 `json:"peBasicExclExtraTTM"`
	} `json:"metric"`
}

// NewsItem is one article from the Finnhub news endpoints.
type NewsItem struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"` // unix seconds
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// GetQuote fetches the live quote for a symbol. Returns nil on any failure.
func (c *FinnhubClient) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	u := fmt.Sprintf("%s/quote?symbol=%s&token=%s", c.baseURL, url.QueryEscape(symbol), c.apiKey)

	var quote Quote
	if err := getJSON(ctx, c.client, c.limiter, u, nil, &quote); err != nil {
		logFetchError(ctx, "finnhub", "quote", err)
		return nil, err
	}
	return &quote, nil
}

// GetProfile fetches the company profile for a symbol. Returns nil on any failure.
func (c *FinnhubClient) GetProfile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	u := fmt.Sprintf("%s/stock/profile2?symbol=%s&token=%s", c.baseURL, url.QueryEscape(symbol), c.apiKey)

	var profile CompanyProfile
	if err := getJSON(ctx, c.client, c.limiter, u, nil, &profile); err != nil {
		logFetchError(ctx, "finnhub", "profile", err)
		return nil, err
	}
	return &profile, nil
}

// GetBasicFinancials fetches 52-week extremes and P/E for a symbol.
func (c *FinnhubClient) GetBasicFinancials(ctx context.Context, symbol string) (*BasicFinancials, error) {
	u := fmt.Sprintf("%s/stock/metric?symbol=%s&metric=all&token=%s", c.baseURL, url.QueryEscape(symbol), c.apiKey)

	var financials BasicFinancials
	if err := getJSON(ctx, c.client, c.limiter, u, nil, &financials); err != nil {
		logFetchError(ctx, "finnhub", "metric", err)
		return nil, err
	}
	return &financials, nil
}

// GetGeneralNews fetches general market news.
func (c *FinnhubClient) GetGeneralNews(ctx context.Context) ([]NewsItem, error) {
	u := fmt.Sprintf("%s/news?category=general&token=%s", c.baseURL, c.apiKey)

	var items []NewsItem
	if err := getJSON(ctx, c.client, c.limiter, u, nil, &items); err != nil {
		logFetchError(ctx, "finnhub", "general-news", err)
		return nil, err
	}
	return items, nil
}

// GetCompanyNews fetches company news for a ticker over the trailing daysBack days.
func (c *FinnhubClient) GetCompanyNews(ctx context.Context, symbol string, daysBack int) ([]NewsItem, error) {
	now := time.Now()
	from := formatDate(now.AddDate(0, 0, -daysBack))
	to := formatDate(now)

	u := fmt.Sprintf("%s/company-news?symbol=%s&from=%s&to=%s&token=%s",
		c.baseURL, url.QueryEscape(symbol), from, to, c.apiKey)

	var items []NewsItem
	if err := getJSON(ctx, c.client, c.limiter, u, nil, &items); err != nil {
		logFetchError(ctx, "finnhub", "company-news", err)
		return nil, err
	}
	return items, nil
}
