package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// CoinGeckoClient fetches crypto prices, market charts and coin metadata from
// the CoinGecko REST API.
type CoinGeckoClient struct {
	apiKey  string // optional demo key
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewCoinGeckoClient creates a new CoinGecko API client.
// Free tier allows roughly 30 calls per minute.
func NewCoinGeckoClient(apiKey string) *CoinGeckoClient {
	return &CoinGeckoClient{
		apiKey:  apiKey,
		baseURL: "https://api.coingecko.com/api/v3",
		client:  newHTTPClient(),
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 5),
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *CoinGeckoClient) SetBaseURL(u string) {
	c.baseURL = u
}

func (c *CoinGeckoClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"x-cg-demo-api-key": c.apiKey}
}

// SimplePrice holds the current price block for one coin, USD denominated.
type SimplePrice struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hVol    float64 `json:"usd_24h_vol"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// MarketChart holds a price series; each point is [unix-ms, price].
type MarketChart struct {
	Prices [][]float64 `json:"prices"`
}

// CoinData holds the extended coin metadata market-data block.
type CoinData struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	MarketData struct {
		High24h map[string]float64 `json:"high_24h"`
		Low24h  map[string]float64 `json:"low_24h"`
		ATH     map[string]float64 `json:"ath"`
		ATL     map[string]float64 `json:"atl"`
	} `json:"market_data"`
}

// CoinMatch is one entry from the coin search endpoint.
type CoinMatch struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	MarketCapRank int    `json:"market_cap_rank"`
}

type coinSearchResponse struct {
	Coins []CoinMatch `json:"coins"`
}

// GetSimplePrice fetches the current USD price with 24h change, volume and
// market cap for a coin id. Returns nil when the id is unknown upstream.
func (c *CoinGeckoClient) GetSimplePrice(ctx context.Context, coinID string) (*SimplePrice, error) {
	u := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_market_cap=true&include_24hr_vol=true&include_24hr_change=true",
		c.baseURL, url.QueryEscape(coinID))

	prices := make(map[string]SimplePrice)
	if err := getJSON(ctx, c.client, c.limiter, u, c.headers(), &prices); err != nil {
		logFetchError(ctx, "coingecko", "simple-price", err)
		return nil, err
	}

	price, ok := prices[coinID]
	if !ok {
		// Unknown coin ids come back as an empty object, not an error status.
		return nil, nil
	}
	return &price, nil
}

// GetMarketChart fetches the trailing `days` days of daily prices for a coin id.
func (c *CoinGeckoClient) GetMarketChart(ctx context.Context, coinID string, days int) (*MarketChart, error) {
	u := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		c.baseURL, url.PathEscape(coinID), days)

	var chart MarketChart
	if err := getJSON(ctx, c.client, c.limiter, u, c.headers(), &chart); err != nil {
		logFetchError(ctx, "coingecko", "market-chart", err)
		return nil, err
	}
	return &chart, nil
}

// GetCoinData fetches the extended coin metadata for a coin id.
func (c *CoinGeckoClient) GetCoinData(ctx context.Context, coinID string) (*CoinData, error) {
	u := fmt.Sprintf("%s/coins/%s?localization=false&tickers=false&market_data=true&community_data=false&developer_data=false",
		c.baseURL, url.PathEscape(coinID))

	var data CoinData
	if err := getJSON(ctx, c.client, c.limiter, u, c.headers(), &data); err != nil {
		logFetchError(ctx, "coingecko", "coin-data", err)
		return nil, err
	}
	return &data, nil
}

// SearchCoins searches coins by free-text query.
func (c *CoinGeckoClient) SearchCoins(ctx context.Context, query string) ([]CoinMatch, error) {
	u := fmt.Sprintf("%s/search?query=%s", c.baseURL, url.QueryEscape(query))

	var resp coinSearchResponse
	if err := getJSON(ctx, c.client, c.limiter, u, c.headers(), &resp); err != nil {
		logFetchError(ctx, "coingecko", "search", err)
		return nil, err
	}
	return resp.Coins, nil
}
