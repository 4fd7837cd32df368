// Package types provides common type definitions for the asset dashboard system.
package types

import "time"

// AssetType represents the class of a tradable asset
type AssetType string

const (
	// AssetTypeStock represents a plain equity
	AssetTypeStock AssetType = "stock"
	// AssetTypeETF represents an exchange-traded fund
	AssetTypeETF AssetType = "etf"
	// AssetTypeCrypto represents a cryptocurrency
	AssetTypeCrypto AssetType = "crypto"
)

// MarketStatus represents whether an asset's market is currently trading
type MarketStatus string

const (
	// MarketOpen represents an actively trading market
	MarketOpen MarketStatus = "open"
	// MarketClosed represents a market outside trading hours
	MarketClosed MarketStatus = "closed"
)

// Source represents the provenance of a response payload
type Source string

const (
	// SourceAPI marks data fetched live from the upstream providers
	SourceAPI Source = "api"
	// SourceCache marks data served from a fresh cache entry
	SourceCache Source = "cache"
	// SourceStaleCache marks data served from an expired cache entry after a failed refresh
	SourceStaleCache Source = "stale-cache"
)

// AssetSnapshot is the canonical aggregated view of one asset at one point in time.
// Pointer fields are nil when no provider supplied a value. Chart and Labels are
// always the same length, chronological, at most 90 points.
type AssetSnapshot struct {
	Symbol           string       `json:"symbol"`
	AssetType        AssetType    `json:"assetType"`
	Name             string       `json:"name,omitempty"`
	LastPrice        *float64     `json:"lastPrice"`
	PercentChange    float64      `json:"percentChange"`
	DayChange        float64      `json:"dayChange"`
	DayHigh          *float64     `json:"dayHigh"`
	DayLow           *float64     `json:"dayLow"`
	Volume           int64        `json:"volume"`
	FiftyTwoWeekHigh *float64     `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  *float64     `json:"fiftyTwoWeekLow"`
	MarketCap        *float64     `json:"marketCap"` // millions of currency units
	PERatio          *float64     `json:"peRatio"`   // always nil for crypto
	MarketStatus     MarketStatus `json:"marketStatus"`
	Chart            []float64    `json:"chart"`
	Labels           []string     `json:"labels"`
}

// Valid reports whether the snapshot carries enough data to be cached and served.
func (s *AssetSnapshot) Valid() bool {
	if s == nil {
		return false
	}
	return s.LastPrice != nil || len(s.Chart) > 0
}

// SearchResult represents one match from an asset search
type SearchResult struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol,omitempty"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Region        string `json:"region"`
}

// NewsArticle represents one stored financial news article
type NewsArticle struct {
	ID             string     `json:"id"`
	Headline       string     `json:"headline"`
	Summary        *string    `json:"summary"`
	URL            string     `json:"url"`
	Source         string     `json:"source"`
	SourceID       *string    `json:"source_id,omitempty"`
	ImageURL       *string    `json:"image_url"`
	Category       string     `json:"category"`
	RelatedTickers []string   `json:"related_tickers"`
	PublishedAt    time.Time  `json:"published_at"`
	HeadlineHash   string     `json:"headline_hash"`
	AISentiment    *string    `json:"ai_sentiment"`
	AIImpact       *string    `json:"ai_impact"`
	AIAnalyzedAt   *time.Time `json:"ai_analyzed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Common service error codes
const (
	ErrCodeMissingParameter = "MISSING_PARAMETER"
	ErrCodeNoData           = "NO_DATA"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// Float64Ptr returns a pointer to v. Convenience for optional snapshot fields.
func Float64Ptr(v float64) *float64 {
	return &v
}
