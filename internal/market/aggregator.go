// Package market aggregates provider data into canonical asset snapshots.
//
// Per asset class the aggregator fans out the provider calls concurrently,
// waits for all of them to settle, and reconciles missing or inconsistent
// fields through fallback priority rules. A single provider failure never
// fails the aggregation; only "no usable price and no chart" does.
package market

import (
	"context"
	"time"

	"github.com/asset-dashboard/internal/config"
	"github.com/asset-dashboard/internal/provider"
	"github.com/asset-dashboard/internal/types"
)

// StockProvider supplies live quotes and fundamentals for equities.
type StockProvider interface {
	GetQuote(ctx context.Context, symbol string) (*provider.Quote, error)
	GetProfile(ctx context.Context, symbol string) (*provider.CompanyProfile, error)
	GetBasicFinancials(ctx context.Context, symbol string) (*provider.BasicFinancials, error)
}

// BarProvider supplies daily aggregate bars for equities.
type BarProvider interface {
	GetDailyRange(ctx context.Context, symbol string, days int) ([]provider.AggregateBar, error)
	GetPreviousDay(ctx context.Context, symbol string) (*provider.AggregateBar, error)
}

// CryptoProvider supplies prices, charts and metadata for cryptocurrencies.
type CryptoProvider interface {
	GetSimplePrice(ctx context.Context, coinID string) (*provider.SimplePrice, error)
	GetMarketChart(ctx context.Context, coinID string, days int) (*provider.MarketChart, error)
	GetCoinData(ctx context.Context, coinID string) (*provider.CoinData, error)
}

// Aggregator builds asset snapshots from the upstream providers.
type Aggregator struct {
	stocks StockProvider
	bars   BarProvider
	crypto CryptoProvider
	cfg    config.MarketConfig

	// now allows tests to pin the clock used for market-status freshness
	now func() time.Time
}

// NewAggregator creates an aggregator over the given providers.
func NewAggregator(stocks StockProvider, bars BarProvider, crypto CryptoProvider, cfg config.MarketConfig) *Aggregator {
	return &Aggregator{
		stocks: stocks,
		bars:   bars,
		crypto: crypto,
		cfg:    cfg,
		now:    time.Now,
	}
}

// SetClock overrides the aggregator's clock. Used by tests.
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
}

// Input identifies one asset to aggregate.
type Input struct {
	AssetType types.AssetType
	Symbol    string
	CoinID    string // required for crypto
}

// Aggregate produces a snapshot for the asset, or nil when no usable data
// could be obtained from any provider.
func (a *Aggregator) Aggregate(ctx context.Context, input Input) *types.AssetSnapshot {
	if input.AssetType == types.AssetTypeCrypto {
		return a.aggregateCrypto(ctx, input)
	}
	return a.aggregateStock(ctx, input)
}

// selectPrice applies the configured price policy to a live quote.
// Returns nil when neither the live price nor the previous close is usable.
func (a *Aggregator) selectPrice(quote *provider.Quote, status types.MarketStatus) *float64 {
	if quote == nil {
		return nil
	}

	live := quote.Current > 0
	if a.cfg.PricePolicy == config.PolicyLiveWhenOpen {
		live = live && status == types.MarketOpen
	}

	if live {
		return types.Float64Ptr(quote.Current)
	}
	if quote.PreviousClose > 0 {
		return types.Float64Ptr(quote.PreviousClose)
	}
	return nil
}

// marketStatusFromQuote derives open/closed from the quote timestamp recency.
func (a *Aggregator) marketStatusFromQuote(quote *provider.Quote) types.MarketStatus {
	if quote == nil || quote.Timestamp == 0 {
		return types.MarketClosed
	}
	age := a.now().Sub(time.Unix(quote.Timestamp, 0))
	if age <= a.cfg.MarketStatusFreshness {
		return types.MarketOpen
	}
	return types.MarketClosed
}

// chartLabel formats a bar timestamp as a short human-readable date label.
func chartLabel(t time.Time) string {
	return t.Format("Jan 2")
}
