// Package service implements the request-level orchestration: classify the
// ticker, consult the cache, aggregate live data on a miss, and fall back to
// stale cache entries when the upstream providers come up empty.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asset-dashboard/internal/classify"
	"github.com/asset-dashboard/internal/config"
	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/market"
	"github.com/asset-dashboard/internal/provider"
	"github.com/asset-dashboard/internal/storage"
	"github.com/asset-dashboard/internal/types"
)

// Cache is the snapshot cache consumed by the service layer.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) storage.CacheState
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

// Aggregator builds live snapshots from the upstream providers.
type Aggregator interface {
	Aggregate(ctx context.Context, input market.Input) *types.AssetSnapshot
}

// QuoteProvider supplies live equity quotes for the simple-price path.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*provider.Quote, error)
}

// CoinPriceProvider supplies live crypto prices for the simple-price path.
type CoinPriceProvider interface {
	GetSimplePrice(ctx context.Context, coinID string) (*provider.SimplePrice, error)
}

// TickerSearcher searches the equity reference universe.
type TickerSearcher interface {
	SearchTickers(ctx context.Context, query string, limit int) ([]provider.TickerMatch, error)
}

// CoinSearcher searches the crypto universe.
type CoinSearcher interface {
	SearchCoins(ctx context.Context, query string) ([]provider.CoinMatch, error)
}

const searchResultLimit = 20

// AssetService serves the market-data operations: details, price, search.
type AssetService struct {
	cache      Cache
	aggregator Aggregator
	quotes     QuoteProvider
	coins      CoinPriceProvider
	tickers    TickerSearcher
	coinSearch CoinSearcher
	cacheCfg   config.CacheConfig
}

// NewAssetService creates an asset service.
func NewAssetService(
	cache Cache,
	aggregator Aggregator,
	quotes QuoteProvider,
	coins CoinPriceProvider,
	tickers TickerSearcher,
	coinSearch CoinSearcher,
	cacheCfg config.CacheConfig,
) *AssetService {
	return &AssetService{
		cache:      cache,
		aggregator: aggregator,
		quotes:     quotes,
		coins:      coins,
		tickers:    tickers,
		coinSearch: coinSearch,
		cacheCfg:   cacheCfg,
	}
}

// DetailsResponse is an asset snapshot plus its provenance tag. The tag is
// attached at this boundary and never stored in the cache.
type DetailsResponse struct {
	*types.AssetSnapshot
	Source types.Source `json:"source"`
}

// PriceResponse is the simple-price payload.
type PriceResponse struct {
	Price  float64      `json:"price"`
	Source types.Source `json:"source"`
}

// priceEntry is the cached form of a simple price, without the source tag.
type priceEntry struct {
	Price float64 `json:"price"`
}

// GetDetails returns the aggregated snapshot for a ticker.
//
// Order of preference: fresh cache entry, live aggregation, stale cache
// entry. Only when all three come up empty does the caller get a NO_DATA
// error.
func (s *AssetService) GetDetails(ctx context.Context, ticker string) (*DetailsResponse, error) {
	cls := classify.Classify(ticker)
	key := storage.AssetKey(cls.Symbol)

	var cached types.AssetSnapshot
	state := s.cache.Get(ctx, key, &cached)
	if state == storage.CacheFresh {
		return &DetailsResponse{AssetSnapshot: &cached, Source: types.SourceCache}, nil
	}

	snapshot := s.aggregator.Aggregate(ctx, market.Input{
		AssetType: cls.AssetType,
		Symbol:    cls.Symbol,
		CoinID:    cls.CoinID,
	})
	if snapshot.Valid() {
		s.cache.Set(ctx, key, snapshot, s.snapshotTTL(snapshot.AssetType))
		return &DetailsResponse{AssetSnapshot: snapshot, Source: types.SourceAPI}, nil
	}

	if state == storage.CacheStale {
		logging.FromContext(ctx).WithField("symbol", cls.Symbol).Warn("live refresh failed, serving stale cache entry")
		return &DetailsResponse{AssetSnapshot: &cached, Source: types.SourceStaleCache}, nil
	}

	return nil, &types.ServiceError{
		Code:    types.ErrCodeNoData,
		Message: fmt.Sprintf("no data available for %s", cls.Symbol),
	}
}

// GetPrice returns just the current price for a ticker, cached on a short TTL.
func (s *AssetService) GetPrice(ctx context.Context, ticker string) (*PriceResponse, error) {
	cls := classify.Classify(ticker)
	key := storage.PriceKey(cls.Symbol)

	var cached priceEntry
	state := s.cache.Get(ctx, key, &cached)
	if state == storage.CacheFresh {
		return &PriceResponse{Price: cached.Price, Source: types.SourceCache}, nil
	}

	price := s.fetchPrice(ctx, cls)
	if price != nil {
		s.cache.Set(ctx, key, priceEntry{Price: *price}, s.cacheCfg.PriceTTL)
		return &PriceResponse{Price: *price, Source: types.SourceAPI}, nil
	}

	if state == storage.CacheStale {
		return &PriceResponse{Price: cached.Price, Source: types.SourceStaleCache}, nil
	}

	return nil, &types.ServiceError{
		Code:    types.ErrCodeNoData,
		Message: fmt.Sprintf("no price available for %s", cls.Symbol),
	}
}

// Search returns matching assets for a free-text query, cached per query+type.
// An upstream 429 surfaces as a RATE_LIMITED error; this is the only path
// where rate limiting is distinguished from a generic provider failure.
func (s *AssetService) Search(ctx context.Context, query, assetType string) ([]types.SearchResult, error) {
	key := storage.SearchKey(query, assetType)

	var cached []types.SearchResult
	if state := s.cache.Get(ctx, key, &cached); state == storage.CacheFresh {
		return cached, nil
	}

	var results []types.SearchResult
	var err error
	if assetType == string(types.AssetTypeCrypto) {
		results, err = s.searchCrypto(ctx, query)
	} else {
		results, err = s.searchEquities(ctx, query, assetType)
	}

	if err != nil {
		if errors.Is(err, provider.ErrRateLimited) {
			return nil, &types.ServiceError{
				Code:    types.ErrCodeRateLimited,
				Message: "upstream provider rate limit exceeded, try again shortly",
			}
		}
		return nil, &types.ServiceError{
			Code:    types.ErrCodeInternal,
			Message: "search temporarily unavailable",
		}
	}

	s.cache.Set(ctx, key, results, s.cacheCfg.SearchTTL)
	return results, nil
}

func (s *AssetService) snapshotTTL(assetType types.AssetType) time.Duration {
	if assetType == types.AssetTypeCrypto {
		return s.cacheCfg.CryptoTTL
	}
	return s.cacheCfg.StockTTL
}

// fetchPrice fetches just the live price, without the full aggregation fanout.
func (s *AssetService) fetchPrice(ctx context.Context, cls classify.Classification) *float64 {
	if cls.AssetType == types.AssetTypeCrypto {
		sp, err := s.coins.GetSimplePrice(ctx, cls.CoinID)
		if err != nil || sp == nil || sp.USD <= 0 {
			return nil
		}
		return types.Float64Ptr(sp.USD)
	}

	quote, err := s.quotes.GetQuote(ctx, cls.Symbol)
	if err != nil || quote == nil {
		return nil
	}
	if quote.Current > 0 {
		return types.Float64Ptr(quote.Current)
	}
	if quote.PreviousClose > 0 {
		return types.Float64Ptr(quote.PreviousClose)
	}
	return nil
}

func (s *AssetService) searchEquities(ctx context.Context, query, assetType string) ([]types.SearchResult, error) {
	matches, err := s.tickers.SearchTickers(ctx, query, searchResultLimit)
	if err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(matches))
	for _, m := range matches {
		resultType := string(types.AssetTypeStock)
		if strings.EqualFold(m.Type, "ETF") {
			resultType = string(types.AssetTypeETF)
		}
		// honor an explicit etf filter; polygon search has no server-side type filter
		if assetType == string(types.AssetTypeETF) && resultType != string(types.AssetTypeETF) {
			continue
		}
		results = append(results, types.SearchResult{
			Symbol: m.Ticker,
			Name:   m.Name,
			Type:   resultType,
			Region: "US",
		})
	}
	return results, nil
}

func (s *AssetService) searchCrypto(ctx context.Context, query string) ([]types.SearchResult, error) {
	matches, err := s.coinSearch.SearchCoins(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(matches) > searchResultLimit {
		matches = matches[:searchResultLimit]
	}
	results := make([]types.SearchResult, 0, len(matches))
	for _, m := range matches {
		symbol := strings.ToUpper(m.Symbol)
		results = append(results, types.SearchResult{
			Symbol:        symbol,
			DisplaySymbol: symbol + "/USD",
			Name:          m.Name,
			Type:          string(types.AssetTypeCrypto),
			Region:        "GLOBAL",
		})
	}
	return results, nil
}
