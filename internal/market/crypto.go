package market

import (
	"context"
	"sync"
	"time"

	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/provider"
	"github.com/asset-dashboard/internal/types"
)

// cryptoResults collects the settled provider calls for one coin.
type cryptoResults struct {
	price *provider.SimplePrice
	chart *provider.MarketChart
	coin  *provider.CoinData
}

// aggregateCrypto builds a snapshot for a cryptocurrency. The three CoinGecko
// calls run concurrently; each may fail individually.
func (a *Aggregator) aggregateCrypto(ctx context.Context, input Input) *types.AssetSnapshot {
	var (
		results cryptoResults
		wg      sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		results.price, _ = a.crypto.GetSimplePrice(ctx, input.CoinID)
	}()
	go func() {
		defer wg.Done()
		results.chart, _ = a.crypto.GetMarketChart(ctx, input.CoinID, a.cfg.ChartDays)
	}()
	go func() {
		defer wg.Done()
		results.coin, _ = a.crypto.GetCoinData(ctx, input.CoinID)
	}()
	wg.Wait()

	// Crypto markets trade continuously
	snapshot := &types.AssetSnapshot{
		Symbol:       input.Symbol,
		AssetType:    types.AssetTypeCrypto,
		MarketStatus: types.MarketOpen,
	}

	if p := results.price; p != nil && p.USD > 0 {
		snapshot.LastPrice = types.Float64Ptr(p.USD)
		snapshot.PercentChange = p.USD24hChange
		snapshot.DayChange = deriveDayChange(p.USD, p.USD24hChange)
		snapshot.Volume = int64(p.USD24hVol)
		if p.USDMarketCap > 0 {
			// stock market caps arrive in millions; convert for parity
			snapshot.MarketCap = types.Float64Ptr(p.USDMarketCap / 1_000_000)
		}
	}

	if c := results.coin; c != nil {
		snapshot.Name = c.Name
		if high, ok := c.MarketData.High24h["usd"]; ok && high > 0 {
			snapshot.DayHigh = types.Float64Ptr(high)
		}
		if low, ok := c.MarketData.Low24h["usd"]; ok && low > 0 {
			snapshot.DayLow = types.Float64Ptr(low)
		}
		if ath, ok := c.MarketData.ATH["usd"]; ok && ath > 0 {
			snapshot.FiftyTwoWeekHigh = types.Float64Ptr(ath)
		}
		if atl, ok := c.MarketData.ATL["usd"]; ok && atl > 0 {
			snapshot.FiftyTwoWeekLow = types.Float64Ptr(atl)
		}
	}

	if results.chart != nil {
		snapshot.Chart, snapshot.Labels = downsampleChart(results.chart.Prices, a.cfg.ChartMaxPoints)
	} else {
		snapshot.Chart = []float64{}
		snapshot.Labels = []string{}
	}

	if !snapshot.Valid() {
		logging.FromContext(ctx).WithFields(map[string]interface{}{
			"symbol": input.Symbol,
			"coinId": input.CoinID,
		}).Info("no usable crypto data from any provider")
		return nil
	}
	return snapshot
}

// deriveDayChange computes the absolute 24h change from the current price and
// the provider's 24h percent change. The implied previous price is
// P / (1 + c/100). This is an approximation, not a provider figure.
func deriveDayChange(price, percentChange float64) float64 {
	divisor := 1 + percentChange/100
	if divisor == 0 {
		return 0
	}
	previous := price / divisor
	return price - previous
}

// downsampleChart strides a [unix-ms, price] series down to at most maxPoints
// points, preserving chronological order. Stride = floor(n/maxPoints), min 1.
func downsampleChart(prices [][]float64, maxPoints int) ([]float64, []string) {
	chart := make([]float64, 0, maxPoints)
	labels := make([]string, 0, maxPoints)
	if len(prices) == 0 || maxPoints <= 0 {
		return chart, labels
	}

	stride := len(prices) / maxPoints
	if stride < 1 {
		stride = 1
	}

	for i := 0; i < len(prices) && len(chart) < maxPoints; i += stride {
		point := prices[i]
		if len(point) < 2 {
			continue
		}
		chart = append(chart, point[1])
		labels = append(labels, chartLabel(time.UnixMilli(int64(point[0]))))
	}
	return chart, labels
}
