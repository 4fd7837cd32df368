package market

import (
	"context"
	"sync"
	"time"

	"github.com/asset-dashboard/internal/classify"
	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/provider"
	"github.com/asset-dashboard/internal/types"
)

// stockResults collects the settled provider calls for one equity.
type stockResults struct {
	quote      *provider.Quote
	profile    *provider.CompanyProfile
	financials *provider.BasicFinancials
	bars       []provider.AggregateBar
	prevBar    *provider.AggregateBar
}

// aggregateStock builds a snapshot for a stock or ETF. All five provider
// calls run concurrently; each may fail individually.
func (a *Aggregator) aggregateStock(ctx context.Context, input Input) *types.AssetSnapshot {
	var (
		results stockResults
		wg      sync.WaitGroup
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		results.quote, _ = a.stocks.GetQuote(ctx, input.Symbol)
	}()
	go func() {
		defer wg.Done()
		results.profile, _ = a.stocks.GetProfile(ctx, input.Symbol)
	}()
	go func() {
		defer wg.Done()
		results.financials, _ = a.stocks.GetBasicFinancials(ctx, input.Symbol)
	}()
	go func() {
		defer wg.Done()
		results.bars, _ = a.bars.GetDailyRange(ctx, input.Symbol, a.cfg.ChartDays)
	}()
	go func() {
		defer wg.Done()
		results.prevBar, _ = a.bars.GetPreviousDay(ctx, input.Symbol)
	}()
	wg.Wait()

	status := a.marketStatusFromQuote(results.quote)
	lastPrice := a.selectPrice(results.quote, status)

	snapshot := &types.AssetSnapshot{
		Symbol:       input.Symbol,
		AssetType:    types.AssetTypeStock,
		MarketStatus: status,
		LastPrice:    lastPrice,
		Volume:       selectVolume(results.quote, results.prevBar, results.bars),
		Chart:        make([]float64, 0, len(results.bars)),
		Labels:       make([]string, 0, len(results.bars)),
	}

	if q := results.quote; q != nil {
		snapshot.PercentChange = q.PercentChange
		snapshot.DayChange = q.Change
		if q.High > 0 {
			snapshot.DayHigh = types.Float64Ptr(q.High)
		}
		if q.Low > 0 {
			snapshot.DayLow = types.Float64Ptr(q.Low)
		}
	}

	if p := results.profile; p != nil {
		snapshot.Name = p.Name
		if p.MarketCapitalization > 0 {
			snapshot.MarketCap = types.Float64Ptr(p.MarketCapitalization)
		}
		snapshot.AssetType = classify.RefineEquityType(p.MarketCapitalization, p.Industry)
	}

	if f := results.financials; f != nil {
		snapshot.FiftyTwoWeekHigh = f.Metric.FiftyTwoWeekHigh
		snapshot.FiftyTwoWeekLow = f.Metric.FiftyTwoWeekLow
		snapshot.PERatio = f.Metric.PERatio
	}

	for _, bar := range results.bars {
		snapshot.Chart = append(snapshot.Chart, bar.Close)
		snapshot.Labels = append(snapshot.Labels, chartLabel(time.UnixMilli(bar.Timestamp)))
	}

	if !snapshot.Valid() {
		logging.FromContext(ctx).WithField("symbol", input.Symbol).Info("no usable stock data from any provider")
		return nil
	}
	return snapshot
}

// selectVolume resolves volume through the fallback chain: live quote volume,
// then the previous-day bar, then the most recent chart bar, then zero.
// Any single field may legitimately be zero outside market hours.
func selectVolume(quote *provider.Quote, prevBar *provider.AggregateBar, bars []provider.AggregateBar) int64 {
	if quote != nil && quote.Volume > 0 {
		return quote.Volume
	}
	if prevBar != nil && prevBar.Volume > 0 {
		return int64(prevBar.Volume)
	}
	if len(bars) > 0 {
		return int64(bars[len(bars)-1].Volume)
	}
	return 0
}
