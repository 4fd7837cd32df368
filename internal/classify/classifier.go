// Package classify decides whether a raw ticker denotes a stock/ETF or a
// cryptocurrency and normalizes crypto pair notation to a base symbol.
package classify

import (
	"strings"

	"github.com/asset-dashboard/internal/types"
)

// quote-currency suffixes stripped from legacy EXCHANGE:PAIR notation
var quoteSuffixes = []string{"USDT", "BUSD", "USDC", "USD", "EUR", "GBP"}

// Classification is the result of classifying a raw ticker.
type Classification struct {
	AssetType types.AssetType
	// Symbol is the normalized symbol: upper-cased ticker for equities,
	// upper-cased base symbol for crypto.
	Symbol string
	// CoinID is the CoinGecko identifier for crypto assets. For base symbols
	// missing from the known table this is a lower-cased guess, which may
	// simply return no data downstream.
	CoinID string
}

// Classify determines the asset type and canonical symbol for a raw ticker.
//
// A symbol containing a colon (legacy "BINANCE:BTCUSDT" notation) is crypto:
// the exchange prefix and any trailing quote-currency suffix are stripped.
// Otherwise the upper-cased symbol is looked up in the known crypto table.
// Anything else is treated as a stock; ETF detection happens later from
// provider profile metadata.
func Classify(raw string) Classification {
	symbol := strings.ToUpper(strings.TrimSpace(raw))

	if idx := strings.Index(symbol, ":"); idx >= 0 {
		base := stripQuoteSuffix(symbol[idx+1:])
		return Classification{
			AssetType: types.AssetTypeCrypto,
			Symbol:    base,
			CoinID:    coinID(base),
		}
	}

	if _, ok := coinGeckoIDs[symbol]; ok {
		return Classification{
			AssetType: types.AssetTypeCrypto,
			Symbol:    symbol,
			CoinID:    coinID(symbol),
		}
	}

	return Classification{
		AssetType: types.AssetTypeStock,
		Symbol:    symbol,
	}
}

// RefineEquityType guesses whether an equity is an ETF from profile metadata.
// A missing market capitalization or an industry tag containing "ETF" suggests
// an ETF. This is a heuristic, not authoritative; callers must not treat the
// result as a hard classification.
func RefineEquityType(marketCap float64, industry string) types.AssetType {
	if marketCap <= 0 {
		return types.AssetTypeETF
	}
	if strings.Contains(strings.ToUpper(industry), "ETF") {
		return types.AssetTypeETF
	}
	return types.AssetTypeStock
}

// stripQuoteSuffix removes a trailing quote currency from a pair symbol.
// "BTCUSDT" becomes "BTC"; symbols without a known suffix pass through.
func stripQuoteSuffix(pair string) string {
	for _, suffix := range quoteSuffixes {
		if strings.HasSuffix(pair, suffix) && len(pair) > len(suffix) {
			return pair[:len(pair)-len(suffix)]
		}
	}
	return pair
}

// coinID resolves a base symbol to a CoinGecko identifier, falling back to the
// lower-cased symbol as a guess for unknown coins.
func coinID(base string) string {
	if id, ok := coinGeckoIDs[base]; ok {
		return id
	}
	return strings.ToLower(base)
}
