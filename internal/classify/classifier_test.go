package classify

import (
	"testing"

	"github.com/asset-dashboard/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantType   types.AssetType
		wantSymbol string
		wantCoinID string
	}{
		{
			name:       "exchange pair notation",
			raw:        "BINANCE:BTCUSDT",
			wantType:   types.AssetTypeCrypto,
			wantSymbol: "BTC",
			wantCoinID: "bitcoin",
		},
		{
			name:       "bare known crypto symbol",
			raw:        "BTC",
			wantType:   types.AssetTypeCrypto,
			wantSymbol: "BTC",
			wantCoinID: "bitcoin",
		},
		{
			name:       "lowercase crypto symbol",
			raw:        "eth",
			wantType:   types.AssetTypeCrypto,
			wantSymbol: "ETH",
			wantCoinID: "ethereum",
		},
		{
			name:       "pair with USD suffix",
			raw:        "COINBASE:SOLUSD",
			wantType:   types.AssetTypeCrypto,
			wantSymbol: "SOL",
			wantCoinID: "solana",
		},
		{
			name:       "pair with EUR suffix",
			raw:        "KRAKEN:ADAEUR",
			wantType:   types.AssetTypeCrypto,
			wantSymbol: "ADA",
			wantCoinID: "cardano",
		},
		{
			name:       "unknown coin guesses lowercased id",
			raw:        "BINANCE:FOOUSDT",
			wantType:   types.AssetTypeCrypto,
			wantSymbol: "FOO",
			wantCoinID: "foo",
		},
		{
			name:       "plain stock ticker",
			raw:        "AAPL",
			wantType:   types.AssetTypeStock,
			wantSymbol: "AAPL",
		},
		{
			name:       "lowercase stock ticker normalized",
			raw:        "msft",
			wantType:   types.AssetTypeStock,
			wantSymbol: "MSFT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			assert.Equal(t, tt.wantType, got.AssetType)
			assert.Equal(t, tt.wantSymbol, got.Symbol)
			assert.Equal(t, tt.wantCoinID, got.CoinID)
		})
	}
}

func TestStripQuoteSuffix(t *testing.T) {
	// USDT must be stripped before USD so BTCUSDT does not become BTCT
	assert.Equal(t, "BTC", stripQuoteSuffix("BTCUSDT"))
	assert.Equal(t, "BTC", stripQuoteSuffix("BTCUSD"))
	assert.Equal(t, "DOGE", stripQuoteSuffix("DOGEBUSD"))
	// symbol that is only a suffix stays intact
	assert.Equal(t, "USDT", stripQuoteSuffix("USDT"))
	// no recognized suffix passes through
	assert.Equal(t, "BTCJPY", stripQuoteSuffix("BTCJPY"))
}

func TestRefineEquityType(t *testing.T) {
	assert.Equal(t, types.AssetTypeETF, RefineEquityType(0, ""))
	assert.Equal(t, types.AssetTypeETF, RefineEquityType(1000, "Exchange Traded ETF"))
	assert.Equal(t, types.AssetTypeStock, RefineEquityType(2500000, "Technology"))
}
