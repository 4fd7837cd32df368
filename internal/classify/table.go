package classify

// coinGeckoIDs maps known crypto base symbols to their CoinGecko identifiers.
// Kept static; the dashboard only needs the commonly watched coins and unknown
// symbols fall back to a lower-cased guess.
var coinGeckoIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"USDT":  "tether",
	"BNB":   "binancecoin",
	"SOL":   "solana",
	"XRP":   "ripple",
	"USDC":  "usd-coin",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"TRX":   "tron",
	"AVAX":  "avalanche-2",
	"DOT":   "polkadot",
	"LINK":  "chainlink",
	"MATIC": "matic-network",
	"TON":   "the-open-network",
	"SHIB":  "shiba-inu",
	"LTC":   "litecoin",
	"BCH":   "bitcoin-cash",
	"UNI":   "uniswap",
	"ATOM":  "cosmos",
	"XLM":   "stellar",
	"ETC":   "ethereum-classic",
	"NEAR":  "near",
	"APT":   "aptos",
	"FIL":   "filecoin",
	"ARB":   "arbitrum",
	"OP":    "optimism",
	"VET":   "vechain",
	"ICP":   "internet-computer",
	"HBAR":  "hedera-hashgraph",
	"ALGO":  "algorand",
	"QNT":   "quant-network",
	"AAVE":  "aave",
	"GRT":   "the-graph",
	"SAND":  "the-sandbox",
	"MANA":  "decentraland",
	"EGLD":  "elrond-erd-2",
	"XTZ":   "tezos",
	"THETA": "theta-token",
	"AXS":   "axie-infinity",
	"EOS":   "eos",
	"FLOW":  "flow",
	"CHZ":   "chiliz",
	"CAKE":  "pancakeswap-token",
	"CRV":   "curve-dao-token",
	"MKR":   "maker",
	"SNX":   "havven",
	"COMP":  "compound-governance-token",
	"ENJ":   "enjincoin",
	"ZEC":   "zcash",
	"DASH":  "dash",
	"XMR":   "monero",
	"SUI":   "sui",
	"PEPE":  "pepe",
	"INJ":   "injective-protocol",
}
