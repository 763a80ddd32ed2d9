package pricing

// fallbackPrices is a hand-maintained table of recent approximate USD prices,
// used when CoinGecko is unavailable or rate-limited. Degraded price data is
// preferable to no report at all. Updated periodically.
var fallbackPrices = map[string]float64{
	"ethereum":                2500.0,
	"polygon-ecosystem-token": 0.35,
	"binancecoin":             650.0,
	"avalanche-2":             25.0,
	"fantom":                  0.50,
	"solana":                  170.0,
	"bitcoin":                 95000.0,
	"tron":                    0.13,
}

// FallbackPrice returns the static approximate price for an asset
// identifier, or 0 when the identifier is unknown.
func FallbackPrice(id string) float64 {
	return fallbackPrices[id]
}
