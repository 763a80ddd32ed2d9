package chains

import "strings"

// Token USD valuation is a deliberate precision/cost tradeoff, not a live
// lookup: symbols on the stablecoin allow-list are worth exactly $1.00 per
// unit, wrapped-native symbols track the chain's native asset price, and
// everything else is valued at $0 — explicitly unknown, never guessed.

var stablecoinSymbols = map[string]struct{}{
	"USDC": {}, "USDT": {}, "DAI": {}, "BUSD": {}, "TUSD": {}, "FRAX": {},
	"LUSD": {}, "USDP": {}, "USDC.E": {}, "USDT.E": {}, "USDBC": {}, "USDE": {},
}

var wrappedNativeSymbols = map[string]struct{}{
	"WETH": {}, "WBNB": {}, "WMATIC": {}, "WPOL": {}, "WAVAX": {}, "WFTM": {},
}

// estimateTokenUSD applies the allow-list valuation heuristic.
func estimateTokenUSD(symbol string, balance, nativePrice float64) float64 {
	upper := strings.ToUpper(symbol)
	if _, ok := stablecoinSymbols[upper]; ok {
		return balance
	}
	if _, ok := wrappedNativeSymbols[upper]; ok {
		return balance * nativePrice
	}
	return 0
}
