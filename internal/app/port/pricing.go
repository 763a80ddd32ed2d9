package port

import "context"

// PriceOracle resolves current USD prices for a set of asset identifiers in
// one batched call. It never fails: when the live source is unavailable the
// oracle degrades to a static fallback table, so every requested identifier
// is present in the result.
type PriceOracle interface {
	GetPrices(ctx context.Context, ids []string) map[string]float64
}
