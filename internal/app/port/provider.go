package port

import (
	"context"

	"wallet_analyzer/internal/domain/entity"
)

// ChainProvider fetches and normalizes one chain family's view of an address.
//
// GetChainSummary returns (nil, nil) when the address has no activity on the
// chain — the expected, common case. Implementations contain their own
// transient failures; the only error worth distinguishing upstream is
// *entity.AuthError.
type ChainProvider interface {
	GetTransactions(ctx context.Context, address string) ([]entity.Transaction, error)
	GetChainSummary(ctx context.Context, address string, priceUSD float64) (*entity.ChainSummary, error)
}

// ProviderFactory resolves the provider responsible for a chain identifier.
type ProviderFactory interface {
	Provider(chainID string) (ChainProvider, bool)
}
