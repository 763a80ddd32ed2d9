package port

import (
	"context"

	"wallet_analyzer/internal/domain/entity"
)

// WalletAnalyzer runs a full multi-chain analysis for one address. The only
// failure mode is entity.ErrInvalidAddress; per-chain failures degrade the
// report instead of aborting it.
type WalletAnalyzer interface {
	Analyze(ctx context.Context, address string, chains []string) (*entity.WalletReport, error)
}
