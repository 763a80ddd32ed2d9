package port

import (
	"context"

	"wallet_analyzer/internal/domain/entity"
)

// InsightsAgent turns a finished wallet report into a natural-language
// narrative. Failures are the caller's to swallow: a report without insights
// is still a valid report.
type InsightsAgent interface {
	GenerateInsights(ctx context.Context, report *entity.WalletReport) (string, error)
}
