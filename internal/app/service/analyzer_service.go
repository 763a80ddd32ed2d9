// Package service contains the application services: orchestration logic
// that is wired from ports and carries no transport or provider detail.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wallet_analyzer/internal/app/port"
	"wallet_analyzer/internal/domain/entity"
	"wallet_analyzer/internal/pkg/addressing"
	"wallet_analyzer/internal/pkg/units"
	"wallet_analyzer/pkg/metrics"
)

type walletAnalyzerService struct {
	factory        port.ProviderFactory
	oracle         port.PriceOracle
	hasExplorerKey bool
	logger         *zap.Logger
	now            func() time.Time
}

// NewWalletAnalyzer creates the cross-chain analysis orchestrator.
// hasExplorerKey feeds the degraded-EVM-coverage warning only; credential
// handling itself lives in the providers.
func NewWalletAnalyzer(factory port.ProviderFactory, oracle port.PriceOracle, hasExplorerKey bool, logger *zap.Logger) port.WalletAnalyzer {
	return &walletAnalyzerService{
		factory:        factory,
		oracle:         oracle,
		hasExplorerKey: hasExplorerKey,
		logger:         logger.Named("WalletAnalyzer"),
		now:            time.Now,
	}
}

type chainResult struct {
	summary *entity.ChainSummary
	authErr *entity.AuthError
}

// Analyze classifies the address, prices the relevant assets once, fans out
// to every requested chain concurrently, and folds the per-chain summaries
// into one report. Chains are independent: one chain failing never blocks or
// cancels the others.
func (s *walletAnalyzerService) Analyze(ctx context.Context, address string, chains []string) (*entity.WalletReport, error) {
	started := s.now()

	address = strings.TrimSpace(address)
	family := addressing.Classify(address)
	if family == entity.AddressFamilyUnknown {
		metrics.AnalysesTotal.WithLabelValues("invalid_address").Inc()
		return nil, fmt.Errorf("address %q: %w", address, entity.ErrInvalidAddress)
	}
	if len(chains) == 0 {
		chains = addressing.DefaultChains(family)
	}
	if len(chains) == 0 {
		metrics.AnalysesTotal.WithLabelValues("invalid_address").Inc()
		return nil, fmt.Errorf("address %q resolves to no chains: %w", address, entity.ErrInvalidAddress)
	}

	s.logger.Info("Starting wallet analysis",
		zap.String("address", address),
		zap.String("family", string(family)),
		zap.Int("chains", len(chains)))

	var warnings []string
	prices := s.oracle.GetPrices(ctx, coinGeckoIDs(chains))

	// One result slot per chain; goroutines never share mutable state and
	// never return an error, so a slow or failing chain cannot cancel its
	// siblings.
	results := make([]chainResult, len(chains))
	g, gctx := errgroup.WithContext(ctx)
	for i, chainID := range chains {
		def, ok := entity.Chains[chainID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unsupported chain %q skipped", chainID))
			continue
		}
		provider, ok := s.factory.Provider(chainID)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("no provider for chain %q, skipped", chainID))
			continue
		}

		i, chainID, price := i, chainID, prices[def.CoinGeckoID]
		g.Go(func() error {
			summary, err := provider.GetChainSummary(gctx, address, price)
			if err != nil {
				var authErr *entity.AuthError
				if errors.As(err, &authErr) {
					metrics.ChainFetchFailures.WithLabelValues(chainID, "auth").Inc()
					results[i] = chainResult{authErr: authErr}
					return nil
				}
				metrics.ChainFetchFailures.WithLabelValues(chainID, "transient").Inc()
				s.logger.Warn("Chain summary fetch failed",
					zap.String("chain", chainID), zap.Error(err))
				return nil
			}
			results[i] = chainResult{summary: summary}
			return nil
		})
	}
	_ = g.Wait() // goroutines always return nil

	summaries := make([]entity.ChainSummary, 0, len(chains))
	authFailed := make([]string, 0)
	var firstAuthErr *entity.AuthError
	for i, res := range results {
		if res.authErr != nil {
			authFailed = append(authFailed, chains[i])
			if firstAuthErr == nil {
				firstAuthErr = res.authErr
			}
			continue
		}
		if res.summary != nil {
			summaries = append(summaries, *res.summary)
		}
	}

	if firstAuthErr != nil {
		warnings = append(warnings, fmt.Sprintf("%s rejected the configured credentials for %s: %s",
			firstAuthErr.Provider, strings.Join(authFailed, ", "), firstAuthErr.Remediation))
	}
	if family == entity.AddressFamilyEVM && len(summaries) == 0 && !s.hasExplorerKey {
		warnings = append(warnings, "no EVM activity found and no ETHERSCAN_API_KEY configured; results may be incomplete")
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalTransactions > summaries[j].TotalTransactions
	})

	report := s.buildReport(address, family, chains, summaries, warnings)

	metrics.AnalysesTotal.WithLabelValues("ok").Inc()
	metrics.AnalyzeDuration.Observe(s.now().Sub(started).Seconds())
	s.logger.Info("Wallet analysis complete",
		zap.String("address", address),
		zap.Int("chains_with_activity", len(report.ChainsWithActivity)),
		zap.Int("total_transactions", report.TotalTransactions))
	return report, nil
}

// buildReport folds sorted chain summaries into the final aggregate.
func (s *walletAnalyzerService) buildReport(address string, family entity.AddressFamily, chains []string, summaries []entity.ChainSummary, warnings []string) *entity.WalletReport {
	report := &entity.WalletReport{
		Address:            address,
		AddressType:        string(family),
		ChainsAnalyzed:     chains,
		ChainsWithActivity: make([]string, 0, len(summaries)),
		ChainSummaries:     summaries,
		Warnings:           warnings,
	}
	if report.Warnings == nil {
		report.Warnings = []string{}
	}

	var received, sent, gas, balance float64
	var holdings []entity.TokenBalance
	for i := range summaries {
		sum := &summaries[i]
		report.ChainsWithActivity = append(report.ChainsWithActivity, sum.Chain)
		report.TotalTransactions += sum.TotalTransactions
		received += sum.TotalReceivedUSD
		sent += sum.TotalSentUSD
		gas += sum.TotalGasSpentUSD
		balance += sum.NativeBalanceUSD + sum.TokenHoldingsUSD()
		holdings = append(holdings, sum.TokenHoldings...)

		if sum.FirstTransactionDate != nil &&
			(report.FirstActivity == nil || sum.FirstTransactionDate.Before(*report.FirstActivity)) {
			report.FirstActivity = sum.FirstTransactionDate
		}
		if sum.LastTransactionDate != nil &&
			(report.LastActivity == nil || sum.LastTransactionDate.After(*report.LastActivity)) {
			report.LastActivity = sum.LastTransactionDate
		}

		report.TopChainsByTransactions = append(report.TopChainsByTransactions, entity.TopChain{
			Chain:             sum.ChainName,
			Transactions:      sum.TotalTransactions,
			VolumeUSD:         units.RoundUSD(sum.TotalReceivedUSD + sum.TotalSentUSD),
			CurrentBalanceUSD: units.RoundUSD(sum.NativeBalanceUSD + sum.TokenHoldingsUSD()),
		})
	}

	report.TotalReceivedUSD = units.RoundUSD(received)
	report.TotalSentUSD = units.RoundUSD(sent)
	report.TotalGasSpentUSD = units.RoundUSD(gas)
	report.NetFlowUSD = units.RoundUSD(received - sent)
	report.TotalCurrentBalanceUSD = units.RoundUSD(balance)

	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].BalanceUSD > holdings[j].BalanceUSD
	})
	report.AllTokenHoldings = holdings

	if report.FirstActivity != nil {
		age := int(s.now().Sub(*report.FirstActivity).Hours() / 24)
		report.WalletAgeDays = &age
	}
	return report
}

// coinGeckoIDs resolves the distinct price identifiers behind a chain set,
// preserving first-seen order.
func coinGeckoIDs(chains []string) []string {
	seen := make(map[string]struct{}, len(chains))
	ids := make([]string, 0, len(chains))
	for _, chainID := range chains {
		def, ok := entity.Chains[chainID]
		if !ok {
			continue
		}
		if _, dup := seen[def.CoinGeckoID]; dup {
			continue
		}
		seen[def.CoinGeckoID] = struct{}{}
		ids = append(ids, def.CoinGeckoID)
	}
	return ids
}
