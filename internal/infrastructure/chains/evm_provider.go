package chains

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"wallet_analyzer/internal/app/port"
	"wallet_analyzer/internal/domain/entity"
	"wallet_analyzer/internal/pkg/units"
)

const tokenTransferLimit = 500

// EVMProvider serves every Etherscan-covered EVM chain: transfer history and
// balances from the explorer API, optionally enriched by Alchemy for native
// balance and one-call token holdings.
type EVMProvider struct {
	def      entity.ChainDefinition
	explorer *EtherscanClient
	alchemy  *AlchemyClient // nil disables the Alchemy path
	logger   *zap.Logger
}

// NewEVMProvider creates a provider for one EVM chain.
func NewEVMProvider(def entity.ChainDefinition, explorer *EtherscanClient, alchemy *AlchemyClient, logger *zap.Logger) port.ChainProvider {
	if alchemy != nil && !alchemy.SupportsChain(def.ID) {
		alchemy = nil
	}
	return &EVMProvider{
		def:      def,
		explorer: explorer,
		alchemy:  alchemy,
		logger:   logger.Named("EVMProvider").With(zap.String("chain", def.ID)),
	}
}

// GetTransactions fetches the normal (native-value) transfer history.
func (p *EVMProvider) GetTransactions(ctx context.Context, address string) ([]entity.Transaction, error) {
	resp, err := p.explorer.Call(ctx, p.def.EVMChainID, map[string]string{
		"module":     "account",
		"action":     "txlist",
		"address":    address,
		"startblock": "0",
		"endblock":   "99999999",
		"sort":       "desc",
	})
	if err != nil {
		return nil, err
	}

	rows := resp.transactions()
	transactions := make([]entity.Transaction, 0, len(rows))
	for _, row := range rows {
		tx := entity.Transaction{
			Hash:        row.Hash,
			Chain:       p.def.ID,
			FromAddress: row.From,
			ToAddress:   row.To,
			Value:       units.WeiToEther(units.ParseBigInt(row.Value)),
			IsIncoming:  strings.EqualFold(row.To, address),
		}
		if block, err := strconv.ParseInt(row.BlockNumber, 10, 64); err == nil {
			tx.BlockNumber = &block
		}
		tx.Timestamp = parseUnixSeconds(row.TimeStamp)

		gasUsed := units.ParseBigInt(row.GasUsed)
		gasPrice := units.ParseBigInt(row.GasPrice)
		gasUsedF, _ := gasUsed.Float64()
		gasPriceF, _ := gasPrice.Float64()
		gasFee := units.WeiToEther(new(big.Int).Mul(gasUsed, gasPrice))
		tx.GasUsed = &gasUsedF
		tx.GasPrice = &gasPriceF
		tx.GasFee = &gasFee

		if row.FunctionName != "" {
			tx.Method = strings.SplitN(row.FunctionName, "(", 2)[0]
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// getTokenTransfers fetches ERC-20 transfer events, capped to keep pathological
// airdrop-magnet addresses bounded.
func (p *EVMProvider) getTokenTransfers(ctx context.Context, address string) ([]entity.Transaction, error) {
	resp, err := p.explorer.Call(ctx, p.def.EVMChainID, map[string]string{
		"module":     "account",
		"action":     "tokentx",
		"address":    address,
		"startblock": "0",
		"endblock":   "99999999",
		"sort":       "desc",
	})
	if err != nil {
		return nil, err
	}

	rows := resp.transactions()
	if len(rows) > tokenTransferLimit {
		rows = rows[:tokenTransferLimit]
	}

	transfers := make([]entity.Transaction, 0, len(rows))
	for _, row := range rows {
		decimals, err := strconv.Atoi(row.TokenDecimal)
		if err != nil {
			decimals = 18
		}
		tx := entity.Transaction{
			Hash:            row.Hash,
			Chain:           p.def.ID,
			FromAddress:     row.From,
			ToAddress:       row.To,
			Value:           units.FromSmallestUnit(units.ParseBigInt(row.Value), decimals),
			IsIncoming:      strings.EqualFold(row.To, address),
			IsTokenTransfer: true,
			TokenSymbol:     row.TokenSymbol,
			TokenName:       row.TokenName,
		}
		if block, err := strconv.ParseInt(row.BlockNumber, 10, 64); err == nil {
			tx.BlockNumber = &block
		}
		tx.Timestamp = parseUnixSeconds(row.TimeStamp)
		transfers = append(transfers, tx)
	}
	return transfers, nil
}

// getNativeBalance prefers Alchemy (no explorer rate-limit pressure) and
// falls back to the explorer balance endpoint. Failures degrade to zero.
func (p *EVMProvider) getNativeBalance(ctx context.Context, address string) float64 {
	if p.alchemy != nil {
		if wei, err := p.alchemy.NativeBalance(ctx, p.def.ID, address); err == nil {
			return units.WeiToEther(wei)
		} else {
			p.logger.Debug("Alchemy native balance failed, falling back to explorer", zap.Error(err))
		}
	}

	resp, err := p.explorer.Call(ctx, p.def.EVMChainID, map[string]string{
		"module":  "account",
		"action":  "balance",
		"address": address,
	})
	if err != nil {
		return 0
	}
	if resp.Status != "1" || len(resp.Result) == 0 {
		return 0
	}
	var wei string
	if err := json.Unmarshal(resp.Result, &wei); err != nil {
		return 0
	}
	return units.WeiToEther(units.ParseBigInt(wei))
}

// getTokenHoldings builds the current token holdings via Alchemy. Returns nil
// when Alchemy is not configured for this chain; failures degrade to nil.
func (p *EVMProvider) getTokenHoldings(ctx context.Context, address string, priceUSD float64) []entity.TokenBalance {
	if p.alchemy == nil {
		return nil
	}

	balances, err := p.alchemy.TokenBalances(ctx, p.def.ID, address)
	if err != nil {
		p.logger.Debug("Alchemy token balances failed", zap.Error(err))
		return nil
	}
	if len(balances) == 0 {
		return nil
	}

	contracts := make([]string, len(balances))
	for i, b := range balances {
		contracts[i] = b.ContractAddress
	}
	metadata, err := p.alchemy.TokenMetadataBatch(ctx, p.def.ID, contracts)
	if err != nil {
		p.logger.Debug("Alchemy token metadata batch failed", zap.Error(err))
		return nil
	}

	holdings := make([]entity.TokenBalance, 0, len(balances))
	for i, b := range balances {
		meta := metadata[i]
		if meta.Symbol == "" {
			// No symbol usually means spam or an unverified contract.
			continue
		}
		decimals := 18
		if meta.Decimals != nil {
			decimals = *meta.Decimals
		}
		raw, err := hexutil.DecodeBig(b.TokenBalance)
		if err != nil {
			continue
		}
		balance := units.FromSmallestUnit(raw, decimals)
		if balance <= 0 {
			continue
		}
		name := meta.Name
		if name == "" {
			name = meta.Symbol
		}
		holdings = append(holdings, entity.TokenBalance{
			Chain:           p.def.ID,
			Symbol:          meta.Symbol,
			Name:            name,
			Balance:         units.RoundTo(balance, 6),
			BalanceUSD:      units.RoundUSD(estimateTokenUSD(meta.Symbol, balance, priceUSD)),
			ContractAddress: b.ContractAddress,
			Decimals:        decimals,
		})
	}

	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].BalanceUSD > holdings[j].BalanceUSD
	})
	return holdings
}

// GetChainSummary combines explorer history with balance and holdings data
// into one per-chain snapshot. Returns (nil, nil) when the address has no
// activity on this chain.
func (p *EVMProvider) GetChainSummary(ctx context.Context, address string, priceUSD float64) (*entity.ChainSummary, error) {
	normalTxs, err := p.GetTransactions(ctx, address)
	if err != nil {
		return nil, p.classifyErr(err, "transaction history")
	}
	tokenTxs, err := p.getTokenTransfers(ctx, address)
	if err != nil {
		return nil, p.classifyErr(err, "token transfers")
	}
	if len(normalTxs) == 0 && len(tokenTxs) == 0 {
		return nil, nil
	}

	nativeBalance := p.getNativeBalance(ctx, address)
	tokenHoldings := p.getTokenHoldings(ctx, address, priceUSD)

	var incoming, outgoing int
	var totalReceived, totalSent, totalGas float64
	uniqueContracts := make(map[string]struct{})
	for _, tx := range normalTxs {
		if tx.IsIncoming {
			incoming++
			totalReceived += tx.Value
		} else {
			outgoing++
			totalSent += tx.Value
		}
		if tx.GasFee != nil {
			totalGas += *tx.GasFee
		}
		if tx.ToAddress != "" {
			uniqueContracts[strings.ToLower(tx.ToAddress)] = struct{}{}
		}
	}

	first, last := activityBounds(append(normalTxs, tokenTxs...))

	return &entity.ChainSummary{
		Chain:                     p.def.ID,
		ChainName:                 p.def.Name,
		NativeSymbol:              p.def.NativeSymbol,
		TotalTransactions:         len(normalTxs),
		IncomingTransactions:      incoming,
		OutgoingTransactions:      outgoing,
		TotalReceived:             units.RoundNative(totalReceived),
		TotalReceivedUSD:          units.RoundUSD(totalReceived * priceUSD),
		TotalSent:                 units.RoundNative(totalSent),
		TotalSentUSD:              units.RoundUSD(totalSent * priceUSD),
		TotalGasSpent:             units.RoundNative(totalGas),
		TotalGasSpentUSD:          units.RoundUSD(totalGas * priceUSD),
		NativeBalance:             units.RoundNative(nativeBalance),
		NativeBalanceUSD:          units.RoundUSD(nativeBalance * priceUSD),
		TokenHoldings:             tokenHoldings,
		FirstTransactionDate:      first,
		LastTransactionDate:       last,
		UniqueContractsInteracted: len(uniqueContracts),
		TokenTransfersCount:       len(tokenTxs),
	}, nil
}

// classifyErr keeps auth errors typed while wrapping everything else with the
// failing operation.
func (p *EVMProvider) classifyErr(err error, op string) error {
	var authErr *entity.AuthError
	if errors.As(err, &authErr) {
		return err
	}
	return fmt.Errorf("%s %s fetch failed: %w", p.def.ID, op, err)
}

func parseUnixSeconds(s string) *time.Time {
	if s == "" {
		return nil
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(secs, 0).UTC()
	return &t
}

// activityBounds returns the earliest and latest timestamps across a
// transaction set, nil when no transaction carries one.
func activityBounds(txs []entity.Transaction) (first, last *time.Time) {
	for _, tx := range txs {
		if tx.Timestamp == nil {
			continue
		}
		if first == nil || tx.Timestamp.Before(*first) {
			t := *tx.Timestamp
			first = &t
		}
		if last == nil || tx.Timestamp.After(*last) {
			t := *tx.Timestamp
			last = &t
		}
	}
	return first, last
}
