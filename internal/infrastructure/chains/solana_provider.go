package chains

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"wallet_analyzer/internal/app/port"
	"wallet_analyzer/internal/domain/entity"
	"wallet_analyzer/internal/pkg/units"
)

type solanaSignature struct {
	Signature string `json:"signature"`
	Slot      int64  `json:"slot"`
	BlockTime *int64 `json:"blockTime"`
	Err       any    `json:"err"`
}

// SolanaProvider reads activity through the public JSON-RPC interface.
// Signature listings carry no transfer amounts, so transaction values are
// always zero; per-transfer decoding would cost one RPC round trip per
// signature.
type SolanaProvider struct {
	http           *resty.Client
	rpcURL         string
	signatureLimit int
	logger         *zap.Logger
}

func NewSolanaProvider(rpcURL string, timeout time.Duration, signatureLimit int, logger *zap.Logger) port.ChainProvider {
	return &SolanaProvider{
		http:           resty.New().SetTimeout(timeout),
		rpcURL:         rpcURL,
		signatureLimit: signatureLimit,
		logger:         logger.Named("SolanaProvider"),
	}
}

func (p *SolanaProvider) rpcCall(ctx context.Context, method string, params []any, out any) error {
	var rpcResp rpcResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1}).
		SetResult(&rpcResp).
		Post(p.rpcURL)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%s failed with status %d", method, resp.StatusCode())
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s RPC error: %s", method, rpcResp.Error.Message)
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// GetTransactions lists recent signatures for the address.
func (p *SolanaProvider) GetTransactions(ctx context.Context, address string) ([]entity.Transaction, error) {
	var signatures []solanaSignature
	params := []any{address, map[string]any{"limit": p.signatureLimit}}
	if err := p.rpcCall(ctx, "getSignaturesForAddress", params, &signatures); err != nil {
		return nil, err
	}

	transactions := make([]entity.Transaction, 0, len(signatures))
	for _, sig := range signatures {
		tx := entity.Transaction{
			Hash:        sig.Signature,
			Chain:       "solana",
			FromAddress: address,
		}
		slot := sig.Slot
		tx.BlockNumber = &slot
		if sig.BlockTime != nil {
			t := time.Unix(*sig.BlockTime, 0).UTC()
			tx.Timestamp = &t
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// getBalance fetches the current balance in lamports. Failures degrade to
// zero.
func (p *SolanaProvider) getBalance(ctx context.Context, address string) int64 {
	var result struct {
		Value int64 `json:"value"`
	}
	if err := p.rpcCall(ctx, "getBalance", []any{address}, &result); err != nil {
		p.logger.Debug("getBalance failed", zap.Error(err))
		return 0
	}
	return result.Value
}

// GetChainSummary aggregates signature history and the current balance.
// With no per-transfer amounts available, the current balance stands in for
// total received and sent stays zero.
func (p *SolanaProvider) GetChainSummary(ctx context.Context, address string, priceUSD float64) (*entity.ChainSummary, error) {
	transactions, err := p.GetTransactions(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("solana transaction history fetch failed: %w", err)
	}
	if len(transactions) == 0 {
		return nil, nil
	}

	balance := units.LamportsToSol(p.getBalance(ctx, address))
	first, last := activityBounds(transactions)

	return &entity.ChainSummary{
		Chain:                "solana",
		ChainName:            "Solana",
		NativeSymbol:         "SOL",
		TotalTransactions:    len(transactions),
		TotalReceived:        units.RoundTo(balance, 6),
		TotalReceivedUSD:     units.RoundUSD(balance * priceUSD),
		NativeBalance:        units.RoundTo(balance, 6),
		NativeBalanceUSD:     units.RoundUSD(balance * priceUSD),
		FirstTransactionDate: first,
		LastTransactionDate:  last,
	}, nil
}
