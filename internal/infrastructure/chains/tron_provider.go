package chains

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"wallet_analyzer/internal/app/port"
	"wallet_analyzer/internal/domain/entity"
	"wallet_analyzer/internal/pkg/units"
)

type tronTransactionsResponse struct {
	Data    []tronTx `json:"data"`
	Success bool     `json:"success"`
}

type tronTx struct {
	TxID           string `json:"txID"`
	BlockTimestamp int64  `json:"block_timestamp"`
	BlockNumber    *int64 `json:"blockNumber"`
	RawData        struct {
		Contract []struct {
			Type      string `json:"type"`
			Parameter struct {
				Value struct {
					Amount       int64  `json:"amount"`
					OwnerAddress string `json:"owner_address"`
					ToAddress    string `json:"to_address"`
				} `json:"value"`
			} `json:"parameter"`
		} `json:"contract"`
	} `json:"raw_data"`
}

type tronAccountResponse struct {
	Data []struct {
		Balance int64 `json:"balance"`
	} `json:"data"`
}

// TronProvider reads account activity from the TronGrid REST API. TronGrid
// reports contract addresses in 41-prefixed hex while callers hold base58
// addresses, so the incoming match only succeeds when the API echoes the
// queried form.
type TronProvider struct {
	http             *resty.Client
	transactionLimit int
	logger           *zap.Logger
}

func NewTronProvider(baseURL, apiKey string, timeout time.Duration, transactionLimit int, logger *zap.Logger) port.ChainProvider {
	client := resty.New().SetBaseURL(baseURL).SetTimeout(timeout)
	if apiKey != "" {
		client.SetHeader("TRON-PRO-API-KEY", apiKey)
	}
	return &TronProvider{
		http:             client,
		transactionLimit: transactionLimit,
		logger:           logger.Named("TronProvider"),
	}
}

// GetTransactions fetches recent transactions. Only the first contract of
// each transaction is inspected; multi-contract transactions are rare and
// their tail entries carry no transfer value.
func (p *TronProvider) GetTransactions(ctx context.Context, address string) ([]entity.Transaction, error) {
	var result tronTransactionsResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(p.transactionLimit)).
		SetResult(&result).
		Get("/v1/accounts/" + address + "/transactions")
	if err != nil {
		return nil, fmt.Errorf("tron transactions request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tron transactions failed with status %d", resp.StatusCode())
	}

	transactions := make([]entity.Transaction, 0, len(result.Data))
	for _, row := range result.Data {
		tx := entity.Transaction{
			Hash:  row.TxID,
			Chain: "tron",
		}
		if row.BlockTimestamp > 0 {
			t := time.UnixMilli(row.BlockTimestamp).UTC()
			tx.Timestamp = &t
		}
		tx.BlockNumber = row.BlockNumber
		if len(row.RawData.Contract) > 0 {
			value := row.RawData.Contract[0].Parameter.Value
			tx.Value = units.SunToTRX(value.Amount)
			tx.FromAddress = value.OwnerAddress
			tx.ToAddress = value.ToAddress
			tx.IsIncoming = strings.EqualFold(value.ToAddress, address)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// getBalance fetches the current account balance in SUN. Failures degrade to
// zero.
func (p *TronProvider) getBalance(ctx context.Context, address string) int64 {
	var result tronAccountResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/v1/accounts/" + address)
	if err != nil || resp.IsError() || len(result.Data) == 0 {
		if err != nil {
			p.logger.Debug("tron account balance failed", zap.Error(err))
		}
		return 0
	}
	return result.Data[0].Balance
}

// GetChainSummary aggregates the recent transaction page and the current
// balance.
func (p *TronProvider) GetChainSummary(ctx context.Context, address string, priceUSD float64) (*entity.ChainSummary, error) {
	transactions, err := p.GetTransactions(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("tron history fetch failed: %w", err)
	}
	if len(transactions) == 0 {
		return nil, nil
	}

	var incoming, outgoing int
	var totalReceived, totalSent float64
	for _, tx := range transactions {
		if tx.IsIncoming {
			incoming++
			totalReceived += tx.Value
		} else {
			outgoing++
			totalSent += tx.Value
		}
	}

	balance := units.SunToTRX(p.getBalance(ctx, address))
	first, last := activityBounds(transactions)

	return &entity.ChainSummary{
		Chain:                "tron",
		ChainName:            "Tron",
		NativeSymbol:         "TRX",
		TotalTransactions:    len(transactions),
		IncomingTransactions: incoming,
		OutgoingTransactions: outgoing,
		TotalReceived:        units.RoundTo(totalReceived, 6),
		TotalReceivedUSD:     units.RoundUSD(totalReceived * priceUSD),
		TotalSent:            units.RoundTo(totalSent, 6),
		TotalSentUSD:         units.RoundUSD(totalSent * priceUSD),
		NativeBalance:        units.RoundTo(balance, 6),
		NativeBalanceUSD:     units.RoundUSD(balance * priceUSD),
		FirstTransactionDate: first,
		LastTransactionDate:  last,
	}, nil
}
