package chains

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"wallet_analyzer/internal/app/port"
	"wallet_analyzer/internal/domain/entity"
	"wallet_analyzer/internal/pkg/units"
)

type bitcoinRawAddr struct {
	NTx           int         `json:"n_tx"`
	TotalReceived int64       `json:"total_received"`
	TotalSent     int64       `json:"total_sent"`
	FinalBalance  int64       `json:"final_balance"`
	Txs           []bitcoinTx `json:"txs"`
}

type bitcoinOutput struct {
	Addr  string `json:"addr"`
	Value int64  `json:"value"`
}

type bitcoinInput struct {
	PrevOut bitcoinOutput `json:"prev_out"`
}

type bitcoinTx struct {
	Hash        string          `json:"hash"`
	Time        int64           `json:"time"`
	BlockHeight *int64          `json:"block_height"`
	Inputs      []bitcoinInput  `json:"inputs"`
	Out         []bitcoinOutput `json:"out"`
}

// BitcoinProvider reads the blockchain.info rawaddr endpoint. The endpoint
// already carries lifetime aggregate totals, so the summary uses those rather
// than re-deriving them from the capped transaction page.
type BitcoinProvider struct {
	http             *resty.Client
	transactionLimit int
	logger           *zap.Logger
}

func NewBitcoinProvider(baseURL string, timeout time.Duration, transactionLimit int, logger *zap.Logger) port.ChainProvider {
	return &BitcoinProvider{
		http:             resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		transactionLimit: transactionLimit,
		logger:           logger.Named("BitcoinProvider"),
	}
}

func (p *BitcoinProvider) fetchRawAddr(ctx context.Context, address string) (*bitcoinRawAddr, error) {
	var raw bitcoinRawAddr
	resp, err := p.http.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(p.transactionLimit)).
		SetResult(&raw).
		Get("/rawaddr/" + address)
	if err != nil {
		return nil, fmt.Errorf("rawaddr request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("rawaddr failed with status %d", resp.StatusCode())
	}
	return &raw, nil
}

// normalize resolves a UTXO transaction into one directed transfer for the
// address. Outputs paying the address and inputs spending from it are summed
// separately; the larger side decides direction and amount, with an exact tie
// counted as a spend. A consolidation where the address appears on both sides
// nets out to its dominant flow.
func (p *BitcoinProvider) normalize(tx bitcoinTx, address string) entity.Transaction {
	var received, spent int64
	var counterpartyIn, counterpartyOut string
	for _, out := range tx.Out {
		if out.Addr == address {
			received += out.Value
		} else if counterpartyOut == "" {
			counterpartyOut = out.Addr
		}
	}
	for _, in := range tx.Inputs {
		if in.PrevOut.Addr == address {
			spent += in.PrevOut.Value
		} else if counterpartyIn == "" {
			counterpartyIn = in.PrevOut.Addr
		}
	}

	normalized := entity.Transaction{
		Hash:  tx.Hash,
		Chain: "bitcoin",
	}
	if tx.Time > 0 {
		t := time.Unix(tx.Time, 0).UTC()
		normalized.Timestamp = &t
	}
	normalized.BlockNumber = tx.BlockHeight

	if received > spent {
		normalized.IsIncoming = true
		normalized.Value = units.SatoshiToBTC(received)
		normalized.FromAddress = counterpartyIn
		normalized.ToAddress = address
	} else {
		normalized.Value = units.SatoshiToBTC(spent)
		normalized.FromAddress = address
		normalized.ToAddress = counterpartyOut
	}
	return normalized
}

// GetTransactions fetches the most recent transaction page for the address.
func (p *BitcoinProvider) GetTransactions(ctx context.Context, address string) ([]entity.Transaction, error) {
	raw, err := p.fetchRawAddr(ctx, address)
	if err != nil {
		return nil, err
	}
	transactions := make([]entity.Transaction, 0, len(raw.Txs))
	for _, tx := range raw.Txs {
		transactions = append(transactions, p.normalize(tx, address))
	}
	return transactions, nil
}

// GetChainSummary builds the summary from the endpoint's lifetime totals plus
// the recent transaction page for directional counts and activity dates.
func (p *BitcoinProvider) GetChainSummary(ctx context.Context, address string, priceUSD float64) (*entity.ChainSummary, error) {
	raw, err := p.fetchRawAddr(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("bitcoin history fetch failed: %w", err)
	}
	if raw.NTx == 0 {
		return nil, nil
	}

	transactions := make([]entity.Transaction, 0, len(raw.Txs))
	var incoming, outgoing int
	for _, tx := range raw.Txs {
		normalized := p.normalize(tx, address)
		if normalized.IsIncoming {
			incoming++
		} else {
			outgoing++
		}
		transactions = append(transactions, normalized)
	}

	totalReceived := units.SatoshiToBTC(raw.TotalReceived)
	totalSent := units.SatoshiToBTC(raw.TotalSent)
	balance := units.SatoshiToBTC(raw.FinalBalance)
	first, last := activityBounds(transactions)

	return &entity.ChainSummary{
		Chain:                "bitcoin",
		ChainName:            "Bitcoin",
		NativeSymbol:         "BTC",
		TotalTransactions:    raw.NTx,
		IncomingTransactions: incoming,
		OutgoingTransactions: outgoing,
		TotalReceived:        units.RoundNative(totalReceived),
		TotalReceivedUSD:     units.RoundUSD(totalReceived * priceUSD),
		TotalSent:            units.RoundNative(totalSent),
		TotalSentUSD:         units.RoundUSD(totalSent * priceUSD),
		NativeBalance:        units.RoundNative(balance),
		NativeBalanceUSD:     units.RoundUSD(balance * priceUSD),
		FirstTransactionDate: first,
		LastTransactionDate:  last,
	}, nil
}
