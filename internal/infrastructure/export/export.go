// Package export renders a wallet report into downloadable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"wallet_analyzer/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, report *entity.WalletReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"chain", "chain_name", "native_symbol",
	"total_transactions", "incoming_transactions", "outgoing_transactions",
	"total_received", "total_received_usd", "total_sent", "total_sent_usd",
	"total_gas_spent_usd", "native_balance", "native_balance_usd",
	"token_holdings_usd", "first_transaction", "last_transaction",
}

// WriteCSV writes one row per chain summary. Cross-chain aggregates and token
// holding detail stay in the JSON rendering; CSV is the spreadsheet-friendly
// per-chain view.
func WriteCSV(w io.Writer, report *entity.WalletReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range report.ChainSummaries {
		sum := &report.ChainSummaries[i]
		row := []string{
			sum.Chain, sum.ChainName, sum.NativeSymbol,
			strconv.Itoa(sum.TotalTransactions),
			strconv.Itoa(sum.IncomingTransactions),
			strconv.Itoa(sum.OutgoingTransactions),
			formatFloat(sum.TotalReceived), formatFloat(sum.TotalReceivedUSD),
			formatFloat(sum.TotalSent), formatFloat(sum.TotalSentUSD),
			formatFloat(sum.TotalGasSpentUSD),
			formatFloat(sum.NativeBalance), formatFloat(sum.NativeBalanceUSD),
			formatFloat(sum.TokenHoldingsUSD()),
			formatTime(sum.FirstTransactionDate), formatTime(sum.LastTransactionDate),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", sum.Chain, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
