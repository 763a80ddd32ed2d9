package entity

import "time"

// ChainSummary is one chain's fully aggregated activity and balance snapshot
// for one address. A nil summary means the address had no activity on the
// chain (or the provider failed); either way the overall analysis proceeds.
//
// IncomingTransactions + OutgoingTransactions may be less than
// TotalTransactions: token-transfer events are counted separately on chains
// that report them through a dedicated endpoint.
type ChainSummary struct {
	Chain                     string         `json:"chain"`
	ChainName                 string         `json:"chain_name"`
	NativeSymbol              string         `json:"native_symbol"`
	TotalTransactions         int            `json:"total_transactions"`
	IncomingTransactions      int            `json:"incoming_transactions"`
	OutgoingTransactions      int            `json:"outgoing_transactions"`
	TotalReceived             float64        `json:"total_received"`
	TotalReceivedUSD          float64        `json:"total_received_usd"`
	TotalSent                 float64        `json:"total_sent"`
	TotalSentUSD              float64        `json:"total_sent_usd"`
	TotalGasSpent             float64        `json:"total_gas_spent"`
	TotalGasSpentUSD          float64        `json:"total_gas_spent_usd"`
	NativeBalance             float64        `json:"native_balance"`
	NativeBalanceUSD          float64        `json:"native_balance_usd"`
	TokenHoldings             []TokenBalance `json:"token_holdings,omitempty"`
	FirstTransactionDate      *time.Time     `json:"first_transaction_date,omitempty"`
	LastTransactionDate       *time.Time     `json:"last_transaction_date,omitempty"`
	UniqueContractsInteracted int            `json:"unique_contracts_interacted"`
	TokenTransfersCount       int            `json:"token_transfers_count"`
}

// TokenHoldingsUSD sums the estimated USD value of every token held on this
// chain.
func (s *ChainSummary) TokenHoldingsUSD() float64 {
	var total float64
	for _, t := range s.TokenHoldings {
		total += t.BalanceUSD
	}
	return total
}
