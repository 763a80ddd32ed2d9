package entity

import "time"

// TopChain is one row of the per-chain activity ranking inside a
// WalletReport.
type TopChain struct {
	Chain             string  `json:"chain"`
	Transactions      int     `json:"transactions"`
	VolumeUSD         float64 `json:"volume_usd"`
	CurrentBalanceUSD float64 `json:"current_balance_usd"`
}

// WalletReport is the final cross-chain aggregate for one analyzed address.
// It is assembled exactly once per analysis, never mutated afterwards, and
// never persisted. ChainSummaries are ordered by transaction count
// descending; AllTokenHoldings by estimated USD value descending.
type WalletReport struct {
	Address                 string         `json:"address"`
	AddressType             string         `json:"address_type"`
	ChainsAnalyzed          []string       `json:"chains_analyzed"`
	ChainsWithActivity      []string       `json:"chains_with_activity"`
	TotalTransactions       int            `json:"total_transactions"`
	TotalReceivedUSD        float64        `json:"total_received_usd"`
	TotalSentUSD            float64        `json:"total_sent_usd"`
	TotalGasSpentUSD        float64        `json:"total_gas_spent_usd"`
	NetFlowUSD              float64        `json:"net_flow_usd"`
	TotalCurrentBalanceUSD  float64        `json:"total_current_balance_usd"`
	ChainSummaries          []ChainSummary `json:"chain_summaries"`
	AllTokenHoldings        []TokenBalance `json:"all_token_holdings"`
	TopChainsByTransactions []TopChain     `json:"top_chains_by_transactions"`
	FirstActivity           *time.Time     `json:"first_activity,omitempty"`
	LastActivity            *time.Time     `json:"last_activity,omitempty"`
	WalletAgeDays           *int           `json:"wallet_age_days,omitempty"`
	AIInsights              string         `json:"ai_insights,omitempty"`
	Warnings                []string       `json:"warnings"`
}
