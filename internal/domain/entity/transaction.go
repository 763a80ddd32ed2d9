package entity

import "time"

// Transaction is one normalized on-chain event affecting the analyzed
// address. Value is expressed in the chain's native unit (or the token's
// decimal-adjusted unit for token transfers) and is never negative.
// IsIncoming is relative to the analyzed address only.
type Transaction struct {
	Hash            string     `json:"hash"`
	Chain           string     `json:"chain"`
	BlockNumber     *int64     `json:"block_number,omitempty"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
	FromAddress     string     `json:"from_address"`
	ToAddress       string     `json:"to_address,omitempty"`
	Value           float64    `json:"value"`
	ValueUSD        float64    `json:"value_usd"`
	GasUsed         *float64   `json:"gas_used,omitempty"`
	GasPrice        *float64   `json:"gas_price,omitempty"`
	GasFee          *float64   `json:"gas_fee,omitempty"`
	GasFeeUSD       *float64   `json:"gas_fee_usd,omitempty"`
	TokenSymbol     string     `json:"token_symbol,omitempty"`
	TokenName       string     `json:"token_name,omitempty"`
	IsIncoming      bool       `json:"is_incoming"`
	IsTokenTransfer bool       `json:"is_token_transfer"`
	Method          string     `json:"method,omitempty"`
}

// TokenBalance is a held non-native asset balance on one chain. Balance is
// decimal-adjusted and always positive; zero balances are filtered out before
// construction. BalanceUSD is a heuristic estimate, not a live quote.
type TokenBalance struct {
	Chain           string  `json:"chain"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name,omitempty"`
	Balance         float64 `json:"balance"`
	BalanceUSD      float64 `json:"balance_usd"`
	ContractAddress string  `json:"contract_address,omitempty"`
	Decimals        int     `json:"decimals"`
}
