package insights

import (
	"fmt"
	"strings"
	"time"

	"wallet_analyzer/internal/domain/entity"
)

const systemPrompt = "You are a blockchain analyst. Given aggregated on-chain activity for a wallet, " +
	"write a concise plain-language assessment: activity profile, notable patterns, and portfolio posture. " +
	"Do not speculate about the owner's identity. Keep it under 300 words."

// buildPrompt flattens a report into the analyst prompt. Only aggregate
// figures go to the model, never raw transactions.
func buildPrompt(report *entity.WalletReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Wallet %s (%s family)\n", report.Address, report.AddressType)
	fmt.Fprintf(&b, "Chains analyzed: %s\n", strings.Join(report.ChainsAnalyzed, ", "))
	fmt.Fprintf(&b, "Chains with activity: %s\n", strings.Join(report.ChainsWithActivity, ", "))
	fmt.Fprintf(&b, "Total transactions: %d\n", report.TotalTransactions)
	fmt.Fprintf(&b, "Total received: $%.2f, total sent: $%.2f, net flow: $%.2f\n",
		report.TotalReceivedUSD, report.TotalSentUSD, report.NetFlowUSD)
	fmt.Fprintf(&b, "Gas spent: $%.2f\n", report.TotalGasSpentUSD)
	fmt.Fprintf(&b, "Current balance: $%.2f\n", report.TotalCurrentBalanceUSD)

	if report.WalletAgeDays != nil {
		fmt.Fprintf(&b, "Wallet age: %d days\n", *report.WalletAgeDays)
	}
	if report.FirstActivity != nil {
		fmt.Fprintf(&b, "First activity: %s\n", report.FirstActivity.Format(time.DateOnly))
	}
	if report.LastActivity != nil {
		fmt.Fprintf(&b, "Last activity: %s\n", report.LastActivity.Format(time.DateOnly))
	}

	for _, top := range report.TopChainsByTransactions {
		fmt.Fprintf(&b, "- %s: %d transactions, $%.2f volume, $%.2f held\n",
			top.Chain, top.Transactions, top.VolumeUSD, top.CurrentBalanceUSD)
	}
	if len(report.AllTokenHoldings) > 0 {
		b.WriteString("Token holdings:\n")
		for i, holding := range report.AllTokenHoldings {
			if i == 10 {
				fmt.Fprintf(&b, "- and %d more\n", len(report.AllTokenHoldings)-i)
				break
			}
			fmt.Fprintf(&b, "- %s on %s: %.4f ($%.2f)\n",
				holding.Symbol, holding.Chain, holding.Balance, holding.BalanceUSD)
		}
	}
	return b.String()
}
