package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskgate",
	Short: "Risk-gating and portfolio-accounting core for algorithmic trading",
	Long: `Riskgate sits between strategy engines and execution venues: every
proposed trade passes an ordered chain of risk checks against live account
state before it may reach a venue, and every resulting fill is folded back
into that state exactly once, in order.

It provides:
  - A portfolio ledger with cash, position, and P&L accounting
  - Five admission checks: frequency, position size, buying power,
    loss limits/drawdown, and portfolio exposure
  - NORMAL/DEFENSIVE/LOCKDOWN trading modes derived from account state
  - A NATS interface for signals, fills, and decisions
  - A read-only HTTP surface for state, buying power, and metrics
  - SQLite persistence with an append-only transaction log`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
