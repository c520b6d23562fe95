package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/riskgate/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the transaction log",
	Long: `Query the append-only transaction log from the SQLite journal.

Examples:
  riskgate journal transactions <session-id>
  riskgate journal transactions <session-id> --limit 20`,
}

var journalTxnCmd = &cobra.Command{
	Use:   "transactions <session-id>",
	Short: "List processed fills for a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTransactions,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTxnCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./riskgate.db", "path to SQLite journal DB")
	journalTxnCmd.Flags().IntVarP(&journalLimit, "limit", "n", 0, "max rows to print (0 = all)")
}

func runJournalTransactions(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	txns, err := j.ListTransactions(args[0], journalLimit)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}

	if len(txns) == 0 {
		fmt.Println("no transactions")
		return nil
	}

	fmt.Printf("%-28s %-10s %-5s %8s %10s %12s %14s %14s\n",
		"TXN", "SYMBOL", "SIDE", "QTY", "PRICE", "REALIZED", "CASH AFTER", "VALUE AFTER")
	for _, t := range txns {
		fmt.Printf("%-28s %-10s %-5s %8d %10.2f %12.2f %14.2f %14.2f\n",
			t.ID, t.Symbol, t.Action, t.Quantity, t.Price, t.RealizedPnL,
			t.CashAfter, t.ValueAfter)
	}
	return nil
}
