package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var actionsLimit int

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List recently metered tool actions from the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Security.LedgerPath == "" {
			return fmt.Errorf("security.ledger_path is not configured")
		}
		ledger, err := openLedger(cmd.Context(), cfg.Security.LedgerPath)
		if err != nil {
			return err
		}
		defer ledger.Close()

		entries, err := ledger.Recent(cmd.Context(), actionsLimit)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, entry := range entries {
			if err := enc.Encode(entry); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	actionsCmd.Flags().IntVarP(&actionsLimit, "limit", "n", 20, "number of entries to show")
}
