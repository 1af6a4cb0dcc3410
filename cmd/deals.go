package cmd

import (
	"fmt"
	"os"

	"github.com/lukman83/martdash/internal/dealstore"
	"github.com/spf13/cobra"
)

var dealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "Inspect or clear saved hot deals",
}

var dealsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved deals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		store, err := dealstore.Open(cfg.DealStore)
		if err != nil {
			return err
		}
		defer store.Close()

		deals, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if format == "json" {
			return writeJSON(deals)
		}
		printDeals(deals)
		return nil
	},
}

var dealsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved deal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := dealstore.Open(cfg.DealStore)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Saved deals cleared.")
		return nil
	},
}

func init() {
	dealsListCmd.Flags().String("format", "table", "Output format: table, json")
	dealsCmd.AddCommand(dealsListCmd, dealsClearCmd)
	rootCmd.AddCommand(dealsCmd)
}
