package cmd

import (
	"fmt"

	"github.com/lukman83/martdash/internal/app"
	"github.com/lukman83/martdash/internal/platform"
	"github.com/lukman83/martdash/internal/ui"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search JioMart and rank seller prices",
	Long:  "Search JioMart for each query, rank every product's sellers and flag hot deals.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "Products per query (default from config)")
	searchCmd.Flags().String("format", "table", "Output format: table, json")
	searchCmd.Flags().Float64("threshold", -1, "Hot-deal threshold in percent (default from config)")
	searchCmd.Flags().Bool("save", true, "Save hot deals to the deal store")
	searchCmd.Flags().Bool("hot-only", false, "Show only hot deals")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	save, _ := cmd.Flags().GetBool("save")
	hotOnly, _ := cmd.Flags().GetBool("hot-only")
	if limit <= 0 {
		limit = cfg.SearchLimit
	}
	if threshold < 0 {
		threshold = cfg.HotThreshold
	}

	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Searching %d quer(ies) on JioMart...", len(args)))
	ctx := platform.WithProgress(cmd.Context(), spin.Update)
	report, err := a.SearchDeals(ctx, app.SearchRequest{
		Queries:   args,
		Limit:     limit,
		Threshold: threshold,
		Save:      save,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return writeJSON(report)
	default:
		printSearchReport(report, hotOnly)
	}
	return nil
}
