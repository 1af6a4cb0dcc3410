package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lukman83/martdash/internal/pricing"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [line...]",
	Short: "Rank a raw seller listing offline",
	Long: "Rank a multi-seller listing given as '|'-separated lines, one per seller.\n" +
		"Lines are read from stdin when none are given as arguments.",
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "table", "Output format: table, json")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	lines := args
	if len(lines) == 0 {
		sc := bufio.NewScanner(cmd.InOrStdin())
		for sc.Scan() {
			if l := strings.TrimSpace(sc.Text()); l != "" {
				lines = append(lines, l)
			}
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read listing: %w", err)
		}
	}

	a := pricing.Analyze(lines)
	if a == nil {
		fmt.Fprintln(os.Stdout, "No valid price rows.")
		return nil
	}
	if format == "json" {
		return writeJSON(a)
	}
	printAnalysis(a)
	return nil
}
