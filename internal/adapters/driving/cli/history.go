package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Work with the query history",
	Long:  `Export, count or rate the questions asked so far.`,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole query history",
	Long: `Writes every recorded question and answer in the order they were asked.

Formats:
  text - human readable report (default)
  json - array of entries
  yaml - list of entries`,
	Args: cobra.NoArgs,
	RunE: runHistoryExport,
}

var historyCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of recorded queries",
	Args:  cobra.NoArgs,
	RunE:  runHistoryCount,
}

var historyRateCmd = &cobra.Command{
	Use:   "rate <question> <score>",
	Short: "Rate an answer from 1 to 5",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryRate,
}

var (
	exportFormat string
	exportOutput string
	rateNote     string
)

func init() {
	historyExportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(domain.ExportText), "output format: text, json or yaml")
	historyExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	historyRateCmd.Flags().StringVar(&rateNote, "note", "", "optional comment")

	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyCountCmd)
	historyCmd.AddCommand(historyRateCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryExport(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	data, err := historyService.ExportAll(cmd.Context(), domain.ExportFormat(exportFormat))
	if err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}

	if exportOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(exportOutput, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	cmd.Printf("History written to %s\n", exportOutput)
	return nil
}

func runHistoryCount(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	n, err := historyService.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count history: %w", err)
	}
	cmd.Printf("%d queries recorded\n", n)
	return nil
}

func runHistoryRate(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	score, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("score must be a number from %d to %d", domain.MinRating, domain.MaxRating)
	}

	if err := historyService.Rate(cmd.Context(), args[0], score, rateNote); err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	cmd.Printf("Rating %d/%d saved.\n", score, domain.MaxRating)
	return nil
}
