package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the document store",
	Long: `Create, inspect or delete the Gemini File Search store that holds your
documents. Only one store is active at a time.`,
}

var storeCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new store",
	Long:  `Creates a remote store and records it locally. The name defaults to "` + domain.DefaultStoreName + `".`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStoreCreate,
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the store and all its documents",
	Args:  cobra.NoArgs,
	RunE:  runStoreDelete,
}

var storeInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the active store",
	Args:  cobra.NoArgs,
	RunE:  runStoreInfo,
}

// storeDeleteYes skips the confirmation prompt.
var storeDeleteYes bool

func init() {
	storeDeleteCmd.Flags().BoolVarP(&storeDeleteYes, "yes", "y", false, "do not ask for confirmation")

	storeCmd.AddCommand(storeCreateCmd)
	storeCmd.AddCommand(storeDeleteCmd)
	storeCmd.AddCommand(storeInfoCmd)
	rootCmd.AddCommand(storeCmd)
}

func runStoreCreate(cmd *cobra.Command, args []string) error {
	if storeService == nil {
		return errors.New("store service not configured")
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	rec, err := storeService.Create(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", explain(err))
	}

	cmd.Printf("Store created: %s\n", rec.DisplayName)
	cmd.Printf("  ID: %s\n", rec.CorpusID)
	return nil
}

func runStoreDelete(cmd *cobra.Command, _ []string) error {
	if storeService == nil {
		return errors.New("store service not configured")
	}

	rec, err := storeService.Current()
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", explain(err))
	}

	if !storeDeleteYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("refusing to delete without confirmation; pass --yes")
		}
		cmd.Printf("Delete store %q and all its documents? This cannot be undone. [y/N]: ", rec.DisplayName)
		answer := strings.ToLower(readLine(cmd.InOrStdin()))
		if answer != "y" && answer != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := storeService.Delete(cmd.Context()); err != nil {
		return fmt.Errorf("failed to delete store: %w", explain(err))
	}

	cmd.Printf("Store %s deleted.\n", rec.DisplayName)
	return nil
}

func runStoreInfo(cmd *cobra.Command, _ []string) error {
	if storeService == nil {
		return errors.New("store service not configured")
	}

	info, err := storeService.Info(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get store info: %w", explain(err))
	}

	rec := info.Record
	cmd.Printf("Store: %s\n\n", rec.DisplayName)
	cmd.Printf("  ID:        %s\n", rec.CorpusID)
	cmd.Printf("  Created:   %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Printf("  Documents: %d (local count)\n", rec.DocumentCount)

	if remote := info.Remote; remote != nil {
		cmd.Println()
		cmd.Println("  Remote:")
		cmd.Printf("    Active:  %d\n", remote.ActiveCount)
		cmd.Printf("    Pending: %d\n", remote.PendingCount)
		cmd.Printf("    Failed:  %d\n", remote.FailedCount)
		cmd.Printf("    Size:    %s\n", formatBytes(remote.SizeBytes))
	}
	return nil
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
