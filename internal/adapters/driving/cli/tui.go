package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive chat",
	Long: `Launch the interactive terminal chat for FileRAG.

Ask questions about the documents in your store and read the answers
with the documents they were grounded on. Every answer is recorded in
the query history.

Controls:
  Enter      - Ask the question
  PgUp/PgDn  - Scroll the transcript
  Ctrl+D     - Browse documents
  Ctrl+L     - Clear the transcript
  Esc        - Back to the chat
  Ctrl+C     - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	ports := tui.NewPorts(queryService, documentService, storeService)

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
