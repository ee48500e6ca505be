package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the Gemini API key and model.

The API key is looked up in this order: --api-key, GEMINI_API_KEY or
GOOGLE_API_KEY (a .env file in the working directory is read first), the
key saved with 'settings set-key', then an interactive prompt.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key [key]",
	Short: "Save the Gemini API key",
	Long:  `Saves the API key to the config file. Without an argument the key is read from the terminal without echo.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsSetKey,
}

var settingsSetModelCmd = &cobra.Command{
	Use:   "set-model <model>",
	Short: "Set the model used to answer questions",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSetModel,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsSetModelCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Gemini]")
	cmd.Printf("  API Key: %s\n", domain.MaskKey(settings.Gemini.APIKey))
	cmd.Printf("  Model: %s\n", settings.Gemini.Model)
	cmd.Printf("  Requests/sec: %g\n", settings.Gemini.RequestsPerSecond)
	cmd.Println()

	if !settings.Gemini.IsConfigured() {
		cmd.Println("No API key saved. Set GEMINI_API_KEY or run 'filerag settings set-key'.")
	}
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		cmd.Print("Enter API key: ")
		key = readPassword()
		cmd.Println()
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key is required")
	}

	if err := settingsService.SetAPIKey(key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	cmd.Printf("API key saved (%s).\n", domain.MaskKey(key))
	return nil
}

func runSettingsSetModel(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetModel(args[0]); err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}

	cmd.Printf("Model set to %s.\n", args[0])
	return nil
}
