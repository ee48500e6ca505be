// Package cli provides the filerag command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driving"
	"github.com/khalid0211/FileRAG/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Services used by the commands. They are populated by the ServiceFactory
// before any command runs, or directly by tests.
var (
	storeService    driving.StoreService
	documentService driving.DocumentService
	queryService    driving.QueryService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
)

// Options carries the global flags to the ServiceFactory.
type Options struct {
	DataDir string
	APIKey  string
	Verbose bool
}

// Services bundles the application services.
type Services struct {
	Store    driving.StoreService
	Document driving.DocumentService
	Query    driving.QueryService
	History  driving.HistoryService
	Settings driving.SettingsService
}

// ServiceFactory builds the services once flags are parsed. The returned
// function releases any resources held by them.
type ServiceFactory func(opts Options) (*Services, func() error, error)

var (
	serviceFactory ServiceFactory
	closeServices  func() error
	globalOpts     Options
)

var rootCmd = &cobra.Command{
	Use:   "filerag",
	Short: "Ask questions about your documents",
	Long: `FileRAG uploads documents to a Gemini File Search store and answers
questions grounded on them. Every answer is kept in a local query history
that can be exported as text, JSON or YAML.

Get started:
  filerag store create "My Docs"
  filerag document upload ./docs/**/*.pdf
  filerag ask "What is the refund policy?"`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return releaseServices()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "enable debug output")
	flags.StringVar(&globalOpts.DataDir, "data-dir", "", "data directory (default ~/.filerag)")
	flags.StringVar(&globalOpts.APIKey, "api-key", "", "Gemini API key (overrides environment and config)")
}

// Execute runs the root command with services built by factory.
func Execute(factory ServiceFactory) error {
	serviceFactory = factory
	defer func() {
		if err := releaseServices(); err != nil {
			logger.Warn("close services: %v", err)
		}
	}()
	return rootCmd.Execute()
}

// SetServices installs already built services.
func SetServices(s *Services) {
	storeService = s.Store
	documentService = s.Document
	queryService = s.Query
	historyService = s.History
	settingsService = s.Settings
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)

	if serviceFactory == nil || storeService != nil || cmd.Name() == versionCmd.Name() {
		return nil
	}

	logger.Debug("building services (data dir %q)", globalOpts.DataDir)
	services, closer, err := serviceFactory(globalOpts)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	SetServices(services)
	closeServices = closer
	return nil
}

func releaseServices() error {
	if closeServices == nil {
		return nil
	}
	closer := closeServices
	closeServices = nil
	return closer()
}

// explain adds a hint for errors the user can act on.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNoStoreConfigured):
		return fmt.Errorf("%w\nRun 'filerag store create' first", err)
	case errors.Is(err, domain.ErrStoreStale):
		return fmt.Errorf("%w\nLocal state was reset. Run 'filerag store create' to start again", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return fmt.Errorf("%w\nSet GEMINI_API_KEY or run 'filerag settings set-key'", err)
	case domain.IsRetryable(err):
		return fmt.Errorf("%w\nNothing was changed locally; try again", err)
	default:
		return err
	}
}
