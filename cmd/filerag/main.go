// Command filerag answers questions about documents stored in a Gemini
// File Search store.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/khalid0211/FileRAG/internal/adapters/driven/config/file"
	"github.com/khalid0211/FileRAG/internal/adapters/driven/gemini"
	"github.com/khalid0211/FileRAG/internal/adapters/driven/querylog"
	"github.com/khalid0211/FileRAG/internal/adapters/driven/storage/sqlite"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/cli"
	"github.com/khalid0211/FileRAG/internal/core/services"
)

func main() {
	// A missing .env is not an error.
	_ = godotenv.Load()

	if err := cli.Execute(buildServices); err != nil {
		os.Exit(1)
	}
}

// buildServices wires the adapters under the data directory.
func buildServices(opts cli.Options) (*cli.Services, func() error, error) {
	dir := opts.DataDir
	if dir == "" {
		def, err := file.DefaultDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve data directory: %w", err)
		}
		dir = def
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("read settings: %w", err)
	}

	stateStore, err := file.NewStateStore(dir)
	if err != nil {
		return nil, nil, err
	}

	registry, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return nil, nil, fmt.Errorf("open document registry: %w", err)
	}

	queryLog, err := querylog.New(dir)
	if err != nil {
		registry.Close()
		return nil, nil, err
	}

	keys := cli.KeySource{
		Flag:     opts.APIKey,
		Settings: settingsService,
		Prompt:   cli.TerminalPrompt(os.Stderr),
	}
	search := gemini.NewClient(gemini.Config{
		APIKeyFunc:        keys.Resolve,
		Model:             settings.Gemini.Model,
		RequestsPerSecond: settings.Gemini.RequestsPerSecond,
	})

	cache := registry.DocumentCache()
	storeService := services.NewStoreService(search, stateStore, cache)
	historyService := services.NewHistoryService(queryLog)

	svc := &cli.Services{
		Store:    storeService,
		Document: services.NewDocumentService(search, stateStore, cache),
		Query:    services.NewQueryService(search, storeService, historyService),
		History:  historyService,
		Settings: settingsService,
	}
	return svc, registry.Close, nil
}
