package driving

import "github.com/khalid0211/FileRAG/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetAPIKey stores the remote service API key.
	SetAPIKey(key string) error

	// SetModel updates the generation model.
	SetModel(model string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
