package services

import (
	"fmt"
	"strings"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
	"github.com/khalid0211/FileRAG/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyGeminiAPIKey = "gemini.api_key"
	keyGeminiModel  = "gemini.model"
	keyRemoteRPS    = "remote.requests_per_second"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Gemini: domain.GeminiSettings{
			APIKey:            s.configStore.GetString(keyGeminiAPIKey),
			Model:             s.getString(keyGeminiModel, defaults.Gemini.Model),
			RequestsPerSecond: s.getFloat(keyRemoteRPS, defaults.Gemini.RequestsPerSecond),
		},
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings.Gemini.APIKey != "" {
		if err := s.configStore.Set(keyGeminiAPIKey, settings.Gemini.APIKey); err != nil {
			return fmt.Errorf("save gemini api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyGeminiModel, settings.Gemini.Model); err != nil {
		return fmt.Errorf("save gemini model: %w", err)
	}
	if err := s.configStore.Set(keyRemoteRPS, settings.Gemini.RequestsPerSecond); err != nil {
		return fmt.Errorf("save requests_per_second: %w", err)
	}
	return s.configStore.Save()
}

// SetAPIKey stores the remote service API key.
func (s *SettingsService) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.NewOpError("set api key", "", domain.ErrInvalidInput, fmt.Errorf("key is empty"))
	}
	if err := s.configStore.Set(keyGeminiAPIKey, key); err != nil {
		return fmt.Errorf("save gemini api_key: %w", err)
	}
	return s.configStore.Save()
}

// SetModel updates the generation model.
func (s *SettingsService) SetModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return domain.NewOpError("set model", "", domain.ErrInvalidInput, fmt.Errorf("model is empty"))
	}
	if err := s.configStore.Set(keyGeminiModel, model); err != nil {
		return fmt.Errorf("save gemini model: %w", err)
	}
	return s.configStore.Save()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if v := s.configStore.GetFloat(key); v > 0 {
		return v
	}
	return defaultVal
}
