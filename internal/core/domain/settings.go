package domain

// DefaultModel is the generation model used for queries.
const DefaultModel = "gemini-2.5-flash"

// DefaultRequestsPerSecond limits calls to the remote service.
const DefaultRequestsPerSecond = 2.0

// GeminiSettings holds remote service configuration.
type GeminiSettings struct {
	// APIKey authenticates against the remote service.
	APIKey string

	// Model is the generation model used to answer questions.
	Model string

	// RequestsPerSecond caps the outgoing request rate.
	RequestsPerSecond float64
}

// IsConfigured returns true if an API key is present.
func (g GeminiSettings) IsConfigured() bool {
	return g.APIKey != ""
}

// AppSettings holds all application settings.
type AppSettings struct {
	Gemini GeminiSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The API key is left empty; it comes from the environment or the user.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Gemini: GeminiSettings{
			Model:             DefaultModel,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
	}
}

// MaskKey hides all but the last four characters of a secret.
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
