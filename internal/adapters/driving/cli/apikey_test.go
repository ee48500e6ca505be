package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalid0211/FileRAG/internal/adapters/driven/storage/memory"
	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/services"
)

func envMap(values map[string]string) func(string) string {
	return func(name string) string {
		return values[name]
	}
}

func settingsWithKey(t *testing.T, key string) *services.SettingsService {
	t.Helper()
	svc := services.NewSettingsService(memory.NewConfigStore())
	if key != "" {
		require.NoError(t, svc.SetAPIKey(key))
	}
	return svc
}

func TestKeySource_Resolve_Order(t *testing.T) {
	prompt := func() (string, error) { return "from-prompt", nil }

	tests := []struct {
		name   string
		source KeySource
		want   string
	}{
		{
			name: "flag wins",
			source: KeySource{
				Flag:     "from-flag",
				Getenv:   envMap(map[string]string{"GEMINI_API_KEY": "from-env"}),
				Settings: settingsWithKey(t, "from-config"),
				Prompt:   prompt,
			},
			want: "from-flag",
		},
		{
			name: "gemini env before google env",
			source: KeySource{
				Getenv: envMap(map[string]string{"GEMINI_API_KEY": "gemini", "GOOGLE_API_KEY": "google"}),
			},
			want: "gemini",
		},
		{
			name: "google env",
			source: KeySource{
				Getenv:   envMap(map[string]string{"GOOGLE_API_KEY": "google"}),
				Settings: settingsWithKey(t, "from-config"),
			},
			want: "google",
		},
		{
			name: "config before prompt",
			source: KeySource{
				Getenv:   envMap(nil),
				Settings: settingsWithKey(t, "from-config"),
				Prompt:   prompt,
			},
			want: "from-config",
		},
		{
			name: "prompt last",
			source: KeySource{
				Getenv:   envMap(nil),
				Settings: settingsWithKey(t, ""),
				Prompt:   prompt,
			},
			want: "from-prompt",
		},
		{
			name: "values are trimmed",
			source: KeySource{
				Flag:   "  padded  ",
				Getenv: envMap(nil),
			},
			want: "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.source.Resolve()

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeySource_Resolve_NotFound(t *testing.T) {
	source := KeySource{
		Getenv:   envMap(nil),
		Settings: settingsWithKey(t, ""),
		Prompt:   func() (string, error) { return "   ", nil },
	}

	_, err := source.Resolve()

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestKeySource_Resolve_PromptError(t *testing.T) {
	source := KeySource{
		Getenv: envMap(nil),
		Prompt: func() (string, error) { return "", errors.New("interrupted") },
	}

	_, err := source.Resolve()

	assert.EqualError(t, err, "interrupted")
}

func TestAPIKeyEnvVars(t *testing.T) {
	assert.Equal(t, []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}, APIKeyEnvVars)
}

func TestReadLine(t *testing.T) {
	assert.Equal(t, "yes", readLine(strings.NewReader("  yes \nignored\n")))
	assert.Equal(t, "", readLine(strings.NewReader("")))
}
