package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driving"
)

// APIKeyEnvVars are checked in order after the --api-key flag.
var APIKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// KeySource resolves the Gemini API key.
type KeySource struct {
	// Flag is the value of --api-key.
	Flag string
	// Settings supplies the key stored in config.toml.
	Settings driving.SettingsService
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	// Prompt asks the user; nil disables prompting.
	Prompt func() (string, error)
}

// Resolve returns the first key found in flag, environment, config, prompt.
func (k KeySource) Resolve() (string, error) {
	if key := strings.TrimSpace(k.Flag); key != "" {
		return key, nil
	}

	getenv := k.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range APIKeyEnvVars {
		if key := strings.TrimSpace(getenv(name)); key != "" {
			return key, nil
		}
	}

	if k.Settings != nil {
		settings, err := k.Settings.Get()
		if err != nil {
			return "", fmt.Errorf("read settings: %w", err)
		}
		if settings.Gemini.IsConfigured() {
			return settings.Gemini.APIKey, nil
		}
	}

	if k.Prompt != nil {
		key, err := k.Prompt()
		if err != nil {
			return "", err
		}
		if key = strings.TrimSpace(key); key != "" {
			return key, nil
		}
	}

	return "", fmt.Errorf("%w: no Gemini API key found", domain.ErrUnauthorized)
}

// TerminalPrompt asks for the key on the terminal without echo. It returns
// nil when stdin is not a terminal.
func TerminalPrompt(out io.Writer) func() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return func() (string, error) {
		fmt.Fprint(out, "Gemini API key: ")
		key := readPassword()
		fmt.Fprintln(out)
		return key, nil
	}
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(in io.Reader) string {
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}
