// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/keymap"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateError    State = "error"
	StateStale    State = "stale"
)

// Bar displays the active store and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	hints     []key.Binding
	state     State
	message   string
	storeName string
	docCount  int
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		hints:  km.ChatHelp(),
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	frame := s.styles.StatusBar.GetHorizontalFrameSize()
	padding := s.width - frame - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state and store summary.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateThinking:
		return s.styles.Muted.Render("Thinking...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateStale:
		return s.styles.Warning.Render("Offline: " + s.storeSummary())
	case StateReady:
	}
	if s.storeName == "" {
		return s.styles.Muted.Render("No store")
	}
	return s.styles.Normal.Render(s.storeSummary())
}

func (s *Bar) storeSummary() string {
	if s.storeName == "" {
		return "no store"
	}
	noun := "documents"
	if s.docCount == 1 {
		noun = "document"
	}
	return fmt.Sprintf("%s (%d %s)", s.storeName, s.docCount, noun)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.hints))
	for _, b := range s.hints {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetHints replaces the keybinding hints shown on the right.
func (s *Bar) SetHints(bindings []key.Binding) {
	s.hints = bindings
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetStore sets the store summary.
func (s *Bar) SetStore(name string, documents int) {
	s.storeName = name
	s.docCount = documents
}

// StoreName returns the displayed store name.
func (s *Bar) StoreName() string {
	return s.storeName
}

// DocumentCount returns the displayed document count.
func (s *Bar) DocumentCount() int {
	return s.docCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the state and message, keeping the store summary.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
