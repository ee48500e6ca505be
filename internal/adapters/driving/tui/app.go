package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/keymap"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/messages"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/styles"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/views/chat"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/views/documents"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	chatView      *chat.View
	documentsView *documents.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		chatView:      chat.NewView(s, km, ports.Query),
		documentsView: documents.NewView(s, km, ports.Document),
		currentView:   messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("filerag"),
		a.chatView.Init(),
		a.loadStore(),
	)
}

// loadStore returns a command that fetches the active store description.
func (a *App) loadStore() tea.Cmd {
	if a.ports.Store == nil {
		return nil
	}
	return func() tea.Msg {
		info, err := a.ports.Store.Info(a.ctx)
		return messages.StoreLoaded{Info: info, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.forward(msg)

	case messages.AnswerReceived:
		a.err = msg.Err
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.StoreLoaded:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.DocumentsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewDocuments:
			return a, a.documentsView.Load()
		case messages.ViewChat:
			return a, tea.Batch(a.chatView.Focus(), a.loadStore())
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)
	}

	return a, a.forward(msg)
}

// forward passes a message to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDocuments:
		return a.documentsView.View()
	default:
		return a.chatView.View()
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
}
