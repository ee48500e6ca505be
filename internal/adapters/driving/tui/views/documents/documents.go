// Package documents provides the documents list view component for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/keymap"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/messages"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/styles"
	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driving"
)

// errNoDocumentService is reported when the view has nothing to list from.
var errNoDocumentService = fmt.Errorf("document service not available")

// View is the documents list view.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	documentService driving.DocumentService
	ctx             context.Context

	documents    []domain.DocumentEntry
	stale        bool
	cause        error
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	scrollOffset int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:          s,
		keymap:          km,
		documentService: documentService,
		ctx:             context.Background(),
		documents:       []domain.DocumentEntry{},
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load marks the view as loading and returns a command that lists documents.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.err = nil
	return v.loadDocuments()
}

// loadDocuments returns a command that lists the documents of the store.
func (v *View) loadDocuments() tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentsLoaded{Err: errNoDocumentService}
		}
		listing, err := v.documentService.List(v.ctx)
		return messages.DocumentsLoaded{Listing: listing, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.documents = []domain.DocumentEntry{}
		v.stale = false
		v.cause = nil
		if msg.Listing != nil {
			v.documents = msg.Listing.Entries
			v.stale = msg.Listing.Stale
			v.cause = msg.Listing.Cause
		}
		if v.selected >= len(v.documents) {
			v.selected = 0
			v.scrollOffset = 0
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case key.Matches(msg, v.keymap.Refresh):
		return v, v.Load()
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}

	return v, nil
}

// adjustScroll adjusts the scroll offset to keep the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// Reserve lines for title, warning, details and help
	available := v.height - 10
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.stale {
		warning := "Offline: showing the last known list"
		if v.cause != nil {
			warning += fmt.Sprintf(" (%s)", v.cause.Error())
		}
		b.WriteString(v.styles.Warning.Render(warning))
		b.WriteString("\n\n")
	}

	if len(v.documents) == 0 {
		b.WriteString(v.styles.Muted.Render("No documents uploaded yet. Use 'filerag document upload' to add some."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visibleItems := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.documents) && i < v.scrollOffset+visibleItems; i++ {
		b.WriteString(v.renderDocument(i, &v.documents[i]))
		b.WriteString("\n")
	}

	if len(v.documents) > visibleItems {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visibleItems, len(v.documents)),
			len(v.documents))))
		b.WriteString("\n")
	}

	if doc := v.SelectedDocument(); doc != nil && doc.Status == domain.DocumentFailed && doc.Error != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Failed: " + doc.Error))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderDocument renders a single document line.
func (v *View) renderDocument(index int, doc *domain.DocumentEntry) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	maxNameLen := v.width - 34
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	name := doc.Name
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	uploaded := ""
	if !doc.UploadedAt.IsZero() {
		uploaded = doc.UploadedAt.Local().Format("2006-01-02 15:04")
	}
	state := fmt.Sprintf("%-8s", doc.Status)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s  %s", indicator, maxNameLen, name, state, uploaded))
	}

	return v.styles.Normal.Render(indicator) +
		v.styles.Normal.Render(fmt.Sprintf("%-*s  ", maxNameLen, name)) +
		v.styles.Status(doc.Status).Render(state) +
		v.styles.Muted.Render("  "+uploaded)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [r] refresh  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.DocumentEntry {
	return v.documents
}

// Stale reports whether the list is the last known local copy.
func (v *View) Stale() bool {
	return v.stale
}

// Loading reports whether a listing is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.DocumentEntry {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
