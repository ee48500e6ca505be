// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/components/input"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/components/status"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/keymap"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/messages"
	"github.com/khalid0211/FileRAG/internal/adapters/driving/tui/styles"
	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driving"
)

// chromeHeight is the number of lines used by the header, input and status bar.
const chromeHeight = 7

// Turn is one question in the transcript together with its outcome.
type Turn struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// Pending reports whether the answer has not arrived yet.
func (t *Turn) Pending() bool {
	return t.Answer == nil && t.Err == nil
}

// View is the chat view: a scrolling transcript above a question input.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	viewport  viewport.Model
	statusbar *status.Bar

	queryService driving.QueryService
	ctx          context.Context

	turns   []Turn
	waiting bool
	width   int
	height  int
	ready   bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, queryService driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:       s,
		keymap:       km,
		input:        input.NewQuestionInput(s),
		viewport:     viewport.New(80, 24-chromeHeight),
		statusbar:    status.NewBar(s, km),
		queryService: queryService,
		ctx:          context.Background(),
		width:        80,
		height:       24,
	}
	v.refresh()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.StoreLoaded:
		v.handleStore(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Ask):
		return v, v.submit()
	case key.Matches(msg, v.keymap.Documents):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	case key.Matches(msg, v.keymap.ScrollUp):
		v.viewport.PageUp()
		return v, nil
	case key.Matches(msg, v.keymap.ScrollDown):
		v.viewport.PageDown()
		return v, nil
	case key.Matches(msg, v.keymap.Clear):
		if !v.waiting {
			v.turns = nil
			v.statusbar.Clear()
			v.refresh()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit starts asking the current question.
func (v *View) submit() tea.Cmd {
	question := v.input.Question()
	if question == "" || v.waiting {
		return nil
	}

	v.waiting = true
	v.turns = append(v.turns, Turn{Question: question})
	v.input.Reset()
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")
	v.refresh()

	return v.ask(question)
}

// ask returns a command that sends the question to the query service.
func (v *View) ask(question string) tea.Cmd {
	return func() tea.Msg {
		if v.queryService == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoQueryService}
		}
		answer, err := v.queryService.Ask(v.ctx, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// handleAnswer fills in the pending turn.
func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.waiting = false

	for i := len(v.turns) - 1; i >= 0; i-- {
		t := &v.turns[i]
		if t.Pending() && t.Question == msg.Question {
			t.Answer = msg.Answer
			t.Err = msg.Err
			if t.Answer == nil && t.Err == nil {
				t.Err = fmt.Errorf("no answer returned")
			}
			break
		}
	}

	switch {
	case msg.Err != nil:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	case msg.Answer != nil && msg.Answer.Warning != nil:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage("history not saved: " + msg.Answer.Warning.Error())
	default:
		v.statusbar.Clear()
	}

	v.refresh()
}

// handleStore updates the status bar with the active store.
func (v *View) handleStore(msg messages.StoreLoaded) {
	if msg.Err != nil || msg.Info == nil {
		v.statusbar.SetStore("", 0)
		return
	}
	count := msg.Info.Record.DocumentCount
	if msg.Info.Remote != nil {
		count = int(msg.Info.Remote.ActiveCount)
	}
	v.statusbar.SetStore(msg.Info.Record.DisplayName, count)
}

// refresh re-renders the transcript into the viewport.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

// renderTranscript renders every turn.
func (v *View) renderTranscript() string {
	if len(v.turns) == 0 {
		return v.styles.Muted.Render("Ask a question about the documents in your store.")
	}

	wrap := v.width - 6
	if wrap < 20 {
		wrap = 20
	}

	blocks := make([]string, 0, len(v.turns))
	for i := range v.turns {
		blocks = append(blocks, v.renderTurn(&v.turns[i], wrap))
	}
	return strings.Join(blocks, "\n\n")
}

// renderTurn renders one question with its answer and sources.
func (v *View) renderTurn(t *Turn, wrap int) string {
	var b strings.Builder

	b.WriteString(v.styles.Question.Render("Q: " + t.Question))
	b.WriteString("\n")

	switch {
	case t.Err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + t.Err.Error()))
	case t.Answer == nil:
		b.WriteString(v.styles.Muted.Render("  Thinking..."))
	default:
		b.WriteString(v.styles.Answer.Width(wrap).Render(t.Answer.Text))
		b.WriteString("\n")
		if len(t.Answer.Sources) == 0 {
			b.WriteString(v.styles.Source.Render("No sources cited."))
		}
		for i, src := range t.Answer.Sources {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(v.styles.Source.Render(fmt.Sprintf("[%d] %s", i+1, src)))
		}
	}

	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("FileRAG"),
		"",
		v.viewport.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	body := height - chromeHeight
	if body < 3 {
		body = 3
	}
	v.viewport.Width = width
	v.viewport.Height = body
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Turns returns the transcript.
func (v *View) Turns() []Turn {
	return v.turns
}

// Waiting returns whether a question is in flight.
func (v *View) Waiting() bool {
	return v.waiting
}

// Question returns the text currently in the input.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the text in the input.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}

// Focus gives the input focus.
func (v *View) Focus() tea.Cmd {
	return v.input.Focus()
}
