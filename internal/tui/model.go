package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/chatull/internal/chat"
	"github.com/diogo/chatull/internal/config"
	apierrors "github.com/diogo/chatull/internal/errors"
	"github.com/diogo/chatull/internal/models"
	"github.com/diogo/chatull/internal/render"
	"github.com/diogo/chatull/internal/subject"
)

// Message types for the TUI
type (
	viewChangedMsg struct{}
	initDoneMsg    struct{ err error }
	answeredMsg    struct {
		answer models.Message
		err    error
	}
	selectDoneMsg struct{ err error }
	copiedMsg     struct{ err error }
)

type focus int

const (
	focusSidebar focus = iota
	focusInput
)

// ChatOptions wires the chat screen
type ChatOptions struct {
	Subjects *subject.Controller
	Session  chat.SessionSource
	Answerer chat.Answerer
	Repo     chat.Repository
	Logger   *zap.Logger

	// InitialSubject is selected right after start, if set
	InitialSubject  string
	BaseURL         string
	Markdown        config.MarkdownConfig
	CopyToClipboard bool
}

// Model represents the TUI state
type Model struct {
	ctrl     *chat.Controller
	screen   *screen
	subjects *subject.Controller
	opts     ChatOptions
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Mirrors of the screen
	messages     []models.Message
	version      int
	enabled      bool
	inputVisible bool
	marked       map[string]bool
	route        string

	// Local state
	focus       focus
	cursor      int
	lastAnswer  string
	feedback    string
	err         error
	ready       bool
	markdown    render.Options
	renderCache map[string]string

	width  int
	height int
}

// NewChatModel builds the chat screen and its controller
func NewChatModel(opts ChatOptions) (Model, error) {
	if opts.Subjects == nil {
		return Model{}, fmt.Errorf("tui: subjects are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	scr := newScreen()
	ctrl, err := chat.New(chat.Dependencies{
		View:      scr,
		Subjects:  opts.Subjects,
		Session:   opts.Session,
		Navigator: scr,
		Answerer:  opts.Answerer,
		Repo:      opts.Repo,
	}, chat.WithLogger(logger))
	if err != nil {
		return Model{}, err
	}

	ta := textarea.New()
	ta.Placeholder = "Escribe tu pregunta..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		ctrl:        ctrl,
		screen:      scr,
		subjects:    opts.Subjects,
		opts:        opts,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		textarea:    ta,
		spinner:     s,
		enabled:     true,
		marked:      make(map[string]bool),
		focus:       focusSidebar,
		markdown:    render.FromConfig(opts.Markdown, 0),
		renderCache: make(map[string]string),
	}, nil
}

// Init starts the controller in a command so that view notifications are
// consumed by the running program
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		waitForChange(m.ctx, m.screen),
		m.initController(),
	)
}

// waitForChange returns nil once ctx is done, so the pending command does
// not outlive the program
func waitForChange(ctx context.Context, s *screen) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.changed:
			return viewChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) initController() tea.Cmd {
	return func() tea.Msg {
		return initDoneMsg{err: m.ctrl.Init()}
	}
}

func (m Model) selectSubject(name string) tea.Cmd {
	return func() tea.Msg {
		return selectDoneMsg{err: m.subjects.Select(name)}
	}
}

func (m Model) send() tea.Cmd {
	return func() tea.Msg {
		answer, err := m.ctrl.Send(m.ctx)
		return answeredMsg{answer: answer, err: err}
	}
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.updateViewport()

	case viewChangedMsg:
		wasEnabled := m.enabled
		m.sync()
		if m.route != "" {
			m.cancel()
			return m, tea.Quit
		}
		if wasEnabled && !m.enabled {
			cmds = append(cmds, m.spinner.Tick)
		}
		cmds = append(cmds, waitForChange(m.ctx, m.screen))

	case initDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, apierrors.ErrNoSession) {
				// The navigation notification may not have been read yet
				m.route = models.RouteSetAPIKey
				m.cancel()
				return m, tea.Quit
			}
			m.err = msg.err
			break
		}
		if m.opts.InitialSubject != "" {
			m.focus = focusInput
			m.textarea.Focus()
			cmds = append(cmds, m.selectSubject(m.opts.InitialSubject))
		}

	case selectDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		}

	case answeredMsg:
		if errors.Is(msg.err, chat.ErrRequestInFlight) {
			break
		}
		m.lastAnswer = msg.answer.Text
		if m.opts.CopyToClipboard && msg.answer.Text != models.ErrorAnswer {
			cmds = append(cmds, copyToClipboard(msg.answer.Text))
		}

	case copiedMsg:
		if msg.err != nil {
			m.feedback = "Could not copy: " + msg.err.Error()
		} else {
			m.feedback = "Answer copied to clipboard"
		}

	case spinner.TickMsg:
		if !m.enabled {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.cancel()
		return m, tea.Quit

	case "tab":
		if m.inputVisible {
			m.toggleFocus()
		}
		return m, nil

	case "ctrl+y":
		if m.lastAnswer == "" {
			m.feedback = "Nothing to copy yet"
			return m, nil
		}
		return m, copyToClipboard(m.lastAnswer)

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	subjects := m.subjects.Subjects()
	if len(subjects) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(subjects) - 1
		}
	case "down", "j":
		m.cursor++
		if m.cursor >= len(subjects) {
			m.cursor = 0
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(subjects) - 1
	case "enter", " ":
		if m.cursor >= len(subjects) {
			m.cursor = len(subjects) - 1
		}
		m.feedback = ""
		m.err = nil
		m.focus = focusInput
		m.textarea.Focus()
		return m, m.selectSubject(subjects[m.cursor])
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		if !m.enabled || !m.inputVisible {
			return m, nil
		}
		m.feedback = ""
		m.screen.setInput(m.textarea.Value())
		return m, m.send()
	}

	if !m.enabled {
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.screen.setInput(m.textarea.Value())
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == focusSidebar {
		m.focus = focusInput
		m.textarea.Focus()
		return
	}
	m.focus = focusSidebar
	m.textarea.Blur()
	if selected := m.subjects.Selected(); selected != "" {
		for i, s := range m.subjects.Subjects() {
			if s == selected {
				m.cursor = i
			}
		}
	}
}

// sync copies the screen into the widgets
func (m *Model) sync() {
	st := m.screen.snapshot()

	if st.clearInput {
		m.textarea.Reset()
	}
	wasVisible := m.inputVisible
	m.enabled = st.enabled
	m.inputVisible = st.inputVisible
	m.marked = st.marked
	m.route = st.route
	switch {
	case !m.inputVisible:
		m.focus = focusSidebar
		m.textarea.Blur()
	case !wasVisible:
		m.focus = focusInput
		m.textarea.Focus()
	}

	if st.version != m.version {
		m.version = st.version
		m.messages = st.messages
		m.updateViewport()
	}
	if st.scroll {
		m.viewport.GotoBottom()
	}
}

func (m Model) sidebarWidth() int {
	w := m.width / 4
	if w < 22 {
		w = 22
	}
	if w > 36 {
		w = 36
	}
	return w
}

func (m *Model) layout() {
	headerHeight := 3
	inputHeight := 5
	statusHeight := 2

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := m.width - m.sidebarWidth() - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 2)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}
	opts := m.markdown.WithWidth(bubbleWidth - 4)

	for i, msg := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsQuestion {
			label := userLabelStyle.Render("● You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ ChatULL")
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(m.renderAnswer(msg.Text, opts))
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func (m *Model) renderAnswer(text string, opts render.Options) string {
	key := fmt.Sprintf("%d:%s", opts.Width, text)
	if out, ok := m.renderCache[key]; ok {
		return out
	}
	out := render.Answer(text, opts)
	m.renderCache[key] = out
	return out
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	mainWidth := m.viewport.Width + 2

	header := m.renderHeader(m.width - 2)
	sidebar := m.renderSidebar(m.viewport.Height + 7)

	messagesPanel := messagesAreaStyle.
		Width(mainWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())

	main := lipgloss.JoinVertical(lipgloss.Left, messagesPanel, m.renderInput(mainWidth))
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	sections := []string{header, body, m.renderStatusBar(m.width - 2)}
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	} else if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render(m.feedback))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	parts := []string{titleStyle.Render("✦ ChatULL")}
	if selected := m.subjects.Selected(); selected != "" {
		parts = append(parts, hintStyle.Render("  •  "), subtitleStyle.Render(selected))
	}
	if m.opts.BaseURL != "" {
		parts = append(parts, hintStyle.Render("  •  "+m.opts.BaseURL))
	}
	return headerStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Center, parts...))
}

func (m Model) renderSidebar(height int) string {
	width := m.sidebarWidth()
	var lines []string
	lines = append(lines, sidebarTitleStyle.Render("Asignaturas"))

	for i, s := range m.subjects.Subjects() {
		cursor := "  "
		if m.focus == focusSidebar && i == m.cursor {
			cursor = subjectCursorStyle.Render("▸ ")
		}
		name := truncate(s, width-6)
		style := subjectStyle
		if m.marked[s] {
			style = subjectMarkedStyle
		}
		lines = append(lines, cursor+style.Render(name))
	}

	style := sidebarStyle
	if m.focus == focusSidebar {
		style = sidebarFocusedStyle
	}
	return style.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderInput(width int) string {
	var content string
	switch {
	case !m.inputVisible:
		content = inputHiddenStyle.Render("Selecciona una asignatura en el menú de la izquierda")
	case !m.enabled:
		content = m.spinner.View() + loadingStyle.Render(" ChatULL está pensando...")
	default:
		content = lipgloss.JoinVertical(lipgloss.Left, inputLabelStyle.Render("You"), m.textarea.View())
	}
	return inputPanelStyle.Width(width).Render(content)
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send/Select"},
		{"Tab", "Menu/Input"},
		{"↑↓", "Subjects"},
		{"PgUp/PgDn", "Scroll"},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// Route returns the route the controller navigated to, if any
func (m Model) Route() string {
	return m.route
}

// RunChat starts the chat TUI. It returns the route the chat navigated
// away to, or "" when the user quit.
func RunChat(opts ChatOptions) (string, error) {
	m, err := NewChatModel(opts)
	if err != nil {
		return "", err
	}
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(Model); ok {
		return fm.Route(), nil
	}
	return "", nil
}
