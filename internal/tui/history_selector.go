package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatull/internal/models"
)

// TranscriptStore is what the selector needs from the transcript store
type TranscriptStore interface {
	Subjects() ([]string, error)
	Load(subject string) ([]models.Message, bool, error)
}

type transcriptEntry struct {
	subject string
	count   int
}

type transcriptsLoadedMsg struct {
	entries []transcriptEntry
	err     error
}

// HistorySelectorModel lists the stored transcripts and lets the user pick one
type HistorySelectorModel struct {
	store TranscriptStore

	entries []transcriptEntry
	cursor  int

	loading   bool
	err       error
	confirmed bool
	selected  string

	width  int
	height int
	ready  bool
}

// NewHistorySelectorModel creates a selector over store
func NewHistorySelectorModel(store TranscriptStore) HistorySelectorModel {
	return HistorySelectorModel{
		store:   store,
		loading: true,
	}
}

// Init starts loading the transcripts
func (m HistorySelectorModel) Init() tea.Cmd {
	return m.loadTranscripts()
}

func (m HistorySelectorModel) loadTranscripts() tea.Cmd {
	return func() tea.Msg {
		subjects, err := m.store.Subjects()
		if err != nil {
			return transcriptsLoadedMsg{err: err}
		}
		entries := make([]transcriptEntry, 0, len(subjects))
		for _, s := range subjects {
			msgs, _, err := m.store.Load(s)
			if err != nil {
				return transcriptsLoadedMsg{err: err}
			}
			entries = append(entries, transcriptEntry{subject: s, count: len(msgs)})
		}
		return transcriptsLoadedMsg{entries: entries}
	}
}

// Update handles messages and updates the model
func (m HistorySelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case transcriptsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.entries = msg.entries
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "esc", "q":
			return m, tea.Quit

		case "up", "k":
			if len(m.entries) > 0 {
				m.cursor--
				if m.cursor < 0 {
					m.cursor = len(m.entries) - 1
				}
			}

		case "down", "j":
			if len(m.entries) > 0 {
				m.cursor++
				if m.cursor >= len(m.entries) {
					m.cursor = 0
				}
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = max(0, len(m.entries)-1)

		case "enter":
			if len(m.entries) == 0 {
				return m, nil
			}
			m.confirmed = true
			m.selected = m.entries[m.cursor].subject
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the selector
func (m HistorySelectorModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}
	if m.loading {
		return loadingStyle.Render("  Loading transcripts...")
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("  Error: %v", m.err))
	}

	contentWidth := max(40, m.width-4)

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Width(contentWidth).Render(titleStyle.Render("Saved chats")),
		m.renderList(contentWidth),
		m.renderStatusBar(contentWidth),
	)
}

func (m HistorySelectorModel) renderList(width int) string {
	title := pickerTitleStyle.Render("Subjects")

	var items []string
	if len(m.entries) == 0 {
		items = append(items, hintStyle.Render("  No saved chats yet"))
	} else {
		maxItems := max(5, m.height-12)

		offset := 0
		if m.cursor >= maxItems {
			offset = m.cursor - maxItems + 1
		}
		end := min(offset+maxItems, len(m.entries))

		for i := offset; i < end; i++ {
			items = append(items, m.renderItem(i))
		}

		if offset > 0 {
			items = append([]string{hintStyle.Render("  ...")}, items...)
		}
		if end < len(m.entries) {
			items = append(items, hintStyle.Render("  ..."))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, append([]string{title}, items...)...)
	return pickerPanelStyle.Width(width).Render(content)
}

func (m HistorySelectorModel) renderItem(i int) string {
	e := m.entries[i]
	cursor := "  "
	style := pickerItemStyle
	if i == m.cursor {
		cursor = subjectCursorStyle.Render("> ")
		style = pickerSelectedStyle
	}

	noun := "messages"
	if e.count == 1 {
		noun = "message"
	}
	return cursor + style.Render(e.subject) + pickerCountStyle.Render(fmt.Sprintf("  %d %s", e.count, noun))
}

func (m HistorySelectorModel) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Show"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// Result returns the chosen subject and whether the user confirmed
func (m HistorySelectorModel) Result() (string, bool) {
	return m.selected, m.confirmed
}

// RunHistorySelector runs the selector and returns the chosen subject
func RunHistorySelector(store TranscriptStore) (string, bool, error) {
	p := tea.NewProgram(NewHistorySelectorModel(store), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return "", false, err
	}
	if hm, ok := final.(HistorySelectorModel); ok {
		subject, confirmed := hm.Result()
		return subject, confirmed, nil
	}
	return "", false, nil
}
