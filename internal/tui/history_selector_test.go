package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/chatull/internal/models"
)

type mockTranscriptStore struct {
	chats map[string][]models.Message
	order []string
	err   error
}

func (m *mockTranscriptStore) Subjects() ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockTranscriptStore) Load(subject string) ([]models.Message, bool, error) {
	msgs, ok := m.chats[subject]
	return msgs, ok, nil
}

func newMockTranscriptStore() *mockTranscriptStore {
	return &mockTranscriptStore{
		order: []string{"Física", "Redes"},
		chats: map[string][]models.Message{
			"Física": {models.NewAnswer(models.Greeting)},
			"Redes":  {models.NewAnswer(models.Greeting), models.NewQuestion("q"), models.NewAnswer("a")},
		},
	}
}

func loadedSelector(t *testing.T, store TranscriptStore) HistorySelectorModel {
	t.Helper()
	m := NewHistorySelectorModel(store)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(HistorySelectorModel)
	updated, _ = m.Update(m.loadTranscripts()())
	return updated.(HistorySelectorModel)
}

func TestHistorySelector_Loads(t *testing.T) {
	m := loadedSelector(t, newMockTranscriptStore())

	if m.loading {
		t.Error("should not be loading after the load message")
	}
	if len(m.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(m.entries))
	}
	if m.entries[1].subject != "Redes" || m.entries[1].count != 3 {
		t.Errorf("entries[1] = %+v", m.entries[1])
	}
}

func TestHistorySelector_LoadError(t *testing.T) {
	store := newMockTranscriptStore()
	store.err = errors.New("disk failure")
	m := loadedSelector(t, store)

	if m.err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(m.View(), "disk failure") {
		t.Error("view should show the error")
	}
}

func TestHistorySelector_NavigateAndSelect(t *testing.T) {
	m := loadedSelector(t, newMockTranscriptStore())

	keys := []tea.KeyMsg{
		{Type: tea.KeyDown},
		{Type: tea.KeyDown},
		{Type: tea.KeyDown},
	}
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(HistorySelectorModel)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(HistorySelectorModel)
	if cmd == nil {
		t.Error("enter should quit")
	}

	subject, confirmed := m.Result()
	if !confirmed || subject != "Redes" {
		t.Errorf("Result() = %q, %v; want Redes, true", subject, confirmed)
	}
}

func TestHistorySelector_Escape(t *testing.T) {
	m := loadedSelector(t, newMockTranscriptStore())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(HistorySelectorModel)
	if cmd == nil {
		t.Error("esc should quit")
	}
	if _, confirmed := m.Result(); confirmed {
		t.Error("esc should not confirm")
	}
}

func TestHistorySelector_EmptyStore(t *testing.T) {
	m := loadedSelector(t, &mockTranscriptStore{})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(HistorySelectorModel)
	if cmd != nil {
		t.Error("enter with nothing to select should do nothing")
	}
	if !strings.Contains(m.View(), "No saved chats") {
		t.Error("view should say there is nothing saved")
	}
}

func TestHistorySelector_ViewShowsCounts(t *testing.T) {
	m := loadedSelector(t, newMockTranscriptStore())
	view := m.View()
	for _, want := range []string{"Física", "1 message", "3 messages"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}
