package tui

import (
	"sync"

	"github.com/diogo/chatull/internal/chat"
	"github.com/diogo/chatull/internal/models"
)

// screen is the chat.View and chat.Navigator seen by the controller. The
// controller writes to it from command goroutines; the bubbletea model
// reads a snapshot in Update after each change notification.
type screen struct {
	mu sync.Mutex

	input        string
	clearInput   bool
	enabled      bool
	inputVisible bool
	messages     []models.Message
	version      int
	scroll       bool
	marked       map[string]bool
	route        string

	changed chan struct{}
}

var (
	_ chat.View      = (*screen)(nil)
	_ chat.Navigator = (*screen)(nil)
)

func newScreen() *screen {
	return &screen{
		enabled: true,
		marked:  make(map[string]bool),
		changed: make(chan struct{}, 1),
	}
}

// notify wakes the model. Notifications coalesce; the model always reads
// the full state.
func (s *screen) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *screen) update(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.notify()
}

func (s *screen) InputText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// setInput mirrors the textarea content. It does not notify: the model is
// the one writing it.
func (s *screen) setInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

func (s *screen) ClearInput() {
	s.update(func() {
		s.input = ""
		s.clearInput = true
	})
}

func (s *screen) SetInputEnabled(enabled bool) {
	s.update(func() { s.enabled = enabled })
}

func (s *screen) SetInputVisible(visible bool) {
	s.update(func() { s.inputVisible = visible })
}

func (s *screen) Render(messages []models.Message) {
	s.update(func() {
		s.messages = messages
		s.version++
	})
}

func (s *screen) ScrollToBottom() {
	s.update(func() { s.scroll = true })
}

func (s *screen) SetMarked(subject string, marked bool) {
	s.update(func() {
		if marked {
			s.marked[subject] = true
		} else {
			delete(s.marked, subject)
		}
	})
}

func (s *screen) Navigate(route string) {
	s.update(func() { s.route = route })
}

// screenState is a copy of the screen taken by the model
type screenState struct {
	clearInput   bool
	enabled      bool
	inputVisible bool
	messages     []models.Message
	version      int
	scroll       bool
	marked       map[string]bool
	route        string
}

// snapshot copies the state and consumes the one-shot flags
func (s *screen) snapshot() screenState {
	s.mu.Lock()
	defer s.mu.Unlock()

	marked := make(map[string]bool, len(s.marked))
	for k, v := range s.marked {
		marked[k] = v
	}
	messages := make([]models.Message, len(s.messages))
	copy(messages, s.messages)

	st := screenState{
		clearInput:   s.clearInput,
		enabled:      s.enabled,
		inputVisible: s.inputVisible,
		messages:     messages,
		version:      s.version,
		scroll:       s.scroll,
		marked:       marked,
		route:        s.route,
	}
	s.clearInput = false
	s.scroll = false
	return st
}
