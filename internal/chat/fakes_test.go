package chat

import (
	"context"
	"sync"

	"github.com/diogo/chatull/internal/api"
	"github.com/diogo/chatull/internal/models"
)

// fakeView records what the controller does to the screen
type fakeView struct {
	mu           sync.Mutex
	input        string
	enabled      bool
	visible      bool
	rendered     []models.Message
	enabledLog   []bool
	scrolls      int
	marked       map[string]bool
	markedEvents []string
}

func newFakeView(input string) *fakeView {
	return &fakeView{input: input, enabled: true, marked: make(map[string]bool)}
}

func (v *fakeView) InputText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.input
}

func (v *fakeView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.input = ""
}

func (v *fakeView) SetInputEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabled = enabled
	v.enabledLog = append(v.enabledLog, enabled)
}

func (v *fakeView) SetInputVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible = visible
}

func (v *fakeView) Render(messages []models.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rendered = messages
}

func (v *fakeView) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolls++
}

func (v *fakeView) SetMarked(subject string, marked bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if marked {
		v.marked[subject] = true
		v.markedEvents = append(v.markedEvents, "+"+subject)
	} else {
		delete(v.marked, subject)
		v.markedEvents = append(v.markedEvents, "-"+subject)
	}
}

func (v *fakeView) state() (input string, enabled, visible bool, rendered []models.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.input, v.enabled, v.visible, v.rendered
}

func (v *fakeView) markedSubjects() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []string
	for s := range v.marked {
		out = append(out, s)
	}
	return out
}

type fakeSession struct {
	token string
}

func (s fakeSession) Token() (string, bool) {
	return s.token, s.token != ""
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

// fakeAnswerer answers from a function and records requests
type fakeAnswerer struct {
	mu       sync.Mutex
	requests []api.AnswerRequest
	fn       func(ctx context.Context, req api.AnswerRequest) (string, error)
}

func (a *fakeAnswerer) Answer(ctx context.Context, req api.AnswerRequest) (string, error) {
	a.mu.Lock()
	a.requests = append(a.requests, req)
	fn := a.fn
	a.mu.Unlock()
	return fn(ctx, req)
}

func answerWith(text string, err error) *fakeAnswerer {
	return &fakeAnswerer{fn: func(context.Context, api.AnswerRequest) (string, error) {
		return text, err
	}}
}
