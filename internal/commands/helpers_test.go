package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/diogo/chatull/internal/api"
	"github.com/diogo/chatull/internal/config"
	"github.com/diogo/chatull/internal/history"
	"github.com/diogo/chatull/internal/kvstore"
	"github.com/diogo/chatull/internal/session"
	"github.com/diogo/chatull/internal/tui"
)

// mockAnswerer records requests and returns a fixed reply
type mockAnswerer struct {
	mu     sync.Mutex
	answer string
	err    error
	got    []api.AnswerRequest
}

func (m *mockAnswerer) Answer(_ context.Context, req api.AnswerRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.got = append(m.got, req)
	return m.answer, m.err
}

// mockTUI returns scripted routes from RunChat
type mockTUI struct {
	routes   []string
	chatRuns []tui.ChatOptions
	tokens   []bool

	selected  string
	confirmed bool
}

func (m *mockTUI) RunChat(opts tui.ChatOptions) (string, error) {
	m.chatRuns = append(m.chatRuns, opts)
	_, ok := opts.Session.Token()
	m.tokens = append(m.tokens, ok)
	if len(m.routes) == 0 {
		return "", nil
	}
	route := m.routes[0]
	m.routes = m.routes[1:]
	return route, nil
}

func (m *mockTUI) RunHistorySelector(tui.TranscriptStore) (string, bool, error) {
	return m.selected, m.confirmed, nil
}

// testEnv points chatull at a temp home with a session token
func testEnv(t *testing.T, token string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)
	t.Setenv(session.TokenEnv, token)
	t.Setenv("CHATULL_STORAGE", "")
	t.Setenv("CHATULL_BASE_URL", "")
	return home
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, deps *Dependencies, stdin string, args ...string) result {
	t.Helper()
	root := NewRootCmd(deps)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

// openStore opens the file transcript store under home
func openStore(t *testing.T, home string) *history.Store {
	t.Helper()
	kv, err := kvstore.NewFileStore(filepath.Join(home, "storage"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return history.NewStore(kv)
}
