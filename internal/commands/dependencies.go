package commands

import (
	"github.com/diogo/chatull/internal/chat"
	"github.com/diogo/chatull/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(opts tui.ChatOptions) (string, error)
	RunHistorySelector(store tui.TranscriptStore) (string, bool, error)
}

// Dependencies holds the external dependencies for the commands.
type Dependencies struct {
	TUI TUIInterface

	// Answerer replaces the HTTP client when set.
	Answerer chat.Answerer
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(opts tui.ChatOptions) (string, error) {
	return tui.RunChat(opts)
}

func (d *DefaultTUI) RunHistorySelector(store tui.TranscriptStore) (string, bool, error) {
	return tui.RunHistorySelector(store)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI: &DefaultTUI{},
	}
}
