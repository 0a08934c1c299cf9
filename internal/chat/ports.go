package chat

import (
	"context"

	"github.com/diogo/chatull/internal/api"
	"github.com/diogo/chatull/internal/models"
)

// View is everything the controller needs from the screen. Implementations
// must be safe to call from any goroutine.
type View interface {
	// InputText returns the question box content verbatim
	InputText() string
	ClearInput()
	// SetInputEnabled toggles the send control
	SetInputEnabled(enabled bool)
	// SetInputVisible shows or hides the whole question area
	SetInputVisible(visible bool)
	// Render replaces the visible transcript
	Render(messages []models.Message)
	ScrollToBottom()
	// SetMarked adds or removes the selection highlight on a menu entry
	SetMarked(subject string, marked bool)
}

// SubjectSource supplies the selected subject and its change notifications
type SubjectSource interface {
	Selected() string
	OnChange(fn func(subject string))
}

// SessionSource supplies the session token
type SessionSource interface {
	Token() (string, bool)
}

// Navigator leaves the chat view for another route
type Navigator interface {
	Navigate(route string)
}

// Answerer asks the remote service
type Answerer interface {
	Answer(ctx context.Context, req api.AnswerRequest) (string, error)
}

// Repository stores transcripts per subject
type Repository interface {
	Append(subject string, msg models.Message) error
	Load(subject string) ([]models.Message, bool, error)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(route string)

// Navigate calls f(route)
func (f NavigatorFunc) Navigate(route string) { f(route) }
