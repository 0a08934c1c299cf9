// Package chat drives the conversation: it reads the question box, asks the
// answer service and keeps the visible and stored transcripts in step.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/diogo/chatull/internal/api"
	apierrors "github.com/diogo/chatull/internal/errors"
	"github.com/diogo/chatull/internal/models"
)

// ErrRequestInFlight is returned by Send while a previous question is still
// waiting for its answer.
var ErrRequestInFlight = errors.New("a question is already waiting for an answer")

// Dependencies are the collaborators of a Controller. All are required.
type Dependencies struct {
	View      View
	Subjects  SubjectSource
	Session   SessionSource
	Navigator Navigator
	Answerer  Answerer
	Repo      Repository
}

// Controller is the chat controller. One request may be in flight at a time.
type Controller struct {
	view     View
	subjects SubjectSource
	session  SessionSource
	nav      Navigator
	answerer Answerer
	repo     Repository
	logger   *zap.Logger

	// mu guards the fields below. It is never held across the answer request.
	mu       sync.Mutex
	visible  []models.Message
	marked   string
	inFlight bool
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a controller. Call Init before anything else.
func New(deps Dependencies, opts ...Option) (*Controller, error) {
	switch {
	case deps.View == nil:
		return nil, fmt.Errorf("chat: view is required")
	case deps.Subjects == nil:
		return nil, fmt.Errorf("chat: subject source is required")
	case deps.Session == nil:
		return nil, fmt.Errorf("chat: session source is required")
	case deps.Navigator == nil:
		return nil, fmt.Errorf("chat: navigator is required")
	case deps.Answerer == nil:
		return nil, fmt.Errorf("chat: answerer is required")
	case deps.Repo == nil:
		return nil, fmt.Errorf("chat: repository is required")
	}

	c := &Controller{
		view:     deps.View,
		subjects: deps.Subjects,
		session:  deps.Session,
		nav:      deps.Navigator,
		answerer: deps.Answerer,
		repo:     deps.Repo,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Init subscribes to subject changes, hides the question area and shows the
// welcome message. Without a session token it navigates to the key setup
// route and returns ErrNoSession; the view must not be used afterwards.
func (c *Controller) Init() error {
	c.subjects.OnChange(c.onSubjectChange)

	c.mu.Lock()
	c.view.SetInputVisible(false)
	c.visible = []models.Message{models.NewAnswer(models.Welcome)}
	c.view.Render(c.snapshot())
	c.mu.Unlock()

	if _, ok := c.session.Token(); !ok {
		c.logger.Info("no session token, redirecting", zap.String("route", models.RouteSetAPIKey))
		c.nav.Navigate(models.RouteSetAPIKey)
		return apierrors.ErrNoSession
	}
	return nil
}

// Send asks the current question box content. Answer failures are not
// returned: the reply becomes models.ErrorAnswer and the question box keeps
// its text. The returned message is the reply that was appended.
func (c *Controller) Send(ctx context.Context) (models.Message, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return models.Message{}, ErrRequestInFlight
	}

	text := c.view.InputText()
	subject := c.subjects.Selected()

	question := models.NewQuestion(text)
	c.visible = append(c.visible, question)
	c.view.Render(c.snapshot())
	c.persist(subject, question)

	c.inFlight = true
	c.view.SetInputEnabled(false)
	c.mu.Unlock()

	token, _ := c.session.Token()
	reply, err := c.answerer.Answer(ctx, api.AnswerRequest{
		Token:    token,
		Subject:  subject,
		Question: text,
	})
	if err != nil {
		c.logger.Warn("failed to get answer",
			zap.String("subject", subject),
			zap.Int("status", apierrors.GetHTTPStatus(err)),
			zap.Error(err))
		reply = models.ErrorAnswer
	} else {
		c.view.ClearInput()
	}

	answer := models.NewAnswer(reply)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false
	c.view.SetInputEnabled(true)

	// The user may have switched subjects while waiting. The answer belongs
	// to the subject it was asked under either way.
	if c.subjects.Selected() == subject {
		c.visible = append(c.visible, answer)
		c.view.Render(c.snapshot())
		c.view.ScrollToBottom()
	}
	c.persist(subject, answer)

	return answer, nil
}

// InFlight reports whether a question is waiting for its answer
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Visible returns a copy of the transcript currently on screen
func (c *Controller) Visible() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Marked returns the subject whose menu entry carries the selection marker
func (c *Controller) Marked() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.marked
}

func (c *Controller) onSubjectChange(subject string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.SetInputVisible(true)
	c.visible = nil

	if subject == "" {
		c.view.Render(nil)
		return
	}

	messages, ok, err := c.repo.Load(subject)
	if err != nil {
		c.logger.Error("failed to load transcript", zap.String("subject", subject), zap.Error(err))
	}
	if !ok {
		greeting := models.NewAnswer(models.Greeting)
		c.persist(subject, greeting)
		messages = []models.Message{greeting}
	}

	c.visible = messages
	c.view.Render(c.snapshot())
	c.view.ScrollToBottom()

	if c.marked != "" {
		c.view.SetMarked(c.marked, false)
	}
	c.view.SetMarked(subject, true)
	c.marked = subject

	c.logger.Debug("subject selected", zap.String("subject", subject), zap.Int("messages", len(messages)))
}

// persist stores msg; storage failures are logged, the visible transcript
// is kept regardless.
func (c *Controller) persist(subject string, msg models.Message) {
	if err := c.repo.Append(subject, msg); err != nil {
		c.logger.Error("failed to store message", zap.String("subject", subject), zap.Error(err))
	}
}

func (c *Controller) snapshot() []models.Message {
	out := make([]models.Message, len(c.visible))
	copy(out, c.visible)
	return out
}
