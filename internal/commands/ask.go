package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/chatull/internal/chat"
	apierrors "github.com/diogo/chatull/internal/errors"
	"github.com/diogo/chatull/internal/models"
	"github.com/diogo/chatull/internal/render"
	"github.com/diogo/chatull/internal/subject"
)

var outputFlag string

// errNoAnswer is returned when the service did not answer
var errNoAnswer = errors.New("the service did not answer")

// NewAskCmd creates the one-shot question command
func NewAskCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question about a subject",
		Long: `Ask one question and print the answer. The question and the answer are
added to the subject's transcript, exactly as in the chat.

The subject can be its full name, a unique part of it, or its number in
the menu (see 'chatull config show').`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, deps, subjectFlag, args[0])
		},
	}
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the answer to a file")
	return cmd
}

// lineView is the chat view of a one-shot question. It holds the question
// and shows the spinner while the send control is disabled.
type lineView struct {
	mu    sync.Mutex
	input string
	spin  *spinner
}

var _ chat.View = (*lineView)(nil)

func (v *lineView) InputText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.input
}

func (v *lineView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.input = ""
}

func (v *lineView) SetInputEnabled(enabled bool) {
	if v.spin == nil {
		return
	}
	if enabled {
		v.spin.halt()
	} else {
		v.spin.start()
	}
}

func (v *lineView) SetInputVisible(bool)    {}
func (v *lineView) Render([]models.Message) {}
func (v *lineView) ScrollToBottom()         {}
func (v *lineView) SetMarked(string, bool)  {}

func runAsk(cmd *cobra.Command, deps *Dependencies, subjectRef, question string) error {
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question cannot be empty")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	subjects := subject.New(a.cfg.Subjects)
	if subjectRef == "" {
		return fmt.Errorf("a subject is required (-s); available: %s", strings.Join(subjects.Subjects(), ", "))
	}
	name, err := subjects.Resolve(subjectRef)
	if err != nil {
		return err
	}

	answerer, err := a.answerer(deps)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	decorated := isTTYWriter(out)

	view := &lineView{input: question}
	if decorated {
		view.spin = newSpinner(cmd.ErrOrStderr(), "Asking about "+name)
	}
	defer func() {
		if view.spin != nil {
			view.spin.halt()
		}
	}()

	nav := newNavigator(nil)
	ctrl, err := chat.New(chat.Dependencies{
		View:      view,
		Subjects:  subjects,
		Session:   a.session,
		Navigator: nav,
		Answerer:  answerer,
		Repo:      a.store,
	}, chat.WithLogger(a.logger))
	if err != nil {
		return err
	}

	if err := ctrl.Init(); err != nil {
		if errors.Is(err, apierrors.ErrNoSession) {
			return apierrors.NewSessionError("no API key stored")
		}
		return err
	}

	if err := subjects.Select(name); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	reply, err := ctrl.Send(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("question answered", zap.String("subject", name), zap.Bool("failed", reply.Text == models.ErrorAnswer))

	if reply.Text == models.ErrorAnswer {
		return errNoAnswer
	}

	if a.cfg.CopyToClipboard && decorated {
		if err := clipboard.WriteAll(reply.Text); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("✓ Copied to clipboard"))
		}
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(reply.Text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("✓ Answer saved to "+outputFlag))
		}
		return nil
	}

	if !decorated {
		fmt.Fprintln(out, render.NormalizeAnswer(reply.Text))
		return nil
	}

	bubbleWidth := min(max(getTerminalWidth()-4, 40), 120)
	opts := render.FromConfig(a.cfg.Markdown, bubbleWidth-4)

	fmt.Fprintln(out, assistantLabelStyle.Render("✦ ChatULL · "+name))
	fmt.Fprintln(out, assistantBubbleStyle.Width(bubbleWidth).Render(render.Answer(reply.Text, opts)))
	return nil
}
