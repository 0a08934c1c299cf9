package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/chatull/internal/models"
	"github.com/diogo/chatull/internal/subject"
	"github.com/diogo/chatull/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat",
		Long: `Start the interactive chat. Pick a subject in the menu on the left and
ask away; every subject keeps its own transcript.

Without a stored API key you are asked for one first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, subjectFlag)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, subjectRef string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	tui.ApplyTheme(a.cfg.Theme)

	answerer, err := a.answerer(deps)
	if err != nil {
		return err
	}

	initial := ""
	if subjectRef != "" {
		initial, err = subject.Resolve(a.cfg.Subjects, subjectRef)
		if err != nil {
			return err
		}
	}

	nav := newNavigator(map[string]func() error{
		models.RouteSetAPIKey: func() error {
			return promptAndSaveKey(cmd, a)
		},
	})

	for {
		// A fresh subject controller per run: listeners are never removed
		route, err := deps.TUI.RunChat(tui.ChatOptions{
			Subjects:        subject.New(a.cfg.Subjects),
			Session:         a.session,
			Answerer:        answerer,
			Repo:            a.store,
			Logger:          a.logger,
			InitialSubject:  initial,
			BaseURL:         a.cfg.BaseURL,
			Markdown:        a.cfg.Markdown,
			CopyToClipboard: a.cfg.CopyToClipboard,
		})
		if err != nil {
			return fmt.Errorf("chat failed: %w", err)
		}
		if route == "" {
			return nil
		}

		a.logger.Info("navigating", zap.String("route", route))
		nav.Navigate(route)
		if err := nav.Follow(nav.Pending()); err != nil {
			return err
		}
	}
}
