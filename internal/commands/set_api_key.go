package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/chatull/internal/session"
)

// NewSetAPIKeyCmd creates the command that stores the session token
func NewSetAPIKeyCmd(deps *Dependencies) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:     "set-api-key [key]",
		Aliases: []string{"login"},
		Short:   "Store your ChatULL API key",
		Long: `Store the API key used to ask the ChatULL service. Without an argument
the key is read from the terminal without echo.

The key can also be read from a file holding either the bare key or
{"session_token": "<key>"}. CHATULL_SESSION_TOKEN overrides the stored key.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.Default()
			if err != nil {
				return err
			}

			switch {
			case fromFile != "":
				if err := sess.Import(fromFile); err != nil {
					return fmt.Errorf("failed to import key: %w", err)
				}
			case len(args) == 1:
				if err := sess.Save(args[0]); err != nil {
					return fmt.Errorf("failed to save key: %w", err)
				}
			default:
				token, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "API key: ")
				if err != nil {
					return err
				}
				if err := sess.Save(token); err != nil {
					return fmt.Errorf("failed to save key: %w", err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ API key saved to "+sess.Path()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read the key from a file")
	return cmd
}

// promptAndSaveKey is the CLI side of the key setup route
func promptAndSaveKey(cmd *cobra.Command, a *app) error {
	fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render("No API key stored. Enter your ChatULL API key to continue."))

	token, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "API key: ")
	if err != nil {
		return err
	}
	if err := a.session.Save(token); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("✓ API key saved"))
	return nil
}

// readSecret reads one line from in. On a terminal the input is not echoed.
func readSecret(in io.Reader, prompt io.Writer, label string) (string, error) {
	fmt.Fprint(prompt, label)

	if f, ok := in.(*os.File); ok && isTerminal(f) {
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return strings.TrimSpace(line), nil
}
