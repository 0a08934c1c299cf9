// Package commands provides the chatull command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verboseFlag bool
	storageFlag string
	baseURLFlag string
	subjectFlag string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:   "chatull [question]",
		Short: "Terminal client for the ChatULL assistant",
		Long: `chatull talks to the ChatULL question answering service. Every subject
keeps its own transcript on this machine.

Examples:
  chatull                                   Start the interactive chat
  chatull chat -s "Sistemas Operativos"     Start the chat on a subject
  chatull -s 1 "¿Qué es un semáforo?"       Ask a single question
  echo "¿Qué es un grafo?" | chatull -s Algoritmos
  chatull set-api-key                       Store your API key
  chatull history show Redes                Print a saved transcript`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "chatull %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if len(args) > 0 {
				return runAsk(cmd, deps, subjectFlag, args[0])
			}

			if in, ok := cmd.InOrStdin().(*os.File); ok && !isTerminal(in) {
				data, err := io.ReadAll(in)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				if strings.TrimSpace(string(data)) != "" {
					// Only the line terminator added by the pipe is dropped
					question := strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r")
					return runAsk(cmd, deps, subjectFlag, question)
				}
			}

			return runChat(cmd, deps, subjectFlag)
		},
	}

	root.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "V", false, "Write debug logs to the log file")
	root.PersistentFlags().StringVar(&storageFlag, "storage", "", "Transcript storage: file, sqlite or memory")
	root.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Answer service URL")
	root.PersistentFlags().StringVarP(&subjectFlag, "subject", "s", "", "Subject name, unique part of it, or menu number")
	root.Flags().BoolP("version", "v", false, "Show version and exit")
	root.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the answer to a file")

	root.AddCommand(NewChatCmd(deps))
	root.AddCommand(NewAskCmd(deps))
	root.AddCommand(NewSetAPIKeyCmd(deps))
	root.AddCommand(NewHistoryCmd(deps))
	root.AddCommand(NewConfigCmd(deps))

	return root
}

var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}
