package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/chatull/internal/history"
	"github.com/diogo/chatull/internal/subject"
)

// NewHistoryCmd creates the transcript commands
func NewHistoryCmd(deps *Dependencies) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved transcripts",
		Long:  `List, print, export and search the transcripts stored on this machine.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List subjects with a saved transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *history.Store) error {
				return runHistoryList(cmd, store)
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [subject]",
		Short: "Print a transcript",
		Long: `Print a saved transcript. The subject can be its name, a unique part of
it or its number in 'history list'. Without a subject a picker opens.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *history.Store) error {
				ref := ""
				if len(args) == 1 {
					ref = args[0]
				}
				return runHistoryShow(cmd, deps, store, ref)
			})
		},
	}

	var exportFormat, exportOutput string
	exportCmd := &cobra.Command{
		Use:   "export <subject>",
		Short: "Export a transcript as markdown or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *history.Store) error {
				return runHistoryExport(cmd, store, args[0], exportFormat, exportOutput)
			})
		},
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "Export format: markdown or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")

	var searchContent bool
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search transcripts",
		Long:  `Search subject names, and message text with --content.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *history.Store) error {
				return runHistorySearch(cmd, store, args[0], searchContent)
			})
		},
	}
	searchCmd.Flags().BoolVarP(&searchContent, "content", "c", false, "Also search message text")

	historyCmd.AddCommand(listCmd, showCmd, exportCmd, searchCmd)
	return historyCmd
}

func withStore(fn func(store *history.Store) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a.store)
}

// resolveStored resolves ref against the subjects that have a transcript
func resolveStored(store *history.Store, ref string) (string, error) {
	subjects, err := store.Subjects()
	if err != nil {
		return "", fmt.Errorf("failed to read history: %w", err)
	}
	return subject.Resolve(subjects, ref)
}

func runHistoryList(cmd *cobra.Command, store *history.Store) error {
	subjects, err := store.Subjects()
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(subjects) == 0 {
		fmt.Fprintln(out, "No transcripts found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tSUBJECT\tMESSAGES\tQUESTIONS")
	_, _ = fmt.Fprintln(w, "-\t-------\t--------\t---------")

	for i, s := range subjects {
		messages, _, err := store.Load(s)
		if err != nil {
			return err
		}
		questions := 0
		for _, m := range messages {
			if m.IsQuestion {
				questions++
			}
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", i+1, truncate(s, 40), len(messages), questions)
	}

	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, deps *Dependencies, store *history.Store, ref string) error {
	var name string
	if ref == "" {
		selected, confirmed, err := deps.TUI.RunHistorySelector(store)
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
		name = selected
	} else {
		var err error
		name, err = resolveStored(store, ref)
		if err != nil {
			return err
		}
	}

	messages, _, err := store.Load(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subject: %s\n", name)
	fmt.Fprintf(out, "Messages: %d\n\n", len(messages))

	for i, msg := range messages {
		role := "ChatULL"
		if msg.IsQuestion {
			role = "You"
		}
		fmt.Fprintf(out, "[%d] %s:\n", i+1, role)
		fmt.Fprintf(out, "  %s\n\n", truncate(msg.Text, 500))
	}

	return nil
}

func runHistoryExport(cmd *cobra.Command, store *history.Store, ref, formatName, output string) error {
	format, err := history.ParseExportFormat(formatName)
	if err != nil {
		return err
	}

	name, err := resolveStored(store, ref)
	if err != nil {
		return err
	}

	data, err := store.Export(name, format)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render(fmt.Sprintf("✓ Exported %s to %s", name, output)))
	return nil
}

func runHistorySearch(cmd *cobra.Command, store *history.Store, query string, content bool) error {
	results, err := store.Search(query, content)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "No transcripts matching %q.\n", query)
		return nil
	}

	for _, r := range results {
		if r.MatchField == "content" {
			fmt.Fprintf(out, "%s  [message %d]\n  %s\n", r.Subject, r.MatchIndex+1, dimStyle.Render(r.MatchSnippet))
			continue
		}
		fmt.Fprintln(out, r.Subject)
	}
	return nil
}
