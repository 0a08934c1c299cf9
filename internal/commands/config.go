package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/chatull/internal/config"
	"github.com/diogo/chatull/internal/render"
	"github.com/diogo/chatull/internal/session"
	"github.com/diogo/chatull/internal/subject"
)

// NewConfigCmd creates the configuration commands
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Long: `Show the effective configuration (file, CHATULL_* environment and flags),
the files chatull uses, or change stored settings.`,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, string(data))

			fmt.Fprintln(out, "\nSubjects:")
			for i, s := range cfg.Subjects {
				fmt.Fprintf(out, "  %d. %s\n", i+1, s)
			}

			sess, err := session.Default()
			if err != nil {
				return err
			}
			if _, ok := sess.Token(); ok {
				fmt.Fprintln(out, "\nAPI key: set")
			} else {
				fmt.Fprintln(out, "\nAPI key: not set (run 'chatull set-api-key')")
			}
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the files chatull uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := []struct {
				name string
				fn   func() (string, error)
			}{
				{"config", config.GetConfigPath},
				{"session", config.GetSessionPath},
				{"storage", config.GetStorageDir},
				{"database", config.GetDatabasePath},
				{"log", config.GetLogPath},
			}
			for _, p := range paths {
				path, err := p.fn()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s\n", p.name, path)
			}
			return nil
		},
	}

	addSubjectCmd := &cobra.Command{
		Use:   "add-subject <name>",
		Short: "Add a subject to the menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("subject name cannot be empty")
			}
			return updateConfig(func(cfg *config.Config) error {
				menu := subject.New(cfg.Subjects)
				if menu.Has(name) {
					return fmt.Errorf("subject %q already exists", name)
				}
				menu.Add(name)
				cfg.Subjects = menu.Subjects()
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Added "+name))
				return nil
			})
		},
	}

	setThemeCmd := &cobra.Command{
		Use:       "theme <name>",
		Short:     "Set the chat color theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: render.TUIThemeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := render.GetTUIThemeByName(args[0]); !ok {
				return fmt.Errorf("unknown theme %q (available: %s)", args[0], strings.Join(render.TUIThemeNames(), ", "))
			}
			return updateConfig(func(cfg *config.Config) error {
				cfg.Theme = args[0]
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Theme set to "+args[0]))
				return nil
			})
		},
	}

	configCmd.AddCommand(showCmd, pathCmd, addSubjectCmd, setThemeCmd)
	return configCmd
}

// updateConfig edits the stored config file. Environment overrides are not
// written back.
func updateConfig(fn func(cfg *config.Config) error) error {
	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	if err := fn(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return config.SaveConfig(cfg)
}
