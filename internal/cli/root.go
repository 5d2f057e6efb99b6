package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/friendbook/internal/config"
	"github.com/roach88/friendbook/internal/graph"
)

// RootOptions holds global flags for all commands, plus the configuration
// resolved from them before any command runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	DB         string
	ConfigPath string

	Config config.Config

	// Test hooks; zero values select the real environment, clock and
	// UUIDv7 operation ids.
	Getenv func(string) string
	Now    func() time.Time
	OpIDs  graph.OpIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the friendbook CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(&RootOptions{})
}

// NewRootCommandWith builds the command tree around opts so tests can set
// the hooks.
func NewRootCommandWith(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friendbook",
		Short: "friendbook - a local friendship graph",
		Long: `A local social graph: sign up, log in, and send, accept, reject,
cancel and unfriend friend requests. Every command is one event that runs to
completion against a single SQLite key-value file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitFailure, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			getenv := opts.Getenv
			if getenv == nil {
				getenv = os.Getenv
			}
			cfg, err := config.LoadFrom(opts.ConfigPath, getenv)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			if cmd.Flags().Changed("db") {
				cfg.DB = opts.DB
			}
			opts.Config = cfg

			config.SetDefaultLogger(cfg, cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", config.DefaultDB, "path to the SQLite database (env "+config.EnvDB+")")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")

	cmd.AddCommand(NewSignupCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewFriendsCommand(opts))
	cmd.AddCommand(NewRequestsCommand(opts))
	cmd.AddCommand(NewSuggestionsCommand(opts))
	for _, op := range graph.Ops {
		cmd.AddCommand(NewGraphCommand(opts, op))
	}
	cmd.AddCommand(NewDeleteUserCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
