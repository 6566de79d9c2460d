package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dotkit-labs/dotkit/internal/branding"
	"github.com/dotkit-labs/dotkit/internal/config"
	"github.com/dotkit-labs/dotkit/internal/logger"
	"github.com/dotkit-labs/dotkit/internal/runner"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
)

// newRunner builds the runner commands use. Tests replace it.
var newRunner = func() runner.Runner { return runner.New() }

// aliases maps executable names installed by `dotkit bootstrap bin` to the
// subcommand they stand for.
var aliases = map[string]string{
	"git-push-all":     "push-all",
	"release-version":  "release",
	"setup-aactivator": "setup-aactivator",
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` sets up a developer machine and automates everyday git chores:
pushing a chain of stacked PR branches, cutting releases, and rendering dotfiles.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		level := logger.ParseLevel(config.Get(config.KeyLogLevel))
		if verbose {
			level = slog.LevelDebug
		}
		l := logger.New(cmd.ErrOrStderr(), level)
		cmd.SetContext(logger.Put(cmd.Context(), l))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output, including every command run")
}

// Execute runs the root command with build info injected via ldflags. When
// the binary is invoked under one of its alias names the matching subcommand
// runs.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rootCmd.SetArgs(resolveArgs(os.Args[0], os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// resolveArgs prepends the aliased subcommand when argv0 is an alias.
func resolveArgs(argv0 string, args []string) []string {
	name := strings.TrimSuffix(filepath.Base(argv0), ".exe")
	if sub, ok := aliases[name]; ok {
		return append([]string{sub}, args...)
	}
	return args
}
