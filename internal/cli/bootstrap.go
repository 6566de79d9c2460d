package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dotkit-labs/dotkit/internal/bootstrap"
	"github.com/dotkit-labs/dotkit/internal/config"
	"github.com/dotkit-labs/dotkit/internal/configfiles"
	"github.com/dotkit-labs/dotkit/internal/runner"
	"github.com/spf13/cobra"
)

var (
	bootstrapList     bool
	bootstrapAll      bool
	bootstrapDryRun   bool
	bootstrapManifest string
	bootstrapOnly     []string
)

func init() {
	bootstrapCmd.Flags().BoolVar(&bootstrapList, "list", false, "List sessions and exit")
	bootstrapCmd.Flags().BoolVar(&bootstrapAll, "all", false, "Run the full bootstrap session")
	bootstrapCmd.Flags().BoolVar(&bootstrapDryRun, "dry-run", false, "Print commands and file changes without running them")
	bootstrapCmd.Flags().StringVar(&bootstrapManifest, "manifest", "", "Package manifest (default from bootstrap.manifest)")
	bootstrapCmd.Flags().StringSliceVar(&bootstrapOnly, "only", nil, "Limit config files to destinations containing these strings")
	rootCmd.AddCommand(bootstrapCmd)
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap [session...]",
	Short: "Set up this machine",
	Long: `Run bootstrap sessions: render config files, install entry points, and
install brew, pipx, npm, and VS Code packages from the manifest.

Without arguments the default sessions run (config-files, bin). --all runs
every session. Use --list to see them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := bootstrap.DefaultRegistry()
		out := cmd.OutOrStdout()

		if bootstrapList {
			printSessions(out, reg)
			return nil
		}

		env, err := newBootstrapEnv(cmd)
		if err != nil {
			return err
		}

		names := args
		if bootstrapAll {
			names = append([]string{bootstrap.SessionBootstrap}, names...)
		}
		results, err := reg.Run(cmd.Context(), env, names...)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, bootstrap.Summary(results))
		return nil
	},
}

func newBootstrapEnv(cmd *cobra.Command) (*bootstrap.Env, error) {
	dotfiles := config.Path(config.KeyDotfilesDir)

	manifestPath := bootstrapManifest
	if manifestPath == "" {
		manifestPath = config.Path(config.KeyBootstrapManifest)
	}
	m, err := bootstrap.ResolveManifest(manifestPath, dotfiles)
	if err != nil {
		return nil, err
	}

	var r runner.Runner
	if bootstrapDryRun {
		r = &runner.Recorder{Out: cmd.OutOrStdout()}
	} else {
		r = newRunner()
	}

	// A missing executable only matters to the bin session, which reports it.
	exe, _ := os.Executable()
	if exe != "" {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
	}

	return &bootstrap.Env{
		Runner:   r,
		Manifest: m,
		Out:      cmd.OutOrStdout(),
		GOOS:     runtime.GOOS,
		ConfigFiles: configfiles.Options{
			TemplatesFile: pathOr(config.KeyTemplatesFile, filepath.Join(dotfiles, configfiles.TemplatesFile)),
			ContextFile:   pathOr(config.KeyContextFile, filepath.Join(dotfiles, configfiles.ContextFile)),
			Filters:       bootstrapOnly,
			DryRun:        bootstrapDryRun,
			Out:           cmd.OutOrStdout(),
		},
		BinDir:     config.Path(config.KeyBinDir),
		Executable: exe,
		DryRun:     bootstrapDryRun,
	}, nil
}

func printSessions(w io.Writer, reg *bootstrap.Registry) {
	defaults := reg.Defaults()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range reg.List() {
		marker := " "
		if slices.Contains(defaults, s.Name) {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\n", marker, s.Name, s.Description)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nDefault sessions: %s\n", strings.Join(defaults, ", "))
}

// pathOr returns the configured path for key, or fallback when unset.
func pathOr(key, fallback string) string {
	if p := config.Path(key); p != "" {
		return p
	}
	return fallback
}
