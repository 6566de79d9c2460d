package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dotkit-labs/dotkit/internal/bootstrap"
	"github.com/dotkit-labs/dotkit/internal/config"
	"github.com/dotkit-labs/dotkit/internal/runner"
	"github.com/spf13/cobra"
)

var checkManifest string

// doctorTools are the programs sessions and commands shell out to.
var doctorTools = []string{"git", "gh", "brew", "pipx", "npm", "code", "diff-so-fancy"}

// lookPath is replaced in tests.
var lookPath = runner.LookPath

func init() {
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a manifest file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check this machine's dotkit setup",
	Long:  `Report which external tools are installed, whether entry points are linked, and whether the package manifest is valid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if checkManifest != "" {
			return runManifestCheck(out, checkManifest)
		}

		runToolCheck(out)
		runEntryPointCheck(out)
		if err := runManifestCheck(out, config.Path(config.KeyBootstrapManifest)); err != nil {
			fmt.Fprintf(out, "[WARN] %v\n", err)
		}
		return nil
	},
}

func runToolCheck(w io.Writer) {
	fmt.Fprintln(w, "Tools:")
	for _, name := range doctorTools {
		path, ok := lookPath(name)
		if !ok {
			fmt.Fprintf(w, "  [MISS] %s not found\n", name)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
	}
}

func runEntryPointCheck(w io.Writer) {
	dir := config.Path(config.KeyBinDir)
	fmt.Fprintf(w, "Entry points in %s:\n", dir)
	for _, name := range bootstrap.EntryPoints {
		link := filepath.Join(dir, name)
		info, err := os.Lstat(link)
		if err != nil {
			fmt.Fprintf(w, "  [MISS] %s (run `dotkit bootstrap bin`)\n", name)
			continue
		}
		if info.Mode()&os.ModeSymlink == 0 {
			fmt.Fprintf(w, "  [WARN] %s is not a symlink\n", name)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s\n", name)
	}
}

// runManifestCheck validates path, or the manifest bootstrap would pick when
// path is empty.
func runManifestCheck(w io.Writer, path string) error {
	label := path
	if label == "" {
		label = "(resolved from dotfiles.dir)"
	}
	fmt.Fprintf(w, "Manifest validation: %s\n", label)

	_, err := bootstrap.ResolveManifest(path, config.Path(config.KeyDotfilesDir))
	var invalid *bootstrap.InvalidManifestError
	switch {
	case errors.As(err, &invalid):
		fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(invalid.Issues))
		for _, issue := range invalid.Issues {
			if issue.Path != "" {
				fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
			} else {
				fmt.Fprintf(w, "    - %s\n", issue.Message)
			}
		}
		return fmt.Errorf("manifest validation failed")
	case err != nil:
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}
	fmt.Fprintln(w, "  [ OK ] Valid manifest")
	return nil
}
