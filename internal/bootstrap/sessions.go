package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dotkit-labs/dotkit/internal/configfiles"
	"github.com/dotkit-labs/dotkit/internal/platform"
	"github.com/dotkit-labs/dotkit/internal/runner"
)

// Session names.
const (
	SessionBootstrap   = "bootstrap"
	SessionConfigFiles = "config-files"
	SessionDiff        = "diff"
	SessionBin         = "bin"
	SessionBrew        = "brew"
	SessionPipx        = "pipx"
	SessionNpm         = "npm"
	SessionVSCode      = "vs-code"
	SessionMacOS       = "macos"
)

// EntryPoints are the names the bin session links to the dotkit binary. dotkit
// dispatches on argv[0], so each behaves like the matching subcommand.
var EntryPoints = []string{"git-push-all", "release-version", "setup-aactivator"}

// brewEnv keeps brew from upgrading dependents of every installed formula.
const brewEnv = "HOMEBREW_NO_INSTALLED_DEPENDENTS_CHECK=1"

// DefaultRegistry returns the registry of built-in sessions.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Session{
		Name:        SessionBootstrap,
		Description: "Bootstrap a new machine: write config files and install all packages",
		Run:         runBootstrap,
	})
	r.Register(&Session{Name: SessionConfigFiles, Description: "Write config files", Run: runConfigFiles})
	r.Register(&Session{Name: SessionDiff, Description: "Diff config files against what would be written", Run: runDiff})
	r.Register(&Session{Name: SessionBin, Description: "Install dotkit entry points into the personal bin directory", Run: runBin})
	r.Register(&Session{Name: SessionBrew, Description: "Install packages with Brew", Run: runBrew})
	r.Register(&Session{Name: SessionPipx, Description: "Install packages with pipx", Run: runPipx})
	r.Register(&Session{Name: SessionNpm, Description: "Install packages with npm", Run: runNpm})
	r.Register(&Session{Name: SessionVSCode, Description: "Install VS Code extensions", Run: runVSCode})
	r.Register(&Session{Name: SessionMacOS, Description: "Set up macOS with preferred defaults", Run: runMacOS})
	r.SetDefaults(SessionConfigFiles, SessionBin)
	return r
}

func runBootstrap(_ context.Context, env *Env) error {
	for _, name := range []string{
		SessionConfigFiles, SessionBin, SessionBrew, SessionPipx,
		SessionNpm, SessionVSCode, SessionMacOS,
	} {
		if err := env.Notify(name); err != nil {
			return err
		}
	}
	return nil
}

func runConfigFiles(ctx context.Context, env *Env) error {
	opts := env.ConfigFiles
	opts.DryRun = opts.DryRun || env.DryRun
	if opts.Out == nil {
		opts.Out = env.Out
	}
	_, err := configfiles.Write(ctx, opts)
	return err
}

func runDiff(ctx context.Context, env *Env) error {
	pager := ""
	if _, ok := env.LookPath("diff-so-fancy"); ok {
		pager = "diff-so-fancy"
	}
	_, err := configfiles.Diff(ctx, env.Git(), env.ConfigFiles, pager)
	return err
}

func runBin(_ context.Context, env *Env) error {
	if env.Executable == "" {
		return fmt.Errorf("cannot locate the dotkit executable")
	}
	if !env.DryRun {
		if err := os.MkdirAll(env.BinDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", env.BinDir, err)
		}
	}

	for _, name := range EntryPoints {
		dest := filepath.Join(env.BinDir, name)
		if platform.IsSymlinkTo(dest, env.Executable) {
			fmt.Fprintf(env.Out, "%s already installed in %s\n", name, dest)
			continue
		}
		if env.DryRun {
			fmt.Fprintf(env.Out, "would install %s in %s\n", name, dest)
			continue
		}
		if err := platform.ReplaceSymlink(env.Executable, dest); err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
		fmt.Fprintf(env.Out, "installed %s in %s\n", name, dest)
	}
	return nil
}

func runBrew(ctx context.Context, env *Env) error {
	if err := env.Require("brew", "brew not installed"); err != nil {
		return err
	}
	if err := env.Runner.Run(ctx, "brew", "analytics", "off"); err != nil {
		return err
	}

	brew := runner.WithEnv(env.Runner, brewEnv)
	if pkgs := env.Manifest.Brew.Packages; len(pkgs) > 0 {
		if err := brew.Run(ctx, "brew", append([]string{"install"}, pkgs...)...); err != nil {
			return err
		}
	}
	if pkgs := env.Manifest.Brew.MacOSPackages; env.GOOS == "darwin" && len(pkgs) > 0 {
		if err := brew.Run(ctx, "brew", append([]string{"install"}, pkgs...)...); err != nil {
			return err
		}
	}
	return nil
}

func runPipx(ctx context.Context, env *Env) error {
	if err := env.Require("pipx", "pipx not installed"); err != nil {
		return err
	}
	for _, pkg := range env.Manifest.Pipx.Packages {
		if err := env.Runner.Run(ctx, "pipx", "install", pkg); err != nil {
			return err
		}
	}
	return nil
}

func runNpm(ctx context.Context, env *Env) error {
	if err := env.Require("npm", "npm not installed"); err != nil {
		return err
	}
	for _, pkg := range env.Manifest.Npm.Packages {
		if err := env.Runner.Run(ctx, "npm", "install", "--global", pkg); err != nil {
			return err
		}
	}
	return nil
}

func runVSCode(ctx context.Context, env *Env) error {
	if err := env.Require("code", "VS Code CLI not installed"); err != nil {
		return err
	}
	for _, ext := range env.Manifest.VSCode.Extensions {
		if err := env.Runner.Run(ctx, "code", "--install-extension", ext); err != nil {
			return err
		}
	}
	return nil
}

func runMacOS(ctx context.Context, env *Env) error {
	if env.GOOS != "darwin" {
		return Skip("not macOS")
	}
	script := env.Manifest.DefaultsScriptPath()
	if script == "" {
		return Skip("no defaults script configured")
	}
	return env.Runner.Run(ctx, script)
}
