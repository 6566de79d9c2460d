// Package aactivator wires a project directory up for aactivator, which
// sources .activate.sh on cd and .deactivate.sh on leaving.
package aactivator

import (
	"fmt"
	"path/filepath"

	"github.com/dotkit-labs/dotkit/internal/platform"
)

// File names aactivator looks for, and the mode it insists on.
const (
	ActivateFile   = ".activate.sh"
	DeactivateFile = ".deactivate.sh"
	FileMode       = 0o600
)

// DefaultVenv is the virtualenv path used when none is given.
const DefaultVenv = "venv"

// Setup creates dir/.activate.sh as a symlink to <venv>/bin/activate and
// writes dir/.deactivate.sh. venv is stored as given, so a relative venv
// resolves against dir.
func Setup(dir, venv string) error {
	if venv == "" {
		venv = DefaultVenv
	}

	activate := filepath.Join(dir, ActivateFile)
	if err := platform.CreateSymlink(filepath.Join(venv, "bin", "activate"), activate); err != nil {
		return fmt.Errorf("linking %s: %w", ActivateFile, err)
	}
	if err := platform.Chmod(activate, FileMode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", ActivateFile, err)
	}

	return platform.WriteFile(filepath.Join(dir, DeactivateFile), []byte("deactivate\n"), FileMode)
}
