package bootstrap

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ManifestFile is the manifest name looked up in the dotfiles directory.
const ManifestFile = "bootstrap.yaml"

//go:embed default.yaml
var defaultManifest []byte

// Manifest lists the packages each bootstrap session installs.
type Manifest struct {
	Brew   BrewPackages `yaml:"brew" json:"brew"`
	Pipx   PackageSet   `yaml:"pipx" json:"pipx"`
	Npm    PackageSet   `yaml:"npm" json:"npm"`
	VSCode VSCode       `yaml:"vscode" json:"vscode"`
	MacOS  MacOS        `yaml:"macos" json:"macos"`

	// BaseDir resolves relative paths (the macOS defaults script). It is the
	// manifest's directory, or the dotfiles directory for the built-in one.
	BaseDir string `yaml:"-" json:"-"`
}

// PackageSet is a plain list of package names.
type PackageSet struct {
	Packages []string `yaml:"packages" json:"packages"`
}

// BrewPackages splits formulae installed everywhere from macOS-only ones.
type BrewPackages struct {
	Packages      []string `yaml:"packages" json:"packages"`
	MacOSPackages []string `yaml:"macos_packages" json:"macos_packages"`
}

// VSCode lists editor extensions by marketplace ID.
type VSCode struct {
	Extensions []string `yaml:"extensions" json:"extensions"`
}

// MacOS configures the macOS defaults session.
type MacOS struct {
	DefaultsScript string `yaml:"defaults_script" json:"defaults_script"`
}

// DefaultsScriptPath returns the defaults script resolved against BaseDir.
func (m *Manifest) DefaultsScriptPath() string {
	if m.MacOS.DefaultsScript == "" || filepath.IsAbs(m.MacOS.DefaultsScript) {
		return m.MacOS.DefaultsScript
	}
	return filepath.Join(m.BaseDir, m.MacOS.DefaultsScript)
}

// DefaultManifest returns the built-in manifest with BaseDir set to dir.
func DefaultManifest(dir string) (*Manifest, error) {
	m, err := ParseManifest(defaultManifest, "built-in manifest")
	if err != nil {
		return nil, err
	}
	m.BaseDir = dir
	return m, nil
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	m, err := ParseManifest(data, path)
	if err != nil {
		return nil, err
	}
	m.BaseDir = filepath.Dir(path)
	return m, nil
}

// ResolveManifest loads path when set, else <dotfilesDir>/bootstrap.yaml when
// it exists, else the built-in manifest.
func ResolveManifest(path, dotfilesDir string) (*Manifest, error) {
	if path != "" {
		return LoadManifest(path)
	}
	candidate := filepath.Join(dotfilesDir, ManifestFile)
	if _, err := os.Stat(candidate); err == nil {
		return LoadManifest(candidate)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", candidate, err)
	}
	return DefaultManifest(dotfilesDir)
}

// ParseManifest validates data against the manifest schema and decodes it.
// name labels errors.
func ParseManifest(data []byte, name string) (*Manifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", name, err)
	}
	if !result.Valid {
		return nil, &InvalidManifestError{Name: name, Issues: result.Issues}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", name, err)
	}
	return &m, nil
}

// InvalidManifestError reports schema violations.
type InvalidManifestError struct {
	Name   string
	Issues []ValidationIssue
}

func (e *InvalidManifestError) Error() string {
	msg := fmt.Sprintf("manifest %s has %d validation issue(s)", e.Name, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path != "" {
			msg += fmt.Sprintf("\n  - %s: %s", issue.Path, issue.Message)
		} else {
			msg += fmt.Sprintf("\n  - %s", issue.Message)
		}
	}
	return msg
}
