package release

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Files edited by a release, relative to the working directory.
const (
	PyprojectFile = "pyproject.toml"
	ChangelogFile = "CHANGELOG.md"
)

// UpdatePyproject rewrites every line starting with `version = ` to the new
// version.
func UpdatePyproject(path, version string) error {
	return rewriteLines(path, func(line string, out *bytes.Buffer) {
		if strings.HasPrefix(line, "version = ") {
			fmt.Fprintf(out, "version = \"%s\"\n", version)
			return
		}
		out.WriteString(line)
	})
}

type pyproject struct {
	Project struct {
		Version string `toml:"version"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Version string `toml:"version"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// CurrentVersion reads project.version (or tool.poetry.version) from the
// pyproject.toml at path. It returns "" when neither is set.
func CurrentVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	var p pyproject
	if err := toml.Unmarshal(data, &p); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	if p.Project.Version != "" {
		return p.Project.Version, nil
	}
	return p.Tool.Poetry.Version, nil
}

// UpdateChangelog inserts a dated release heading after the Unreleased
// heading.
func UpdateChangelog(path, version string, date time.Time) error {
	return rewriteLines(path, func(line string, out *bytes.Buffer) {
		out.WriteString(line)
		if line == "## Unreleased\n" || line == "## [Unreleased]\n" {
			fmt.Fprintf(out, "\n## [%s] - %s\n", version, date.Format(time.DateOnly))
		}
	})
}

// rewriteLines streams path through fn line by line (newlines included) and
// replaces the file, keeping its permissions.
func rewriteLines(path string, fn func(line string, out *bytes.Buffer)) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var out bytes.Buffer
	r := bufio.NewReader(bytes.NewReader(data))
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			fn(line, &out)
		}
		if err != nil {
			break
		}
	}

	if err := os.WriteFile(path, out.Bytes(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
