package configfiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/dotkit-labs/dotkit/internal/git"
	"github.com/dotkit-labs/dotkit/internal/logger"
	"github.com/dotkit-labs/dotkit/internal/platform"
	"go.yaml.in/yaml/v3"
)

// Default file names inside the dotfiles directory.
const (
	TemplatesFile = "templates.yaml"
	ContextFile   = "context.yaml"
)

const defaultMode os.FileMode = 0o644

// Options locates the templates and selects which to process.
type Options struct {
	TemplatesFile string
	ContextFile   string
	// Filters keep entries whose dest contains any of them; empty keeps all.
	Filters []string
	// DryRun reports what Write would do without touching files.
	DryRun bool
	Out    io.Writer
}

// Entry is one managed file.
type Entry struct {
	Src  string `yaml:"src"`
	Dest string `yaml:"dest"`
	Mode string `yaml:"mode,omitempty"`
}

// FileMode parses Mode as octal, defaulting to 0644.
func (e Entry) FileMode() (os.FileMode, error) {
	if e.Mode == "" {
		return defaultMode, nil
	}
	m, err := strconv.ParseUint(e.Mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q for %s: %w", e.Mode, e.Dest, err)
	}
	return os.FileMode(m), nil
}

// Rendered is an entry with its paths resolved and template executed.
type Rendered struct {
	Entry
	SrcPath  string
	DestPath string
	Mode     os.FileMode
	Content  []byte
}

// Status describes what Write did to a file.
type Status string

const (
	StatusWritten   Status = "wrote"
	StatusUnchanged Status = "unchanged"
	StatusPending   Status = "would write"
	StatusModeFixed Status = "chmod"
)

// Result pairs a destination with the action taken.
type Result struct {
	Dest   string
	Status Status
}

// LoadEntries reads templates.yaml.
func LoadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for i, e := range entries {
		if e.Src == "" || e.Dest == "" {
			return nil, fmt.Errorf("%s: entry %d needs both src and dest", path, i)
		}
	}
	return entries, nil
}

// LoadContext reads context.yaml. A missing file yields an empty context.
func LoadContext(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	vars := map[string]any{}
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return vars, nil
}

// Render loads and executes every selected template.
func Render(opts Options) ([]Rendered, error) {
	entries, err := LoadEntries(opts.TemplatesFile)
	if err != nil {
		return nil, err
	}
	vars, err := LoadContext(opts.ContextFile)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(opts.TemplatesFile)
	var out []Rendered
	for _, e := range entries {
		dest, err := ExpandHome(e.Dest)
		if err != nil {
			return nil, err
		}
		if !matches(dest, opts.Filters) {
			continue
		}
		mode, err := e.FileMode()
		if err != nil {
			return nil, err
		}

		src := e.Src
		if !filepath.IsAbs(src) {
			src = filepath.Join(baseDir, src)
		}
		content, err := renderFile(src, vars)
		if err != nil {
			return nil, err
		}
		out = append(out, Rendered{Entry: e, SrcPath: src, DestPath: dest, Mode: mode, Content: content})
	}
	return out, nil
}

// Write renders the templates and writes those whose content changed.
func Write(ctx context.Context, opts Options) ([]Result, error) {
	rendered, err := Render(opts)
	if err != nil {
		return nil, err
	}
	log := logger.Get(ctx)

	var results []Result
	for _, r := range rendered {
		current, err := os.ReadFile(r.DestPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return results, fmt.Errorf("reading %s: %w", r.DestPath, err)
		}

		same := err == nil && bytes.Equal(current, r.Content)
		chmodOnly := false
		if same {
			info, err := os.Stat(r.DestPath)
			if err != nil {
				return results, fmt.Errorf("reading %s: %w", r.DestPath, err)
			}
			chmodOnly = platform.ModeDiffers(info, r.Mode)
		}

		status := StatusWritten
		switch {
		case same && !chmodOnly:
			status = StatusUnchanged
		case opts.DryRun:
			status = StatusPending
		case chmodOnly:
			status = StatusModeFixed
			if err := platform.Chmod(r.DestPath, r.Mode); err != nil {
				return results, fmt.Errorf("setting mode on %s: %w", r.DestPath, err)
			}
		default:
			if err := os.MkdirAll(filepath.Dir(r.DestPath), 0o755); err != nil {
				return results, fmt.Errorf("creating directory for %s: %w", r.DestPath, err)
			}
			if err := platform.WriteFile(r.DestPath, r.Content, r.Mode); err != nil {
				return results, err
			}
		}

		log.Debug("config file", slog.String("dest", r.DestPath), slog.String("status", string(status)))
		if opts.Out != nil {
			fmt.Fprintf(opts.Out, "%s %s\n", status, r.DestPath)
		}
		results = append(results, Result{Dest: r.DestPath, Status: status})
	}
	return results, nil
}

// Diff renders the templates and shows a diff for every file that would
// change. It returns the destinations that differ.
func Diff(ctx context.Context, g *git.Client, opts Options, pager string) ([]string, error) {
	rendered, err := Render(opts)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "dotkit-diff-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var changed []string
	for i, r := range rendered {
		tmp := filepath.Join(tmpDir, fmt.Sprintf("%d-%s", i, filepath.Base(r.DestPath)))
		if err := os.WriteFile(tmp, r.Content, 0o600); err != nil {
			return changed, fmt.Errorf("writing %s: %w", tmp, err)
		}

		current := r.DestPath
		if _, err := os.Stat(current); errors.Is(err, os.ErrNotExist) {
			current = os.DevNull
		}

		differs, err := g.DiffNoIndex(ctx, current, tmp, pager)
		if err != nil {
			return changed, err
		}
		if differs {
			changed = append(changed, r.DestPath)
		}
	}
	return changed, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func matches(dest string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if strings.Contains(dest, f) {
			return true
		}
	}
	return false
}

func renderFile(path string, vars map[string]any) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	tmpl, err := template.New(filepath.Base(path)).
		Option("missingkey=error").
		Funcs(funcs).
		Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("rendering template %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

var funcs = template.FuncMap{
	"env": os.Getenv,
	"home": func() (string, error) {
		return os.UserHomeDir()
	},
	// default returns fallback when value is the zero value.
	"default": func(fallback, value any) any {
		if value == nil || value == "" {
			return fallback
		}
		return value
	},
}
