package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"

	"github.com/dotkit-labs/dotkit/internal/configfiles"
	"github.com/dotkit-labs/dotkit/internal/git"
	"github.com/dotkit-labs/dotkit/internal/logger"
	"github.com/dotkit-labs/dotkit/internal/runner"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const summaryKey = "%d sessions succeeded, %d skipped"

func init() {
	_ = message.Set(language.English, summaryKey,
		plural.Selectf(1, "%d",
			"=1", "%[1]d session succeeded, %[2]d skipped",
			"other", "%[1]d sessions succeeded, %[2]d skipped",
		))
}

var (
	// ErrUnknownSession is returned for session names that are not registered.
	ErrUnknownSession = errors.New("unknown session")
	// ErrToolMissing is returned when a session's package manager is not installed.
	ErrToolMissing = errors.New("tool not installed")
)

// skipError marks a session that chose not to run.
type skipError struct{ reason string }

func (e *skipError) Error() string { return "skipped: " + e.reason }

// Skip ends a session early without failing the run.
func Skip(reason string) error {
	return &skipError{reason: reason}
}

// Session is one named unit of bootstrap work.
type Session struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env *Env) error
}

// Env is what sessions run against.
type Env struct {
	Runner   runner.Runner
	Manifest *Manifest
	Out      io.Writer
	// GOOS gates the macOS-only sessions.
	GOOS string
	// LookPath reports whether a program is installed.
	LookPath func(name string) (string, bool)
	// ConfigFiles locates templates for the config-files and diff sessions.
	ConfigFiles configfiles.Options
	// BinDir receives the entry-point links of the bin session.
	BinDir string
	// Executable is the dotkit binary the entry points link to.
	Executable string
	// DryRun makes filesystem sessions report instead of write. Commands are
	// left to the Runner, which is a runner.Recorder in dry runs.
	DryRun bool

	queue *[]string
	known func(string) bool
}

// Notify queues another session to run after the current one. A session
// already queued is not added twice.
func (e *Env) Notify(name string) error {
	if e.queue == nil {
		return fmt.Errorf("notify %q outside of a run", name)
	}
	if !e.known(name) {
		return fmt.Errorf("%w %q", ErrUnknownSession, name)
	}
	if !slices.Contains(*e.queue, name) {
		*e.queue = append(*e.queue, name)
	}
	return nil
}

// Git returns a git client over the environment's runner.
func (e *Env) Git() *git.Client {
	return git.New(e.Runner)
}

// Require fails with ErrToolMissing unless name is on PATH.
func (e *Env) Require(name, label string) error {
	if _, ok := e.LookPath(name); !ok {
		return fmt.Errorf("%w: %s", ErrToolMissing, label)
	}
	return nil
}

// Registry holds the known sessions.
type Registry struct {
	sessions map[string]*Session
	defaults []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register adds s, replacing a session with the same name.
func (r *Registry) Register(s *Session) {
	r.sessions[s.Name] = s
}

// SetDefaults names the sessions Run uses when called with none.
func (r *Registry) SetDefaults(names ...string) {
	r.defaults = names
}

// Defaults returns the default session names.
func (r *Registry) Defaults() []string {
	return slices.Clone(r.defaults)
}

// Lookup returns the session called name.
func (r *Registry) Lookup(name string) (*Session, bool) {
	s, ok := r.sessions[name]
	return s, ok
}

// List returns all sessions sorted by name.
func (r *Registry) List() []*Session {
	list := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Result is the outcome of one session.
type Result struct {
	Name    string
	Skipped string
}

// Run executes names in order, followed by any sessions they notify. Each
// session runs at most once. All names are checked before anything runs and
// the first failing session stops the run.
func (r *Registry) Run(ctx context.Context, env *Env, names ...string) ([]Result, error) {
	if len(names) == 0 {
		names = r.defaults
	}
	for _, name := range names {
		if _, ok := r.Lookup(name); !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownSession, name)
		}
	}

	queue := []string{}
	for _, name := range names {
		if !slices.Contains(queue, name) {
			queue = append(queue, name)
		}
	}

	runEnv := *env
	runEnv.queue = &queue
	runEnv.known = func(name string) bool { _, ok := r.Lookup(name); return ok }
	if runEnv.LookPath == nil {
		runEnv.LookPath = runner.LookPath
	}
	if runEnv.Out == nil {
		runEnv.Out = io.Discard
	}

	log := logger.Get(ctx)
	var results []Result
	for i := 0; i < len(queue); i++ {
		s := r.sessions[queue[i]]
		log.Info("running session", slog.String("session", s.Name))

		err := s.Run(ctx, &runEnv)
		var skip *skipError
		switch {
		case errors.As(err, &skip):
			log.Warn("session skipped", slog.String("session", s.Name), slog.String("reason", skip.reason))
			results = append(results, Result{Name: s.Name, Skipped: skip.reason})
		case err != nil:
			return results, fmt.Errorf("session %s: %w", s.Name, err)
		default:
			results = append(results, Result{Name: s.Name})
		}
	}
	return results, nil
}

// Summary renders results as one line, e.g. "3 sessions succeeded, 1 skipped"
// or "1 session succeeded, 0 skipped".
func Summary(results []Result) string {
	skipped := 0
	for _, r := range results {
		if r.Skipped != "" {
			skipped++
		}
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf(summaryKey, len(results)-skipped, skipped)
}
