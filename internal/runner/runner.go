package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dotkit-labs/dotkit/internal/logger"
)

// ErrCommandFailed is wrapped by every *CommandError.
var ErrCommandFailed = errors.New("command failed")

// Runner runs external programs.
type Runner interface {
	// Run executes name with args, streaming output to the runner's writers.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes name with args and returns its captured stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// CommandError describes a program that could not be started or exited non-zero.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Name, strings.Join(e.Args, " "))
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("%s: exit status %d", msg, e.ExitCode)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg = fmt.Sprintf("%s: %s", msg, s)
	}
	return msg
}

// Unwrap lets errors.Is match both ErrCommandFailed and the underlying cause.
func (e *CommandError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCommandFailed}
	}
	return []error{ErrCommandFailed, e.Err}
}

// ExitCode returns the exit status carried by err, 0 for nil and -1 when err
// is not a *CommandError or the program never started.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.ExitCode
	}
	return -1
}

// Exec is the os/exec backed Runner.
type Exec struct {
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env entries ("KEY=value") are layered over the process environment.
	Env []string
	// Stdin is fed to the program when set.
	Stdin io.Reader
	// Stdout and Stderr default to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Exec wired to the process stdio.
func New() *Exec {
	return &Exec{}
}

// WithEnv returns a copy of e with extra environment entries.
func (e *Exec) WithEnv(env ...string) Runner {
	c := *e
	c.Env = append(append([]string(nil), e.Env...), env...)
	return &c
}

// WithEnv returns r with extra environment entries when r supports it, and r
// unchanged otherwise.
func WithEnv(r Runner, env ...string) Runner {
	if e, ok := r.(interface{ WithEnv(...string) Runner }); ok {
		return e.WithEnv(env...)
	}
	return r
}

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	cmd := e.command(ctx, name, args)

	var stderrBuf bytes.Buffer
	cmd.Stdout = e.stdout()
	cmd.Stderr = io.MultiWriter(e.stderr(), &stderrBuf)

	if err := cmd.Run(); err != nil {
		return newCommandError(name, args, err, stderrBuf.String())
	}
	return nil
}

// Output implements Runner.
func (e *Exec) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := e.command(ctx, name, args)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		return stdoutBuf.String(), newCommandError(name, args, err, stderrBuf.String())
	}
	return stdoutBuf.String(), nil
}

func (e *Exec) command(ctx context.Context, name string, args []string) *exec.Cmd {
	logger.Get(ctx).Debug("exec", "cmd", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	cmd.Stdin = e.Stdin
	if len(e.Env) > 0 {
		env := os.Environ()
		for _, kv := range e.Env {
			key, value, _ := strings.Cut(kv, "=")
			env = SetEnv(env, key, value)
		}
		cmd.Env = env
	}
	return cmd
}

func (e *Exec) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}

func (e *Exec) stderr() io.Writer {
	if e.Stderr == nil {
		return os.Stderr
	}
	return e.Stderr
}

func newCommandError(name string, args []string, err error, stderr string) *CommandError {
	ce := &CommandError{
		Name:     name,
		Args:     args,
		ExitCode: -1,
		Stderr:   stderr,
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ce.ExitCode = exitErr.ExitCode()
		ce.Err = nil
	}
	return ce
}

// SetEnv sets or replaces an environment variable in the env slice.
func SetEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// LookPath reports where name is installed, if anywhere on PATH.
func LookPath(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}
