package runner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Call is one recorded invocation.
type Call struct {
	Env  []string
	Name string
	Args []string
}

// String renders the call as a shell-like command line, env first.
func (c Call) String() string {
	parts := append(append([]string(nil), c.Env...), c.Name)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}

// Recorder is a Runner that records calls instead of executing them. It backs
// --dry-run and the package tests.
type Recorder struct {
	// Out, when set, receives one "+ <command>" line per call.
	Out io.Writer
	// Outputs maps a command line (Call.String) to canned stdout.
	Outputs map[string]string
	// Errors maps a command line (Call.String) to the error it returns.
	Errors map[string]error

	mu    sync.Mutex
	calls []Call

	// Set on views returned by WithEnv.
	root *Recorder
	env  []string
}

// WithEnv returns a view of r that tags its calls with env. Calls are still
// recorded on r.
func (r *Recorder) WithEnv(env ...string) Runner {
	return &Recorder{
		root: r.base(),
		env:  append(append([]string(nil), r.env...), env...),
	}
}

// Run implements Runner.
func (r *Recorder) Run(_ context.Context, name string, args ...string) error {
	_, err := r.record(name, args)
	return err
}

// Output implements Runner.
func (r *Recorder) Output(_ context.Context, name string, args ...string) (string, error) {
	key, err := r.record(name, args)
	if err != nil {
		return "", err
	}
	return r.base().Outputs[key], nil
}

// Calls returns the recorded calls in order.
func (r *Recorder) Calls() []Call {
	b := r.base()
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CommandLines returns the recorded calls rendered with Call.String.
func (r *Recorder) CommandLines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

func (r *Recorder) base() *Recorder {
	if r.root != nil {
		return r.root
	}
	return r
}

func (r *Recorder) record(name string, args []string) (string, error) {
	b := r.base()
	c := Call{Env: r.env, Name: name, Args: append([]string(nil), args...)}
	key := c.String()

	b.mu.Lock()
	b.calls = append(b.calls, c)
	b.mu.Unlock()

	if b.Out != nil {
		fmt.Fprintf(b.Out, "+ %s\n", key)
	}
	return key, b.Errors[key]
}
