package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotkit-labs/dotkit/internal/branchchain"
	"github.com/dotkit-labs/dotkit/internal/runner"
)

const program = "git"

// ForceMode selects how Push overwrites remote refs.
type ForceMode int

const (
	// NoForce pushes fast-forward only.
	NoForce ForceMode = iota
	// ForceWithLease refuses to overwrite refs that moved since last fetch.
	ForceWithLease
	// Force overwrites unconditionally.
	Force
)

// Flag returns the git push flag for the mode, or "" for NoForce.
func (m ForceMode) Flag() string {
	switch m {
	case ForceWithLease:
		return "--force-with-lease"
	case Force:
		return "--force"
	default:
		return ""
	}
}

func (m ForceMode) String() string {
	if f := m.Flag(); f != "" {
		return strings.TrimPrefix(f, "--")
	}
	return "no-force"
}

// Client issues git commands through a Runner.
type Client struct {
	r runner.Runner
}

// New returns a Client backed by r.
func New(r runner.Runner) *Client {
	return &Client{r: r}
}

// Remotes returns the configured remote names.
func (c *Client) Remotes(ctx context.Context) ([]string, error) {
	out, err := c.r.Output(ctx, program, "remote")
	if err != nil {
		return nil, fmt.Errorf("listing remotes: %w", err)
	}
	return strings.Fields(out), nil
}

// DecorationLog returns one ref-decoration line per commit in baseRef..HEAD,
// newest first.
func (c *Client) DecorationLog(ctx context.Context, baseRef string) ([]string, error) {
	out, err := c.r.Output(ctx, program, "log", baseRef+"..", "--format=format:%D")
	if err != nil {
		return nil, fmt.Errorf("reading log %s..: %w", baseRef, err)
	}
	return branchchain.SplitLines(out), nil
}

// PushOptions configures Push.
type PushOptions struct {
	Force       ForceMode
	Atomic      bool
	SetUpstream bool
	Tags        bool
	Remote      string
	Refs        []string
}

// Push runs git push with the given options. Flags precede the remote so the
// argv reads the way it would be typed.
func (c *Client) Push(ctx context.Context, opts PushOptions) error {
	args := []string{"push"}
	if f := opts.Force.Flag(); f != "" {
		args = append(args, f)
	}
	if opts.Atomic {
		args = append(args, "--atomic")
	}
	if opts.SetUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, opts.Remote)
	args = append(args, opts.Refs...)
	if opts.Tags {
		args = append(args, "--tags")
	}

	if err := c.r.Run(ctx, program, args...); err != nil {
		return fmt.Errorf("pushing to %s: %w", opts.Remote, err)
	}
	return nil
}

// AddUpdated stages modifications to tracked files (git add -u).
func (c *Client) AddUpdated(ctx context.Context) error {
	return c.run(ctx, "staging changes", "add", "-u")
}

// Commit records staged changes with message.
func (c *Client) Commit(ctx context.Context, message string) error {
	return c.run(ctx, "committing", "commit", "-m", message)
}

// Tag creates a lightweight tag at HEAD.
func (c *Client) Tag(ctx context.Context, name string) error {
	return c.run(ctx, "tagging "+name, "tag", name)
}

// SwitchCreate creates branch at HEAD and switches to it.
func (c *Client) SwitchCreate(ctx context.Context, branch string) error {
	return c.run(ctx, "creating branch "+branch, "switch", "--create", branch)
}

// DiffNoIndex compares two paths outside of any repository. It reports
// whether the files differ; exit status 1 is how git signals a difference.
// A non-empty pager is passed as core.pager.
func (c *Client) DiffNoIndex(ctx context.Context, a, b, pager string) (bool, error) {
	var args []string
	if pager != "" {
		args = append(args, "-c", "core.pager="+pager)
	}
	args = append(args, "diff", "--no-index", "--", a, b)

	err := c.r.Run(ctx, program, args...)
	switch runner.ExitCode(err) {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("diffing %s and %s: %w", a, b, err)
	}
}

func (c *Client) run(ctx context.Context, what string, args ...string) error {
	if err := c.r.Run(ctx, program, args...); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
