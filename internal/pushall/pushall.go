// Package pushall pushes every branch in a stacked PR chain in one atomic
// push. It is meant to run right after `git rebase --update-refs`.
package pushall

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dotkit-labs/dotkit/internal/branchchain"
	"github.com/dotkit-labs/dotkit/internal/git"
	"github.com/dotkit-labs/dotkit/internal/logger"
)

// Default values used when the caller leaves Options fields empty.
const (
	DefaultBaseRef = "main"
	DefaultRemote  = "origin"
)

// Options configures Run.
type Options struct {
	BaseRef string
	Remote  string
	Force   git.ForceMode
	// DryRun prints the chain without pushing.
	DryRun bool
	// Out receives the branch list in dry-run mode.
	Out io.Writer
}

// Run resolves the branch chain between opts.BaseRef and HEAD and pushes it.
// It returns the branches it pushed (or would push), oldest first.
func Run(ctx context.Context, c *git.Client, opts Options) ([]string, error) {
	if opts.BaseRef == "" {
		opts.BaseRef = DefaultBaseRef
	}
	if opts.Remote == "" {
		opts.Remote = DefaultRemote
	}
	log := logger.Get(ctx)

	remotes, err := c.Remotes(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := c.DecorationLog(ctx, opts.BaseRef)
	if err != nil {
		return nil, err
	}

	branches := branchchain.Parse(lines, opts.BaseRef, remotes)
	log.Debug("resolved branch chain", slog.String("base", opts.BaseRef), slog.Any("branches", branches))

	if opts.DryRun {
		if opts.Out != nil {
			for _, b := range branches {
				fmt.Fprintln(opts.Out, b)
			}
		}
		return branches, nil
	}

	err = c.Push(ctx, git.PushOptions{
		Force:  opts.Force,
		Atomic: true,
		Remote: opts.Remote,
		Refs:   branches,
	})
	if err != nil {
		return nil, err
	}

	log.Info("pushed branch chain", slog.String("remote", opts.Remote), slog.Int("count", len(branches)))
	return branches, nil
}
