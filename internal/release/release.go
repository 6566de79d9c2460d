package release

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dotkit-labs/dotkit/internal/gh"
	"github.com/dotkit-labs/dotkit/internal/git"
	"github.com/dotkit-labs/dotkit/internal/logger"
)

// Method selects how a release is published.
type Method int

const (
	// CommitAndTag edits files, commits, tags, and pushes the current branch.
	CommitAndTag Method = iota
	// TagOnly creates and pushes a tag without touching files.
	TagOnly
	// PullRequest edits files on a new branch and opens a pull request.
	PullRequest
)

func (m Method) String() string {
	switch m {
	case CommitAndTag:
		return "commit-and-tag"
	case TagOnly:
		return "tag-only"
	case PullRequest:
		return "pull-request"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Remote is where releases are pushed.
const Remote = "origin"

// Releaser publishes versions.
type Releaser struct {
	Git    *git.Client
	GitHub *gh.Client
	// Dir holds pyproject.toml and CHANGELOG.md; empty means the working directory.
	Dir string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Release publishes version using method.
func (r *Releaser) Release(ctx context.Context, version string, method Method) error {
	version, err := NormalizeVersion(version)
	if err != nil {
		return err
	}
	tag := TagName(version)
	logger.Get(ctx).Info("releasing", slog.String("version", version), slog.String("method", method.String()))

	if method == TagOnly {
		return r.tagAndPush(ctx, tag)
	}

	switch method {
	case CommitAndTag, PullRequest:
	default:
		return fmt.Errorf("unsupported release method %v", method)
	}

	if err := r.updateFiles(ctx, version); err != nil {
		return err
	}
	if err := r.Git.AddUpdated(ctx); err != nil {
		return err
	}

	if method == PullRequest {
		branch := BranchName(version)
		if err := r.Git.SwitchCreate(ctx, branch); err != nil {
			return err
		}
		if err := r.Git.Commit(ctx, tag); err != nil {
			return err
		}
		if err := r.Git.Push(ctx, git.PushOptions{SetUpstream: true, Remote: Remote, Refs: []string{branch}}); err != nil {
			return err
		}
		return r.GitHub.CreatePullRequest(ctx, branch)
	}

	if err := r.Git.Commit(ctx, tag); err != nil {
		return err
	}
	return r.tagAndPush(ctx, tag)
}

func (r *Releaser) tagAndPush(ctx context.Context, tag string) error {
	if err := r.Git.Tag(ctx, tag); err != nil {
		return err
	}
	return r.Git.Push(ctx, git.PushOptions{Remote: Remote, Refs: []string{"HEAD"}, Tags: true})
}

func (r *Releaser) updateFiles(ctx context.Context, version string) error {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	pyproject := filepath.Join(r.Dir, PyprojectFile)
	if current, err := CurrentVersion(pyproject); err == nil && current != "" {
		log := logger.Get(ctx)
		log.Debug("current version", slog.String("version", current))
		if !IsBump(current, version) {
			log.Warn("release does not bump the version", slog.String("current", current), slog.String("new", version))
		}
	}
	if err := UpdatePyproject(pyproject, version); err != nil {
		return err
	}
	return UpdateChangelog(filepath.Join(r.Dir, ChangelogFile), version, now())
}
