package release

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/dotkit-labs/dotkit/internal/gh"
	"github.com/dotkit-labs/dotkit/internal/git"
	"github.com/dotkit-labs/dotkit/internal/runner"
)

const (
	pyprojectTOML = "[project]\nname = \"demo\"\nversion = \"1.2.2\"\n"
	changelog     = "# Changelog\n\n## [Unreleased]\n\n- fix a thing\n\n## [1.2.2] - 2024-01-01\n"
)

func newReleaser(t *testing.T) (*Releaser, *runner.Recorder) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, PyprojectFile), []byte(pyprojectTOML), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ChangelogFile), []byte(changelog), 0644); err != nil {
		t.Fatal(err)
	}

	rec := &runner.Recorder{}
	return &Releaser{
		Git:    git.New(rec),
		GitHub: gh.New(rec),
		Dir:    dir,
		Now:    func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) },
	}, rec
}

func TestRelease_CommitAndTag(t *testing.T) {
	for _, version := range []string{"1.2.3", "v1.2.3"} {
		t.Run(version, func(t *testing.T) {
			r, rec := newReleaser(t)
			if err := r.Release(context.Background(), version, CommitAndTag); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := []string{
				"git add -u",
				"git commit -m v1.2.3",
				"git tag v1.2.3",
				"git push origin HEAD --tags",
			}
			if got := rec.CommandLines(); !slices.Equal(got, want) {
				t.Errorf("calls =\n%q\nwant\n%q", got, want)
			}

			data, err := os.ReadFile(filepath.Join(r.Dir, PyprojectFile))
			if err != nil {
				t.Fatal(err)
			}
			if want := "[project]\nname = \"demo\"\nversion = \"1.2.3\"\n"; string(data) != want {
				t.Errorf("pyproject.toml = %q, want %q", data, want)
			}
		})
	}
}

func TestRelease_PullRequest(t *testing.T) {
	r, rec := newReleaser(t)
	if err := r.Release(context.Background(), "1.2.3", PullRequest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"git add -u",
		"git switch --create version--1.2.3",
		"git commit -m v1.2.3",
		"git push --set-upstream origin version--1.2.3",
		"gh pr create --fill --web --head version--1.2.3",
	}
	if got := rec.CommandLines(); !slices.Equal(got, want) {
		t.Errorf("calls =\n%q\nwant\n%q", got, want)
	}
}

func TestRelease_TagOnly(t *testing.T) {
	r, rec := newReleaser(t)
	if err := r.Release(context.Background(), "1.2.3", TagOnly); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"git tag v1.2.3",
		"git push origin HEAD --tags",
	}
	if got := rec.CommandLines(); !slices.Equal(got, want) {
		t.Errorf("calls =\n%q\nwant\n%q", got, want)
	}

	// Files are untouched.
	data, err := os.ReadFile(filepath.Join(r.Dir, PyprojectFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != pyprojectTOML {
		t.Errorf("pyproject.toml changed on tag-only release: %q", data)
	}
}

func TestRelease_PEP440Versions(t *testing.T) {
	for _, v := range []string{"1.2.3rc1", "1.2.3.post1", "1.2.3.dev0", "1.2.3a1"} {
		t.Run(v, func(t *testing.T) {
			r, rec := newReleaser(t)
			if err := r.Release(context.Background(), v, TagOnly); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := []string{"git tag v" + v, "git push origin HEAD --tags"}
			if got := rec.CommandLines(); !slices.Equal(got, want) {
				t.Errorf("calls = %q, want %q", got, want)
			}
		})
	}
}

func TestRelease_CommitAndTagPreRelease(t *testing.T) {
	r, _ := newReleaser(t)
	if err := r.Release(context.Background(), "1.3.0rc1", CommitAndTag); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(r.Dir, PyprojectFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `version = "1.3.0rc1"`) {
		t.Errorf("pyproject.toml = %q", data)
	}
}

func TestRelease_InvalidVersion(t *testing.T) {
	r, rec := newReleaser(t)
	err := r.Release(context.Background(), "not-a-version", CommitAndTag)
	if !errors.Is(err, ErrInvalidVersion) {
		t.Fatalf("error = %v, want ErrInvalidVersion", err)
	}
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("made %d git calls for an invalid version", n)
	}
}

func TestRelease_MissingFiles(t *testing.T) {
	rec := &runner.Recorder{}
	r := &Releaser{Git: git.New(rec), GitHub: gh.New(rec), Dir: t.TempDir()}

	if err := r.Release(context.Background(), "1.0.0", CommitAndTag); err == nil {
		t.Fatal("expected error for missing pyproject.toml, got nil")
	}
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("made %d git calls after file error", n)
	}
}

func TestRelease_StopsOnGitFailure(t *testing.T) {
	r, rec := newReleaser(t)
	cause := errors.New("nothing to commit")
	rec.Errors = map[string]error{"git commit -m v1.2.3": cause}

	if err := r.Release(context.Background(), "1.2.3", CommitAndTag); !errors.Is(err, cause) {
		t.Fatalf("error = %v, want wrapping %v", err, cause)
	}
	if got := rec.CommandLines(); len(got) != 2 {
		t.Errorf("calls after failure = %q, want stop after commit", got)
	}
}

func TestMethod_String(t *testing.T) {
	tests := map[Method]string{
		CommitAndTag: "commit-and-tag",
		TagOnly:      "tag-only",
		PullRequest:  "pull-request",
		Method(9):    "Method(9)",
	}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("Method(%d).String() = %q, want %q", int(m), got, want)
		}
	}
}
