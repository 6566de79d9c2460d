//go:build integration

package integration_test

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dotkit-labs/dotkit/internal/runner"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // DOTKIT_HOME
	RemoteDir string // bare repository acting as origin
	RepoDir   string // working clone
}

// setupTestEnv creates a bare remote and a working repository with one
// commit on main pushed to it. Git identity and config are sandboxed.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	env := &testEnv{
		HomeDir:   t.TempDir(),
		RemoteDir: t.TempDir(),
		RepoDir:   t.TempDir(),
	}

	t.Setenv("DOTKIT_HOME", env.HomeDir)
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "dotkit")
	t.Setenv("GIT_AUTHOR_EMAIL", "dotkit@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "dotkit")
	t.Setenv("GIT_COMMITTER_EMAIL", "dotkit@example.com")

	gitIn(t, env.RemoteDir, "init", "--bare", "--initial-branch=main")
	gitIn(t, env.RepoDir, "init", "--initial-branch=main")
	gitIn(t, env.RepoDir, "remote", "add", "origin", env.RemoteDir)
	commitFile(t, env.RepoDir, "README.md", "# project\n")
	gitIn(t, env.RepoDir, "push", "--set-upstream", "origin", "main")

	return env
}

// newRunner returns a Runner executing in dir with output discarded.
func newRunner(dir string) runner.Runner {
	return &runner.Exec{Dir: dir, Stdout: io.Discard, Stderr: io.Discard}
}

// gitIn runs git in dir and returns its trimmed stdout.
func gitIn(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		if ee, ok := err.(*exec.ExitError); ok {
			stderr = string(ee.Stderr)
		}
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, stderr)
	}
	return strings.TrimSpace(string(out))
}

// commitFile writes name in dir and commits it.
func commitFile(t *testing.T, dir, name, content string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, name), content)
	gitIn(t, dir, "add", name)
	gitIn(t, dir, "commit", "-m", "add "+name)
}

// remoteRefs lists ref names on the bare remote matching pattern.
func remoteRefs(t *testing.T, remote, pattern string) []string {
	t.Helper()
	out := gitIn(t, remote, "for-each-ref", "--format=%(refname:short)", pattern)
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
