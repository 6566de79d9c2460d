package cli

import (
	"github.com/dotkit-labs/dotkit/internal/gh"
	"github.com/dotkit-labs/dotkit/internal/git"
	"github.com/dotkit-labs/dotkit/internal/release"
	"github.com/spf13/cobra"
)

var (
	releaseCommitAndTag bool
	releaseTagOnly      bool
	releasePullRequest  bool
	releasePR           bool
)

func init() {
	releaseCmd.Flags().BoolVar(&releaseCommitAndTag, "commit-and-tag", false, "Update files, commit, tag, and push (default)")
	releaseCmd.Flags().BoolVar(&releaseTagOnly, "tag-only", false, "Create and push a tag without changing files")
	releaseCmd.Flags().BoolVar(&releasePullRequest, "pull-request", false, "Update files on a release branch and open a pull request")
	releaseCmd.Flags().BoolVar(&releasePR, "pr", false, "Alias for --pull-request")
	releaseCmd.MarkFlagsMutuallyExclusive("commit-and-tag", "tag-only", "pull-request", "pr")
	rootCmd.AddCommand(releaseCmd)
}

var releaseCmd = &cobra.Command{
	Use:   "release <version>",
	Short: "Release a new version",
	Long: `Release a new version of the project in the current directory.

The version may carry a leading "v". By default pyproject.toml and
CHANGELOG.md are updated, committed, tagged v<version>, and pushed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newRunner()
		rel := &release.Releaser{
			Git:    git.New(r),
			GitHub: gh.New(r),
		}
		return rel.Release(cmd.Context(), args[0], releaseMethod())
	},
}

func releaseMethod() release.Method {
	switch {
	case releaseTagOnly:
		return release.TagOnly
	case releasePullRequest, releasePR:
		return release.PullRequest
	default:
		return release.CommitAndTag
	}
}
