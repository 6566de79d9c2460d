// Package gh wraps the GitHub CLI.
package gh

import (
	"context"
	"fmt"

	"github.com/dotkit-labs/dotkit/internal/runner"
)

const program = "gh"

// Client issues gh commands through a Runner.
type Client struct {
	r runner.Runner
}

// New returns a Client backed by r.
func New(r runner.Runner) *Client {
	return &Client{r: r}
}

// CreatePullRequest opens the pull request form in the browser for head,
// prefilled from its commits.
func (c *Client) CreatePullRequest(ctx context.Context, head string) error {
	if err := c.r.Run(ctx, program, "pr", "create", "--fill", "--web", "--head", head); err != nil {
		return fmt.Errorf("creating pull request for %s: %w", head, err)
	}
	return nil
}
