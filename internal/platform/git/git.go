// Package git queries the enclosing git checkout. The develop pipeline uses
// it to locate the repository root and to derive the build identifier from
// the current revision.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotInRepository indicates the working directory is not inside a git
// checkout. This is a precondition failure: the caller aborts without retry.
var ErrNotInRepository = errors.New("not inside a git repository")

// runner executes a git subcommand and returns its trimmed stdout.
type runner func(ctx context.Context, args ...string) (string, error)

// Client answers source-control queries against the local checkout.
type Client struct {
	run runner
}

// New returns a Client backed by the git binary on PATH.
func New() *Client {
	return &Client{run: runGit}
}

// RepositoryRoot returns the top-level directory of the enclosing checkout.
// Returns ErrNotInRepository when the working directory is not in one.
func (c *Client) RepositoryRoot(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotInRepository, err)
	}
	return out, nil
}

// CurrentRevision returns the SHA of HEAD.
func (c *Client) CurrentRevision(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("reading current revision: %w", err)
	}
	return out, nil
}

func runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}
