// Package git provides access to git operations via shell commands.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var _ folio.RepoReader = (*Runner)(nil)

// Runner executes git commands via shell. It reads published content from a
// repository's default branch, which can differ from the working tree when
// local edits are pending.
type Runner struct{}

// NewRunner creates a new git runner.
func NewRunner() *Runner {
	return &Runner{}
}

// DefaultBranch returns the ref of the repository's default branch:
// origin/HEAD when a remote is configured, otherwise the currently checked
// out branch.
func (r *Runner) DefaultBranch(ctx context.Context, repoPath string) (string, error) {
	out, err := run(ctx, repoPath, "symbolic-ref", "refs/remotes/origin/HEAD", "--short")
	if err == nil && out != "" {
		return out, nil
	}

	out, err = run(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return out, nil
}

// DefaultBranchFile returns the content of relPath as committed on the
// repository's default branch.
func (r *Runner) DefaultBranchFile(ctx context.Context, repoPath, relPath string) (string, error) {
	branch, err := r.DefaultBranch(ctx, repoPath)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, "git", "-C", repoPath, "show", branch+":"+relPath)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git show failed: %s", string(exitErr.Stderr))
		}
		return "", fmt.Errorf("git show failed: %w", err)
	}
	return string(output), nil
}

func run(ctx context.Context, repoPath string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", repoPath}, args...)...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s failed: %s", args[0], string(exitErr.Stderr))
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return strings.TrimSpace(string(output)), nil
}
