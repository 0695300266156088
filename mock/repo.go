package mock

import (
	"context"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var (
	_ folio.RepoReader = (*RepoReader)(nil)
	_ folio.SnippetLog = (*SnippetLog)(nil)
)

// RepoReader is a mock implementation of folio.RepoReader.
type RepoReader struct {
	DefaultBranchFileFn func(ctx context.Context, repoPath, relPath string) (string, error)
}

func (r *RepoReader) DefaultBranchFile(ctx context.Context, repoPath, relPath string) (string, error) {
	return r.DefaultBranchFileFn(ctx, repoPath, relPath)
}

// SnippetLog is a mock implementation of folio.SnippetLog.
type SnippetLog struct {
	AppendFn func(path string, snippet folio.Snippet) error
}

func (l *SnippetLog) Append(path string, snippet folio.Snippet) error {
	return l.AppendFn(path, snippet)
}
