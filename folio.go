// Package folio provides domain types for validating and applying
// declarative edits against content repositories.
package folio

import (
	"context"
	"time"
)

// Kind identifies the type of edit an Action performs.
type Kind string

// The four action kinds accepted on the wire. Any other value is a
// contract violation.
const (
	KindCreate            Kind = "create"
	KindReplace           Kind = "replace"
	KindAppend            Kind = "append"
	KindInsertAfterMarker Kind = "insert_after_marker"
)

// Action is one declarative file edit instruction.
type Action struct {
	Path    string `json:"path"`             // repository-relative
	Kind    Kind   `json:"kind"`             // create, replace, append, insert_after_marker
	Content string `json:"content"`          // text to write
	Marker  string `json:"marker,omitempty"` // anchor line, insert_after_marker only
}

// ChangeRecord captures the full prior and posterior content of one file
// touched by an applied action. Full content (not a delta) is what makes
// rollback exact and order-independent.
type ChangeRecord struct {
	Path   string  `json:"path"`
	Before *string `json:"before"` // nil if the file did not exist
	After  string  `json:"after"`
}

// Created reports whether the record describes a file that did not exist
// before the action ran.
func (r ChangeRecord) Created() bool {
	return r.Before == nil
}

// Priority controls where a new entry is placed among existing entries.
type Priority string

// Placement priorities.
const (
	PriorityTop    Priority = "top"
	PriorityMiddle Priority = "middle"
	PriorityBottom Priority = "bottom"
)

// Project is the metadata of the project being added. It is produced by an
// upstream ingest stage and treated as read-only input.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	RepoURL     string   `json:"repo_url"`
	DemoURL     string   `json:"demo_url,omitempty"`
	TechStack   []string `json:"tech_stack,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
}

// Format classifies how existing entries in a document section are written.
type Format string

// Entry formats, in classification precedence order.
const (
	FormatTable         Format = "table"
	FormatBadgeGrid     Format = "badge_grid"
	FormatHTMLCards     Format = "html_cards"
	FormatHeadingBlocks Format = "heading_blocks"
	FormatBulletList    Format = "bullet_list"
	FormatPlain         Format = "plain"
)

// Section is a contiguous heading-delimited line range of a text document.
// Line numbers are 1-based. Siblings are disjoint and ordered by position.
type Section struct {
	Heading   string
	StartLine int
	EndLine   int
	Body      string
}

// Hint describes where and in what format a new entry belongs within a
// document. It is valid only for the document content it was computed from:
// if the document changes, the hint must be recomputed.
type Hint struct {
	Section        Section
	Format         Format
	SampleEntry    string // representative existing entry, verbatim
	EntryPositions []int  // 1-based starting line of each existing entry
}

// Snippet is one record of the append-only cross-run side log.
type Snippet struct {
	Title   string    `json:"title"`
	RepoURL string    `json:"repo_url"`
	Text    string    `json:"text"`
	AddedAt time.Time `json:"added_at"`
}

// EntryGenerator produces one formatted entry for a project, matching the
// format described by the hint. Output is untrusted and must pass the same
// validation as hand-written input.
type EntryGenerator interface {
	Generate(ctx context.Context, project Project, hint Hint) (string, error)
}

// Describer produces a short project description when the ingest metadata
// lacks one. Like generated entries, its output is untrusted input.
type Describer interface {
	Describe(ctx context.Context, project Project) (string, error)
}

// Verifier runs an external verification step (typically a build) against
// the pending changes of one repository and reports pass/fail.
type Verifier interface {
	Verify(ctx context.Context, repoRoot string, records []ChangeRecord) error
}

// Reviewer presents pending change records for interactive accept/reject.
// It returns the accepted subset; rejected records are never written.
type Reviewer interface {
	Review(ctx context.Context, records []ChangeRecord) ([]ChangeRecord, error)
}

// SnippetLog appends entries to a cross-run side log. The log itself is an
// external collaborator; the core never reads it back.
type SnippetLog interface {
	Append(path string, snippet Snippet) error
}

// RepoReader reads file content from a repository's default branch, used to
// check listings against what is already published rather than local edits.
type RepoReader interface {
	DefaultBranchFile(ctx context.Context, repoPath, relPath string) (string, error)
}

// LanguageDetector identifies the language of a file from its path, for
// syntax-highlighted previews.
type LanguageDetector interface {
	DetectFromPath(path string) string
}
