// Package patch applies declarative edit actions against an in-memory view
// of a repository, deferring all writes until an explicit commit.
package patch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/foliopatch/folio"
)

// ErrMarkerNotFound is returned when insert_after_marker finds no line
// matching the marker. The target file is left untouched; falling back to
// append would place content where the planner did not intend.
var ErrMarkerNotFound = errors.New("marker not found")

// Transaction groups all change records produced for one target repository.
// Two repositories always get two independent transactions; failure of one
// never triggers rollback of the other.
//
// A transaction exclusively owns its in-memory snapshot for its lifetime.
// Abandoning a transaction before Commit has no effect on storage.
type Transaction struct {
	root    string
	staged  map[string]string  // current content per relative path
	onDisk  map[string]*string // original disk content, nil = absent
	records []folio.ChangeRecord
}

// New creates a transaction rooted at the given repository directory.
func New(root string) *Transaction {
	return &Transaction{
		root:   root,
		staged: make(map[string]string),
		onDisk: make(map[string]*string),
	}
}

// Root returns the repository root this transaction operates on.
func (t *Transaction) Root() string {
	return t.root
}

// Records returns the change records staged so far, in application order.
func (t *Transaction) Records() []folio.ChangeRecord {
	out := make([]folio.ChangeRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Apply validates and executes one action against the in-memory snapshot.
// Actions must be applied in the order supplied: a later insert_after_marker
// may depend on a marker introduced by an earlier create or replace.
// On failure the snapshot is unchanged and no record is produced.
func (t *Transaction) Apply(a folio.Action) (folio.ChangeRecord, error) {
	if err := folio.ValidateAction(a); err != nil {
		return folio.ChangeRecord{}, err
	}

	before, exists, err := t.current(a.Path)
	if err != nil {
		return folio.ChangeRecord{}, err
	}

	var after string
	switch a.Kind {
	case folio.KindCreate, folio.KindReplace:
		// create on an existing file behaves like replace (idempotent re-apply).
		after = a.Content
	case folio.KindAppend:
		after = appendContent(before, exists, a.Content)
	case folio.KindInsertAfterMarker:
		after, err = insertAfterMarker(before, exists, a.Marker, a.Content)
		if err != nil {
			return folio.ChangeRecord{}, fmt.Errorf("%s: %w: %q", a.Path, ErrMarkerNotFound, a.Marker)
		}
	}

	record := folio.ChangeRecord{Path: a.Path, After: after}
	if exists {
		prior := before
		record.Before = &prior
	}

	t.staged[a.Path] = after
	t.records = append(t.records, record)
	return record, nil
}

// current returns the content the next action sees for a path: staged
// content if an earlier action touched it, otherwise the file on disk.
func (t *Transaction) current(relPath string) (content string, exists bool, err error) {
	if staged, ok := t.staged[relPath]; ok {
		return staged, true, nil
	}
	if cached, ok := t.onDisk[relPath]; ok {
		if cached == nil {
			return "", false, nil
		}
		return *cached, true, nil
	}

	data, err := os.ReadFile(t.abs(relPath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.onDisk[relPath] = nil
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", relPath, err)
	}
	content = string(data)
	t.onDisk[relPath] = &content
	return content, true, nil
}

func (t *Transaction) abs(relPath string) string {
	return filepath.Join(t.root, filepath.FromSlash(relPath))
}

// Commit writes the given records to disk. Callers pass the subset of
// Records that survived review; rejected records are simply omitted and
// never written.
func (t *Transaction) Commit(records []folio.ChangeRecord) error {
	for _, r := range records {
		abs := t.abs(r.Path)
		if dir := filepath.Dir(abs); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("committing %s: %w", r.Path, err)
			}
		}
		if err := os.WriteFile(abs, []byte(r.After), 0o644); err != nil {
			return fmt.Errorf("committing %s: %w", r.Path, err)
		}
	}
	return nil
}

// Rollback restores every given record's prior content on disk: files with
// prior content are rewritten byte-identically, files that did not
// previously exist are deleted. Records are reverted in reverse order so
// that when several records touch one file, the earliest prior content
// wins.
func (t *Transaction) Rollback(records []folio.ChangeRecord) error {
	var firstErr error
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		abs := t.abs(r.Path)

		var err error
		if r.Before == nil {
			err = os.Remove(abs)
			if errors.Is(err, os.ErrNotExist) {
				err = nil
			}
		} else {
			err = os.WriteFile(abs, []byte(*r.Before), 0o644)
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("rolling back %s: %w", r.Path, err)
		}
	}
	return firstErr
}

// appendContent concatenates new content onto existing content, ensuring
// exactly one newline separates old and new regardless of whether the
// original ended with one.
func appendContent(before string, exists bool, content string) string {
	if !exists {
		return content
	}
	trimmed := strings.TrimRight(before, "\n")
	if trimmed == "" {
		return content
	}
	return trimmed + "\n" + content
}

// insertAfterMarker inserts content as new lines immediately after the
// first line exactly matching marker. Returns an error if no line matches.
func insertAfterMarker(before string, exists bool, marker, content string) (string, error) {
	if !exists {
		return "", ErrMarkerNotFound
	}

	trailingNL := strings.HasSuffix(before, "\n")
	lines := strings.Split(strings.TrimSuffix(before, "\n"), "\n")

	at := -1
	for i, line := range lines {
		if line == marker {
			at = i
			break
		}
	}
	if at == -1 {
		return "", ErrMarkerNotFound
	}

	inserted := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	out := make([]string, 0, len(lines)+len(inserted))
	out = append(out, lines[:at+1]...)
	out = append(out, inserted...)
	out = append(out, lines[at+1:]...)

	result := strings.Join(out, "\n")
	if trailingNL {
		result += "\n"
	}
	return result, nil
}
