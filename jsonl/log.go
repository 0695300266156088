// Package jsonl persists the cross-run snippet log as JSONL.
package jsonl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var _ folio.SnippetLog = (*Log)(nil)

// Log appends and reads Snippet records in JSONL files. Appending is the
// hot path: one record per submission, written after a successful commit.
// The engine never reads the log back; Load exists for the CLI listing.
type Log struct{}

// NewLog creates a new Log.
func NewLog() *Log {
	return &Log{}
}

// Append writes one snippet to the end of the file, creating the file and
// parent directories if needed.
func (l *Log) Append(path string, snippet folio.Snippet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(snippet)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		return err
	}
	if _, err := f.WriteString("\n"); err != nil {
		return err
	}

	return nil
}

// Load reads all snippets from a JSONL file. Returns nil if the file does
// not exist.
func (l *Log) Load(path string) ([]folio.Snippet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var snippets []folio.Snippet
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var s folio.Snippet
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		snippets = append(snippets, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return snippets, nil
}
