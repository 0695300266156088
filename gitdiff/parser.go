// Package gitdiff implements diff parsing using bluekeyes/go-gitdiff.
package gitdiff

import (
	"io"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var _ folio.Parser = (*Parser)(nil)

// Parser parses unified diff content into the structured model the review
// UI renders. The previews this tool generates only ever create or modify
// text files, so renames, copies, and binary files are folded into the
// modified operation.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads diff content and returns the parsed result.
func (p *Parser) Parse(r io.Reader) (*folio.Diff, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &folio.Diff{
		Files: make([]folio.FileDiff, 0, len(files)),
	}

	for _, f := range files {
		result.Files = append(result.Files, convertFile(f))
	}

	return result, nil
}

func convertFile(f *gitdiff.File) folio.FileDiff {
	fd := folio.FileDiff{
		OldPath: f.OldName,
		NewPath: f.NewName,
	}

	switch {
	case f.IsNew:
		fd.Operation = folio.FileAdded
	case f.IsDelete:
		fd.Operation = folio.FileDeleted
	default:
		fd.Operation = folio.FileModified
	}

	fd.Hunks = make([]folio.Hunk, 0, len(f.TextFragments))
	for _, frag := range f.TextFragments {
		fd.Hunks = append(fd.Hunks, convertFragment(frag))
	}

	return fd
}

func convertFragment(frag *gitdiff.TextFragment) folio.Hunk {
	hunk := folio.Hunk{
		OldStart: int(frag.OldPosition),
		OldCount: int(frag.OldLines),
		NewStart: int(frag.NewPosition),
		NewCount: int(frag.NewLines),
		Section:  frag.Comment,
	}

	oldLineNum := int(frag.OldPosition)
	newLineNum := int(frag.NewPosition)

	for _, l := range frag.Lines {
		line := folio.Line{
			Content:   l.Line,
			NoNewline: l.NoEOL(),
		}

		switch l.Op {
		case gitdiff.OpContext:
			line.Type = folio.LineContext
			line.OldLineNum = oldLineNum
			line.NewLineNum = newLineNum
			oldLineNum++
			newLineNum++
		case gitdiff.OpAdd:
			line.Type = folio.LineAdded
			line.OldLineNum = 0
			line.NewLineNum = newLineNum
			newLineNum++
		case gitdiff.OpDelete:
			line.Type = folio.LineDeleted
			line.OldLineNum = oldLineNum
			line.NewLineNum = 0
			oldLineNum++
		}

		hunk.Lines = append(hunk.Lines, line)
	}

	return hunk
}
