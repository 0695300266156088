package profile

import (
	"fmt"
	"strings"

	"github.com/foliopatch/folio"
)

// PlanInsertion resolves a priority to the 1-based document line at which
// the new entry should be inserted (existing content at and after that line
// shifts down).
//
// With no existing entries, all priorities resolve identically: immediately
// after the section heading, or after the header and separator rows for
// table sections.
func PlanInsertion(hint folio.Hint, priority folio.Priority) int {
	positions := hint.EntryPositions
	if len(positions) == 0 {
		return emptySectionInsertLine(hint)
	}

	switch priority {
	case folio.PriorityTop:
		return positions[0]
	case folio.PriorityMiddle:
		return positions[len(positions)/2]
	default:
		// bottom: one line past the last entry's end, which for a
		// line-oriented section is one past the section's last line.
		return hint.Section.EndLine + 1
	}
}

// emptySectionInsertLine finds the insertion line for a section with zero
// entries.
func emptySectionInsertLine(hint folio.Hint) int {
	line := hint.Section.StartLine + 1

	if hint.Format == folio.FormatTable {
		lines := strings.Split(hint.Section.Body, "\n")
		for i, l := range lines {
			if tableSeparatorRe.MatchString(l) {
				// Body offset i is document line StartLine+1+i; insert after it.
				return hint.Section.StartLine + 1 + i + 1
			}
		}
	}

	return line
}

// InsertAction converts a planned insertion line into an insert_after_marker
// action anchored on the line immediately preceding that index. Blank lines
// cannot serve as markers, so the anchor walks back to the nearest non-blank
// line, keeping the entry inside the same block. The document content must
// be the same content the hint was computed from.
func InsertAction(doc, path, entry string, line int) (folio.Action, error) {
	lines := strings.Split(doc, "\n")
	if line < 2 || line > len(lines)+1 {
		return folio.Action{}, fmt.Errorf("insertion line %d out of range for %d-line document", line, len(lines))
	}

	for line > 2 && strings.TrimSpace(lines[line-2]) == "" {
		line--
	}
	marker := lines[line-2]
	if strings.TrimSpace(marker) == "" {
		return folio.Action{}, fmt.Errorf("no usable anchor line above insertion line %d", line)
	}

	return folio.Action{
		Path:    path,
		Kind:    folio.KindInsertAfterMarker,
		Content: entry,
		Marker:  marker,
	}, nil
}
