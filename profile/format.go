package profile

import (
	"regexp"
	"strings"

	"github.com/foliopatch/folio"
)

// Line patterns for format classification and entry discovery.
var (
	tableRowRe       = regexp.MustCompile(`^\s*\|.*\|`)
	tableSeparatorRe = regexp.MustCompile(`^\s*\|[\s\-:|]+\|\s*$`)
	htmlLinkRe       = regexp.MustCompile(`(?i)<a\s+href=`)
	htmlImgRe        = regexp.MustCompile(`(?i)<img\s+`)
	htmlDetailsRe    = regexp.MustCompile(`(?i)<details>|<summary>`)
	detailsOpenRe    = regexp.MustCompile(`(?i)<details>`)
	subHeadingRe     = regexp.MustCompile(`^#{3,}\s+\S`)
	bulletRe         = regexp.MustCompile(`^\s*[-*]\s+`)
	numberedRe       = regexp.MustCompile(`^\s*\d+[.)]\s+`)
	bareLinkRe       = regexp.MustCompile(`^\s*\[.+?\]\(https?://\S+\)\s*$`)
)

func isBadgeLine(line string) bool {
	return strings.Contains(line, "img.shields.io") && strings.Contains(line, "![")
}

func isEntryBullet(line string) bool {
	return bulletRe.MatchString(line) || numberedRe.MatchString(line) || bareLinkRe.MatchString(line)
}

// DetectFormat classifies how entries in a section body are written. The
// precedence order is fixed and acts as a tie-break for documents that mix
// styles: table, badge grid, HTML cards, heading blocks, bullet list, and
// finally plain text. The first pattern present wins.
func DetectFormat(body string) folio.Format {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) == 0 {
		return folio.FormatPlain
	}

	pipeRows := 0
	separatorRows := 0
	badges := 0
	htmlTags := 0
	subHeadings := 0
	bullets := 0

	for _, l := range lines {
		switch {
		case tableSeparatorRe.MatchString(l):
			separatorRows++
		case tableRowRe.MatchString(l):
			pipeRows++
		}
		if isBadgeLine(l) {
			badges++
		}
		if htmlLinkRe.MatchString(l) || htmlImgRe.MatchString(l) || htmlDetailsRe.MatchString(l) {
			htmlTags++
		}
		if subHeadingRe.MatchString(l) {
			subHeadings++
		}
		if isEntryBullet(l) {
			bullets++
		}
	}

	switch {
	case separatorRows >= 1 && pipeRows >= 1:
		return folio.FormatTable
	case badges >= 1:
		return folio.FormatBadgeGrid
	case htmlTags >= 1:
		return folio.FormatHTMLCards
	case subHeadings >= 1:
		return folio.FormatHeadingBlocks
	case bullets >= 1:
		return folio.FormatBulletList
	default:
		return folio.FormatPlain
	}
}

// ExtractSample returns one representative existing entry, verbatim, to use
// as a literal template for new entries. The last entry is preferred since
// it most often reflects the section's current conventions.
func ExtractSample(body string, format folio.Format) string {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) == 0 {
		return ""
	}

	switch format {
	case folio.FormatTable:
		var rows []string
		for _, l := range lines {
			if tableRowRe.MatchString(l) && !tableSeparatorRe.MatchString(l) {
				rows = append(rows, l)
			}
		}
		// First pipe row is the header; prefer a data row when one exists.
		if len(rows) > 1 {
			return rows[len(rows)-1]
		}
		if len(rows) == 1 {
			return rows[0]
		}
		return ""

	case folio.FormatBadgeGrid:
		sample := ""
		for _, l := range lines {
			if isBadgeLine(l) {
				sample = l
			}
		}
		return sample

	case folio.FormatHTMLCards:
		text := strings.TrimSpace(body)
		if blocks := extractBlocks(text, `(?i)<details>`, "</details>"); len(blocks) > 0 {
			return blocks[len(blocks)-1]
		}
		if blocks := extractBlocks(text, `(?i)<a\s+href=`, "</a>"); len(blocks) > 0 {
			return blocks[len(blocks)-1]
		}
		return ""

	case folio.FormatHeadingBlocks:
		re := entryHeadingRe(lines)
		var starts []int
		for i, l := range lines {
			if re.MatchString(l) {
				starts = append(starts, i)
			}
		}
		if len(starts) == 0 {
			return ""
		}
		last := starts[len(starts)-1]
		block := lines[last:]
		for len(block) > 0 && strings.TrimSpace(block[len(block)-1]) == "" {
			block = block[:len(block)-1]
		}
		return strings.Join(block, "\n")

	case folio.FormatBulletList:
		sample := ""
		for _, l := range lines {
			if isEntryBullet(l) {
				sample = l
			}
		}
		return sample

	default:
		return lines[len(lines)-1]
	}
}

// extractBlocks returns every region of text from an opening pattern match
// through the next occurrence of closeTag, inclusive.
func extractBlocks(text, openPattern, closeTag string) []string {
	re := regexp.MustCompile(openPattern)
	lower := strings.ToLower(text)
	closeLower := strings.ToLower(closeTag)

	var blocks []string
	for _, loc := range re.FindAllStringIndex(text, -1) {
		end := strings.Index(lower[loc[0]:], closeLower)
		if end < 0 {
			continue
		}
		blocks = append(blocks, text[loc[0]:loc[0]+end+len(closeTag)])
	}
	return blocks
}

// entryHeadingRe builds a pattern matching the deepest sub-heading level the
// section uses, which is the level individual entries are written at.
func entryHeadingRe(lines []string) *regexp.Regexp {
	levelRe := regexp.MustCompile(`^(#{3,})\s+\S`)
	maxLevel := 0
	for _, l := range lines {
		if m := levelRe.FindStringSubmatch(l); m != nil && len(m[1]) > maxLevel {
			maxLevel = len(m[1])
		}
	}
	if maxLevel == 0 {
		return subHeadingRe
	}
	return regexp.MustCompile(`^` + strings.Repeat("#", maxLevel) + `\s+\S`)
}

// EntryPositions returns the 1-based document line number where each
// existing entry starts, in order. An empty result means the section has no
// entries yet.
func EntryPositions(section folio.Section, format folio.Format) []int {
	lines := strings.Split(section.Body, "\n")
	if len(lines) == 0 {
		return nil
	}

	// Body starts on the line after the section heading, except for a
	// headingless preamble section where it starts at the section itself.
	offset := section.StartLine + 1
	if section.Heading == "" {
		offset = section.StartLine
	}

	var positions []int
	switch format {
	case folio.FormatTable:
		headerSkipped := false
		for i, l := range lines {
			if !tableRowRe.MatchString(l) {
				continue
			}
			if tableSeparatorRe.MatchString(l) {
				continue
			}
			if !headerSkipped {
				headerSkipped = true
				continue
			}
			positions = append(positions, offset+i)
		}

	case folio.FormatBadgeGrid:
		for i, l := range lines {
			if isBadgeLine(l) {
				positions = append(positions, offset+i)
			}
		}

	case folio.FormatHTMLCards:
		for i, l := range lines {
			if htmlLinkRe.MatchString(l) || detailsOpenRe.MatchString(l) {
				positions = append(positions, offset+i)
			}
		}

	case folio.FormatHeadingBlocks:
		re := entryHeadingRe(lines)
		for i, l := range lines {
			if re.MatchString(l) {
				positions = append(positions, offset+i)
			}
		}

	case folio.FormatBulletList:
		for i, l := range lines {
			if isEntryBullet(l) {
				positions = append(positions, offset+i)
			}
		}
	}

	return positions
}
