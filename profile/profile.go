// Package profile analyzes semi-structured profile documents and plans
// where a new project entry belongs.
//
// The analysis is deliberately heuristic: classification is a fixed,
// ordered rule set over line patterns, not a markdown or HTML parser.
// Rules are total, with plain text as the universal fallback, so analysis
// never fails on unrecognized input.
package profile

import (
	"errors"
	"regexp"
	"strings"

	"github.com/foliopatch/folio"
)

// ErrNoSection is returned when no section scores above the project-likeness
// threshold. The caller should bootstrap a new projects section and re-parse.
var ErrNoSection = errors.New("no project section found")

// scoreThreshold is the minimum project-likeness score a section must reach
// to become the insertion target.
const scoreThreshold = 2.0

// Parse turns a profile document into a structural hint: the target section,
// its entry format, a sample entry, and the position of every existing
// entry. The hint is valid only for this exact content; recompute it before
// any second edit to the same document.
func Parse(content string) (*folio.Hint, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoSection
	}

	sections := SplitSections(content)
	target, ok := targetSection(sections)
	if !ok {
		return nil, ErrNoSection
	}

	format := DetectFormat(target.Body)
	return &folio.Hint{
		Section:        target,
		Format:         format,
		SampleEntry:    ExtractSample(target.Body, format),
		EntryPositions: EntryPositions(target, format),
	}, nil
}

var commentMarkerRe = regexp.MustCompile(`(?i)^\s*<!--\s*[\w-]+\s*:\s*START\s*-->`)

// SplitSections segments a document on heading lines into ordered, disjoint
// sections. The heading depth adapts to the document: documents organized
// by H2 split on H1/H2, documents that only use deeper headings split one
// level deeper. HTML comment markers of the form <!-- name: START --> also
// open a section, a convention of generated profile documents.
func SplitSections(content string) []folio.Section {
	lines := strings.Split(content, "\n")

	headingRe, excludeRe := headingPatterns(lines)

	var sections []folio.Section
	heading := ""
	start := 1
	var body []string

	flush := func(end int) {
		if len(body) > 0 || heading != "" {
			sections = append(sections, folio.Section{
				Heading:   heading,
				StartLine: start,
				EndLine:   end,
				Body:      strings.Join(body, "\n"),
			})
		}
	}

	for i, line := range lines {
		lineNum := i + 1
		isHeading := headingRe.MatchString(line) && !excludeRe.MatchString(line)
		if isHeading || commentMarkerRe.MatchString(line) {
			flush(lineNum - 1)
			heading = strings.TrimSpace(line)
			start = lineNum
			body = nil
			continue
		}
		body = append(body, line)
	}
	flush(len(lines))

	return sections
}

// headingPatterns picks the heading depth to segment on, based on the
// deepest top-level structure the document actually uses.
func headingPatterns(lines []string) (heading, exclude *regexp.Regexp) {
	h2 := regexp.MustCompile(`^##\s+`)
	h3 := regexp.MustCompile(`^###\s+`)
	h3plus := regexp.MustCompile(`^###`)

	hasH2 := false
	hasH3 := false
	for _, l := range lines {
		if h2.MatchString(l) && !h3plus.MatchString(l) {
			hasH2 = true
			break
		}
		if h3.MatchString(l) {
			hasH3 = true
		}
	}

	if !hasH2 && hasH3 {
		return regexp.MustCompile(`^#{1,3}\s+`), regexp.MustCompile(`^####`)
	}
	return regexp.MustCompile(`^#{1,2}\s+`), h3plus
}

// projectKeywords are heading words that strongly suggest a projects section.
var projectKeywords = []string{
	"project", "featured", "work", "built", "portfolio",
	"showcase", "highlights", "creations", "apps", "tools",
	"repos", "repositories", "open source", "side project",
	"what i", "things i",
}

// contentSignals are body patterns that suggest project listings.
var contentSignals = []*regexp.Regexp{
	regexp.MustCompile(`github\.com/\S+`),
	regexp.MustCompile(`https?://\S+\.git`),
	regexp.MustCompile(`\*\*[^*]+\*\*\s*[-:]\s*\S`),
	regexp.MustCompile(`\|\s*\S+\s*\|`),
	regexp.MustCompile(`!\[.*?\]\(https://img\.shields\.io`),
	regexp.MustCompile(`(?i)<a\s+href=`),
	regexp.MustCompile(`###\s+\S`),
	regexp.MustCompile(`\d+[.)]\s+\*?\*?\[?\w`),
	regexp.MustCompile(`\[.+?\]\(https?://github\.com/`),
	regexp.MustCompile(`(?i)<details>`),
	regexp.MustCompile(`(?i)<summary>`),
	regexp.MustCompile(`(?i)repo|demo|source|code`),
}

var githubURLRe = regexp.MustCompile(`github\.com/\S+`)

// targetSection returns the highest-scoring section if it clears the
// threshold.
func targetSection(sections []folio.Section) (folio.Section, bool) {
	best := folio.Section{}
	bestScore := 0.0
	for _, s := range sections {
		if score := Score(s); score > bestScore {
			bestScore = score
			best = s
		}
	}
	return best, bestScore >= scoreThreshold
}

// Score computes the project-likeness of a section: a weighted count of
// heading keywords, code-hosting links, and listing markers in the body.
func Score(s folio.Section) float64 {
	score := 0.0

	headingLower := strings.ToLower(s.Heading)
	for _, kw := range projectKeywords {
		if strings.Contains(headingLower, kw) {
			score += 3.0
			break
		}
	}

	body := strings.ToLower(s.Body)
	for _, re := range contentSignals {
		n := len(re.FindAllString(body, 4))
		score += float64(min(n, 3)) * 0.5
	}

	urls := len(githubURLRe.FindAllString(body, 6))
	score += float64(min(urls, 5)) * 0.5

	return score
}

// BootstrapSection is the section appended to a document that has no
// recognizable projects section. It is inserted before retrying Parse.
const BootstrapSection = "\n## Projects\n\n"

// MinimalDocument returns a minimal profile document for a repository that
// has no usable README at all.
func MinimalDocument(owner string) string {
	return "# Hi, I'm " + owner + "\n\n## Projects\n\n"
}
