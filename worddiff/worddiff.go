// Package worddiff computes word-level diff segments for highlighting the
// changed portions of modified lines. The tokenizer is tuned for the kind of
// text that shows up in profile documents and site data files: prose,
// markdown punctuation, and URLs.
package worddiff

import (
	"strings"
	"unicode/utf8"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var _ folio.WordDiffer = (*Differ)(nil)

// Differ tokenizes strings and computes word-level diffs.
type Differ struct{}

// NewDiffer creates a new Differ instance.
func NewDiffer() *Differ {
	return &Differ{}
}

// Tokenize splits a string into tokens using a hand-written scanner.
// Token types: URLs, words, numbers, markdown punctuation, whitespace.
// URLs are kept as single tokens so a changed link highlights as one unit
// instead of a noisy run of path fragments.
func (d *Differ) Tokenize(s string) []string {
	if len(s) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(s)/3+1)
	i := 0

	for i < len(s) {
		start := i
		c := s[i]

		switch {
		case isWordChar(c):
			i++
			for i < len(s) && isWordChar(s[i]) {
				i++
			}
			// "https" or "http" followed by "://" starts a URL token that
			// runs to the next whitespace or closing bracket.
			if (s[start:i] == "http" || s[start:i] == "https") && strings.HasPrefix(s[i:], "://") {
				i += 3
				for i < len(s) && !isURLStop(s[i]) {
					i++
				}
			}
			tokens = append(tokens, s[start:i])

		case isWhitespace(c):
			i++
			for i < len(s) && isWhitespace(s[i]) {
				i++
			}
			tokens = append(tokens, s[start:i])

		case c == '*' || c == '-' || c == '=' || c == '#' || c == '~' || c == '`':
			// Markdown emphasis and heading markers come in runs.
			i++
			for i < len(s) && s[i] == c {
				i++
			}
			tokens = append(tokens, s[start:i])

		default:
			// Single character: brackets, pipes, quotes, and any UTF-8 rune.
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			tokens = append(tokens, s[start:i])
		}
	}

	return tokens
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '_'
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isURLStop(c byte) bool {
	return isWhitespace(c) || c == ')' || c == ']' || c == '>' || c == '"' || c == '|'
}

// similarityThreshold is the minimum ratio for word-level diffing.
// Below this threshold, lines are treated as complete replacements.
const similarityThreshold = 0.4

// Diff returns segments for both the old and new strings,
// marking which portions changed between them.
func (d *Differ) Diff(old, new string) (oldSegs, newSegs []folio.Segment) {
	if old == "" && new == "" {
		return nil, nil
	}
	if old == "" {
		return nil, []folio.Segment{{Text: new, Changed: true}}
	}
	if new == "" {
		return []folio.Segment{{Text: old, Changed: true}}, nil
	}

	if old == new {
		seg := folio.Segment{Text: old, Changed: false}
		return []folio.Segment{seg}, []folio.Segment{seg}
	}

	oldTokens := d.Tokenize(old)
	newTokens := d.Tokenize(new)

	if !hasSufficientSimilarity(oldTokens, newTokens) {
		return []folio.Segment{{Text: old, Changed: true}},
			[]folio.Segment{{Text: new, Changed: true}}
	}

	return lcsSegments(oldTokens, newTokens)
}

// hasSufficientSimilarity checks if tokens have enough overlap to warrant a
// word-level diff. Uses a count of common tokens as an upper bound estimate.
func hasSufficientSimilarity(oldTokens, newTokens []string) bool {
	oldLen, newLen := len(oldTokens), len(newTokens)
	if oldLen == 0 || newLen == 0 {
		return false
	}

	counts := make(map[string]int, oldLen)
	for _, t := range oldTokens {
		counts[t]++
	}

	common := 0
	for _, t := range newTokens {
		if counts[t] > 0 {
			counts[t]--
			common++
		}
	}

	total := oldLen + newLen
	return float64(2*common)/float64(total) >= similarityThreshold
}

// lcsSegments computes the LCS of two token sequences and returns merged diff
// segments. Uses O(n×m) dynamic programming with a flat array to minimize
// allocations.
func lcsSegments(oldTokens, newTokens []string) (oldSegs, newSegs []folio.Segment) {
	m, n := len(oldTokens), len(newTokens)

	// table[i*(n+1)+j] corresponds to table[i][j]
	table := make([]int, (m+1)*(n+1))
	stride := n + 1

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if oldTokens[i-1] == newTokens[j-1] {
				table[i*stride+j] = table[(i-1)*stride+j-1] + 1
			} else if table[(i-1)*stride+j] > table[i*stride+j-1] {
				table[i*stride+j] = table[(i-1)*stride+j]
			} else {
				table[i*stride+j] = table[i*stride+j-1]
			}
		}
	}

	lcsLen := table[m*stride+n]
	if lcsLen == 0 {
		return []folio.Segment{{Text: joinTokens(oldTokens), Changed: true}},
			[]folio.Segment{{Text: joinTokens(newTokens), Changed: true}}
	}

	// Backtrack to find matching positions.
	type match struct{ oldIdx, newIdx int }
	matches := make([]match, 0, lcsLen)

	i, j := m, n
	for i > 0 && j > 0 {
		if oldTokens[i-1] == newTokens[j-1] {
			matches = append(matches, match{i - 1, j - 1})
			i--
			j--
		} else if table[(i-1)*stride+j] > table[i*stride+j-1] {
			i--
		} else {
			j--
		}
	}

	// Backtracking yields matches in reverse order.
	for left, right := 0, len(matches)-1; left < right; left, right = left+1, right-1 {
		matches[left], matches[right] = matches[right], matches[left]
	}

	oldTotalLen, newTotalLen := 0, 0
	for _, t := range oldTokens {
		oldTotalLen += len(t)
	}
	for _, t := range newTokens {
		newTotalLen += len(t)
	}

	// Build segments directly, merging adjacent same-status runs.
	var oldText, newText strings.Builder
	oldText.Grow(oldTotalLen)
	newText.Grow(newTotalLen)
	oldChanged, newChanged := false, false
	haveOld, haveNew := false, false

	flushOld := func() {
		if haveOld {
			oldSegs = append(oldSegs, folio.Segment{Text: oldText.String(), Changed: oldChanged})
			oldText.Reset()
			haveOld = false
		}
	}
	flushNew := func() {
		if haveNew {
			newSegs = append(newSegs, folio.Segment{Text: newText.String(), Changed: newChanged})
			newText.Reset()
			haveNew = false
		}
	}

	addOld := func(text string, changed bool) {
		if haveOld && oldChanged != changed {
			flushOld()
		}
		oldText.WriteString(text)
		oldChanged = changed
		haveOld = true
	}
	addNew := func(text string, changed bool) {
		if haveNew && newChanged != changed {
			flushNew()
		}
		newText.WriteString(text)
		newChanged = changed
		haveNew = true
	}

	oldIdx, newIdx := 0, 0

	for _, mt := range matches {
		// Gap before match = changed
		for oldIdx < mt.oldIdx {
			addOld(oldTokens[oldIdx], true)
			oldIdx++
		}
		for newIdx < mt.newIdx {
			addNew(newTokens[newIdx], true)
			newIdx++
		}

		// Match = unchanged
		addOld(oldTokens[mt.oldIdx], false)
		addNew(newTokens[mt.newIdx], false)
		oldIdx = mt.oldIdx + 1
		newIdx = mt.newIdx + 1
	}

	// Trailing gap
	for oldIdx < m {
		addOld(oldTokens[oldIdx], true)
		oldIdx++
	}
	for newIdx < n {
		addNew(newTokens[newIdx], true)
		newIdx++
	}

	flushOld()
	flushNew()

	return oldSegs, newSegs
}

// joinTokens concatenates tokens using a builder (single allocation for result).
func joinTokens(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) == 1 {
		return tokens[0]
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t)
	}
	return b.String()
}
