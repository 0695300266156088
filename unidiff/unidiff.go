// Package unidiff computes line-based unified diffs for change previews.
package unidiff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/foliopatch/folio"
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// Preview returns the unified diff for one change record as display lines.
// It is purely a function of the record's before/after content and has no
// side effects. An empty result means the record changes nothing.
func Preview(r folio.ChangeRecord) []string {
	var before string
	oldLabel := "/dev/null"
	if r.Before != nil {
		before = *r.Before
		oldLabel = "a/" + r.Path
	}
	return unified(oldLabel, "b/"+r.Path, before, r.After)
}

// Text returns the unified diff for a record as a single string, terminated
// by a newline when non-empty.
func Text(r folio.ChangeRecord) string {
	lines := Preview(r)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Apply applies a unified diff produced by this package back onto the
// original content. It exists so callers can verify a preview describes
// exactly the transition from before to after.
func Apply(before, diffText string) (string, error) {
	if diffText == "" {
		return before, nil
	}
	files, _, err := gitdiff.Parse(strings.NewReader(diffText))
	if err != nil {
		return "", fmt.Errorf("parsing diff: %w", err)
	}
	if len(files) == 0 {
		return before, nil
	}

	var out bytes.Buffer
	if err := gitdiff.Apply(&out, strings.NewReader(before), files[0]); err != nil {
		return "", fmt.Errorf("applying diff: %w", err)
	}
	return out.String(), nil
}

// unified computes the unified diff between two texts. Lines are compared
// with their terminators so a missing final newline shows up as a change.
func unified(oldLabel, newLabel, old, new string) []string {
	oldLines := splitKeepEnds(old)
	newLines := splitKeepEnds(new)

	groups := groupedOpcodes(opcodes(oldLines, newLines), contextLines)
	if len(groups) == 0 {
		return nil
	}

	out := []string{
		"--- " + oldLabel,
		"+++ " + newLabel,
	}

	for _, group := range groups {
		first, last := group[0], group[len(group)-1]
		out = append(out, fmt.Sprintf("@@ -%s +%s @@",
			formatRange(first.i1, last.i2),
			formatRange(first.j1, last.j2)))

		for _, op := range group {
			switch op.tag {
			case opEqual:
				for _, line := range oldLines[op.i1:op.i2] {
					out = appendLine(out, " ", line)
				}
			default:
				for _, line := range oldLines[op.i1:op.i2] {
					out = appendLine(out, "-", line)
				}
				for _, line := range newLines[op.j1:op.j2] {
					out = appendLine(out, "+", line)
				}
			}
		}
	}

	return out
}

// appendLine emits one diff line, adding the no-newline marker after lines
// that lack a terminator (only ever the final line of either side).
func appendLine(out []string, prefix, raw string) []string {
	if strings.HasSuffix(raw, "\n") {
		return append(out, prefix+strings.TrimSuffix(raw, "\n"))
	}
	return append(out, prefix+raw, `\ No newline at end of file`)
}

// formatRange renders a start/stop line range in unified-diff header form.
func formatRange(start, stop int) string {
	length := stop - start
	beginning := start + 1
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

// splitKeepEnds splits text into lines, keeping each line's terminator.
// The final line keeps its missing terminator observable.
func splitKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	for {
		idx := strings.IndexByte(s, '\n')
		if idx < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:idx+1])
		s = s[idx+1:]
		if s == "" {
			break
		}
	}
	return lines
}

// Opcode tags.
const (
	opEqual   = 'e'
	opReplace = 'r'
	opDelete  = 'd'
	opInsert  = 'i'
)

// opcode describes one edit region: old[i1:i2] vs new[j1:j2].
type opcode struct {
	tag            byte
	i1, i2, j1, j2 int
}

// opcodes computes edit regions from the longest common subsequence of the
// two line slices, using a flat DP table to minimize allocations.
func opcodes(old, new []string) []opcode {
	m, n := len(old), len(new)

	stride := n + 1
	table := make([]int, (m+1)*stride)
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if old[i-1] == new[j-1] {
				table[i*stride+j] = table[(i-1)*stride+j-1] + 1
			} else if table[(i-1)*stride+j] > table[i*stride+j-1] {
				table[i*stride+j] = table[(i-1)*stride+j]
			} else {
				table[i*stride+j] = table[i*stride+j-1]
			}
		}
	}

	// Backtrack to find matching line pairs.
	type match struct{ oldIdx, newIdx int }
	var matches []match
	i, j := m, n
	for i > 0 && j > 0 {
		if old[i-1] == new[j-1] {
			matches = append(matches, match{i - 1, j - 1})
			i--
			j--
		} else if table[(i-1)*stride+j] > table[i*stride+j-1] {
			i--
		} else {
			j--
		}
	}
	for l, r := 0, len(matches)-1; l < r; l, r = l+1, r-1 {
		matches[l], matches[r] = matches[r], matches[l]
	}

	var ops []opcode
	oi, nj := 0, 0

	flushGap := func(i2, j2 int) {
		switch {
		case oi < i2 && nj < j2:
			ops = append(ops, opcode{opReplace, oi, i2, nj, j2})
		case oi < i2:
			ops = append(ops, opcode{opDelete, oi, i2, nj, j2})
		case nj < j2:
			ops = append(ops, opcode{opInsert, oi, i2, nj, j2})
		}
	}

	for k := 0; k < len(matches); {
		mt := matches[k]
		flushGap(mt.oldIdx, mt.newIdx)

		// Coalesce a run of consecutive matches into one equal opcode.
		runStart := k
		for k+1 < len(matches) &&
			matches[k+1].oldIdx == matches[k].oldIdx+1 &&
			matches[k+1].newIdx == matches[k].newIdx+1 {
			k++
		}
		ops = append(ops, opcode{
			opEqual,
			matches[runStart].oldIdx, matches[k].oldIdx + 1,
			matches[runStart].newIdx, matches[k].newIdx + 1,
		})
		oi = matches[k].oldIdx + 1
		nj = matches[k].newIdx + 1
		k++
	}
	flushGap(m, n)

	return ops
}

// groupedOpcodes splits opcodes into hunk groups with up to n lines of
// context, dropping equal regions far from any change.
func groupedOpcodes(ops []opcode, n int) [][]opcode {
	if len(ops) == 0 {
		return nil
	}

	// All-equal means no diff at all.
	allEqual := true
	for _, op := range ops {
		if op.tag != opEqual {
			allEqual = false
			break
		}
	}
	if allEqual {
		return nil
	}

	codes := make([]opcode, len(ops))
	copy(codes, ops)

	// Clamp leading and trailing context to n lines.
	if first := codes[0]; first.tag == opEqual {
		codes[0] = opcode{opEqual,
			max(first.i1, first.i2-n), first.i2,
			max(first.j1, first.j2-n), first.j2}
	}
	if last := codes[len(codes)-1]; last.tag == opEqual {
		codes[len(codes)-1] = opcode{opEqual,
			last.i1, min(last.i2, last.i1+n),
			last.j1, min(last.j2, last.j1+n)}
	}

	var groups [][]opcode
	var group []opcode
	for _, op := range codes {
		// A large equal region ends the current hunk and starts the next.
		if op.tag == opEqual && op.i2-op.i1 > 2*n {
			group = append(group, opcode{opEqual,
				op.i1, min(op.i2, op.i1+n),
				op.j1, min(op.j2, op.j1+n)})
			groups = append(groups, group)
			group = nil
			op = opcode{opEqual,
				max(op.i1, op.i2-n), op.i2,
				max(op.j1, op.j2-n), op.j2}
		}
		group = append(group, op)
	}
	if len(group) > 0 {
		groups = append(groups, group)
	}
	return groups
}
