package folio

import (
	"fmt"
	"path"
	"strings"
)

// ValidationReason identifies why an action or entry was rejected.
type ValidationReason string

// Validation error reasons.
const (
	ReasonPathTraversal     ValidationReason = "path_traversal"
	ReasonUnsupportedAction ValidationReason = "unsupported_action"
	ReasonMissingMarker     ValidationReason = "missing_marker"
	ReasonFormatViolation   ValidationReason = "format_violation"
)

// ValidationError describes a single validation failure.
type ValidationError struct {
	Path   string           // The action's path, if any
	Kind   Kind             // The action's kind, if any
	Reason ValidationReason // Why validation failed
	Detail string           // Human-readable specifics
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	switch e.Reason {
	case ReasonPathTraversal:
		return fmt.Sprintf("path %q escapes the repository root", e.Path)
	case ReasonUnsupportedAction:
		return fmt.Sprintf("path %q: unsupported action kind %q", e.Path, e.Kind)
	case ReasonMissingMarker:
		return fmt.Sprintf("path %q: insert_after_marker requires a non-empty marker", e.Path)
	case ReasonFormatViolation:
		return fmt.Sprintf("entry violates the target format: %s", e.Detail)
	default:
		return fmt.Sprintf("path %q: validation failed (%s)", e.Path, e.Reason)
	}
}

// ValidateAction checks an action before any storage is touched. Checks run
// in order: path confinement, kind allow-list, marker presence. Validation
// is pure and performs no filesystem access.
func ValidateAction(a Action) error {
	if err := validatePath(a); err != nil {
		return err
	}

	switch a.Kind {
	case KindCreate, KindReplace, KindAppend:
	case KindInsertAfterMarker:
		if strings.TrimSpace(a.Marker) == "" {
			return ValidationError{Path: a.Path, Kind: a.Kind, Reason: ReasonMissingMarker}
		}
	default:
		return ValidationError{Path: a.Path, Kind: a.Kind, Reason: ReasonUnsupportedAction}
	}

	return nil
}

// validatePath rejects absolute paths and any path that, once cleaned, would
// resolve outside the repository root.
func validatePath(a Action) error {
	p := strings.ReplaceAll(a.Path, `\`, "/")
	if p == "" || strings.HasPrefix(p, "/") || hasVolumePrefix(p) {
		return ValidationError{Path: a.Path, Kind: a.Kind, Reason: ReasonPathTraversal}
	}
	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || cleaned == "." {
		return ValidationError{Path: a.Path, Kind: a.Kind, Reason: ReasonPathTraversal}
	}
	return nil
}

// hasVolumePrefix catches Windows-style absolute paths like "C:/".
func hasVolumePrefix(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		(('a' <= p[0] && p[0] <= 'z') || ('A' <= p[0] && p[0] <= 'Z'))
}

// CheckEntry validates a candidate entry against the format described by the
// hint. A returned ValidationError with ReasonFormatViolation means the
// caller should fall back to template construction rather than rejecting
// the whole operation.
func CheckEntry(entry string, hint Hint) error {
	if strings.TrimSpace(entry) == "" {
		return ValidationError{Reason: ReasonFormatViolation, Detail: "empty entry"}
	}
	if strings.Contains(entry, "```") {
		return ValidationError{Reason: ReasonFormatViolation, Detail: "entry contains a code fence"}
	}
	if detail, ok := chatPreamble(entry); ok {
		return ValidationError{Reason: ReasonFormatViolation, Detail: detail}
	}

	switch hint.Format {
	case FormatTable:
		return CheckTableEntry(entry, hint.SampleEntry)
	case FormatHTMLCards:
		return CheckHTMLEntry(entry)
	case FormatBadgeGrid:
		return CheckBadgeEntry(entry)
	}
	return nil
}

// chatPreamble detects conversational filler that generators sometimes
// prepend to otherwise valid entries.
func chatPreamble(entry string) (string, bool) {
	artifacts := []string{
		"here is", "here's", "sure,", "certainly",
		"i've generated", "below is", "the following",
	}
	lower := strings.ToLower(strings.TrimSpace(entry))
	for _, a := range artifacts {
		if strings.HasPrefix(lower, a) {
			return fmt.Sprintf("entry starts with conversational filler %q", a), true
		}
	}
	return "", false
}

// CheckTableEntry verifies that a candidate table row has the same field
// count as the sample row it must sit next to.
func CheckTableEntry(entry, sample string) error {
	trimmed := strings.TrimSpace(entry)
	if !strings.HasPrefix(trimmed, "|") || !strings.HasSuffix(trimmed, "|") {
		return ValidationError{Reason: ReasonFormatViolation, Detail: "table row must be pipe-delimited"}
	}
	if sample != "" {
		want := strings.Count(sample, "|")
		got := strings.Count(entry, "|")
		if got != want {
			return ValidationError{
				Reason: ReasonFormatViolation,
				Detail: fmt.Sprintf("table row has %d pipes, existing rows have %d", got, want),
			}
		}
	}
	return nil
}

// selfClosing lists HTML tags that never take a closing tag.
var selfClosing = map[string]bool{
	"br": true, "img": true, "hr": true, "input": true, "meta": true, "link": true,
}

// CheckHTMLEntry verifies that every opened tag in an HTML fragment has a
// matching close tag, using a stack-based scan rather than a full parser.
func CheckHTMLEntry(entry string) error {
	var stack []string

	i := 0
	for i < len(entry) {
		if entry[i] != '<' {
			i++
			continue
		}
		end := strings.IndexByte(entry[i:], '>')
		if end < 0 {
			return ValidationError{Reason: ReasonFormatViolation, Detail: "unterminated tag"}
		}
		tag := entry[i+1 : i+end]
		i += end + 1

		if strings.HasPrefix(tag, "!") || strings.HasPrefix(tag, "?") {
			continue // comments and declarations
		}

		closing := strings.HasPrefix(tag, "/")
		tag = strings.TrimPrefix(tag, "/")
		inline := strings.HasSuffix(tag, "/")
		tag = strings.TrimSuffix(tag, "/")

		name := strings.ToLower(tag)
		if idx := strings.IndexAny(name, " \t\n"); idx >= 0 {
			name = name[:idx]
		}
		if name == "" || selfClosing[name] || inline {
			continue
		}

		if !closing {
			stack = append(stack, name)
			continue
		}
		if len(stack) == 0 || stack[len(stack)-1] != name {
			return ValidationError{
				Reason: ReasonFormatViolation,
				Detail: fmt.Sprintf("closing tag </%s> does not match any open tag", name),
			}
		}
		stack = stack[:len(stack)-1]
	}

	if len(stack) > 0 {
		return ValidationError{
			Reason: ReasonFormatViolation,
			Detail: fmt.Sprintf("tag <%s> is never closed", stack[len(stack)-1]),
		}
	}
	return nil
}

// CheckBadgeEntry verifies that a candidate badge entry contains a markdown
// image linking to a URL.
func CheckBadgeEntry(entry string) error {
	if !strings.Contains(entry, "![") {
		return ValidationError{Reason: ReasonFormatViolation, Detail: "badge entry has no image syntax"}
	}
	if !strings.Contains(entry, "](http") {
		return ValidationError{Reason: ReasonFormatViolation, Detail: "badge entry has no URL"}
	}
	return nil
}
