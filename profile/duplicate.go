package profile

import (
	"strings"

	"github.com/foliopatch/folio"
)

// IsDuplicate reports whether a project is already listed in the document.
// The primary key is the repository URL, compared case-insensitively with
// trailing slashes ignored; the fallback key is a case-insensitive title
// match in entry-like position (bold, linked, or heading text).
//
// A duplicate is not an error: the caller turns the whole operation for
// this document into a no-op with a warning, which makes double-insertion
// idempotent.
func IsDuplicate(content string, project folio.Project) bool {
	if url := NormalizeRepoURL(project.RepoURL); url != "" {
		haystack := strings.ToLower(content)
		if strings.Contains(haystack, url) {
			return true
		}
	}

	title := strings.ToLower(strings.TrimSpace(project.Title))
	if title == "" {
		return false
	}

	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, title) {
			continue
		}
		anchored := []string{
			"**" + title + "**",
			"[" + title + "]",
			"# " + title,
			"## " + title,
			"### " + title,
		}
		for _, p := range anchored {
			if strings.Contains(lower, p) {
				return true
			}
		}
		// JSON-ish data rows ("title": "...") in code-level arrays.
		if strings.Contains(line, ":") && strings.Contains(line, `"`) {
			return true
		}
	}

	return false
}

// NormalizeRepoURL lowercases a repository URL and strips trailing slashes
// and a trailing .git suffix, so equivalent spellings compare equal.
func NormalizeRepoURL(url string) string {
	url = strings.ToLower(strings.TrimSpace(url))
	url = strings.TrimRight(url, "/")
	url = strings.TrimSuffix(url, ".git")
	return url
}
