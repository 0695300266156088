package profile

import (
	"regexp"
	"strings"

	"github.com/foliopatch/folio"
)

// ConstructEntry builds a new entry by substituting project fields into the
// shape of the sample entry. It is the deterministic fallback used when
// generated content fails format validation, and always produces output.
func ConstructEntry(project folio.Project, sample string, format folio.Format) string {
	switch format {
	case folio.FormatTable:
		return tableEntry(project, sample)
	case folio.FormatBulletList:
		return bulletEntry(project, sample)
	case folio.FormatBadgeGrid:
		return badgeEntry(project)
	case folio.FormatHTMLCards:
		return htmlCardEntry(project, sample)
	case folio.FormatHeadingBlocks:
		return headingBlockEntry(project, sample)
	default:
		return plainEntry(project, sample)
	}
}

// tableEntry fills as many columns as the sample row has, in the
// conventional order: linked title, description, tech stack.
func tableEntry(project folio.Project, sample string) string {
	cols := 0
	for _, c := range strings.Split(sample, "|") {
		if strings.TrimSpace(c) != "" {
			cols++
		}
	}
	if cols == 0 {
		cols = 3
	}

	var values []string
	if project.RepoURL != "" {
		values = append(values, "["+project.Title+"]("+project.RepoURL+")")
	} else {
		values = append(values, project.Title)
	}
	if cols >= 2 {
		values = append(values, project.Description)
	}
	if cols >= 3 {
		values = append(values, strings.Join(project.TechStack, ", "))
	}
	for len(values) < cols {
		values = append(values, "")
	}

	return "| " + strings.Join(values[:cols], " | ") + " |"
}

var (
	numberedPrefixRe = regexp.MustCompile(`^(\s*)(\d+)([.)]\s+)`)
	bulletPrefixRe   = regexp.MustCompile(`^(\s*)([-*])\s+`)
	boldLinkRe       = regexp.MustCompile(`\*\*\[.+?\]\(.+?\)\*\*`)
	boldRe           = regexp.MustCompile(`\*\*[^*]+\*\*`)
	linkStartRe      = regexp.MustCompile(`^\[.+?\]\(.+?\)`)
)

// bulletEntry mirrors the sample bullet's shape: its prefix, whether the
// title is bold and/or linked, and the separator before the description.
func bulletEntry(project folio.Project, sample string) string {
	prefix := "- "
	content := sample
	switch {
	case numberedPrefixRe.MatchString(sample):
		prefix = numberedPrefixRe.FindString(sample)
		content = sample[len(prefix):]
	case bulletPrefixRe.MatchString(sample):
		prefix = bulletPrefixRe.FindString(sample)
		content = sample[len(prefix):]
	case bareLinkRe.MatchString(sample):
		// Bare link lines: keep the same minimal shape.
		url := firstNonEmpty(project.RepoURL, project.DemoURL, "#")
		return "[" + project.Title + "](" + url + ")"
	}

	url := firstNonEmpty(project.RepoURL, project.DemoURL, "#")

	var title string
	switch {
	case boldLinkRe.MatchString(content):
		title = "**[" + project.Title + "](" + url + ")**"
	case boldRe.MatchString(content):
		title = "**" + project.Title + "**"
	case linkStartRe.MatchString(content):
		title = "[" + project.Title + "](" + url + ")"
	default:
		title = project.Title
	}

	sep := " - "
	if strings.Contains(content, ": ") {
		sep = ": "
	} else if strings.Contains(content, " | ") {
		sep = " | "
	}

	entry := prefix + title
	if project.Description != "" && !bareLinkRe.MatchString(strings.TrimSpace(content)) {
		entry += sep + project.Description
	}
	return entry
}

// badgeEntry builds a shields.io badge linking to the project.
func badgeEntry(project folio.Project) string {
	slug := strings.ReplaceAll(project.Title, " ", "%20")
	badge := "https://img.shields.io/badge/" + slug + "-blue?style=flat"
	link := firstNonEmpty(project.RepoURL, project.DemoURL, "#")
	return "[![" + project.Title + "](" + badge + ")](" + link + ")"
}

var (
	hrefRe    = regexp.MustCompile(`href="([^"]*)"`)
	altRe     = regexp.MustCompile(`alt="([^"]*)"`)
	summaryRe = regexp.MustCompile(`(?s)<summary>(.*?)</summary>`)
	tagTextRe = regexp.MustCompile(`>([^<]{3,})<`)
)

// htmlCardEntry rewrites the sample card in place: first link target, alt
// text, and first visible text run become the new project's fields.
func htmlCardEntry(project folio.Project, sample string) string {
	if strings.Contains(strings.ToLower(sample), "<details>") {
		return detailsEntry(project, sample)
	}

	result := sample
	link := firstNonEmpty(project.RepoURL, project.DemoURL, "#")

	if m := hrefRe.FindStringSubmatch(result); m != nil {
		result = strings.Replace(result, m[1], link, 1)
	}
	if m := altRe.FindStringSubmatch(result); m != nil {
		result = strings.Replace(result, `alt="`+m[1]+`"`, `alt="`+project.Title+`"`, 1)
	}
	if m := tagTextRe.FindStringSubmatch(result); m != nil {
		result = strings.Replace(result, m[1], project.Title, 1)
	}

	return result
}

// detailsEntry rewrites a <details> block: summary becomes the title, the
// first link becomes the repo link.
func detailsEntry(project folio.Project, sample string) string {
	result := sample

	if m := summaryRe.FindStringSubmatch(result); m != nil {
		if old := strings.TrimSpace(m[1]); old != "" {
			result = strings.Replace(result, old, project.Title, 1)
		}
	}
	if m := hrefRe.FindStringSubmatch(result); m != nil {
		link := firstNonEmpty(project.RepoURL, project.DemoURL, "#")
		result = strings.Replace(result, m[1], link, 1)
	}

	return result
}

var headingLevelRe = regexp.MustCompile(`^(#{3,})\s+`)

// headingBlockEntry builds a sub-heading block at the same heading level as
// the sample, with description and links.
func headingBlockEntry(project folio.Project, sample string) string {
	level := "###"
	if m := headingLevelRe.FindStringSubmatch(sample); m != nil {
		level = m[1]
	}

	parts := []string{level + " " + project.Title, ""}
	if project.Description != "" {
		parts = append(parts, project.Description)
	}
	if len(project.TechStack) > 0 && regexp.MustCompile(`(?i)tech|stack|built.with`).MatchString(sample) {
		parts = append(parts, "", "- **Tech Stack:** "+strings.Join(project.TechStack, ", "))
	}

	var links []string
	if project.RepoURL != "" {
		links = append(links, "[Repo]("+project.RepoURL+")")
	}
	if project.DemoURL != "" {
		links = append(links, "[Demo]("+project.DemoURL+")")
	}
	if len(links) > 0 {
		parts = append(parts, "", strings.Join(links, " · "))
	}

	return strings.Join(parts, "\n")
}

// plainEntry is the universal fallback: title, description, and a link,
// loosely matching the sample's emphasis style.
func plainEntry(project folio.Project, sample string) string {
	title := project.Title
	if boldRe.MatchString(sample) {
		title = "**" + project.Title + "**"
	}

	sep := " - "
	if strings.Contains(sample, ": ") {
		sep = ": "
	}

	entry := title + sep + project.Description
	if project.RepoURL != "" {
		entry += " [" + project.RepoURL + "](" + project.RepoURL + ")"
	}
	return entry
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
