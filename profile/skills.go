package profile

import (
	"regexp"
	"strings"

	"github.com/foliopatch/folio"
)

// skillKeywords mark headings that introduce a skills or tooling section.
var skillKeywords = []string{"skill", "tech", "stack", "tool", "language"}

// SkillsSection locates a skills-like section in the document and returns
// its body line range (1-based, inclusive) and text. Returns ok=false when
// the document has no such section.
func SkillsSection(content string) (start, end int, text string, ok bool) {
	lines := strings.Split(content, "\n")
	headingRe := regexp.MustCompile(`^#{1,3}\s+(.*)`)

	inSkills := false
	var body []string

	for i, line := range lines {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			if inSkills {
				return start, i, strings.Join(body, "\n"), true
			}
			heading := strings.ToLower(m[1])
			for _, kw := range skillKeywords {
				if strings.Contains(heading, kw) {
					inSkills = true
					start = i + 2
					body = nil
					break
				}
			}
			continue
		}
		if inSkills {
			body = append(body, line)
		}
	}

	if inSkills && len(body) > 0 {
		return start, len(lines), strings.Join(body, "\n"), true
	}
	return 0, 0, "", false
}

// MissingTech returns the project technologies not yet mentioned in the
// skills text, preserving order.
func MissingTech(skillsText string, techStack []string) []string {
	lower := strings.ToLower(skillsText)
	var missing []string
	for _, tech := range techStack {
		if !strings.Contains(lower, strings.ToLower(tech)) {
			missing = append(missing, tech)
		}
	}
	return missing
}

var badgeStyleRe = regexp.MustCompile(`style=([\w-]+)`)

// BadgeStyle detects the shields.io style already in use, defaulting to
// flat.
func BadgeStyle(skillsText string) string {
	if m := badgeStyleRe.FindStringSubmatch(skillsText); m != nil {
		return m[1]
	}
	return "flat"
}

// techColors maps well-known technologies to their brand colors for badges.
var techColors = map[string]string{
	"python":     "3776AB",
	"javascript": "F7DF1E",
	"typescript": "3178C6",
	"react":      "61DAFB",
	"vue":        "4FC08D",
	"svelte":     "FF3E00",
	"next.js":    "000000",
	"node.js":    "339933",
	"rust":       "000000",
	"go":         "00ADD8",
	"java":       "ED8B00",
	"ruby":       "CC342D",
	"docker":     "2496ED",
	"kubernetes": "326CE5",
	"postgresql": "4169E1",
	"mongodb":    "47A248",
	"redis":      "DC382D",
	"graphql":    "E10098",
	"tailwind":   "06B6D4",
	"flask":      "000000",
	"django":     "092E20",
	"fastapi":    "009688",
}

// SkillBadges renders one shields.io badge per technology, in the given
// style.
func SkillBadges(tech []string, style string) []string {
	badges := make([]string, 0, len(tech))
	for _, t := range tech {
		lower := strings.ToLower(t)
		color, ok := techColors[lower]
		if !ok {
			color = "555555"
		}
		logo := strings.NewReplacer(" ", "", ".", "", "+", "%2B", "#", "sharp").Replace(lower)
		display := strings.ReplaceAll(t, " ", "%20")
		url := "https://img.shields.io/badge/" + display + "-" + color + "?style=" + style + "&logo=" + logo + "&logoColor=white"
		badges = append(badges, "!["+t+"]("+url+")")
	}
	return badges
}

// SkillsAction prepares an action that appends badges for missing
// technologies at the end of the skills section. Returns ok=false when the
// document has no skills section or nothing is missing.
func SkillsAction(content, path string, project folio.Project) (folio.Action, bool) {
	_, end, text, ok := SkillsSection(content)
	if !ok {
		return folio.Action{}, false
	}
	missing := MissingTech(text, project.TechStack)
	if len(missing) == 0 {
		return folio.Action{}, false
	}

	badges := SkillBadges(missing, BadgeStyle(text))
	action, err := InsertAction(content, path, strings.Join(badges, "\n"), end+1)
	if err != nil {
		return folio.Action{}, false
	}
	return action, true
}
