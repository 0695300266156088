package profile_test

import (
	"strings"
	"testing"

	"github.com/foliopatch/folio"
	"github.com/foliopatch/folio/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const skillsReadme = `# Ada

## Skills

![Python](https://img.shields.io/badge/Python-3776AB?style=for-the-badge&logo=python&logoColor=white)

## Projects
- something`

func TestSkillsSection(t *testing.T) {
	t.Parallel()

	t.Run("finds the skills body range", func(t *testing.T) {
		t.Parallel()

		start, end, text, ok := profile.SkillsSection(skillsReadme)
		require.True(t, ok)
		assert.Equal(t, 4, start)
		assert.Equal(t, 6, end)
		assert.Contains(t, text, "img.shields.io/badge/Python")
	})

	t.Run("tech stack heading counts as skills", func(t *testing.T) {
		t.Parallel()

		_, _, text, ok := profile.SkillsSection("## Tech Stack\n\nGo, Python\n")
		require.True(t, ok)
		assert.Contains(t, text, "Go, Python")
	})

	t.Run("document without a skills section", func(t *testing.T) {
		t.Parallel()

		_, _, _, ok := profile.SkillsSection(bulletReadme)
		assert.False(t, ok)
	})
}

func TestMissingTech(t *testing.T) {
	t.Parallel()

	skills := "![Python](...) ![React](...)"
	missing := profile.MissingTech(skills, []string{"python", "Go", "react", "Redis"})
	assert.Equal(t, []string{"Go", "Redis"}, missing)
}

func TestBadgeStyle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "for-the-badge", profile.BadgeStyle("?style=for-the-badge&logo=python"))
	assert.Equal(t, "flat-square", profile.BadgeStyle("style=flat-square"))
	assert.Equal(t, "flat", profile.BadgeStyle("no badges here"))
}

func TestSkillBadges(t *testing.T) {
	t.Parallel()

	badges := profile.SkillBadges([]string{"Go", "obscuretool"}, "flat-square")
	require.Len(t, badges, 2)

	assert.Contains(t, badges[0], "img.shields.io/badge/Go-00ADD8")
	assert.Contains(t, badges[0], "style=flat-square")
	assert.Contains(t, badges[1], "555555", "unknown tech gets the neutral color")
}

func TestSkillsAction(t *testing.T) {
	t.Parallel()

	t.Run("appends badges for missing tech in the existing style", func(t *testing.T) {
		t.Parallel()

		project := folio.Project{Title: "weatherbot", TechStack: []string{"Python", "Go"}}
		action, ok := profile.SkillsAction(skillsReadme, "README.md", project)
		require.True(t, ok)

		assert.Equal(t, folio.KindInsertAfterMarker, action.Kind)
		assert.True(t, strings.Contains(action.Marker, "img.shields.io"),
			"anchors on the last badge line, got %q", action.Marker)
		assert.Contains(t, action.Content, "badge/Go-")
		assert.Contains(t, action.Content, "style=for-the-badge")
		assert.NotContains(t, action.Content, "badge/Python", "already present")
	})

	t.Run("no action when every technology is present", func(t *testing.T) {
		t.Parallel()

		project := folio.Project{Title: "weatherbot", TechStack: []string{"Python"}}
		_, ok := profile.SkillsAction(skillsReadme, "README.md", project)
		assert.False(t, ok)
	})

	t.Run("no action without a skills section", func(t *testing.T) {
		t.Parallel()

		project := folio.Project{Title: "weatherbot", TechStack: []string{"Go"}}
		_, ok := profile.SkillsAction(bulletReadme, "README.md", project)
		assert.False(t, ok)
	})
}
