package profile_test

import (
	"strings"
	"testing"

	"github.com/foliopatch/folio"
	"github.com/foliopatch/folio/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bulletReadme = `# Hi, I'm Ada

Welcome to my profile.

## Projects

- **[linkshrink](https://github.com/ada/linkshrink)** - URL shortener
- **[chatty](https://github.com/ada/chatty)** - realtime chat app

## Contact
me@example.com`

func TestSplitSections(t *testing.T) {
	t.Parallel()

	t.Run("splits on H1 and H2 headings", func(t *testing.T) {
		t.Parallel()

		sections := profile.SplitSections(bulletReadme)
		require.Len(t, sections, 3)

		assert.Equal(t, "# Hi, I'm Ada", sections[0].Heading)
		assert.Equal(t, 1, sections[0].StartLine)
		assert.Equal(t, 4, sections[0].EndLine)

		assert.Equal(t, "## Projects", sections[1].Heading)
		assert.Equal(t, 5, sections[1].StartLine)
		assert.Equal(t, 9, sections[1].EndLine)

		assert.Equal(t, "## Contact", sections[2].Heading)
		assert.Equal(t, 10, sections[2].StartLine)
		assert.Equal(t, 11, sections[2].EndLine)
	})

	t.Run("sections are disjoint and ordered", func(t *testing.T) {
		t.Parallel()

		sections := profile.SplitSections(bulletReadme)
		for i := 1; i < len(sections); i++ {
			assert.Equal(t, sections[i-1].EndLine+1, sections[i].StartLine)
		}
	})

	t.Run("falls back to H3 depth when the document has no H2", func(t *testing.T) {
		t.Parallel()

		doc := "# Ada\n\n### My Projects\n\n- one\n\n### Contact\n"
		sections := profile.SplitSections(doc)

		var headings []string
		for _, s := range sections {
			headings = append(headings, s.Heading)
		}
		assert.Contains(t, headings, "### My Projects")
	})

	t.Run("HTML comment START markers open a section", func(t *testing.T) {
		t.Parallel()

		doc := "intro\n<!-- projects: START -->\n- entry\n"
		sections := profile.SplitSections(doc)
		require.Len(t, sections, 2)
		assert.Equal(t, "<!-- projects: START -->", sections[1].Heading)
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("finds the projects section of a bullet readme", func(t *testing.T) {
		t.Parallel()

		hint, err := profile.Parse(bulletReadme)
		require.NoError(t, err)

		assert.Equal(t, "## Projects", hint.Section.Heading)
		assert.Equal(t, folio.FormatBulletList, hint.Format)
		assert.Equal(t, []int{7, 8}, hint.EntryPositions)
		assert.Equal(t, "- **[chatty](https://github.com/ada/chatty)** - realtime chat app", hint.SampleEntry)
	})

	t.Run("no section clears the threshold", func(t *testing.T) {
		t.Parallel()

		doc := "# Notes\n\nSome thoughts about gardening.\n\n## Recipes\n\nBread.\n"
		_, err := profile.Parse(doc)
		require.ErrorIs(t, err, profile.ErrNoSection)
	})

	t.Run("empty document has no section", func(t *testing.T) {
		t.Parallel()

		_, err := profile.Parse("   \n\n")
		require.ErrorIs(t, err, profile.ErrNoSection)
	})

	t.Run("bootstrap section makes an unparseable document parseable", func(t *testing.T) {
		t.Parallel()

		doc := "# Notes\n\nSome thoughts.\n"
		_, err := profile.Parse(doc)
		require.ErrorIs(t, err, profile.ErrNoSection)

		hint, err := profile.Parse(doc + profile.BootstrapSection)
		require.NoError(t, err)
		assert.Equal(t, "## Projects", hint.Section.Heading)
		assert.Empty(t, hint.EntryPositions)
	})

	t.Run("hint is recomputed from changed content", func(t *testing.T) {
		t.Parallel()

		before, err := profile.Parse(bulletReadme)
		require.NoError(t, err)

		changed := strings.Replace(bulletReadme, "## Projects",
			"Intro line\n\n## Projects", 1)
		after, err := profile.Parse(changed)
		require.NoError(t, err)

		assert.NotEqual(t, before.EntryPositions, after.EntryPositions,
			"positions must track the document they were computed from")
	})
}

func TestScore(t *testing.T) {
	t.Parallel()

	t.Run("project heading with github links outranks prose", func(t *testing.T) {
		t.Parallel()

		projects := folio.Section{
			Heading: "## Featured Work",
			Body:    "- [a](https://github.com/u/a)\n- [b](https://github.com/u/b)",
		}
		prose := folio.Section{
			Heading: "## About Me",
			Body:    "I enjoy long walks and strong coffee.",
		}

		assert.Greater(t, profile.Score(projects), profile.Score(prose))
	})
}

func TestMinimalDocument(t *testing.T) {
	t.Parallel()

	doc := profile.MinimalDocument("ada")
	hint, err := profile.Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, "## Projects", hint.Section.Heading)
	assert.Empty(t, hint.EntryPositions)
}
