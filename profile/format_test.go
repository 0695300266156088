package profile_test

import (
	"testing"

	"github.com/foliopatch/folio"
	"github.com/foliopatch/folio/profile"
	"github.com/stretchr/testify/assert"
)

const tableBody = `| Name | Description |
|------|-------------|
| [linkshrink](https://github.com/ada/linkshrink) | URL shortener |
| [chatty](https://github.com/ada/chatty) | realtime chat |`

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want folio.Format
	}{
		{
			name: "markdown table",
			body: tableBody,
			want: folio.FormatTable,
		},
		{
			name: "table wins over bullets when both are present",
			body: tableBody + "\n\n- a stray bullet under the table",
			want: folio.FormatTable,
		},
		{
			name: "pipe rows without a separator are not a table",
			body: "| just | pipes |\n| more | pipes |",
			want: folio.FormatPlain,
		},
		{
			name: "badge grid",
			body: "[![shrink](https://img.shields.io/badge/shrink-blue)](https://github.com/ada/linkshrink)",
			want: folio.FormatBadgeGrid,
		},
		{
			name: "html cards",
			body: `<a href="https://github.com/ada/linkshrink"><img src="card.png"></a>`,
			want: folio.FormatHTMLCards,
		},
		{
			name: "details blocks are html cards",
			body: "<details>\n<summary>linkshrink</summary>\ntext\n</details>",
			want: folio.FormatHTMLCards,
		},
		{
			name: "heading blocks",
			body: "### linkshrink\n\nA URL shortener.\n\n### chatty\n\nA chat app.",
			want: folio.FormatHeadingBlocks,
		},
		{
			name: "bullet list",
			body: "- **[linkshrink](https://github.com/ada/linkshrink)** - URL shortener",
			want: folio.FormatBulletList,
		},
		{
			name: "numbered list is a bullet list",
			body: "1. first project\n2. second project",
			want: folio.FormatBulletList,
		},
		{
			name: "bare link lines are a bullet list",
			body: "[linkshrink](https://github.com/ada/linkshrink)\n[chatty](https://github.com/ada/chatty)",
			want: folio.FormatBulletList,
		},
		{
			name: "prose is plain",
			body: "I have built a few things over the years.",
			want: folio.FormatPlain,
		},
		{
			name: "empty body is plain",
			body: "",
			want: folio.FormatPlain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, profile.DetectFormat(tt.body))
		})
	}
}

func TestExtractSample(t *testing.T) {
	t.Parallel()

	t.Run("table prefers the last data row over the header", func(t *testing.T) {
		t.Parallel()

		sample := profile.ExtractSample(tableBody, folio.FormatTable)
		assert.Equal(t, "| [chatty](https://github.com/ada/chatty) | realtime chat |", sample)
	})

	t.Run("header-only table falls back to the header row", func(t *testing.T) {
		t.Parallel()

		body := "| Name | Description |\n|------|-------------|"
		sample := profile.ExtractSample(body, folio.FormatTable)
		assert.Equal(t, "| Name | Description |", sample)
	})

	t.Run("bullet list returns the last entry line", func(t *testing.T) {
		t.Parallel()

		body := "- first\n- second\n\nclosing prose"
		sample := profile.ExtractSample(body, folio.FormatBulletList)
		assert.Equal(t, "- second", sample)
	})

	t.Run("heading blocks return the whole last block", func(t *testing.T) {
		t.Parallel()

		body := "### linkshrink\n\nA URL shortener.\n\n### chatty\n\nA chat app.\n\n"
		sample := profile.ExtractSample(body, folio.FormatHeadingBlocks)
		assert.Equal(t, "### chatty\n\nA chat app.", sample)
	})

	t.Run("details block is returned in full", func(t *testing.T) {
		t.Parallel()

		body := "<details>\n<summary>linkshrink</summary>\nshortens URLs\n</details>"
		sample := profile.ExtractSample(body, folio.FormatHTMLCards)
		assert.Equal(t, body, sample)
	})
}

func TestEntryPositions(t *testing.T) {
	t.Parallel()

	t.Run("table positions skip header and separator", func(t *testing.T) {
		t.Parallel()

		section := folio.Section{
			Heading:   "## Projects",
			StartLine: 5,
			EndLine:   9,
			Body:      tableBody,
		}
		positions := profile.EntryPositions(section, folio.FormatTable)
		assert.Equal(t, []int{8, 9}, positions)
	})

	t.Run("bullet positions are document line numbers", func(t *testing.T) {
		t.Parallel()

		section := folio.Section{
			Heading:   "## Projects",
			StartLine: 3,
			EndLine:   7,
			Body:      "\n- first\n- second\n",
		}
		positions := profile.EntryPositions(section, folio.FormatBulletList)
		assert.Equal(t, []int{5, 6}, positions)
	})

	t.Run("headingless preamble section offsets from its own start", func(t *testing.T) {
		t.Parallel()

		section := folio.Section{
			Heading:   "",
			StartLine: 1,
			EndLine:   2,
			Body:      "- only entry\n",
		}
		positions := profile.EntryPositions(section, folio.FormatBulletList)
		assert.Equal(t, []int{1}, positions)
	})

	t.Run("empty section has no positions", func(t *testing.T) {
		t.Parallel()

		section := folio.Section{Heading: "## Projects", StartLine: 5, EndLine: 6, Body: "\n"}
		assert.Empty(t, profile.EntryPositions(section, folio.FormatPlain))
	})
}
