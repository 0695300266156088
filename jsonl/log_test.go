package jsonl_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/foliopatch/folio"
	"github.com/foliopatch/folio/jsonl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_AppendAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "snippets.jsonl")
	log := jsonl.NewLog()

	first := folio.Snippet{
		Title:   "weatherbot",
		RepoURL: "https://github.com/ada/weatherbot",
		Text:    "- **[weatherbot](https://github.com/ada/weatherbot)** - forecasts",
		AddedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	second := folio.Snippet{
		Title:   "linkshrink",
		RepoURL: "https://github.com/ada/linkshrink",
		Text:    "| [linkshrink](https://github.com/ada/linkshrink) | URL shortener |",
		AddedAt: time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC),
	}

	require.NoError(t, log.Append(path, first))
	require.NoError(t, log.Append(path, second))

	snippets, err := log.Load(path)
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, first, snippets[0])
	assert.Equal(t, second, snippets[1])
}

func TestLog_AppendDoesNotTruncate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snippets.jsonl")
	log := jsonl.NewLog()

	require.NoError(t, log.Append(path, folio.Snippet{Title: "one"}))
	require.NoError(t, log.Append(path, folio.Snippet{Title: "two"}))
	require.NoError(t, log.Append(path, folio.Snippet{Title: "three"}))

	snippets, err := log.Load(path)
	require.NoError(t, err)
	require.Len(t, snippets, 3)
	assert.Equal(t, "one", snippets[0].Title)
	assert.Equal(t, "three", snippets[2].Title)
}

func TestLog_LoadMissingFile(t *testing.T) {
	t.Parallel()

	log := jsonl.NewLog()
	snippets, err := log.Load(filepath.Join(t.TempDir(), "absent.jsonl"))
	require.NoError(t, err)
	assert.Nil(t, snippets)
}

func TestLog_LoadSkipsBlankLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snippets.jsonl")
	content := "{\"title\":\"one\"}\n\n{\"title\":\"two\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	log := jsonl.NewLog()
	snippets, err := log.Load(path)
	require.NoError(t, err)
	require.Len(t, snippets, 2)
}

func TestLog_LoadReportsBadLine(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snippets.jsonl")
	content := "{\"title\":\"one\"}\nnot json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	log := jsonl.NewLog()
	_, err := log.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
