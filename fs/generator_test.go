package fs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/foliopatch/folio"
	"github.com/foliopatch/folio/fs"
	"github.com/foliopatch/folio/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_CachesResult(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := &mock.EntryGenerator{
		GenerateFn: func(ctx context.Context, project folio.Project, hint folio.Hint) (string, error) {
			calls++
			return "- [weatherbot](https://github.com/ada/weatherbot) - forecasts", nil
		},
	}

	g := fs.NewGenerator(inner, t.TempDir())
	project := folio.Project{Title: "weatherbot", RepoURL: "https://github.com/ada/weatherbot"}
	hint := folio.Hint{Format: folio.FormatBulletList}

	first, err := g.Generate(context.Background(), project, hint)
	require.NoError(t, err)

	second, err := g.Generate(context.Background(), project, hint)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second call should hit the cache")
}

func TestGenerator_DifferentInputsMiss(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := &mock.EntryGenerator{
		GenerateFn: func(ctx context.Context, project folio.Project, hint folio.Hint) (string, error) {
			calls++
			return "entry for " + project.Title, nil
		},
	}

	g := fs.NewGenerator(inner, t.TempDir())

	_, err := g.Generate(context.Background(), folio.Project{Title: "weatherbot"}, folio.Hint{})
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), folio.Project{Title: "linkshrink"}, folio.Hint{})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestGenerator_HintChangeMisses(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := &mock.EntryGenerator{
		GenerateFn: func(ctx context.Context, project folio.Project, hint folio.Hint) (string, error) {
			calls++
			return string(hint.Format), nil
		},
	}

	g := fs.NewGenerator(inner, t.TempDir())
	project := folio.Project{Title: "weatherbot"}

	out, err := g.Generate(context.Background(), project, folio.Hint{Format: folio.FormatTable})
	require.NoError(t, err)
	assert.Equal(t, "table", out)

	out, err = g.Generate(context.Background(), project, folio.Hint{Format: folio.FormatBulletList})
	require.NoError(t, err)
	assert.Equal(t, "bullet_list", out)

	assert.Equal(t, 2, calls, "hint is part of the cache key")
}

func TestGenerator_ErrorNotCached(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := &mock.EntryGenerator{
		GenerateFn: func(ctx context.Context, project folio.Project, hint folio.Hint) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("model unavailable")
			}
			return "recovered", nil
		},
	}

	g := fs.NewGenerator(inner, t.TempDir())
	project := folio.Project{Title: "weatherbot"}

	_, err := g.Generate(context.Background(), project, folio.Hint{})
	require.Error(t, err)

	out, err := g.Generate(context.Background(), project, folio.Hint{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
}
