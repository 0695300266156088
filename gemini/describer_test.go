package gemini_test

import (
	"context"
	"testing"

	"github.com/foliopatch/folio"
	"github.com/foliopatch/folio/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriber_Describe(t *testing.T) {
	t.Parallel()

	t.Run("returns a trimmed single line", func(t *testing.T) {
		t.Parallel()

		client := &gemini.MockGenerativeClient{
			GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
				return &gemini.GenerateContentResponse{
					Text: "  hourly forecasts in your terminal  \nsecond line to discard\n",
				}, nil
			},
		}

		d := gemini.NewDescriber(client, "test-model")
		desc, err := d.Describe(context.Background(), folio.Project{Title: "weatherbot"})
		require.NoError(t, err)
		assert.Equal(t, "hourly forecasts in your terminal", desc)
	})

	t.Run("empty response is an error", func(t *testing.T) {
		t.Parallel()

		client := &gemini.MockGenerativeClient{
			GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
				return &gemini.GenerateContentResponse{Text: ""}, nil
			},
		}

		d := gemini.NewDescriber(client, "test-model")
		_, err := d.Describe(context.Background(), folio.Project{Title: "weatherbot"})
		assert.Error(t, err)
	})

	t.Run("prompt carries project metadata", func(t *testing.T) {
		t.Parallel()

		var prompt string
		client := &gemini.MockGenerativeClient{
			GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
				prompt = contents[0].Parts[0].Text
				return &gemini.GenerateContentResponse{Text: "a description"}, nil
			},
		}

		d := gemini.NewDescriber(client, "test-model")
		_, err := d.Describe(context.Background(), folio.Project{
			Title:     "weatherbot",
			RepoURL:   "https://github.com/ada/weatherbot",
			TechStack: []string{"Go"},
		})
		require.NoError(t, err)
		assert.Contains(t, prompt, "weatherbot")
		assert.Contains(t, prompt, "https://github.com/ada/weatherbot")
		assert.Contains(t, prompt, "Go")
	})
}
