package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var _ folio.Describer = (*Describer)(nil)

// Describer implements folio.Describer using Google Gemini. It fills in a
// one-line project description when the ingest metadata arrives without one.
type Describer struct {
	client GenerativeClient
	model  string
}

// NewDescriber creates a new Describer.
func NewDescriber(client GenerativeClient, model string) *Describer {
	return &Describer{client: client, model: model}
}

// Describe produces a short description for the project.
func (d *Describer) Describe(ctx context.Context, project folio.Project) (string, error) {
	prompt := BuildDescribePrompt(project)

	contents := []*Content{{
		Parts: []*Part{{Text: prompt}},
	}}

	resp, err := d.client.GenerateContent(ctx, d.model, contents, BuildDescribeConfig())
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("gemini: returned nil response")
	}

	desc := strings.TrimSpace(resp.Text)
	if desc == "" {
		return "", fmt.Errorf("gemini: returned empty description")
	}

	// One line only; drop anything past the first line break.
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		desc = strings.TrimSpace(desc[:i])
	}

	return desc, nil
}

// BuildDescribePrompt creates the user prompt for description generation.
func BuildDescribePrompt(project folio.Project) string {
	var sb strings.Builder
	sb.WriteString("Write a one-line description for this project.\n\n")
	fmt.Fprintf(&sb, "Title: %s\n", project.Title)
	fmt.Fprintf(&sb, "Repository: %s\n", project.RepoURL)
	if len(project.TechStack) > 0 {
		fmt.Fprintf(&sb, "Tech stack: %s\n", strings.Join(project.TechStack, ", "))
	}
	if len(project.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(project.Tags, ", "))
	}
	sb.WriteString("\nRespond with the description only: a single sentence fragment under 15 words, no trailing period, no quotes.\n")
	return sb.String()
}

// BuildDescribeConfig returns the GenerateContentConfig for description calls.
func BuildDescribeConfig() *GenerateContentConfig {
	temp := float32(0.4)
	return &GenerateContentConfig{
		SystemInstruction: &Content{
			Parts: []*Part{{
				Text: "You write terse project descriptions for portfolio listings. Plain statements of what the project does, grounded only in the metadata given. No marketing language.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "text/plain",
	}
}
