// Package gemini implements entry generation using the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var _ folio.EntryGenerator = (*Generator)(nil)

// DefaultGenerateTimeout is the default timeout for a single generation call.
const DefaultGenerateTimeout = 60 * time.Second

// Generator implements folio.EntryGenerator using Google Gemini.
type Generator struct {
	client  GenerativeClient
	model   string
	timeout time.Duration
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithTimeout sets the timeout for API calls.
func WithTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.timeout = d
	}
}

// NewGenerator creates a new Generator.
func NewGenerator(client GenerativeClient, model string, opts ...GeneratorOption) *Generator {
	g := &Generator{
		client:  client,
		model:   model,
		timeout: DefaultGenerateTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces one formatted entry for the project, imitating the
// document's existing entry format.
func (g *Generator) Generate(ctx context.Context, project folio.Project, hint folio.Hint) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := BuildEntryPrompt(project, hint)

	contents := []*Content{{
		Parts: []*Part{{Text: prompt}},
	}}

	config := BuildEntryConfig()

	resp, err := g.client.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", fmt.Errorf("gemini: returned nil response")
	}

	entry := stripCodeFence(resp.Text)
	if entry == "" {
		return "", fmt.Errorf("gemini: returned empty entry")
	}

	return entry, nil
}

// BuildEntryPrompt creates the user prompt for entry generation.
func BuildEntryPrompt(project folio.Project, hint folio.Hint) string {
	var sb strings.Builder

	sb.WriteString("Write one new entry for the document section below.\n\n")

	sb.WriteString("## Project\n\n")
	fmt.Fprintf(&sb, "Title: %s\n", project.Title)
	if project.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", project.Description)
	}
	fmt.Fprintf(&sb, "Repository: %s\n", project.RepoURL)
	if project.DemoURL != "" {
		fmt.Fprintf(&sb, "Demo: %s\n", project.DemoURL)
	}
	if len(project.TechStack) > 0 {
		fmt.Fprintf(&sb, "Tech stack: %s\n", strings.Join(project.TechStack, ", "))
	}

	sb.WriteString("\n## Section\n\n")
	fmt.Fprintf(&sb, "Heading: %s\n", strings.TrimSpace(hint.Section.Heading))
	fmt.Fprintf(&sb, "Entry format: %s\n", hint.Format)
	if hint.SampleEntry != "" {
		sb.WriteString("Existing entry to imitate:\n\n")
		sb.WriteString(hint.SampleEntry)
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Task\n\n")
	sb.WriteString("Produce exactly one entry in the same format, structure, and tone as the existing entry. ")
	sb.WriteString("Link the repository URL the same way the existing entry links its URL. ")
	sb.WriteString("Output the entry text only: no code fences, no commentary, no surrounding blank lines.\n")

	return sb.String()
}

// BuildEntryConfig returns the GenerateContentConfig for entry generation.
func BuildEntryConfig() *GenerateContentConfig {
	temp := float32(0.3) // Low temperature: format imitation, not creativity
	return &GenerateContentConfig{
		SystemInstruction: &Content{
			Parts: []*Part{{
				Text: `You write single entries for project listings in README-style documents.

You are given a project's metadata and a sample entry from the target section. Your output must match the sample's markup exactly: same kind of list marker, same table column count, same link style, same emphasis. Never invent facts about the project; use only the metadata provided.

Respond with the raw entry text and nothing else.`,
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "text/plain",
	}
}

// stripCodeFence removes a surrounding markdown code fence, which models
// sometimes add despite instructions, and trims outer whitespace.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	if strings.TrimSpace(lines[len(lines)-1]) != "```" {
		return s
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// GenerativeClient abstracts the Gemini API for testing.
type GenerativeClient interface {
	GenerateContent(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error)
}

// Content represents a message in a Gemini conversation.
type Content struct {
	Parts []*Part
}

// Part represents a part of a message.
type Part struct {
	Text string
}

// GenerateContentConfig holds configuration for content generation.
type GenerateContentConfig struct {
	SystemInstruction *Content
	Temperature       *float32
	ResponseMIMEType  string
	ResponseSchema    *Schema
	ThinkingLevel     string // "", "MINIMAL", "LOW", "MEDIUM", "HIGH"
}

// Schema represents the structure for controlled JSON generation.
type Schema struct {
	Type             string             // object, array, string, integer, number, boolean
	Properties       map[string]*Schema // For object types
	Items            *Schema            // For array types
	Enum             []string           // For string enums
	Required         []string           // Required property names
	PropertyOrdering []string           // Order of properties in output
	Description      string             // Field description
}

// GenerateContentResponse holds the response from content generation.
type GenerateContentResponse struct {
	Text string
}

// MockGenerativeClient is a mock implementation of GenerativeClient for testing.
type MockGenerativeClient struct {
	GenerateContentFn func(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error)
}

func (m *MockGenerativeClient) GenerateContent(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error) {
	return m.GenerateContentFn(ctx, model, contents, config)
}

// APIError represents an error from the Gemini API with HTTP status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError with the given status code and message.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}
