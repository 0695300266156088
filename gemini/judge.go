package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var _ folio.RubricJudge = (*Judge)(nil)

// Judge implements folio.RubricJudge using Google Gemini.
type Judge struct {
	client GenerativeClient
	model  string
}

// NewJudge creates a new Judge.
func NewJudge(client GenerativeClient, model string) *Judge {
	return &Judge{client: client, model: model}
}

// Judge evaluates whether the output satisfies the criterion.
func (j *Judge) Judge(ctx context.Context, criterion, output string) (*folio.RubricResult, error) {
	prompt := BuildJudgePrompt(criterion, output)

	contents := []*Content{{
		Parts: []*Part{{Text: prompt}},
	}}

	resp, err := j.client.GenerateContent(ctx, j.model, contents, BuildJudgeConfig())
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("gemini: returned nil response")
	}

	var parsed struct {
		Passed    bool   `json:"passed"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(resp.Text), &parsed); err != nil {
		return nil, fmt.Errorf("gemini: failed to parse judgment: %w", err)
	}

	return &folio.RubricResult{
		Passed:    parsed.Passed,
		Reasoning: parsed.Reasoning,
	}, nil
}

// BuildJudgePrompt creates the user prompt for rubric evaluation.
func BuildJudgePrompt(criterion, output string) string {
	return fmt.Sprintf(`Evaluate the output below against the criterion.

## Criterion

%s

## Output

%s

## Task

Decide whether the output satisfies the criterion. Respond with JSON:
{"passed": true|false, "reasoning": "one or two sentences"}`, criterion, output)
}

// BuildJudgeConfig returns config for rubric evaluation calls.
func BuildJudgeConfig() *GenerateContentConfig {
	temp := float32(0.0) // Deterministic judgments
	return &GenerateContentConfig{
		SystemInstruction: &Content{
			Parts: []*Part{{
				Text: "You are a strict evaluator. Judge only against the stated criterion. When in doubt, fail the output and explain why.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"passed":    {Type: "boolean", Description: "Whether the output satisfies the criterion"},
				"reasoning": {Type: "string", Description: "Explanation for the judgment"},
			},
			Required:         []string{"passed", "reasoning"},
			PropertyOrdering: []string{"passed", "reasoning"},
		},
	}
}
