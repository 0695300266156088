package folio

import "context"

// RubricResult is a judge's verdict on one generated profile entry.
type RubricResult struct {
	Passed    bool
	Reasoning string // why the entry passed or failed
}

// RubricJudge scores generated text against a plain-language criterion.
// Implementations back the opt-in eval tests; nothing in the submission
// pipeline depends on one.
type RubricJudge interface {
	Judge(ctx context.Context, criterion, output string) (*RubricResult, error)
}
