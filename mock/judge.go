package mock

import (
	"context"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var _ folio.RubricJudge = (*RubricJudge)(nil)

// RubricJudge is a mock implementation of folio.RubricJudge.
type RubricJudge struct {
	JudgeFn func(ctx context.Context, criterion, output string) (*folio.RubricResult, error)
}

func (j *RubricJudge) Judge(ctx context.Context, criterion, output string) (*folio.RubricResult, error) {
	return j.JudgeFn(ctx, criterion, output)
}
