package mock

import (
	"context"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var (
	_ folio.Reviewer = (*Reviewer)(nil)
	_ folio.Verifier = (*Verifier)(nil)
)

// Reviewer is a mock implementation of folio.Reviewer.
type Reviewer struct {
	ReviewFn func(ctx context.Context, records []folio.ChangeRecord) ([]folio.ChangeRecord, error)
}

func (r *Reviewer) Review(ctx context.Context, records []folio.ChangeRecord) ([]folio.ChangeRecord, error) {
	return r.ReviewFn(ctx, records)
}

// Verifier is a mock implementation of folio.Verifier.
type Verifier struct {
	VerifyFn func(ctx context.Context, repoRoot string, records []folio.ChangeRecord) error
}

func (v *Verifier) Verify(ctx context.Context, repoRoot string, records []folio.ChangeRecord) error {
	return v.VerifyFn(ctx, repoRoot, records)
}
