package mock

import (
	"context"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var _ folio.Viewer = (*Viewer)(nil)

// Viewer is a mock implementation of folio.Viewer.
type Viewer struct {
	ViewFn func(ctx context.Context, diff *folio.Diff) error
}

func (v *Viewer) View(ctx context.Context, diff *folio.Diff) error {
	return v.ViewFn(ctx, diff)
}
