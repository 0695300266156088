package mock

import (
	"context"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var (
	_ folio.EntryGenerator = (*EntryGenerator)(nil)
	_ folio.Describer      = (*Describer)(nil)
)

// EntryGenerator is a mock implementation of folio.EntryGenerator.
type EntryGenerator struct {
	GenerateFn func(ctx context.Context, project folio.Project, hint folio.Hint) (string, error)
}

func (g *EntryGenerator) Generate(ctx context.Context, project folio.Project, hint folio.Hint) (string, error) {
	return g.GenerateFn(ctx, project, hint)
}

// Describer is a mock implementation of folio.Describer.
type Describer struct {
	DescribeFn func(ctx context.Context, project folio.Project) (string, error)
}

func (d *Describer) Describe(ctx context.Context, project folio.Project) (string, error) {
	return d.DescribeFn(ctx, project)
}
