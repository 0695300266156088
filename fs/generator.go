package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var _ folio.EntryGenerator = (*Generator)(nil)

// Generator wraps an EntryGenerator with file-based caching. Re-running a
// submission against the same document state reuses the previously
// generated entry instead of calling the model again.
type Generator struct {
	inner    folio.EntryGenerator
	cacheDir string
}

// NewGenerator creates a new caching generator.
func NewGenerator(inner folio.EntryGenerator, cacheDir string) *Generator {
	return &Generator{
		inner:    inner,
		cacheDir: cacheDir,
	}
}

// Generate returns a cached entry or delegates to the inner generator.
func (g *Generator) Generate(ctx context.Context, project folio.Project, hint folio.Hint) (string, error) {
	hash := g.hashInput(project, hint)

	if cached, err := os.ReadFile(g.cachePath(hash)); err == nil {
		return string(cached), nil
	}

	entry, err := g.inner.Generate(ctx, project, hint)
	if err != nil {
		return "", err
	}

	// Store in cache (best-effort)
	_ = g.saveToCache(hash, entry)

	return entry, nil
}

func (g *Generator) hashInput(project folio.Project, hint folio.Hint) string {
	data, _ := json.Marshal(struct {
		Project folio.Project
		Hint    folio.Hint
	}{project, hint})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (g *Generator) cachePath(hash string) string {
	return filepath.Join(g.cacheDir, hash+".txt")
}

func (g *Generator) saveToCache(hash string, entry string) error {
	if err := os.MkdirAll(g.cacheDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(g.cachePath(hash), []byte(entry), 0o644)
}
