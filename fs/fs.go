// Package fs provides filesystem locations and file-based caching.
package fs

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns the default data directory for folio. Uses
// XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/folio, or
// the system temp directory if home is unavailable.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "folio")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "folio")
	}
	return filepath.Join(home, ".local", "share", "folio")
}

// DefaultSnippetLogPath returns the default location of the cross-run
// snippet log.
func DefaultSnippetLogPath() string {
	return filepath.Join(DefaultDataDir(), "snippets.jsonl")
}

// DefaultCacheDir returns the default cache directory for generated
// entries. Uses XDG_CACHE_HOME if set, otherwise ~/.cache/folio, or the
// system temp directory if home is unavailable.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "folio")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "folio")
	}
	return filepath.Join(home, ".cache", "folio")
}
