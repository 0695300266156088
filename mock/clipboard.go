package mock

import "github.com/foliopatch/folio"

// Compile-time interface verification.
var _ folio.Clipboard = (*Clipboard)(nil)

// Clipboard is a mock implementation of folio.Clipboard.
type Clipboard struct {
	CopyFn func(content string) error
}

func (c *Clipboard) Copy(content string) error {
	return c.CopyFn(content)
}
