// Package mock provides test doubles for folio interfaces.
package mock

import (
	"io"

	"github.com/foliopatch/folio"
)

// Compile-time interface verification.
var _ folio.Parser = (*Parser)(nil)

// Parser is a mock implementation of folio.Parser.
type Parser struct {
	ParseFn func(r io.Reader) (*folio.Diff, error)
}

func (p *Parser) Parse(r io.Reader) (*folio.Diff, error) {
	return p.ParseFn(r)
}
