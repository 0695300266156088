package folio

// Token is a run of preview text carrying one visual style.
type Token struct {
	Text  string
	Style Style
}

// Style is the styling applied to a token. An empty foreground means the
// terminal default.
type Style struct {
	Foreground string // hex color, e.g. "#a6e3a1"
	Bold       bool
}

// Tokenizer splits a preview line into styled tokens for a language.
// Returns nil when the language is unknown; the line then renders unstyled.
type Tokenizer interface {
	Tokenize(language, source string) []Token
}
