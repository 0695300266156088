package folio

// ColorPair represents a foreground and background color combination.
// Colors are hex strings in "#RRGGBB" format. Empty strings indicate no
// color override (use terminal default).
type ColorPair struct {
	Foreground string
	Background string
}

// Styles contains color pairs for all visual elements in a rendered diff.
type Styles struct {
	Added            ColorPair // Added lines (+)
	Deleted          ColorPair // Deleted lines (-)
	Context          ColorPair // Unchanged context lines
	HunkHeader       ColorPair // Hunk headers (@@ ... @@)
	FileHeader       ColorPair // File headers
	LineNumber       ColorPair // Line numbers in the gutter
	AddedGutter      ColorPair // Gutter next to added lines
	DeletedGutter    ColorPair // Gutter next to deleted lines
	AddedHighlight   ColorPair // Changed text within added lines (word-level diff)
	DeletedHighlight ColorPair // Changed text within deleted lines (word-level diff)
}

// Palette holds the semantic colors a theme exposes beyond diff styling,
// used for syntax highlighting and UI chrome.
type Palette struct {
	Background string
	Foreground string

	Added    string
	Deleted  string
	Modified string
	Context  string

	Keyword     string
	String      string
	Number      string
	Comment     string
	Operator    string
	Function    string
	Type        string
	Constant    string
	Punctuation string

	UIBackground string
	UIForeground string
	UIAccent     string
}

// Theme provides styles for rendering diffs. Different implementations can
// provide light/dark variants.
type Theme interface {
	Styles() Styles
	Palette() Palette
}
