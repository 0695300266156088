package chroma

import (
	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/foliopatch/folio"
)

// StyleFromPalette returns a function that maps chroma token types to folio
// styles based on the provided palette colors. Markdown documents lex mostly
// into heading, emphasis, and string tokens, which chroma reports under the
// generic keyword/string categories handled here.
func StyleFromPalette(p folio.Palette) StyleFunc {
	return func(tt chromalib.TokenType) folio.Style {
		switch tt {
		// Type keywords (handled separately from other keywords)
		case chromalib.KeywordType:
			return folio.Style{Foreground: p.Type, Bold: true}

		// Keywords
		case chromalib.Keyword, chromalib.KeywordConstant, chromalib.KeywordDeclaration,
			chromalib.KeywordNamespace, chromalib.KeywordPseudo, chromalib.KeywordReserved:
			return folio.Style{Foreground: p.Keyword, Bold: true}

		// Headings and emphasis in markup
		case chromalib.GenericHeading, chromalib.GenericSubheading:
			return folio.Style{Foreground: p.Function, Bold: true}
		case chromalib.GenericEmph, chromalib.GenericStrong:
			return folio.Style{Foreground: p.Constant, Bold: true}

		// Comments
		case chromalib.Comment, chromalib.CommentHashbang, chromalib.CommentMultiline,
			chromalib.CommentPreproc, chromalib.CommentPreprocFile, chromalib.CommentSingle,
			chromalib.CommentSpecial:
			return folio.Style{Foreground: p.Comment}

		// Strings
		case chromalib.String, chromalib.StringAffix, chromalib.StringBacktick, chromalib.StringChar,
			chromalib.StringDelimiter, chromalib.StringDoc, chromalib.StringDouble,
			chromalib.StringEscape, chromalib.StringHeredoc, chromalib.StringInterpol,
			chromalib.StringOther, chromalib.StringRegex, chromalib.StringSingle,
			chromalib.StringSymbol:
			return folio.Style{Foreground: p.String}

		// Numbers
		case chromalib.Number, chromalib.NumberBin, chromalib.NumberFloat, chromalib.NumberHex,
			chromalib.NumberInteger, chromalib.NumberIntegerLong, chromalib.NumberOct:
			return folio.Style{Foreground: p.Number}

		// Operators
		case chromalib.Operator, chromalib.OperatorWord:
			return folio.Style{Foreground: p.Operator}

		// Function names
		case chromalib.NameFunction, chromalib.NameFunctionMagic:
			return folio.Style{Foreground: p.Function}

		// Attributes and tags (HTML cards in profile documents)
		case chromalib.NameTag:
			return folio.Style{Foreground: p.Keyword}
		case chromalib.NameAttribute:
			return folio.Style{Foreground: p.Constant}

		// Constants
		case chromalib.NameConstant:
			return folio.Style{Foreground: p.Constant}

		// Punctuation
		case chromalib.Punctuation:
			return folio.Style{Foreground: p.Punctuation}

		default:
			return folio.Style{}
		}
	}
}
