package highlight

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ErrNoGrammar reports that no lexer is registered for a grammar id.
var ErrNoGrammar = errors.New("no lexer for grammar")

// LexerSource produces captures from chroma lexers. The grammar id is
// a chroma lexer name or alias ("go", "json", "markdown", ...).
type LexerSource struct{}

// NewLexerSource creates a chroma-backed capture source.
func NewLexerSource() *LexerSource {
	return &LexerSource{}
}

// Captures lexes text under the named grammar and emits one capture
// per styled token span, split per source row with codepoint columns.
func (s *LexerSource) Captures(text, grammar string) ([]Capture, error) {
	lexer := lexers.Get(grammar)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoGrammar, grammar)
	}
	lexer = chroma.Coalesce(lexer)

	iter, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("tokenise %s: %w", grammar, err)
	}

	var captures []Capture
	row, col := 0, 0
	for _, tok := range iter.Tokens() {
		group := captureGroup(tok.Type)
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				row++
				col = 0
			}
			if part == "" {
				continue
			}
			n := utf8.RuneCountInString(part)
			if group != "" {
				captures = append(captures, Capture{
					Row:      row,
					StartCol: col,
					EndCol:   col + n,
					Text:     part,
					Group:    group,
				})
			}
			col += n
		}
	}
	return captures, nil
}

// captureGroup maps chroma token types onto capture group names. Plain
// text and unclassified names stay unstyled.
func captureGroup(t chroma.TokenType) string {
	switch {
	case t == chroma.Keyword || t == chroma.KeywordConstant || t == chroma.KeywordDeclaration ||
		t == chroma.KeywordNamespace || t == chroma.KeywordReserved || t == chroma.KeywordType:
		return "keyword"

	case t == chroma.LiteralString || t == chroma.LiteralStringAffix || t == chroma.LiteralStringBacktick ||
		t == chroma.LiteralStringChar || t == chroma.LiteralStringDouble || t == chroma.LiteralStringSingle ||
		t == chroma.LiteralStringHeredoc || t == chroma.LiteralStringInterpol ||
		t == chroma.LiteralStringOther || t == chroma.LiteralStringRegex:
		return "string"

	case t == chroma.LiteralNumber || t == chroma.LiteralNumberBin || t == chroma.LiteralNumberFloat ||
		t == chroma.LiteralNumberHex || t == chroma.LiteralNumberInteger || t == chroma.LiteralNumberIntegerLong ||
		t == chroma.LiteralNumberOct:
		return "number"

	case t == chroma.Comment || t == chroma.CommentMultiline || t == chroma.CommentSingle ||
		t == chroma.CommentSpecial || t == chroma.CommentPreproc || t == chroma.CommentPreprocFile:
		return "comment"

	case t == chroma.NameFunction || t == chroma.NameFunctionMagic:
		return "function"

	case t == chroma.NameClass || t == chroma.NameException || t == chroma.NameDecorator ||
		t == chroma.NameBuiltin || t == chroma.NameBuiltinPseudo:
		return "type"

	case t == chroma.NameConstant:
		return "constant"

	case t == chroma.Operator || t == chroma.OperatorWord:
		return "operator"

	case t == chroma.Punctuation:
		return "punctuation"

	default:
		return ""
	}
}
