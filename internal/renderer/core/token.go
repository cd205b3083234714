package core

import "unicode"

// Token is one lexical unit of a source line: a maximal run of word
// codepoints, or a single non-space codepoint. Start and End are
// codepoint offsets into the source line, End exclusive. Byte offsets
// are never used; codepoint offsets stay correct for multi-byte text.
type Token struct {
	Start int
	End   int
	Text  string
}

// Len returns the token length in codepoints.
func (t Token) Len() int {
	return t.End - t.Start
}

// Tokenize splits one logical line into tokens. Runs of letters and
// digits form one token; any other non-space codepoint forms a token by
// itself. Whitespace separates tokens and is never emitted; the gap it
// occupied is recoverable as next.Start - prev.End. Tokenize is a pure
// function: the same input always yields the same offsets.
func Tokenize(line string) []Token {
	var tokens []Token

	var run []rune
	runStart := 0
	pos := 0

	flush := func() {
		if len(run) == 0 {
			return
		}
		tokens = append(tokens, Token{Start: runStart, End: pos, Text: string(run)})
		run = run[:0]
	}

	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if len(run) == 0 {
				runStart = pos
			}
			run = append(run, r)
		default:
			flush()
			tokens = append(tokens, Token{Start: pos, End: pos + 1, Text: string(r)})
		}
		pos++
	}
	flush()

	return tokens
}
