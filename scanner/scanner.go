/*
Package scanner converts raw text into a sequence of tokens, to be consumed
by the parsers of package rd.

The default backend is RegexTokenizer: it matches an ordered list of
regular-expression patterns, anchored at the current input position, first
declared pattern wins. An adapter for lexmachine (longest-match DFA) lives
in sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 The ordo authors

*/
package scanner

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/ordoparse/ordo"
)

// tracer traces with key 'ordo.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("ordo.scanner")
}

// Tokenizer is a scanner interface. Scanners return a token of type ordo.EOF
// when the input is exhausted.
type Tokenizer interface {
	NextToken() ordo.Token
	SetErrorHandler(func(error))
}

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// --- Default tokens --------------------------------------------------------

// defaultToken is a very unsophisticated token type, used by the regex
// tokenizer as well as the lexmachine adapter.
type defaultToken struct {
	kind   ordo.TokType
	lexeme string
	span   ordo.Span
}

// MakeToken wraps a token type and a lexeme into an ordo.Token.
func MakeToken(typ ordo.TokType, lexeme string, span ordo.Span) ordo.Token {
	return defaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t defaultToken) TokType() ordo.TokType {
	return t.kind
}

func (t defaultToken) Value() interface{} {
	return nil
}

func (t defaultToken) Lexeme() string {
	return t.lexeme
}

func (t defaultToken) Span() ordo.Span {
	return t.span
}

// Collect drains a streaming tokenizer into a token sequence, stopping at
// the first token of type ordo.EOF (which is not included in the result).
// The sequence is ready to be handed to rd.Parser.Parse.
func Collect(tz Tokenizer) []ordo.Token {
	var tokens []ordo.Token
	token := tz.NextToken()
	for token.TokType() != ordo.EOF {
		tokens = append(tokens, token)
		token = tz.NextToken()
	}
	return tokens
}
